package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/ovumcal/internal/models"
)

const uidDomain = "ovumcal"

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(uidDomain+".local"))

// Translator resolves a message key to display text.
type Translator interface {
	Text(key string, args ...any) string
}

type CalendarInput struct {
	Periods     []models.PeriodEvent
	Phases      []models.PhaseWindow
	Alerts      []models.Alert
	CycleLength int
	LeadDays    int
}

var kindOrder = map[models.EventKind]int{
	models.EventKindPeriod:        0,
	models.EventKindOvulation:     1,
	models.EventKindFertileWindow: 2,
	models.EventKindAlert:         3,
}

// BuildCalendarEvents turns the pipeline output into calendar entries in a
// stable order. Two entries that would share an identifier are reported and
// only the first is kept.
func BuildCalendarEvents(input CalendarInput, translator Translator) ([]models.CalendarEvent, []error) {
	events := make([]models.CalendarEvent, 0, len(input.Periods)+2*len(input.Phases)+len(input.Alerts))

	for _, period := range input.Periods {
		description := translator.Text("event.period.observed.description", period.Length())
		if period.Predicted() {
			description = translator.Text("event.period.predicted.description", input.CycleLength)
		}
		events = append(events, newCalendarEvent(models.EventKindPeriod, period.Source, period.Start, period.End,
			translator.Text(sourceKey("event.period", period.Source)),
			description,
			category("MENSTRUATION", period.Source),
		))
	}

	for _, phase := range input.Phases {
		events = append(events, newCalendarEvent(models.EventKindOvulation, phase.Source, phase.OvulationDay, time.Time{},
			translator.Text(sourceKey("event.ovulation", phase.Source)),
			translator.Text("event.ovulation.description", phase.CycleLength),
			category("OVULATION", phase.Source),
		))
		events = append(events, newCalendarEvent(models.EventKindFertileWindow, phase.Source, phase.FertileWindowStart, phase.FertileWindowEnd,
			translator.Text(sourceKey("event.fertile", phase.Source)),
			translator.Text("event.fertile.description"),
			category("FERTILITY", phase.Source),
		))
	}

	for _, alert := range input.Alerts {
		source := alert.Target.Source
		events = append(events, newCalendarEvent(models.EventKindAlert, source, alert.TriggerDate, time.Time{},
			translator.Text(sourceKey("event.alert", source), input.LeadDays),
			translator.Text("event.alert.description", alert.Target.Start.Format(dayLayout)),
			category("PMS_ALERT", source),
		))
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		if kindOrder[events[i].Kind] != kindOrder[events[j].Kind] {
			return kindOrder[events[i].Kind] < kindOrder[events[j].Kind]
		}
		return events[i].UID < events[j].UID
	})

	var issues []error
	seen := make(map[string]struct{}, len(events))
	unique := events[:0]
	for _, event := range events {
		if _, duplicate := seen[event.UID]; duplicate {
			issues = append(issues, fmt.Errorf("%w: duplicate %s %s event on %s dropped",
				ErrPhaseOverlap, event.Source, event.Kind, event.Start.Format(dayLayout)))
			continue
		}
		seen[event.UID] = struct{}{}
		unique = append(unique, event)
	}
	return unique, issues
}

// EventUID derives a stable identifier from what the event is and when it starts.
func EventUID(kind models.EventKind, source models.EventSource, start time.Time) string {
	name := fmt.Sprintf("%s/%s/%s", kind, source, models.DateOnly(start).Format(dayLayout))
	return uuid.NewSHA1(eventNamespace, []byte(name)).String() + "@" + uidDomain
}

func newCalendarEvent(kind models.EventKind, source models.EventSource, start time.Time, end time.Time, title string, description string, categoryName string) models.CalendarEvent {
	start = models.DateOnly(start)
	if !end.IsZero() {
		end = models.DateOnly(end)
		if !end.After(start) {
			end = time.Time{}
		}
	}
	return models.CalendarEvent{
		UID:         EventUID(kind, source, start),
		Kind:        kind,
		Source:      source,
		Start:       start,
		End:         end,
		Title:       title,
		Description: description,
		Categories:  []string{categoryName},
	}
}

func sourceKey(prefix string, source models.EventSource) string {
	return prefix + "." + string(source) + ".title"
}

func category(base string, source models.EventSource) string {
	if source == models.SourcePredicted {
		return base + "_PREDICTED"
	}
	return base
}

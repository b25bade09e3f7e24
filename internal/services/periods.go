package services

import (
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// SegmentPeriods groups normalized flow days into observed periods. A gap of
// more than mergeGapDays between flow days starts a new period, and a period
// that would grow past maxPeriodDays is cut and continued as a new one.
func SegmentPeriods(observations []models.Observation, mergeGapDays int, maxPeriodDays int) []models.PeriodEvent {
	if len(observations) == 0 {
		return nil
	}
	if mergeGapDays < 1 {
		mergeGapDays = 1
	}
	if maxPeriodDays < 1 {
		maxPeriodDays = 1
	}

	periods := make([]models.PeriodEvent, 0)
	var current models.PeriodEvent
	open := false

	for _, observation := range observations {
		day := models.DateOnly(observation.Date)
		if !open {
			current = observedPeriod(day)
			open = true
			continue
		}

		gapDays := models.DaysBetween(current.End, day)
		spanDays := models.DaysBetween(current.Start, day) + 1
		if gapDays > mergeGapDays || spanDays > maxPeriodDays {
			periods = append(periods, current)
			current = observedPeriod(day)
			continue
		}
		current.End = day
	}

	return append(periods, current)
}

func observedPeriod(day time.Time) models.PeriodEvent {
	return models.PeriodEvent{Start: day, End: day, Source: models.SourceObserved}
}

// PeriodStarts lists the start day of every period in order.
func PeriodStarts(periods []models.PeriodEvent) []time.Time {
	starts := make([]time.Time, 0, len(periods))
	for _, period := range periods {
		starts = append(starts, period.Start)
	}
	return starts
}

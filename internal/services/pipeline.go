package services

import (
	"slices"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// PipelineResult holds every stage's output for one run. Issues collects the
// non-fatal problems found along the way, in stage order.
type PipelineResult struct {
	Observations []models.Observation
	Observed     []models.PeriodEvent
	Predicted    []models.PeriodEvent
	History      CycleHistory
	Phases       []models.PhaseWindow
	Alerts       []models.Alert
	Events       []models.CalendarEvent
	Issues       []error
}

// Periods returns observed followed by predicted periods.
func (result PipelineResult) Periods() []models.PeriodEvent {
	return slices.Concat(result.Observed, result.Predicted)
}

// LastObservedDay is the most recent flow day, or zero without data.
func (result PipelineResult) LastObservedDay() time.Time {
	if len(result.Observations) == 0 {
		return time.Time{}
	}
	return result.Observations[len(result.Observations)-1].Date
}

// NextPeriodStart is the first predicted start, or zero when nothing was predicted.
func (result PipelineResult) NextPeriodStart() time.Time {
	if len(result.Predicted) == 0 {
		return time.Time{}
	}
	return result.Predicted[0].Start
}

// RunPipeline runs normalize, segment, analyze, predict, phase, alert and
// event-building in sequence. Only an invalid config stops it.
func RunPipeline(observations []models.Observation, cfg Config, today time.Time, translator Translator) (PipelineResult, error) {
	if err := cfg.Validate(); err != nil {
		return PipelineResult{}, err
	}

	result := PipelineResult{}
	var issues []error

	result.Observations, issues = NormalizeObservations(observations, cfg.MinFlowIntensity)
	result.Issues = append(result.Issues, issues...)

	result.Observed = SegmentPeriods(result.Observations, cfg.MergeGapDays, cfg.MaxPeriodDays)

	result.History, issues = AnalyzeCycles(result.Observed, cfg)
	result.Issues = append(result.Issues, issues...)

	if len(result.Observed) > 0 {
		last := result.Observed[len(result.Observed)-1]
		result.Predicted = slices.Collect(PredictPeriods(last, result.History.CycleLength, result.History.PeriodLength, cfg.PredictionCount))
	}

	periods := result.Periods()
	result.Phases, issues = BuildPhaseWindows(periods, result.History.CycleLength, cfg)
	result.Issues = append(result.Issues, issues...)

	result.Alerts = ScheduleAlerts(periods, cfg.AlertLeadDays, today)

	result.Events, issues = BuildCalendarEvents(CalendarInput{
		Periods:     periods,
		Phases:      result.Phases,
		Alerts:      result.Alerts,
		CycleLength: result.History.CycleLength,
		LeadDays:    cfg.AlertLeadDays,
	}, translator)
	result.Issues = append(result.Issues, issues...)

	return result, nil
}

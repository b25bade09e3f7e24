package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// CalculatePhaseWindow places ovulation lutealPhaseDays before the end of the
// cycle and the fertile window around it.
func CalculatePhaseWindow(cycleStart time.Time, cycleLength int, source models.EventSource, cfg Config) models.PhaseWindow {
	before, after := cfg.fertileWindowOffsets()
	ovulation := models.AddDays(cycleStart, cycleLength-cfg.LutealPhaseDays)
	return models.PhaseWindow{
		CycleStart:         models.DateOnly(cycleStart),
		CycleLength:        cycleLength,
		Source:             source,
		OvulationDay:       ovulation,
		FertileWindowStart: models.AddDays(ovulation, before),
		FertileWindowEnd:   models.AddDays(ovulation, after),
	}
}

// BuildPhaseWindows derives one window per period. periods must be ordered
// and may mix observed and predicted events; each cycle runs to the next
// period's start, and the last one uses projectedCycleLength.
func BuildPhaseWindows(periods []models.PeriodEvent, projectedCycleLength int, cfg Config) ([]models.PhaseWindow, []error) {
	windows := make([]models.PhaseWindow, 0, len(periods))
	var issues []error

	for i, period := range periods {
		cycleLength := projectedCycleLength
		if i+1 < len(periods) {
			cycleLength = models.DaysBetween(period.Start, periods[i+1].Start)
		}

		window := CalculatePhaseWindow(period.Start, cycleLength, period.Source, cfg)
		nextStart := models.AddDays(period.Start, cycleLength)
		if err := checkPhaseWindow(window, period, nextStart); err != nil {
			issues = append(issues, err)
		}
		if len(windows) > 0 {
			previous := windows[len(windows)-1]
			if !previous.FertileWindowEnd.Before(window.FertileWindowStart) {
				issues = append(issues, &PhaseAnomalyError{
					CycleStart: window.CycleStart,
					Reason: fmt.Sprintf("fertile window %s..%s overlaps previous window ending %s",
						window.FertileWindowStart.Format(dayLayout),
						window.FertileWindowEnd.Format(dayLayout),
						previous.FertileWindowEnd.Format(dayLayout)),
					Overlap: true,
				})
			}
		}
		windows = append(windows, window)
	}
	return windows, issues
}

func checkPhaseWindow(window models.PhaseWindow, period models.PeriodEvent, nextStart time.Time) error {
	if !window.FertileWindowEnd.Before(nextStart) {
		return &PhaseAnomalyError{
			CycleStart: window.CycleStart,
			Reason: fmt.Sprintf("fertile window ends %s, not before next period %s",
				window.FertileWindowEnd.Format(dayLayout), nextStart.Format(dayLayout)),
		}
	}
	if !window.OvulationDay.After(period.End) {
		return &PhaseAnomalyError{
			CycleStart: window.CycleStart,
			Reason: fmt.Sprintf("ovulation %s falls within the period ending %s",
				window.OvulationDay.Format(dayLayout), period.End.Format(dayLayout)),
		}
	}
	return nil
}

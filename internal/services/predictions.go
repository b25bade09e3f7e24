package services

import (
	"iter"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// PredictPeriods yields count future periods after last, each starting
// cycleLength days after the one before it. The sequence is recomputed on
// every iteration and holds no state between runs.
func PredictPeriods(last models.PeriodEvent, cycleLength int, periodLength int, count int) iter.Seq[models.PeriodEvent] {
	return func(yield func(models.PeriodEvent) bool) {
		if last.Start.IsZero() || cycleLength <= 0 {
			return
		}
		if periodLength < 1 {
			periodLength = 1
		}

		start := models.DateOnly(last.Start)
		for i := 0; i < count; i++ {
			start = models.AddDays(start, cycleLength)
			predicted := models.PeriodEvent{
				Start:  start,
				End:    models.AddDays(start, periodLength-1),
				Source: models.SourcePredicted,
			}
			if !yield(predicted) {
				return
			}
		}
	}
}

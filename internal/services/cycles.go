package services

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/terraincognita07/ovumcal/internal/models"
	"gonum.org/v1/gonum/stat"
)

// CycleHistory is everything derived from the observed periods: the cycle
// records, the aggregate statistics, and the rounded lengths used to project
// forward. Statistics is nil when fewer than two periods were observed.
type CycleHistory struct {
	Records      []models.CycleRecord
	Statistics   *models.CycleStatistics
	CycleLength  int
	PeriodLength int
}

// Reliable reports whether the projection lengths come from observed cycles
// rather than the configured defaults.
func (history CycleHistory) Reliable() bool {
	return history.Statistics != nil && history.Statistics.CycleCount > 0
}

func AnalyzeCycles(periods []models.PeriodEvent, cfg Config) (CycleHistory, []error) {
	history := CycleHistory{
		CycleLength:  cfg.DefaultCycleLength,
		PeriodLength: cfg.DefaultPeriodLength,
	}
	if len(periods) < 2 {
		return history, []error{fmt.Errorf("%w: %d period(s) observed, need 2", ErrInsufficientHistory, len(periods))}
	}

	var issues []error
	history.Records = buildCycleRecords(periods, cfg.MinCycleLength, cfg.MaxCycleLength)

	lengths := make([]float64, 0, len(history.Records))
	excluded := 0
	for _, record := range history.Records {
		if !record.InBounds {
			excluded++
			issues = append(issues, &CycleAnomalyError{
				Start:  record.Period.Start,
				Length: record.Length,
				Min:    cfg.MinCycleLength,
				Max:    cfg.MaxCycleLength,
			})
			continue
		}
		lengths = append(lengths, float64(record.Length))
	}

	periodLengths := make([]float64, 0, len(periods))
	for _, period := range periods {
		periodLengths = append(periodLengths, float64(period.Length()))
	}

	statistics := &models.CycleStatistics{
		CycleCount:         len(lengths),
		ExcludedCycleCount: excluded,
		PeriodCount:        len(periods),
	}
	statistics.MeanPeriodLength, _ = stats.Mean(periodLengths)

	if len(lengths) > 0 {
		statistics.MeanCycleLength, _ = stats.Mean(lengths)
		statistics.MedianCycleLength, _ = stats.Median(lengths)
		statistics.CycleLengthStdDev, _ = stats.StandardDeviationPopulation(lengths)
		statistics.TrendDaysPerCycle = cycleLengthTrend(lengths)
		history.CycleLength = roundDays(statistics.MeanCycleLength)
	} else {
		issues = append(issues, fmt.Errorf("%w: no cycle length within %d-%d days", ErrInsufficientHistory, cfg.MinCycleLength, cfg.MaxCycleLength))
	}

	history.Statistics = statistics
	history.PeriodLength = clampInt(roundDays(statistics.MeanPeriodLength), 1, cfg.MaxPeriodDays)
	return history, issues
}

func buildCycleRecords(periods []models.PeriodEvent, minLength int, maxLength int) []models.CycleRecord {
	if len(periods) < 2 {
		return nil
	}

	records := make([]models.CycleRecord, 0, len(periods)-1)
	for i := 1; i < len(periods); i++ {
		length := models.DaysBetween(periods[i-1].Start, periods[i].Start)
		records = append(records, models.CycleRecord{
			Period:   periods[i-1],
			Next:     periods[i],
			Length:   length,
			InBounds: length >= minLength && length <= maxLength,
		})
	}
	return records
}

// cycleLengthTrend is the least-squares slope of cycle length over cycle
// index, in days per cycle.
func cycleLengthTrend(lengths []float64) float64 {
	if len(lengths) < 2 {
		return 0
	}
	xs := make([]float64, len(lengths))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, lengths, nil, false)
	if math.IsNaN(beta) {
		return 0
	}
	return beta
}

func roundDays(value float64) int {
	return int(math.Round(value))
}

func clampInt(value int, low int, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

package services

import (
	"fmt"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// Config carries every tunable constant of the pipeline.
type Config struct {
	MinFlowIntensity    int
	MergeGapDays        int
	MaxPeriodDays       int
	LutealPhaseDays     int
	FertileWindowDays   int
	AlertLeadDays       int
	PredictionCount     int
	DefaultCycleLength  int
	DefaultPeriodLength int
	MinCycleLength      int
	MaxCycleLength      int
}

func DefaultConfig() Config {
	return Config{
		MinFlowIntensity:    models.FlowUnspecified,
		MergeGapDays:        1,
		MaxPeriodDays:       10,
		LutealPhaseDays:     14,
		FertileWindowDays:   6,
		AlertLeadDays:       2,
		PredictionCount:     3,
		DefaultCycleLength:  models.DefaultCycleLength,
		DefaultPeriodLength: models.DefaultPeriodLength,
		MinCycleLength:      15,
		MaxCycleLength:      45,
	}
}

func (cfg Config) Validate() error {
	checks := []struct {
		name  string
		value int
		min   int
	}{
		{"min_flow_intensity", cfg.MinFlowIntensity, 0},
		{"merge_gap_days", cfg.MergeGapDays, 1},
		{"max_period_days", cfg.MaxPeriodDays, 1},
		{"luteal_phase_days", cfg.LutealPhaseDays, 1},
		{"fertile_window_days", cfg.FertileWindowDays, 1},
		{"alert_lead_days", cfg.AlertLeadDays, 0},
		{"prediction_count", cfg.PredictionCount, 0},
		{"default_cycle_length", cfg.DefaultCycleLength, 1},
		{"default_period_length", cfg.DefaultPeriodLength, 1},
		{"outlier_cycle_bounds min", cfg.MinCycleLength, 1},
	}
	for _, check := range checks {
		if check.value < check.min {
			return fmt.Errorf("%w: %s must be >= %d, got %d", ErrInvalidConfig, check.name, check.min, check.value)
		}
	}
	if cfg.MaxCycleLength < cfg.MinCycleLength {
		return fmt.Errorf("%w: outlier_cycle_bounds %d-%d is empty", ErrInvalidConfig, cfg.MinCycleLength, cfg.MaxCycleLength)
	}
	if cfg.DefaultPeriodLength > cfg.MaxPeriodDays {
		return fmt.Errorf("%w: default_period_length %d exceeds max_period_days %d", ErrInvalidConfig, cfg.DefaultPeriodLength, cfg.MaxPeriodDays)
	}
	return nil
}

// fertileWindowOffsets returns the window bounds relative to ovulation day.
func (cfg Config) fertileWindowOffsets() (int, int) {
	return -(cfg.FertileWindowDays - 1), 1
}

package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/ovumcal/internal/models"
)

func TestCalculatePhaseWindowDefaults(t *testing.T) {
	t.Parallel()
	window := CalculatePhaseWindow(mustParseDay("2024-02-26"), 28, models.SourcePredicted, DefaultConfig())

	assert.Equal(t, mustParseDay("2024-03-11"), window.OvulationDay)
	assert.Equal(t, mustParseDay("2024-03-06"), window.FertileWindowStart)
	assert.Equal(t, mustParseDay("2024-03-12"), window.FertileWindowEnd)
	assert.Equal(t, models.SourcePredicted, window.Source)
	assert.Equal(t, 28, window.CycleLength)
}

func TestCalculatePhaseWindowFollowsConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.LutealPhaseDays = 12
	cfg.FertileWindowDays = 4

	window := CalculatePhaseWindow(mustParseDay("2025-05-01"), 30, models.SourceObserved, cfg)
	assert.Equal(t, mustParseDay("2025-05-19"), window.OvulationDay)
	assert.Equal(t, mustParseDay("2025-05-16"), window.FertileWindowStart)
	assert.Equal(t, mustParseDay("2025-05-20"), window.FertileWindowEnd)
}

func TestPhaseWindowStaysAroundOvulation(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	start := mustParseDay("2024-01-01")
	for length := cfg.MinCycleLength; length <= cfg.MaxCycleLength; length++ {
		window := CalculatePhaseWindow(start, length, models.SourceObserved, cfg)
		assert.True(t, window.FertileWindowEnd.Before(window.OvulationDay.AddDate(0, 0, 2)), "length %d", length)
		assert.False(t, window.FertileWindowStart.Before(window.OvulationDay.AddDate(0, 0, -5)), "length %d", length)
		assert.True(t, window.FertileWindowEnd.Before(start.AddDate(0, 0, length)), "length %d", length)
	}
}

func TestBuildPhaseWindowsUsesDistanceToNextPeriod(t *testing.T) {
	t.Parallel()
	periods := []models.PeriodEvent{
		observed("2025-01-01", "2025-01-05"),
		observed("2025-01-31", "2025-02-04"),
	}

	windows, issues := BuildPhaseWindows(periods, 27, DefaultConfig())
	require.Empty(t, issues)
	require.Len(t, windows, 2)

	assert.Equal(t, 30, windows[0].CycleLength)
	assert.Equal(t, mustParseDay("2025-01-17"), windows[0].OvulationDay)
	assert.Equal(t, 27, windows[1].CycleLength)
	assert.Equal(t, mustParseDay("2025-02-13"), windows[1].OvulationDay)
}

func TestBuildPhaseWindowsFlagsAnomaliesWithoutDroppingThem(t *testing.T) {
	t.Parallel()
	periods := []models.PeriodEvent{
		observed("2025-01-01", "2025-01-03"),
		observed("2025-01-29", "2025-01-31"),
		observed("2025-02-03", "2025-02-04"),
	}

	windows, issues := BuildPhaseWindows(periods, 28, DefaultConfig())
	require.Len(t, windows, 3)
	require.Len(t, issues, 2)

	var phaseErr *PhaseAnomalyError
	require.True(t, errors.As(issues[0], &phaseErr))
	assert.False(t, phaseErr.Overlap)
	assert.ErrorIs(t, issues[0], ErrAnomalousCycle)
	assert.Contains(t, issues[0].Error(), "ovulation 2025-01-20")

	require.True(t, errors.As(issues[1], &phaseErr))
	assert.True(t, phaseErr.Overlap)
	assert.ErrorIs(t, issues[1], ErrPhaseOverlap)
	assert.Equal(t, mustParseDay("2025-01-29"), phaseErr.CycleStart)
}

func TestBuildPhaseWindowsFlagsFertileWindowReachingNextPeriod(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.LutealPhaseDays = 1

	_, issues := BuildPhaseWindows([]models.PeriodEvent{observed("2025-03-01", "2025-03-02")}, 28, cfg)
	require.Len(t, issues, 1)
	assert.ErrorIs(t, issues[0], ErrAnomalousCycle)
	assert.Contains(t, issues[0].Error(), "not before next period 2025-03-29")
}

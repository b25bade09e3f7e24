package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/ovumcal/internal/services"
)

var pipelineKeys = []string{
	"OVUMCAL_MIN_FLOW_INTENSITY",
	"OVUMCAL_MERGE_GAP_DAYS",
	"OVUMCAL_MAX_PERIOD_DAYS",
	"OVUMCAL_LUTEAL_PHASE_DAYS",
	"OVUMCAL_FERTILE_WINDOW_DAYS",
	"OVUMCAL_ALERT_LEAD_DAYS",
	"OVUMCAL_PREDICTION_COUNT",
	"OVUMCAL_DEFAULT_CYCLE_LENGTH",
	"OVUMCAL_DEFAULT_PERIOD_LENGTH",
	"OVUMCAL_OUTLIER_CYCLE_BOUNDS",
	"TZ",
	"DB_PATH",
	"OUTPUT_PATH",
	"DEFAULT_LANGUAGE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range pipelineKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, services.DefaultConfig(), cfg.Pipeline)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, filepath.Join("data", "ovumcal.db"), cfg.DBPath)
	assert.Equal(t, "en", cfg.DefaultLanguage)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OVUMCAL_MERGE_GAP_DAYS", "2")
	t.Setenv("OVUMCAL_PREDICTION_COUNT", "6")
	t.Setenv("OVUMCAL_OUTLIER_CYCLE_BOUNDS", "20-40")
	t.Setenv("TZ", "Europe/Madrid")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Pipeline.MergeGapDays)
	assert.Equal(t, 6, cfg.Pipeline.PredictionCount)
	assert.Equal(t, 20, cfg.Pipeline.MinCycleLength)
	assert.Equal(t, 40, cfg.Pipeline.MaxCycleLength)
	assert.Equal(t, "Europe/Madrid", cfg.Location.String())
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OVUMCAL_ALERT_LEAD_DAYS=7\nDEFAULT_LANGUAGE=es\n"), 0o600))
	// Load must not override variables that are already set, so unset the
	// two keys the file provides.
	require.NoError(t, os.Unsetenv("OVUMCAL_ALERT_LEAD_DAYS"))
	require.NoError(t, os.Unsetenv("DEFAULT_LANGUAGE"))
	t.Cleanup(func() {
		_ = os.Unsetenv("OVUMCAL_ALERT_LEAD_DAYS")
		_ = os.Unsetenv("DEFAULT_LANGUAGE")
	})

	cfg, err := Load(envPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.AlertLeadDays)
	assert.Equal(t, "es", cfg.DefaultLanguage)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"OVUMCAL_MERGE_GAP_DAYS":       "soon",
		"OVUMCAL_MAX_PERIOD_DAYS":      "0",
		"OVUMCAL_OUTLIER_CYCLE_BOUNDS": "45-15",
		"TZ":                           "Mars/Olympus",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}

func TestLoadWrapsPipelineValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("OVUMCAL_LUTEAL_PHASE_DAYS", "-1")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidConfig))
}

func TestParseBounds(t *testing.T) {
	t.Parallel()

	low, high, err := ParseBounds(" 15 - 45 ")
	require.NoError(t, err)
	assert.Equal(t, 15, low)
	assert.Equal(t, 45, high)

	for _, raw := range []string{"15", "a-b", "0-10", "30-20"} {
		_, _, err := ParseBounds(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/ovumcal/internal/services"
)

type AppConfig struct {
	DBPath          string
	OutputPath      string
	Location        *time.Location
	DefaultLanguage string
	CalendarName    string
	ScheduleCron    string
	LogLevel        string
	Environment     string
	Pipeline        services.Config
}

// Load reads the optional .env file and then the environment. Variables that
// are already set win over .env entries.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, path := range envFiles {
			if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	location, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %w", err)
	}

	cfg := &AppConfig{
		DBPath:          getEnv("DB_PATH", filepath.Join("data", "ovumcal.db")),
		OutputPath:      getEnv("OUTPUT_PATH", "ciclo_menstrual.ics"),
		Location:        location,
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		CalendarName:    strings.TrimSpace(os.Getenv("CALENDAR_NAME")),
		ScheduleCron:    getEnv("SCHEDULE_CRON", "0 6 * * *"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:     strings.ToLower(getEnv("ENVIRONMENT", "development")),
	}

	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}
	cfg.Pipeline = pipeline
	return cfg, nil
}

func loadPipelineConfig() (services.Config, error) {
	pipeline := services.DefaultConfig()

	intSettings := []struct {
		key    string
		target *int
	}{
		{"OVUMCAL_MIN_FLOW_INTENSITY", &pipeline.MinFlowIntensity},
		{"OVUMCAL_MERGE_GAP_DAYS", &pipeline.MergeGapDays},
		{"OVUMCAL_MAX_PERIOD_DAYS", &pipeline.MaxPeriodDays},
		{"OVUMCAL_LUTEAL_PHASE_DAYS", &pipeline.LutealPhaseDays},
		{"OVUMCAL_FERTILE_WINDOW_DAYS", &pipeline.FertileWindowDays},
		{"OVUMCAL_ALERT_LEAD_DAYS", &pipeline.AlertLeadDays},
		{"OVUMCAL_PREDICTION_COUNT", &pipeline.PredictionCount},
		{"OVUMCAL_DEFAULT_CYCLE_LENGTH", &pipeline.DefaultCycleLength},
		{"OVUMCAL_DEFAULT_PERIOD_LENGTH", &pipeline.DefaultPeriodLength},
	}
	for _, setting := range intSettings {
		raw := strings.TrimSpace(os.Getenv(setting.key))
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return services.Config{}, fmt.Errorf("invalid %s: %w", setting.key, err)
		}
		*setting.target = parsed
	}

	if raw := strings.TrimSpace(os.Getenv("OVUMCAL_OUTLIER_CYCLE_BOUNDS")); raw != "" {
		low, high, err := ParseBounds(raw)
		if err != nil {
			return services.Config{}, fmt.Errorf("invalid OVUMCAL_OUTLIER_CYCLE_BOUNDS: %w", err)
		}
		pipeline.MinCycleLength, pipeline.MaxCycleLength = low, high
	}

	if err := pipeline.Validate(); err != nil {
		return services.Config{}, err
	}
	return pipeline, nil
}

// ParseBounds reads an inclusive "low-high" day range such as "15-45".
func ParseBounds(raw string) (int, int, error) {
	lowRaw, highRaw, found := strings.Cut(raw, "-")
	if !found {
		return 0, 0, fmt.Errorf("expected low-high, got %q", raw)
	}
	low, err := strconv.Atoi(strings.TrimSpace(lowRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("low bound: %w", err)
	}
	high, err := strconv.Atoi(strings.TrimSpace(highRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("high bound: %w", err)
	}
	if low <= 0 || high < low {
		return 0, 0, fmt.Errorf("bounds %d-%d out of order", low, high)
	}
	return low, high, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

package ingest

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
	"github.com/terraincognita07/ovumcal/internal/services"
)

// RecordError is a source row that could not be turned into an observation.
type RecordError struct {
	Source string
	Reason string
}

func (err *RecordError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Reason)
}

func (err *RecordError) Unwrap() error {
	return services.ErrMalformedInput
}

// Batch is the readable content of one source file.
type Batch struct {
	Path         string
	Format       string
	Observations []models.Observation
	Rejected     []error
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDay reads a calendar day. Timestamps keep the day as written in their
// own offset, so a late-evening record does not slip into the next day.
func ParseDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return models.DateOnly(parsed), true
		}
	}
	return time.Time{}, false
}

var flowLevels = map[string]int{
	models.FlowLabelNone:        models.FlowNone,
	models.FlowLabelUnspecified: models.FlowUnspecified,
	"spotting":                  models.FlowUnspecified,
	models.FlowLabelLight:       models.FlowLight,
	models.FlowLabelMedium:      models.FlowMedium,
	models.FlowLabelHeavy:       models.FlowHeavy,
}

// ParseFlow accepts labels ("light"), ordinals ("2") and Apple Health
// category values ("HKCategoryValueMenstrualFlowLight").
func ParseFlow(raw string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, strings.ToLower(appleFlowValuePrefix))
	if normalized == "" {
		return models.FlowNone, true
	}
	if level, ok := flowLevels[normalized]; ok {
		return level, true
	}
	if level, err := strconv.Atoi(normalized); err == nil && level >= 0 {
		return level, true
	}
	return 0, false
}

func parseYesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "y", "si", "sí", "да":
		return true
	default:
		return false
	}
}

type tableColumns struct {
	date   int
	flow   int
	period int
}

var (
	dateHeaders   = []string{"date", "day", "fecha", "startdate"}
	flowHeaders   = []string{"flow", "intensity", "flow_intensity", "value", "flujo"}
	periodHeaders = []string{"period", "is_period", "menstruation"}
)

func locateColumns(header []string) (tableColumns, error) {
	columns := tableColumns{date: -1, flow: -1, period: -1}
	for index, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch {
		case columns.date < 0 && slices.Contains(dateHeaders, normalized):
			columns.date = index
		case columns.flow < 0 && slices.Contains(flowHeaders, normalized):
			columns.flow = index
		case columns.period < 0 && slices.Contains(periodHeaders, normalized):
			columns.period = index
		}
	}
	if columns.date < 0 {
		return columns, fmt.Errorf("no date column in header %v", header)
	}
	if columns.flow < 0 && columns.period < 0 {
		return columns, fmt.Errorf("no flow or period column in header %v", header)
	}
	return columns, nil
}

// readTable converts header-led rows into observations. parseDay lets the
// spreadsheet reader accept serial dates.
func readTable(path string, rows [][]string, parseDay func(string) (time.Time, bool)) ([]models.Observation, []error, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}
	columns, err := locateColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	observations := make([]models.Observation, 0, len(rows)-1)
	var rejected []error
	for index, row := range rows[1:] {
		source := fmt.Sprintf("%s:%d", path, index+2)
		if rowIsBlank(row) {
			continue
		}

		day, ok := parseDay(cell(row, columns.date))
		if !ok {
			rejected = append(rejected, &RecordError{Source: source, Reason: fmt.Sprintf("invalid date %q", cell(row, columns.date))})
			continue
		}

		intensity := models.FlowNone
		if columns.flow >= 0 {
			level, ok := ParseFlow(cell(row, columns.flow))
			if !ok {
				rejected = append(rejected, &RecordError{Source: source, Reason: fmt.Sprintf("invalid flow %q", cell(row, columns.flow))})
				continue
			}
			intensity = level
		}
		if intensity == models.FlowNone && columns.period >= 0 && parseYesNo(cell(row, columns.period)) {
			intensity = models.FlowUnspecified
		}

		observations = append(observations, models.Observation{Date: day, Intensity: intensity, Source: source})
	}
	return observations, rejected, nil
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func rowIsBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

type EventSource string

const (
	SourceObserved  EventSource = "observed"
	SourcePredicted EventSource = "predicted"
)

// Observation is a single (day, flow intensity) sample. Date is a calendar day
// at UTC midnight; a zero Date marks a record whose date could not be read.
type Observation struct {
	Date      time.Time
	Intensity int
	Source    string
}

// PeriodEvent is a contiguous span of flow days. End is inclusive.
type PeriodEvent struct {
	Start  time.Time
	End    time.Time
	Source EventSource
}

func (event PeriodEvent) Length() int {
	return DaysBetween(event.Start, event.End) + 1
}

func (event PeriodEvent) Predicted() bool {
	return event.Source == SourcePredicted
}

// CycleRecord links a period to the one that follows it.
type CycleRecord struct {
	Period   PeriodEvent
	Next     PeriodEvent
	Length   int
	InBounds bool
}

type CycleStatistics struct {
	MeanCycleLength    float64 `json:"mean_cycle_length"`
	MedianCycleLength  float64 `json:"median_cycle_length"`
	CycleLengthStdDev  float64 `json:"cycle_length_stddev"`
	MeanPeriodLength   float64 `json:"mean_period_length"`
	TrendDaysPerCycle  float64 `json:"trend_days_per_cycle"`
	CycleCount         int     `json:"cycle_count"`
	ExcludedCycleCount int     `json:"excluded_cycle_count"`
	PeriodCount        int     `json:"period_count"`
}

type PhaseWindow struct {
	CycleStart         time.Time
	CycleLength        int
	Source             EventSource
	OvulationDay       time.Time
	FertileWindowStart time.Time
	FertileWindowEnd   time.Time
}

type AlertKind string

const AlertPreMenstrual AlertKind = "pre_menstrual"

type Alert struct {
	TriggerDate time.Time
	Kind        AlertKind
	Target      PeriodEvent
}

type EventKind string

const (
	EventKindPeriod        EventKind = "period"
	EventKindOvulation     EventKind = "ovulation"
	EventKindFertileWindow EventKind = "fertile-window"
	EventKindAlert         EventKind = "alert"
)

// CalendarEvent is one all-day calendar entry. End is the inclusive last day
// and is zero for single-day events.
type CalendarEvent struct {
	UID         string
	Kind        EventKind
	Source      EventSource
	Start       time.Time
	End         time.Time
	Title       string
	Description string
	Categories  []string
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a time.Time, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// DateOnly truncates to the calendar day at UTC midnight, keeping the
// year/month/day as seen in the value's own location.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func AddDays(value time.Time, days int) time.Time {
	return DateOnly(value).AddDate(0, 0, days)
}

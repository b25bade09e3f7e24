package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedInput      = errors.New("malformed input")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrAnomalousCycle      = errors.New("anomalous cycle")
	ErrPhaseOverlap        = errors.New("phase windows overlap")
	ErrInvalidConfig       = errors.New("invalid pipeline config")
)

// ObservationError reports a single rejected observation.
type ObservationError struct {
	Index  int
	Source string
	Reason string
}

func (err *ObservationError) Error() string {
	if err.Source != "" {
		return fmt.Sprintf("observation %d (%s): %s", err.Index, err.Source, err.Reason)
	}
	return fmt.Sprintf("observation %d: %s", err.Index, err.Reason)
}

func (err *ObservationError) Unwrap() error {
	return ErrMalformedInput
}

// CycleAnomalyError marks a cycle length outside the configured bounds.
type CycleAnomalyError struct {
	Start  time.Time
	Length int
	Min    int
	Max    int
}

func (err *CycleAnomalyError) Error() string {
	return fmt.Sprintf("cycle starting %s has length %d outside %d-%d",
		err.Start.Format(dayLayout), err.Length, err.Min, err.Max)
}

func (err *CycleAnomalyError) Unwrap() error {
	return ErrAnomalousCycle
}

// PhaseAnomalyError flags a phase window that breaks the usual ordering
// (fertile window reaching the next period, or overlapping its neighbour).
type PhaseAnomalyError struct {
	CycleStart time.Time
	Reason     string
	Overlap    bool
}

func (err *PhaseAnomalyError) Error() string {
	return fmt.Sprintf("phase window for cycle starting %s: %s", err.CycleStart.Format(dayLayout), err.Reason)
}

func (err *PhaseAnomalyError) Unwrap() error {
	if err.Overlap {
		return ErrPhaseOverlap
	}
	return ErrAnomalousCycle
}

const dayLayout = "2006-01-02"

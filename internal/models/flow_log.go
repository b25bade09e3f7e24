package models

import "time"

// Ordinal flow levels. Anything at or above the configured minimum counts as a flow day.
const (
	FlowNone        = 0
	FlowUnspecified = 1
	FlowLight       = 2
	FlowMedium      = 3
	FlowHeavy       = 4
)

const (
	FlowLabelNone        = "none"
	FlowLabelUnspecified = "unspecified"
	FlowLabelLight       = "light"
	FlowLabelMedium      = "medium"
	FlowLabelHeavy       = "heavy"
)

// FlowLog is the persisted form of an Observation, one row per calendar day.
type FlowLog struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_flow_logs_date"`
	Intensity int       `gorm:"not null;default:0"`
	Source    string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func FlowLabel(intensity int) string {
	switch {
	case intensity <= FlowNone:
		return FlowLabelNone
	case intensity == FlowUnspecified:
		return FlowLabelUnspecified
	case intensity == FlowLight:
		return FlowLabelLight
	case intensity == FlowMedium:
		return FlowLabelMedium
	default:
		return FlowLabelHeavy
	}
}

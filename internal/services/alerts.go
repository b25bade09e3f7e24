package services

import (
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// ScheduleAlerts creates one pre-menstrual reminder leadDays before each
// period. Reminders for observed periods whose trigger day is already behind
// today are skipped.
func ScheduleAlerts(periods []models.PeriodEvent, leadDays int, today time.Time) []models.Alert {
	today = models.DateOnly(today)
	alerts := make([]models.Alert, 0, len(periods))
	for _, period := range periods {
		trigger := models.AddDays(period.Start, -leadDays)
		if !period.Predicted() && trigger.Before(today) {
			continue
		}
		alerts = append(alerts, models.Alert{
			TriggerDate: trigger,
			Kind:        models.AlertPreMenstrual,
			Target:      period,
		})
	}
	return alerts
}

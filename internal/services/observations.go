package services

import (
	"sort"

	"github.com/terraincognita07/ovumcal/internal/models"
)

// NormalizeObservations orders observations by day, merges same-day records
// keeping the strongest flow, and drops days below the flow threshold.
// Records without a usable date or with negative intensity are returned as
// rejections and left out of the result.
func NormalizeObservations(observations []models.Observation, minIntensity int) ([]models.Observation, []error) {
	var rejected []error
	byDay := make(map[int64]models.Observation, len(observations))

	for index, observation := range observations {
		if observation.Date.IsZero() {
			rejected = append(rejected, &ObservationError{Index: index, Source: observation.Source, Reason: "missing or invalid date"})
			continue
		}
		if observation.Intensity < 0 {
			rejected = append(rejected, &ObservationError{Index: index, Source: observation.Source, Reason: "negative flow intensity"})
			continue
		}

		day := models.DateOnly(observation.Date)
		key := day.Unix()
		existing, seen := byDay[key]
		if seen && existing.Intensity >= observation.Intensity {
			continue
		}
		byDay[key] = models.Observation{Date: day, Intensity: observation.Intensity, Source: observation.Source}
	}

	normalized := make([]models.Observation, 0, len(byDay))
	for _, observation := range byDay {
		if observation.Intensity < minIntensity || observation.Intensity == models.FlowNone {
			continue
		}
		normalized = append(normalized, observation)
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})
	return normalized, rejected
}

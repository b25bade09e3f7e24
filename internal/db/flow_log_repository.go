package db

import (
	"context"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

type FlowLogRepository struct {
	database *gorm.DB
}

func NewFlowLogRepository(database *gorm.DB) *FlowLogRepository {
	return &FlowLogRepository{database: database}
}

// ListObservations returns every stored day in date order.
func (repo *FlowLogRepository) ListObservations(ctx context.Context) ([]models.Observation, error) {
	logs := make([]models.FlowLog, 0)
	if err := repo.database.WithContext(ctx).Order("date ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}

	observations := make([]models.Observation, 0, len(logs))
	for _, entry := range logs {
		observations = append(observations, models.Observation{
			Date:      models.DateOnly(entry.Date.UTC()),
			Intensity: entry.Intensity,
			Source:    entry.Source,
		})
	}
	return observations, nil
}

// UpsertObservations stores one row per day. When a day already exists the
// stronger flow wins, matching the normalizer's merge rule.
func (repo *FlowLogRepository) UpsertObservations(ctx context.Context, observations []models.Observation) (int64, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]models.FlowLog, 0, len(observations))
	for _, observation := range observations {
		if observation.Date.IsZero() {
			continue
		}
		rows = append(rows, models.FlowLog{
			Date:      models.DateOnly(observation.Date),
			Intensity: observation.Intensity,
			Source:    observation.Source,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var affected int64
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"intensity":  gorm.Expr("MAX(flow_logs.intensity, excluded.intensity)"),
				"source":     gorm.Expr("CASE WHEN excluded.intensity > flow_logs.intensity THEN excluded.source ELSE flow_logs.source END"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).CreateInBatches(&rows, upsertBatchSize)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (repo *FlowLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.FlowLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *FlowLogRepository) DeleteAll(ctx context.Context) error {
	return repo.database.WithContext(ctx).Where("1 = 1").Delete(&models.FlowLog{}).Error
}

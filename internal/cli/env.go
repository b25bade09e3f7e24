package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ovumcal/internal/config"
	"github.com/terraincognita07/ovumcal/internal/db"
	"github.com/terraincognita07/ovumcal/internal/i18n"
	"github.com/terraincognita07/ovumcal/internal/ingest"
	"github.com/terraincognita07/ovumcal/internal/models"
	"github.com/terraincognita07/ovumcal/internal/services"
)

// Env is what every command needs from the process.
type Env struct {
	Config *config.AppConfig
	Log    *logrus.Logger
	I18n   *i18n.Manager
	Now    func() time.Time
}

func (env Env) today() time.Time {
	now := time.Now
	if env.Now != nil {
		now = env.Now
	}
	return models.DateOnly(now().In(env.Config.Location))
}

func (env Env) catalog() i18n.Catalog {
	return env.I18n.Catalog(env.Config.DefaultLanguage)
}

// loadObservations gathers observations from the store and/or source files.
func (env Env) loadObservations(ctx context.Context, inputs []string, fromStore bool) ([]models.Observation, error) {
	var observations []models.Observation

	if fromStore {
		database, err := db.OpenSQLite(env.Config.DBPath, env.Log)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		defer db.Close(database)

		stored, err := db.NewRepositories(database).FlowLogs.ListObservations(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stored observations: %w", err)
		}
		env.Log.WithFields(logrus.Fields{"component": "store", "observations": len(stored), "db": env.Config.DBPath}).Debug("loaded observations")
		observations = append(observations, stored...)
	}

	if len(inputs) > 0 {
		batches, err := ingest.ReadFiles(ctx, inputs)
		if err != nil {
			return nil, err
		}
		read, rejected := ingest.Merge(batches)
		env.logIssues("ingest", rejected)
		for _, batch := range batches {
			env.Log.WithFields(logrus.Fields{
				"component":    "ingest",
				"path":         batch.Path,
				"format":       batch.Format,
				"observations": len(batch.Observations),
				"rejected":     len(batch.Rejected),
			}).Info("read source file")
		}
		observations = append(observations, read...)
	}

	return observations, nil
}

// logIssues reports non-fatal problems with a level that matches how much
// they reduce confidence in the output.
func (env Env) logIssues(component string, issues []error) {
	for _, issue := range issues {
		entry := env.Log.WithField("component", component)

		var observationErr *services.ObservationError
		var cycleErr *services.CycleAnomalyError
		var phaseErr *services.PhaseAnomalyError
		var recordErr *ingest.RecordError
		switch {
		case errors.As(issue, &recordErr):
			entry.WithField("source", recordErr.Source).Warn(recordErr.Reason)
		case errors.As(issue, &observationErr):
			entry.WithField("source", observationErr.Source).Warn(issue.Error())
		case errors.As(issue, &cycleErr):
			entry.WithFields(logrus.Fields{
				"cycle_start":  cycleErr.Start.Format("2006-01-02"),
				"cycle_length": cycleErr.Length,
			}).Warn("cycle excluded from statistics: " + issue.Error())
		case errors.As(issue, &phaseErr):
			entry.WithField("cycle_start", phaseErr.CycleStart.Format("2006-01-02")).Warn(issue.Error())
		case errors.Is(issue, services.ErrInsufficientHistory):
			entry.Info(issue.Error() + "; using default cycle and period lengths")
		default:
			entry.Warn(issue.Error())
		}
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ovumcal/internal/db"
)

type ImportOptions struct {
	Paths   []string
	Replace bool
}

// RunImportCommand reads source files into the local store.
func RunImportCommand(ctx context.Context, env Env, options ImportOptions) error {
	if len(options.Paths) == 0 {
		return errors.New("at least one source file is required")
	}

	observations, err := env.loadObservations(ctx, options.Paths, false)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(env.Config.DBPath, env.Log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer db.Close(database)

	repo := db.NewRepositories(database).FlowLogs
	if options.Replace {
		if err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}
	if _, err := repo.UpsertObservations(ctx, observations); err != nil {
		return fmt.Errorf("store observations: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count stored days: %w", err)
	}
	env.Log.WithFields(logrus.Fields{
		"component":   "import",
		"imported":    len(observations),
		"stored_days": total,
		"db":          env.Config.DBPath,
	}).Info("import finished")
	return nil
}

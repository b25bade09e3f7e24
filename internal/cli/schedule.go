package cli

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunScheduleCommand regenerates the calendar once, then again on every tick
// of the cron expression until ctx is cancelled. Alert filtering depends on today's date, so
// a daily run keeps the published file current.
func RunScheduleCommand(ctx context.Context, env Env, expression string, options GenerateOptions) error {
	if expression == "" {
		expression = env.Config.ScheduleCron
	}
	log := env.Log.WithFields(logrus.Fields{"component": "schedule", "cron": expression})

	regenerate := func() {
		if _, err := RunGenerateCommand(ctx, env, options); err != nil {
			log.WithError(err).Error("scheduled generate failed")
		}
	}

	scheduler := cron.New(
		cron.WithLocation(env.Config.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := scheduler.AddFunc(expression, regenerate); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expression, err)
	}

	regenerate()
	scheduler.Start()
	log.Info("scheduler started")

	<-ctx.Done()
	<-scheduler.Stop().Done()
	log.Info("scheduler stopped")
	return nil
}

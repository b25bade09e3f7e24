package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ovumcal/internal/export"
	"github.com/terraincognita07/ovumcal/internal/ical"
	"github.com/terraincognita07/ovumcal/internal/services"
)

type GenerateOptions struct {
	Inputs     []string
	FromStore  bool
	OutputPath string
}

// RunGenerateCommand rebuilds the calendar from scratch and writes it. Only
// configuration, input and export failures are returned; data problems are
// logged and the run continues.
func RunGenerateCommand(ctx context.Context, env Env, options GenerateOptions) (export.Result, error) {
	result, err := env.runPipeline(ctx, options.Inputs, options.FromStore)
	if err != nil {
		return export.Result{}, err
	}

	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = env.Config.OutputPath
	}

	catalog := env.catalog()
	name := env.Config.CalendarName
	if name == "" {
		name = catalog.Text("calendar.name")
	}
	encoder := ical.NewEncoder(ical.Options{
		Name:        name,
		Description: catalog.Text("calendar.description"),
		Stamp:       result.LastObservedDay(),
	})

	written, err := export.WriteCalendar(outputPath, result.Events, encoder)
	if err != nil {
		return export.Result{}, err
	}

	env.Log.WithFields(logrus.Fields{
		"component": "export",
		"path":      written.Path,
		"events":    written.Events,
		"bytes":     written.Bytes,
		"digest":    written.Digest,
		"unchanged": written.Unchanged,
	}).Info("calendar written")
	return written, nil
}

func (env Env) runPipeline(ctx context.Context, inputs []string, fromStore bool) (services.PipelineResult, error) {
	if len(inputs) == 0 {
		fromStore = true
	}
	observations, err := env.loadObservations(ctx, inputs, fromStore)
	if err != nil {
		return services.PipelineResult{}, err
	}

	result, err := services.RunPipeline(observations, env.Config.Pipeline, env.today(), env.catalog())
	if err != nil {
		return services.PipelineResult{}, fmt.Errorf("run pipeline: %w", err)
	}
	env.logIssues("pipeline", result.Issues)

	env.Log.WithFields(logrus.Fields{
		"component":    "pipeline",
		"flow_days":    len(result.Observations),
		"periods":      len(result.Observed),
		"predicted":    len(result.Predicted),
		"cycle_length": result.History.CycleLength,
		"reliable":     result.History.Reliable(),
	}).Info("pipeline finished")
	return result, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/terraincognita07/ovumcal/internal/models"
	"github.com/terraincognita07/ovumcal/internal/services"
)

type SummaryOptions struct {
	Inputs    []string
	FromStore bool
}

// RunSummaryCommand prints the cycle statistics and the next predictions.
func RunSummaryCommand(ctx context.Context, env Env, options SummaryOptions, out io.Writer) error {
	result, err := env.runPipeline(ctx, options.Inputs, options.FromStore)
	if err != nil {
		return err
	}
	return WriteSummary(out, result)
}

func WriteSummary(out io.Writer, result services.PipelineResult) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Flow days", fmt.Sprintf("%d", len(result.Observations))},
		{"Periods observed", fmt.Sprintf("%d", len(result.Observed))},
	}

	if stats := result.History.Statistics; stats != nil {
		rows = append(rows,
			[2]string{"Cycles analysed", fmt.Sprintf("%d (%d excluded as outliers)", stats.CycleCount, stats.ExcludedCycleCount)},
			[2]string{"Mean cycle length", fmt.Sprintf("%.1f days (sd %.1f, median %.1f)", stats.MeanCycleLength, stats.CycleLengthStdDev, stats.MedianCycleLength)},
			[2]string{"Cycle trend", fmt.Sprintf("%+.2f days per cycle", stats.TrendDaysPerCycle)},
			[2]string{"Mean period length", fmt.Sprintf("%.1f days", stats.MeanPeriodLength)},
		)
	} else {
		rows = append(rows, [2]string{"Statistics", "not enough history, using defaults"})
	}

	rows = append(rows, [2]string{"Projection", fmt.Sprintf("%d-day cycle, %d-day period", result.History.CycleLength, result.History.PeriodLength)})
	if len(result.Observed) > 0 {
		last := result.Observed[len(result.Observed)-1]
		rows = append(rows, [2]string{"Last period", fmt.Sprintf("%s .. %s (peak flow %s)",
			formatDay(last.Start), formatDay(last.End), models.FlowLabel(peakFlow(result.Observations, last)))})
	}
	for index, period := range result.Predicted {
		rows = append(rows, [2]string{fmt.Sprintf("Predicted period %d", index+1), fmt.Sprintf("%s .. %s", formatDay(period.Start), formatDay(period.End))})
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(writer, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func peakFlow(observations []models.Observation, period models.PeriodEvent) int {
	peak := models.FlowNone
	for _, observation := range observations {
		if observation.Date.Before(period.Start) || observation.Date.After(period.End) {
			continue
		}
		peak = max(peak, observation.Intensity)
	}
	return peak
}

func formatDay(day time.Time) string {
	return day.Format("2006-01-02")
}

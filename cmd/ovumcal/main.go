package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/ovumcal/internal/cli"
	"github.com/terraincognita07/ovumcal/internal/config"
	"github.com/terraincognita07/ovumcal/internal/i18n"
	"github.com/terraincognita07/ovumcal/internal/logger"
)

const usage = `usage: ovumcal <command> [flags]

commands:
  import   [--replace] FILE...          read Apple Health XML, CSV or XLSX into the store
  generate [--out PATH] [--store] [FILE...]  build the .ics calendar
  summary  [--store] [FILE...]           print cycle statistics and predictions
  schedule [--cron EXPR] [--out PATH]    regenerate the calendar on a cron schedule
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ovumcal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.Environment, stderr)

	manager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}
	log.WithFields(logrus.Fields{
		"language":  manager.DefaultLanguage(),
		"supported": manager.SupportedLanguages(),
	}).Debug("locales loaded")
	env := cli.Env{Config: cfg, Log: log, I18n: manager}

	command, rest := args[0], args[1:]
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(stderr)

	switch command {
	case "import":
		replace := flags.Bool("replace", false, "clear the store before importing")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		return cli.RunImportCommand(ctx, env, cli.ImportOptions{Paths: flags.Args(), Replace: *replace})

	case "generate":
		out := flags.String("out", cfg.OutputPath, "calendar file to write")
		fromStore := flags.Bool("store", false, "include stored observations when input files are given")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		_, err := cli.RunGenerateCommand(ctx, env, cli.GenerateOptions{Inputs: flags.Args(), FromStore: *fromStore, OutputPath: *out})
		return err

	case "summary":
		fromStore := flags.Bool("store", false, "include stored observations when input files are given")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		return cli.RunSummaryCommand(ctx, env, cli.SummaryOptions{Inputs: flags.Args(), FromStore: *fromStore}, stdout)

	case "schedule":
		expression := flags.String("cron", cfg.ScheduleCron, "cron expression for regeneration")
		out := flags.String("out", cfg.OutputPath, "calendar file to write")
		if err := flags.Parse(rest); err != nil {
			return err
		}
		return cli.RunScheduleCommand(ctx, env, *expression, cli.GenerateOptions{Inputs: flags.Args(), OutputPath: *out})

	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil

	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

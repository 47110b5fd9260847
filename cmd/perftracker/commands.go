package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deppfellow/perftracker/internal/app"
	"github.com/deppfellow/perftracker/internal/config"
	"github.com/deppfellow/perftracker/internal/lib/utils"
	"github.com/deppfellow/perftracker/internal/logger"
	"github.com/deppfellow/perftracker/internal/repository"
	"github.com/deppfellow/perftracker/internal/service"
	"github.com/deppfellow/perftracker/internal/shell"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "perftracker",
		Short: "Track employees, evaluation criteria and evaluation scores",
		Long: `Track employees, evaluation criteria and evaluation scores.

Without a subcommand an interactive menu is started.

Environment variables (a .env file in the working directory is read too):
  PERFTRACKER_CONFIG=perftracker.yaml
  PERFTRACKER_PRIMARY__ENV=local
  PERFTRACKER_DATABASE__DRIVER=sqlite
  PERFTRACKER_DATABASE__PATH=employee_performance.db
  PERFTRACKER_DATABASE__FOREIGN_KEYS=true
  PERFTRACKER_OBSERVABILITY__LOGGING__LEVEL=warn`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), configPath, func(ctx context.Context, a *app.App, s *service.Services) error {
				in := lineReader(cmd.InOrStdin(), cmd.OutOrStdout())
				defer in.Close()

				return shell.New(s.Tracker, in, cmd.OutOrStdout(), a.Logger).Run(ctx)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.FileEnvVar+")")
	cmd.AddCommand(newSeedCmd(&configPath), newHealthCmd(&configPath))

	return cmd
}

func newSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample employee, criterion and score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withServices(ctx, *configPath, func(ctx context.Context, _ *app.App, s *service.Services) error {
				res, err := s.Tracker.Seed(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Data inserted successfully")
				fmt.Fprintf(out, "employee id: %d, criterion id: %d, score id: %d\n",
					res.EmployeeID, res.CriterionID, res.ScoreID)
				return nil
			})
		},
	}
}

func newHealthCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the store is reachable and print a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), *configPath, func(ctx context.Context, _ *app.App, s *service.Services) error {
				report := s.Health.Check(ctx)
				if err := utils.PrintJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
				if !report.Healthy() {
					return errors.New("store is unhealthy")
				}
				return nil
			})
		},
	}
}

// withServices loads config, acquires the store, wires repositories and
// services, runs fn and releases the store whatever fn returned.
func withServices(ctx context.Context, configPath string, fn func(context.Context, *app.App, *service.Services) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Observability)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	repos := repository.NewRepositories(a)
	services := service.NewServices(a, repos)

	return fn(ctx, a, services)
}

// lineReader uses the terminal line editor for an interactive stdin and
// a plain stream reader for pipes and redirected input.
func lineReader(in io.Reader, out io.Writer) shell.LineReader {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK {
		return shell.NewLineReader(inFile, outFile)
	}
	return shell.NewStreamReader(in, out)
}

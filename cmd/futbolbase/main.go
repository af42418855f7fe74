package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/futbolcanario/futbolbase/internal/app"
	"github.com/futbolcanario/futbolbase/internal/config"
	"github.com/futbolcanario/futbolbase/internal/observability"
	"github.com/futbolcanario/futbolbase/internal/platform/logging"
	"github.com/futbolcanario/futbolbase/internal/usecase"
	"github.com/futbolcanario/futbolbase/internal/webapp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "futbolbase",
		Short:         "Youth football league data pipeline",
		Long:          "Scrapes league providers, reconciles results into Postgres and regenerates the static app's data files.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newScrapeCmd(),
		newImportCmd(),
		newProjectCmd(),
		newRunCmd(),
		newServeCmd(),
	)

	return root
}

// runtime bundles what every command needs: loaded config, the
// process logger and the observability teardown.
type runtime struct {
	cfg     config.Config
	logger  *logging.Logger
	cleanup func()
}

func bootstrap() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	pyroscopeStop, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uptraceShutdown(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
		if err := pyroscopeStop(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
		_ = logger.Sync()
	}

	return &runtime{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch provider data and reconcile it into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			ctx, stop := signalContext()
			defer stop()

			application, err := app.New(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Scrape.Run(ctx, application.Season(), application.TournamentSources())
			if err != nil {
				return err
			}
			logReport(rt.logger, "scrape finished", report)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var flagDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load previously generated data files into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			ctx, stop := signalContext()
			defer stop()

			application, err := app.New(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Import.ImportDir(ctx, flagDir, application.Season())
			if err != nil {
				return err
			}
			logReport(rt.logger, "import finished", report)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDir, "dir", ".", "Directory holding the data-*.js files to import")

	return cmd
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Regenerate the static app's data files from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			ctx, stop := signalContext()
			defer stop()

			application, err := app.New(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Projection.Generate(ctx, rt.cfg.OutputDir, rt.cfg.AppShellPath)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scrape providers and regenerate the data files in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			ctx, stop := signalContext()
			defer stop()

			application, err := app.New(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Scrape.Run(ctx, application.Season(), application.TournamentSources())
			if err != nil {
				return err
			}
			logReport(rt.logger, "scrape finished", report)

			return application.Projection.Generate(ctx, rt.cfg.OutputDir, rt.cfg.AppShellPath)
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated static app locally for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			server := webapp.NewServer(rt.cfg.ServeAddr, rt.cfg.OutputDir, rt.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			ctx, stop := signalContext()
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			rt.logger.Info("preview server stopped")
			return nil
		},
	}
}

func logReport(logger *logging.Logger, msg string, report usecase.ApplyReport) {
	logger.Info(msg,
		"groups", report.GroupsUpserted,
		"teams", report.TeamsUpserted,
		"standings_rows", report.StandingsRows,
		"matches_inserted", report.MatchesInserted,
		"scores_applied", report.ScoresApplied,
		"goals_inserted", report.GoalsInserted,
		"scorers_rows", report.ScorersRows,
		"rows_skipped", report.RowsSkipped,
	)
}

// Package main provides the entry point for the Superquote dashboard backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prencipemarco/superquote-web/internal/analysis"
	"github.com/prencipemarco/superquote-web/internal/api"
	"github.com/prencipemarco/superquote-web/internal/config"
	"github.com/prencipemarco/superquote-web/internal/database"
	"github.com/prencipemarco/superquote-web/internal/datasource"
	"github.com/prencipemarco/superquote-web/internal/ingest"
	"github.com/prencipemarco/superquote-web/internal/logger"
	"github.com/prencipemarco/superquote-web/internal/models"
	"github.com/prencipemarco/superquote-web/internal/repository"
	"github.com/prencipemarco/superquote-web/internal/scheduler"
	"github.com/prencipemarco/superquote-web/internal/service"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "superquote",
		Short:         "Personal betting-log dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to configuration file")

	root.AddCommand(newServeCmd(), newIngestCmd(), newAnalyzeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads config, secrets, and logging shared by every subcommand.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	return cfg, appLog, nil
}

func connect(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) (*database.DB, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	appLog.Info("Database connection established")
	return db, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLog, err := setup()
			if err != nil {
				return err
			}
			appLog.WithFields(logrus.Fields{
				"environment": cfg.App.Environment,
				"port":        cfg.Server.Port,
			}).Info("Superquote dashboard starting")

			ctx := cmd.Context()
			db, err := connect(ctx, cfg, appLog)
			if err != nil {
				return err
			}
			defer db.Close()

			matchRepo := repository.NewCachedMatchRepository(
				repository.NewPostgresMatchRepository(db),
				time.Duration(cfg.Analysis.CacheTTLSeconds)*time.Second,
			)
			playRepo := repository.NewPostgresPlayRepository(db)

			engine := analysis.NewEngine(matchRepo, appLog, analysis.Options{
				HomeAdvantage:       cfg.Analysis.HomeAdvantageElo,
				EdgeThreshold:       cfg.Analysis.EdgeThreshold,
				RecentFixturesLimit: cfg.Analysis.RecentFixturesLimit,
				RepositoryTimeout:   cfg.RepositoryTimeout(),
			})

			auth := api.NewAuthenticator(cfg.Auth.Password, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, appLog)
			server := api.NewServer(cfg, api.Deps{
				Auth:         auth,
				Engine:       engine,
				Plays:        service.NewPlayService(playRepo, appLog),
				Charts:       service.NewChartService(playRepo, appLog),
				ImportExport: service.NewImportExportService(playRepo, appLog),
				DB:           db,
			}, appLog)

			var sched *scheduler.Scheduler
			if cfg.Dataset.RefreshSchedule != "" && (cfg.Dataset.SourceURL != "" || cfg.Dataset.SourcePath != "") {
				sched = scheduler.NewScheduler(buildIngestion(cfg, matchRepo, db, appLog), appLog)
				if err := sched.ScheduleDatasetRefresh(cfg.Dataset.RefreshSchedule); err != nil {
					return err
				}
				sched.Start()
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				appLog.WithField("signal", sig.String()).Info("Shutting down")
			case err := <-errCh:
				return err
			}

			if sched != nil {
				sched.Stop()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func buildIngestion(cfg *config.Config, cache ingest.CacheFlusher, db *database.DB, appLog *logrus.Logger) *ingest.Service {
	var fetcher ingest.MatchFetcher
	if cfg.Dataset.SourcePath != "" {
		fetcher = datasource.NewLocalFileSource(cfg.Dataset.SourcePath, appLog)
	} else {
		httpCfg := datasource.DefaultHTTPClientConfig()
		if cfg.Dataset.RateLimit > 0 {
			httpCfg.RateLimit = cfg.Dataset.RateLimit
		}
		fetcher = datasource.NewFootballDataClient(
			datasource.NewRateLimitedHTTPClient(httpCfg, appLog),
			cfg.Dataset.SourceURL,
			appLog,
		)
	}
	writer := repository.NewPostgresMatchRepository(db)
	return ingest.NewService(fetcher, writer, cache, appLog, cfg.Dataset.BatchSize)
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Download the historical match dataset and load it into the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLog, err := setup()
			if err != nil {
				return err
			}
			if cfg.Dataset.SourceURL == "" && cfg.Dataset.SourcePath == "" {
				return fmt.Errorf("neither dataset.source_url nor dataset.source_path is configured")
			}

			ctx := cmd.Context()
			db, err := connect(ctx, cfg, appLog)
			if err != nil {
				return err
			}
			defer db.Close()

			return buildIngestion(cfg, nil, db, appLog).Run(ctx)
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var price float64

	cmd := &cobra.Command{
		Use:   "analyze <home> <away> <category>",
		Short: "Run a single edge estimation from the command line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLog, err := setup()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := connect(ctx, cfg, appLog)
			if err != nil {
				return err
			}
			defer db.Close()

			engine := analysis.NewEngine(repository.NewPostgresMatchRepository(db), appLog, analysis.Options{
				HomeAdvantage:       cfg.Analysis.HomeAdvantageElo,
				EdgeThreshold:       cfg.Analysis.EdgeThreshold,
				RecentFixturesLimit: cfg.Analysis.RecentFixturesLimit,
				RepositoryTimeout:   cfg.RepositoryTimeout(),
			})

			query := models.Query{
				HomeTeam: args[0],
				AwayTeam: args[1],
				Category: models.OutcomeCategory(args[2]),
			}
			if cmd.Flags().Changed("price") {
				query.Price = &price
			}

			result, err := engine.RunQuery(ctx, query)
			if err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&price, "price", "p", 0, "bookmaker decimal price for the selection")
	return cmd
}

func printResult(cmd *cobra.Command, result *models.AnalysisResult) {
	out := cmd.OutOrStdout()
	if result.NoEncounters {
		fmt.Fprintf(out, "No head-to-head encounters found for %s vs %s\n",
			result.Query.HomeTeam, result.Query.AwayTeam)
		return
	}

	fmt.Fprintf(out, "Verdict: %s\n", result.Verdict)
	if result.HistoricalWinRate != nil {
		fmt.Fprintf(out, "Historical rate: %.1f%% over %d encounters\n", *result.HistoricalWinRate, result.SampleSize)
	}
	if result.EloProbability != nil {
		fmt.Fprintf(out, "Elo probability: %.1f%%\n", *result.EloProbability)
	}
	if result.RealProbability != nil {
		fmt.Fprintf(out, "Estimated probability: %.1f%%\n", *result.RealProbability)
	}
	if result.ImpliedProbability != nil {
		fmt.Fprintf(out, "Implied by price: %.1f%%\n", *result.ImpliedProbability)
	}
	if result.Edge != nil {
		fmt.Fprintf(out, "Edge: %+.1f points\n", *result.Edge)
	}
	for _, step := range result.Trace {
		fmt.Fprintf(out, "  - %s\n", step)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/fetch"
	"github.com/ballpark-labs/payrollscrape/internal/pipeline"
)

// newScrapeCmd creates the 'scrape' subcommand, which runs the full salary
// pipeline: index walk, per-team extraction, normalization, and export.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Runs the salary scrape pipeline",
		Long: `Fetches the configured payroll index page, follows every team link it
lists, extracts and normalizes each salary table, and writes the aggregated
dataset to the configured CSV artifact.`,

		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := pipeline.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load scrape config: %w", err)
	}

	fetcher, err := fetch.NewCollyFetcher(fetch.Config{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	engine, err := pipeline.NewEngine(
		cfg,
		fetcher,
		appInstance.GetArchive(),
		appInstance.GetDatabase(),
		appInstance.GetEvents(),
		logger,
	)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	summary, err := engine.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run scrape: %w", err)
	}

	logger.Info("Scrape command finished.",
		zap.String("run_id", summary.RunID),
		zap.Int("rows", summary.Rows),
		zap.String("output_path", summary.OutputPath),
	)
	return nil
}

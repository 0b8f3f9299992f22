package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/export"
	"github.com/ballpark-labs/payrollscrape/internal/fetch"
	"github.com/ballpark-labs/payrollscrape/internal/reference"
)

// newTeamsCmd creates the 'teams' subcommand, which builds the team
// reference dataset independently of the salary pipeline.
func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Builds the team reference dataset",
		Long: `Downloads the upstream team reference CSV, keeps the display name and
uppercase abbreviation columns, and writes them to the configured CSV
artifact.`,

		RunE: runTeamsCommand,
	}
}

func runTeamsCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := reference.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load reference config: %w", err)
	}

	fetcher, err := fetch.NewCollyFetcher(fetch.Config{
		UserAgent:      viper.GetString("scrape.user_agent"),
		RequestTimeout: viper.GetDuration("scrape.request_timeout"),
	}, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	teams, err := reference.Fetch(cmd.Context(), fetcher, cfg.SourceURL)
	if err != nil {
		return fmt.Errorf("build reference dataset: %w", err)
	}
	if err := export.WriteTeamsFile(cfg.OutputPath, teams); err != nil {
		return fmt.Errorf("export reference dataset: %w", err)
	}
	if err := appInstance.GetDatabase().LoadTeams(cmd.Context(), teams); err != nil {
		return fmt.Errorf("load reference dataset: %w", err)
	}

	logger.Info("Teams command finished.",
		zap.Int("teams", len(teams)),
		zap.String("output_path", cfg.OutputPath),
	)
	return nil
}

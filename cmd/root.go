// Package cmd defines and implements the CLI commands for the payrollscrape
// executable.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/app"
	"github.com/ballpark-labs/payrollscrape/internal/database"
	"github.com/ballpark-labs/payrollscrape/internal/logging"
	"github.com/ballpark-labs/payrollscrape/internal/queue"
	"github.com/ballpark-labs/payrollscrape/internal/storage"
	"github.com/ballpark-labs/payrollscrape/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface the commands use. Keeping it as an
// interface lets tests inject a mock app through the factory below.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetArchive() storage.Provider
	GetDatabase() database.Provider
	GetEvents() queue.Provider
}

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payrollscrape",
		Short: "Extracts and normalizes team salary tables into CSV datasets.",
		Long: `payrollscrape walks a payroll index page, follows each team link,
extracts the salary table behind it, and normalizes the rows into a single
CSV dataset tagged with team provenance. A companion command builds the
team reference dataset from its upstream CSV.`,

		// Runs after config is loaded but before the subcommand's RunE;
		// builds the service container and injects it into the context.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.payrollscrape.yaml)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newTeamsCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	logging.InitLogger()

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

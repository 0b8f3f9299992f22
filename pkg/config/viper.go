// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")                    // Current working directory
	viper.AddConfigPath("/etc/payrollscrape/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.payrollscrape") // User-specific configuration

	// --- Set Defaults ---
	const defaultUA = "payrollscrape/1.0 (+https://github.com/ballpark-labs/payrollscrape)"
	viper.SetDefault("scrape.index_url", "")
	viper.SetDefault("scrape.user_agent", defaultUA)
	viper.SetDefault("scrape.table_tag", "table")
	viper.SetDefault("scrape.table_class", "datatable")
	// The source layout places a blank separator row plus a placeholder row
	// between the header and the first real salary row.
	viper.SetDefault("scrape.skip_rows", 2)
	viper.SetDefault("scrape.team_code_pattern", `team=([A-Z]{3})`)
	viper.SetDefault("scrape.columns.player", "player")
	viper.SetDefault("scrape.columns.pos", "pos")
	viper.SetDefault("scrape.columns.salary", "salary")
	viper.SetDefault("scrape.concurrency", 1)
	viper.SetDefault("scrape.request_timeout", "15s")
	viper.SetDefault("scrape.output_path", "data/salaries.csv")

	viper.SetDefault("reference.source_url", "")
	viper.SetDefault("reference.output_path", "data/teams.csv")

	viper.SetDefault("database.provider", "noop")
	viper.SetDefault("database.postgres.dsn", "")
	viper.SetDefault("database.postgres.salary_table", "salaries")
	viper.SetDefault("database.postgres.team_table", "teams")
	viper.SetDefault("database.postgres.max_conns", 4)

	viper.SetDefault("archive.provider", "noop")
	viper.SetDefault("archive.fs.dir", "data/raw")
	viper.SetDefault("archive.gcs.bucket_name", "")

	viper.SetDefault("events.provider", "noop")
	viper.SetDefault("events.gcp.project_id", "")
	viper.SetDefault("events.gcp.topic_id", "")

	viper.SetDefault("ops.enabled", false)
	viper.SetDefault("ops.listen_addr", ":9090")

	// --- Environment Variables ---
	viper.SetEnvPrefix("PAYROLL") // e.g., PAYROLL_SCRAPE_INDEX_URL=...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

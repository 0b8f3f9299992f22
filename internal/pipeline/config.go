package pipeline

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/scrape"
)

// Config captures every configuration knob that influences a scrape run.
// All values originate from Viper so the pipeline can be configured via
// files, env vars, or CLI flags.
type Config struct {
	IndexURL        string
	UserAgent       string
	TableSelector   scrape.Selector
	SkipRows        int
	TeamCodePattern string
	Columns         normalize.Columns
	Concurrency     int
	RequestTimeout  time.Duration
	OutputPath      string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		IndexURL:  v.GetString("scrape.index_url"),
		UserAgent: v.GetString("scrape.user_agent"),
		TableSelector: scrape.Selector{
			Tag:   v.GetString("scrape.table_tag"),
			Class: v.GetString("scrape.table_class"),
		},
		SkipRows:        v.GetInt("scrape.skip_rows"),
		TeamCodePattern: v.GetString("scrape.team_code_pattern"),
		Columns: normalize.Columns{
			Player: v.GetString("scrape.columns.player"),
			Pos:    v.GetString("scrape.columns.pos"),
			Salary: v.GetString("scrape.columns.salary"),
		},
		Concurrency:    v.GetInt("scrape.concurrency"),
		RequestTimeout: v.GetDuration("scrape.request_timeout"),
		OutputPath:     v.GetString("scrape.output_path"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.IndexURL == "" {
		return fmt.Errorf("scrape.index_url must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scrape.user_agent must be set")
	}
	if c.TableSelector.Tag == "" {
		return fmt.Errorf("scrape.table_tag must be set")
	}
	if c.SkipRows < 0 {
		return fmt.Errorf("scrape.skip_rows must be >= 0")
	}
	if c.TeamCodePattern == "" {
		return fmt.Errorf("scrape.team_code_pattern must be set")
	}
	if c.Columns.Player == "" || c.Columns.Pos == "" || c.Columns.Salary == "" {
		return fmt.Errorf("scrape.columns.player, .pos, and .salary must all be set")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("scrape.concurrency must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scrape.request_timeout must be > 0")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scrape.output_path must be set")
	}
	return nil
}

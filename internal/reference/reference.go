// Package reference builds the team reference dataset (display name plus
// 3-letter abbreviation) from its fixed upstream CSV. It has no dependency
// on the scrape pipeline and may run in any order relative to it.
package reference

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/ballpark-labs/payrollscrape/internal/fetch"
)

// TeamEntry pairs a team's display name with its uppercase abbreviation.
type TeamEntry struct {
	Name string
	Code string
}

// Config controls the reference mini-pipeline.
type Config struct {
	SourceURL  string
	OutputPath string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		SourceURL:  v.GetString("reference.source_url"),
		OutputPath: v.GetString("reference.output_path"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration.
func (c Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("reference.source_url must be set")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("reference.output_path must be set")
	}
	return nil
}

// Fetch downloads and parses the upstream reference CSV.
func Fetch(ctx context.Context, fetcher fetch.Fetcher, url string) ([]TeamEntry, error) {
	page, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch reference csv: %w", err)
	}
	teams, err := Parse(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse reference csv from %s: %w", url, err)
	}
	return teams, nil
}

// Parse reads the headerless 3-column upstream CSV (name, code, roster url).
// Only the first two columns survive; codes are uppercased.
func Parse(r io.Reader) ([]TeamEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var teams []TeamEntry
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference row %d: %w", line+1, err)
		}
		line++
		if len(row) < 2 {
			return nil, fmt.Errorf("reference row %d: want at least 2 columns, got %d", line, len(row))
		}
		teams = append(teams, TeamEntry{
			Name: strings.TrimSpace(row[0]),
			Code: strings.ToUpper(strings.TrimSpace(row[1])),
		})
	}
	return teams, nil
}

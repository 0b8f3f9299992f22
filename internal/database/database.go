// Package database defines the interface for loading scraped datasets into
// the relational destination. The abstraction decouples the pipeline from a
// specific database implementation, allowing a no-op provider for dry runs
// and tests. Schema creation is owned by the destination, not this layer.
package database

import (
	"context"

	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/reference"
)

// Provider defines the common interface for the database layer.
type Provider interface {
	// LoadSalaries inserts the normalized salary records.
	LoadSalaries(ctx context.Context, records []normalize.SalaryRecord) error

	// LoadTeams upserts the team reference rows, keyed by abbreviation.
	LoadTeams(ctx context.Context, teams []reference.TeamEntry) error

	// Close terminates the database connection and releases resources.
	Close() error
}

// NoOpProvider is a database provider that performs no operations. It is
// the default when no relational destination is configured.
type NoOpProvider struct{}

// LoadSalaries for NoOpProvider does nothing and returns no error.
func (n *NoOpProvider) LoadSalaries(_ context.Context, _ []normalize.SalaryRecord) error {
	return nil
}

// LoadTeams for NoOpProvider does nothing and returns no error.
func (n *NoOpProvider) LoadTeams(_ context.Context, _ []reference.TeamEntry) error {
	return nil
}

// Close for NoOpProvider does nothing and returns no error.
func (n *NoOpProvider) Close() error { return nil }

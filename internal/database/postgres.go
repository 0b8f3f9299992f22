package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/reference"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool used for loads.
type PostgresConfig struct {
	DSN         string
	SalaryTable string
	TeamTable   string
	MaxConns    int32
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresProvider loads datasets into Postgres via pgx.
type PostgresProvider struct {
	pool        execCloser
	salaryTable string
	teamTable   string
}

// NewPostgresProvider creates a Postgres-backed Provider using the given config.
func NewPostgresProvider(ctx context.Context, cfg PostgresConfig) (*PostgresProvider, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.postgres.dsn is required")
	}
	salaryTable, teamTable, err := resolveTables(cfg.SalaryTable, cfg.TeamTable)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresProvider{
		pool:        pool,
		salaryTable: salaryTable,
		teamTable:   teamTable,
	}, nil
}

// NewPostgresProviderWithPool constructs a provider from an existing pool
// (primarily for testing).
func NewPostgresProviderWithPool(pool execCloser, salaryTable, teamTable string) (*PostgresProvider, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	salaryTable, teamTable, err := resolveTables(salaryTable, teamTable)
	if err != nil {
		return nil, err
	}
	return &PostgresProvider{pool: pool, salaryTable: salaryTable, teamTable: teamTable}, nil
}

func resolveTables(salaryTable, teamTable string) (string, string, error) {
	if salaryTable == "" {
		salaryTable = "salaries"
	}
	if teamTable == "" {
		teamTable = "teams"
	}
	for _, table := range []string{salaryTable, teamTable} {
		if !validTableName.MatchString(table) {
			return "", "", fmt.Errorf("invalid table name %q", table)
		}
	}
	return salaryTable, teamTable, nil
}

// LoadSalaries inserts every record into the salary table. The salary value
// stays a string end to end; Postgres performs the final numeric coercion
// and rejects what it cannot represent.
func (p *PostgresProvider) LoadSalaries(ctx context.Context, records []normalize.SalaryRecord) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("postgres provider is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (player_name, pos, salary_usd, team)
VALUES ($1, $2, $3::numeric::money, $4)
`, p.salaryTable)
	for _, rec := range records {
		if _, err := p.pool.Exec(ctx, query, rec.Player, rec.Pos, rec.Salary, rec.Team); err != nil {
			return fmt.Errorf("insert salary row for %q (%s): %w", rec.Player, rec.Team, err)
		}
	}
	return nil
}

// LoadTeams upserts the reference rows keyed by abbreviation.
func (p *PostgresProvider) LoadTeams(ctx context.Context, teams []reference.TeamEntry) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("postgres provider is not configured")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (team_name, abbreviation)
VALUES ($1, $2)
ON CONFLICT (abbreviation) DO UPDATE SET team_name = EXCLUDED.team_name
`, p.teamTable)
	for _, team := range teams {
		if _, err := p.pool.Exec(ctx, query, team.Name, team.Code); err != nil {
			return fmt.Errorf("upsert team %q: %w", team.Code, err)
		}
	}
	return nil
}

// Close releases the underlying pool resources.
func (p *PostgresProvider) Close() error {
	if p == nil || p.pool == nil {
		return nil
	}
	p.pool.Close()
	return nil
}

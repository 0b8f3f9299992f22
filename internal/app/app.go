// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/api"
	"github.com/ballpark-labs/payrollscrape/internal/database"
	"github.com/ballpark-labs/payrollscrape/internal/logging"
	"github.com/ballpark-labs/payrollscrape/internal/queue"
	"github.com/ballpark-labs/payrollscrape/internal/storage"
)

// App holds the shared, long-lived services: logger, raw-page archive,
// relational destination, and event publisher. It is initialized once at
// startup and handed to the commands that need it.
type App struct {
	logger   *zap.Logger
	archive  storage.Provider
	database database.Provider
	events   queue.Provider
	ops      *http.Server
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetArchive exposes the configured raw-page archive provider.
func (a *App) GetArchive() storage.Provider {
	return a.archive
}

// GetDatabase provides access to the relational destination provider.
func (a *App) GetDatabase() database.Provider {
	return a.database
}

// GetEvents returns the provider used to publish run summaries.
func (a *App) GetEvents() queue.Provider {
	return a.events
}

// NewApp creates and initializes an App from the application's
// configuration. It reads provider selections from Viper and instantiates
// the matching implementations, failing fast when a selected provider
// cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	archive, err := newArchiveProvider(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("initialize archive: %w", err)
	}

	db, err := newDatabaseProvider(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	events, err := newEventsProvider(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("initialize events: %w", err)
	}

	a := &App{
		logger:   l,
		archive:  archive,
		database: db,
		events:   events,
	}

	if viper.GetBool("ops.enabled") {
		a.ops = &http.Server{
			Addr:              viper.GetString("ops.listen_addr"),
			Handler:           api.NewServer().Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			l.Info("Starting ops server", zap.String("addr", a.ops.Addr))
			if err := a.ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Error("Ops server failed", zap.Error(err))
			}
		}()
	}

	l.Info("Application services initialized successfully.")
	return a, nil
}

func newArchiveProvider(ctx context.Context, l *zap.Logger) (storage.Provider, error) {
	switch provider := viper.GetString("archive.provider"); provider {
	case "gcs":
		bucketName := viper.GetString("archive.gcs.bucket_name")
		if bucketName == "" {
			return nil, fmt.Errorf("archive provider is 'gcs' but archive.gcs.bucket_name is not set")
		}
		l.Info("Using GCS archive provider", zap.String("bucket", bucketName))
		return storage.NewGCSProvider(ctx, bucketName)
	case "fs":
		dir := viper.GetString("archive.fs.dir")
		l.Info("Using filesystem archive provider", zap.String("dir", dir))
		return storage.NewFSProvider(dir)
	case "noop":
		l.Info("Using No-Op archive provider. Raw snapshots will be discarded.")
		return &storage.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", provider)
	}
}

func newDatabaseProvider(ctx context.Context, l *zap.Logger) (database.Provider, error) {
	switch provider := viper.GetString("database.provider"); provider {
	case "postgres":
		cfg := database.PostgresConfig{
			DSN:         viper.GetString("database.postgres.dsn"),
			SalaryTable: viper.GetString("database.postgres.salary_table"),
			TeamTable:   viper.GetString("database.postgres.team_table"),
			MaxConns:    viper.GetInt32("database.postgres.max_conns"),
		}
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database provider is 'postgres' but database.postgres.dsn is not set")
		}
		l.Info("Connecting to PostgreSQL...")
		return database.NewPostgresProvider(ctx, cfg)
	case "noop":
		l.Info("Using No-Op database provider. Datasets will not be loaded.")
		return &database.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown database provider: %s", provider)
	}
}

func newEventsProvider(ctx context.Context, l *zap.Logger) (queue.Provider, error) {
	switch provider := viper.GetString("events.provider"); provider {
	case "pubsub":
		projectID := viper.GetString("events.gcp.project_id")
		topicID := viper.GetString("events.gcp.topic_id")
		if projectID == "" || topicID == "" {
			return nil, fmt.Errorf("events provider is 'pubsub' but project_id or topic_id is not set")
		}
		l.Info("Connecting to GCP Pub/Sub", zap.String("topic", topicID))
		return queue.NewPubSubProvider(ctx, projectID, topicID)
	case "noop":
		l.Info("Using No-Op events provider. No run summaries will be published.")
		return &queue.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown events provider: %s", provider)
	}
}

// Close gracefully shuts down all services in the App container. It is
// called by a Cobra hook after the command finishes execution.
func (a *App) Close() {
	a.logger.Info("Shutting down application services...")
	if a.ops != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.ops.Shutdown(ctx); err != nil {
			a.logger.Warn("Error shutting down ops server", zap.Error(err))
		}
	}
	if err := a.database.Close(); err != nil {
		a.logger.Warn("Error closing database connection", zap.Error(err))
	}
	if err := a.events.Close(); err != nil {
		a.logger.Warn("Error closing events client", zap.Error(err))
	}
	// The archive providers hold no connection state that needs closing.

	// Best effort; syncing stderr fails on some platforms.
	_ = a.logger.Sync()
}

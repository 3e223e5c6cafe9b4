// Package bootstrap builds the dependencies shared by the CLI commands and
// the preview server.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/UtsavYadav1/CareerBERT/internal/apiclient"
	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/queue"
	"github.com/UtsavYadav1/CareerBERT/internal/server"
	"github.com/UtsavYadav1/CareerBERT/internal/services/health"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object"
	localstore "github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/local"
	s3store "github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/s3"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config  config.Config
	Client  *apiclient.Client
	DB      *sql.DB
	Store   object.Store
	History history.Repo
	// Events is nil when no queue is configured.
	Events queue.Client
}

// Build prepares the backend client, report archive and history repository.
// opts sizes the database pool when DATABASE_URL is set.
func Build(ctx context.Context, cfg config.Config, opts db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	client, err := apiclient.New(cfg.BaseURL, cfg.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	var events queue.Client
	if cfg.SQSQueueURL != "" {
		sqsClient, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.SQSQueueURL)
		if err != nil {
			if sqlDB != nil {
				sqlDB.Close()
			}
			return nil, fmt.Errorf("analysis events: %w", err)
		}
		events = sqsClient
	}

	app := &App{
		Config: cfg,
		Client: client,
		DB:     sqlDB,
		Store:  store,
		Events: events,
	}
	if sqlDB != nil {
		app.History = &history.PGRepo{DB: sqlDB}
	} else {
		app.History = history.NewMemoryRepo()
	}

	telemetry.Debug("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"base_url":     cfg.BaseURL,
		"object_store": cfg.ObjectStoreType,
		"history":      historyKind(sqlDB),
		"events":       events != nil,
	})
	return app, nil
}

// ServerDeps wires the preview server to this app.
func (a *App) ServerDeps() server.Deps {
	return server.Deps{
		Results: a.Client,
		Reports: a.Client,
		Store:   a.Store,
		History: a.History,
		Health:  health.NewService(a.DB),
	}
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.migrations_failed", map[string]any{"error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.DownloadDir), nil
	}
}

func historyKind(sqlDB *sql.DB) string {
	if sqlDB != nil {
		return "postgres"
	}
	return "memory"
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package main

// Apply the analysis history schema:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultCLIOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}

package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/config"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/db"
	localstore "github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object/local"
)

func TestBuildWithoutDatabaseUsesMemory(t *testing.T) {
	cfg := config.Config{
		BaseURL:         "http://127.0.0.1:5000",
		HTTPTimeout:     time.Second,
		DownloadDir:     t.TempDir(),
		ObjectStoreType: "local",
	}
	app, err := Build(context.Background(), cfg, db.DefaultCLIOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.History.(*history.MemoryRepo); !ok {
		t.Fatalf("expected memory history, got %T", app.History)
	}
	if _, ok := app.Store.(*localstore.Store); !ok {
		t.Fatalf("expected local store, got %T", app.Store)
	}
	if app.Config.Env != "dev" || app.Client.BaseURL() != cfg.BaseURL {
		t.Fatalf("unexpected app %+v", app.Config)
	}
	if app.Events != nil {
		t.Fatalf("expected no event publisher without a queue url")
	}

	deps := app.ServerDeps()
	if deps.Results == nil || deps.Reports == nil || deps.Store != app.Store || deps.Health == nil {
		t.Fatalf("unexpected server deps %+v", deps)
	}
	if st := deps.Health.Status(context.Background()); !st.OK {
		t.Fatalf("expected healthy status without a database, got %+v", st)
	}
}

func TestBuildProductionRequiresReachableDatabase(t *testing.T) {
	cfg := config.Config{
		Env:         "prod",
		BaseURL:     "http://127.0.0.1:5000",
		HTTPTimeout: time.Second,
		DownloadDir: t.TempDir(),
		DatabaseURL: "postgres://nobody@127.0.0.1:1/none?connect_timeout=1",
	}
	opts := db.DefaultCLIOptions()
	opts.PingTimeout = 500 * time.Millisecond
	if _, err := Build(context.Background(), cfg, opts); err == nil {
		t.Fatalf("expected unreachable database to fail outside dev")
	}
}

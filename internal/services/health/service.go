// Package health reports whether the preview server's dependencies are usable.
package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Status is the /health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a health service. A nil db reports the database as disabled.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status pings the history database when one is configured.
func (s *Service) Status(ctx context.Context) Status {
	if s.db == nil {
		return Status{OK: true, Database: "disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return Status{OK: false, Database: "down"}
	}
	return Status{OK: true, Database: "up"}
}

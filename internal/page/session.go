// Package page owns the lifetime of one visited page: its scheduler, its
// alerts, the cached results and the banner guard.
package page

import (
	"strings"

	"github.com/google/uuid"

	"github.com/UtsavYadav1/CareerBERT/internal/alerts"
	"github.com/UtsavYadav1/CareerBERT/internal/results"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// Route is the kind of page a path shows.
type Route int

const (
	RouteUpload Route = iota
	RouteResults
	RouteResultsPage
)

func (r Route) String() string {
	switch r {
	case RouteResults:
		return "results"
	case RouteResultsPage:
		return "results-page"
	default:
		return "upload"
	}
}

// RouteFor classifies a path. "/results-page" fetches results; any other
// path containing "/results" renders with defaults.
func RouteFor(path string) Route {
	switch {
	case strings.Contains(path, "/results-page"):
		return RouteResultsPage
	case strings.Contains(path, "/results"):
		return RouteResults
	default:
		return RouteUpload
	}
}

// Session is created on page entry and closed on navigation.
type Session struct {
	ID     string
	Path   string
	Route  Route
	Sched  *sched.Scheduler
	Alerts *alerts.Notifier
	Guard  *view.BannerGuard

	cached *results.Results
}

// NewSession enters path. A nil clock uses wall time; a nil sink only logs alerts.
func NewSession(path string, clock sched.Clock, sink alerts.Sink) *Session {
	s := sched.New(clock)
	sess := &Session{
		ID:     uuid.NewString(),
		Path:   path,
		Route:  RouteFor(path),
		Sched:  s,
		Alerts: alerts.New(s, sink),
		Guard:  &view.BannerGuard{},
	}
	telemetry.Debug("page.enter", map[string]any{"session_id": sess.ID, "path": path, "route": sess.Route.String()})
	return sess
}

// Cached returns the last fetched results, or nil. Call from scheduler callbacks.
func (s *Session) Cached() *results.Results { return s.cached }

// Cache stores r, replacing any earlier fetch. Call from scheduler callbacks.
func (s *Session) Cache(r results.Results) { s.cached = &r }

// Close tears the page down, cancelling every timer it owns.
func (s *Session) Close() {
	if s.Sched.Closed() {
		return
	}
	s.Sched.Close()
	telemetry.Debug("page.leave", map[string]any{"session_id": s.ID, "path": s.Path})
}

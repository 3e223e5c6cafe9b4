// Package server is the local preview server: it replays results page
// sessions and renders them as HTML.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/UtsavYadav1/CareerBERT/internal/chart"
	"github.com/UtsavYadav1/CareerBERT/internal/history"
	"github.com/UtsavYadav1/CareerBERT/internal/page"
	"github.com/UtsavYadav1/CareerBERT/internal/report"
	"github.com/UtsavYadav1/CareerBERT/internal/services/health"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/server/middleware"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/storage/object"
)

// Deps are the collaborators the preview server calls.
type Deps struct {
	Results page.Fetcher
	Reports report.Fetcher
	Store   object.Store
	History history.Repo
	Health  *health.Service
}

// Server renders results pages and serves their charts.
type Server struct {
	deps    Deps
	surface *chart.MemorySurface
	charts  *chart.Echarts
}

// New builds a server with an empty chart surface.
func New(deps Deps) *Server {
	if deps.Health == nil {
		deps.Health = health.NewService(nil)
	}
	surface := chart.NewMemorySurface()
	return &Server{deps: deps, surface: surface, charts: chart.NewEcharts(surface)}
}

// NewEngine builds the gin engine with routes registered.
func NewEngine(s *Server) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)
	registerRoutes(engine, s)
	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8090"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

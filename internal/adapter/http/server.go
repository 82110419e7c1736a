// Package http serves the surf-buddy JSON API alongside the health,
// readiness and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/surf-buddy/internal/advisor"
	"github.com/couchcryptid/surf-buddy/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Advisor renders recommendation views.
type Advisor interface {
	Advise(ctx context.Context, req advisor.Request) (domain.View, error)
}

// Locator resolves position fixes per session.
type Locator interface {
	Locate(ctx context.Context, sessionID string, lat, lon float64) (advisor.Location, error)
}

// BuoySource reads NDBC observations and names the file it read.
type BuoySource interface {
	domain.ObservationSource
	StationURL(station string) string
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Advisor        Advisor
	Locator        Locator
	Buoys          BuoySource
	Marine         domain.MarineSource
	Weather        domain.WeatherSource
	Geocoder       domain.Geocoder
	Ready          sharedobs.ReadinessChecker
	DefaultStation string
}

// Server exposes the API plus /healthz, /readyz, and /metrics.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with every route registered.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	if deps.DefaultStation == "" {
		deps.DefaultStation = domain.DefaultStation
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/marine", s.handleMarine)
	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("GET /api/reverse", s.handleReverse)
	mux.HandleFunc("GET /api/spots", s.handleSpots)
	mux.HandleFunc("GET /api/recommend", s.handleRecommend)
	mux.HandleFunc("POST /api/locate", s.handleLocate)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

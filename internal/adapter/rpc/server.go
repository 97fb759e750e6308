// Package rpc exposes the query operations over a JSON-RPC style HTTP
// endpoint, plus health and metrics routes.
package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/typhoon-info-service/internal/observability"
	"github.com/couchcryptid/typhoon-info-service/internal/service"
)

// QueryService is the aggregation surface the dispatcher calls into.
type QueryService interface {
	LiveSummary(ctx context.Context, location string) (*service.LiveSummary, error)
	SearchPastTyphoons(ctx context.Context, query string, year *int) (*service.SearchResult, error)
	PastTrack(ctx context.Context, seq int, fromDate, toDate string) (*service.TrackResult, error)
}

// Server exposes the RPC endpoint with health and metrics routes.
type Server struct {
	httpServer *http.Server
	svc        QueryService
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /rpc, /healthz, and /metrics routes.
// allowedOrigins configures the CORS middleware; an empty list allows any origin.
func NewServer(addr string, svc QueryService, allowedOrigins []string, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s := &Server{
		svc:     svc,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Mcp-Session-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/rpc", s.handleRPC)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

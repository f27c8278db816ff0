package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	applog "gestor/internal/log"
	"gestor/internal/middleware/ratelimit"
	"gestor/internal/middleware/security"
	"gestor/internal/middleware/trace"
	"gestor/internal/services"
)

// Server wires the business services behind the JSON API. Every route
// goes through the trace, rate limit and security header middleware.
type Server struct {
	httpServer *http.Server

	costs    *services.CostService
	reports  *services.ReportService
	billing  *services.BillingService
	importer *services.ImportService

	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// Config holds the server wiring.
type Config struct {
	Port              string
	RequestsPerMinute int

	Costs    *services.CostService
	Reports  *services.ReportService
	Billing  *services.BillingService
	Importer *services.ImportService
}

// NewServer builds the API server with its full middleware chain.
func NewServer(cfg Config) *Server {
	s := &Server{
		costs:    cfg.Costs,
		reports:  cfg.Reports,
		billing:  cfg.Billing,
		importer: cfg.Importer,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RequestsPerMinute,
		}),
	}

	extractIP := security.NewClientIPExtractor().Extract
	traceMW := trace.NewMiddleware(extractIP)
	s.tracer = traceMW
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(extractIP)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("PUT /costs", s.handleSaveCost)
	mux.HandleFunc("GET /costs", s.handleListCosts)
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("GET /reports/annual", s.handleAnnualReport)

	mux.HandleFunc("POST /contracts", s.handleCreateContract)
	mux.HandleFunc("GET /contracts", s.handleListContracts)
	mux.HandleFunc("GET /contracts/{id}", s.handleGetContract)
	mux.HandleFunc("POST /contracts/{id}/adjustments", s.handleApplyAdjustment)
	mux.HandleFunc("GET /contracts/{id}/adjustments", s.handleListAdjustments)
	mux.HandleFunc("POST /contracts/{id}/proration-preview", s.handleProrationPreview)

	mux.HandleFunc("POST /import/costs", s.handleImportCosts)

	requestLogger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentHTTP,
	})

	handler := limitMW(headersMW.Middleware(mux))
	handler = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = traceMW.Middleware(handler)
	handler = applog.Middleware(requestLogger)(handler)

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

// handleMetrics exposes plain text counters for scraping.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "gestor_http_requests_total %d\n", m.TotalRequests)
	fmt.Fprintf(w, "gestor_http_last_latency_ms %d\n", m.LastLatencyMs)
	fmt.Fprintf(w, "gestor_ratelimit_active_clients %d\n", s.limiter.ActiveClients())
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	NewResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/analysis"
	"github.com/prencipemarco/superquote-web/internal/config"
	"github.com/prencipemarco/superquote-web/internal/database"
	"github.com/prencipemarco/superquote-web/internal/metrics"
	"github.com/prencipemarco/superquote-web/internal/service"
)

// Server is the dashboard HTTP server.
type Server struct {
	httpServer   *http.Server
	logger       *logrus.Logger
	auth         *Authenticator
	engine       *analysis.Engine
	debounce     time.Duration
	plays        *service.PlayService
	charts       *service.ChartService
	importExport *service.ImportExportService
	db           *database.DB
}

// Deps bundles the server's collaborators.
type Deps struct {
	Auth         *Authenticator
	Engine       *analysis.Engine
	Plays        *service.PlayService
	Charts       *service.ChartService
	ImportExport *service.ImportExportService
	DB           *database.DB
}

// NewServer creates the dashboard server with all routes registered
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{
		logger:       logger,
		auth:         deps.Auth,
		engine:       deps.Engine,
		debounce:     cfg.DebounceWindow(),
		plays:        deps.Plays,
		charts:       deps.Charts,
		importExport: deps.ImportExport,
		db:           deps.DB,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	mux.HandleFunc("POST /api/login", s.handleLogin)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /api/logout", s.handleLogout)
	protected.HandleFunc("GET /api/plays", s.handleListPlays)
	protected.HandleFunc("POST /api/plays", s.handleCreatePlay)
	protected.HandleFunc("PUT /api/plays/{id}", s.handleUpdatePlay)
	protected.HandleFunc("DELETE /api/plays/{id}", s.handleDeletePlay)
	protected.HandleFunc("GET /api/charts/balance", s.handleBalanceChart)
	protected.HandleFunc("GET /api/charts/outcomes", s.handleOutcomeChart)
	protected.HandleFunc("GET /api/charts/monthly", s.handleMonthlyChart)
	protected.HandleFunc("GET /api/export/json", s.handleExportJSON)
	protected.HandleFunc("GET /api/export/csv", s.handleExportCSV)
	protected.HandleFunc("POST /api/import/json", s.handleImportJSON)
	protected.HandleFunc("GET /api/analyze", s.handleAnalyzeWS)
	mux.Handle("/api/", s.auth.Middleware(protected))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	return s
}

// Start blocks serving requests until the server is shut down
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Dashboard server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

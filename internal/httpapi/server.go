// Package httpapi is the orchestration layer: it parses inbound
// parameters, applies defaults, invokes the tracker service and wraps its
// output in JSON envelopes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

// JobService is the slice of the tracker service the HTTP layer needs.
type JobService interface {
	SearchJobs(ctx context.Context, keyword string, limit int) ([]core.Posting, error)
	CategoryJobs(ctx context.Context, categoryID string, limit int) ([]core.Posting, error)
	BatchSearch(ctx context.Context, keywords []string, limit int) ([]core.BatchItem, error)
	GenerateProposal(ctx context.Context, req core.ProposalRequest) (*core.ProposalResult, error)
	ResetCache()
}

// Server is the HTTP server for the tracker API.
type Server struct {
	svc          JobService
	logger       *zap.Logger
	httpServer   *http.Server
	corsOrigins  []string
	defaultLimit int
	maxBatch     int
}

// NewServer creates a new API server.
func NewServer(cfg *config.Config, svc JobService, logger *zap.Logger) *Server {
	serverCfg := cfg.GetServer()
	searchCfg := cfg.GetSearch()

	s := &Server{
		svc:          svc,
		logger:       logger,
		corsOrigins:  serverCfg.CORSOrigins,
		defaultLimit: searchCfg.DefaultLimit,
		maxBatch:     searchCfg.MaxBatchKeywords,
	}
	s.httpServer = &http.Server{
		Addr:         serverCfg.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/jobs/search", s.handleSearch)
		r.Get("/jobs/category/{id}", s.handleCategory)
		r.Post("/jobs/batch", s.handleBatch)
		r.Post("/proposals/generate", s.handleProposal)
		r.Post("/admin/cache/clear", s.handleCacheClear)
	})
	return r
}

// Start begins serving in a background goroutine.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("address", s.httpServer.Addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

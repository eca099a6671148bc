// Package server exposes claim analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/veracity/internal/logging"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/model"
)

// Analyzer is the pipeline as seen by the HTTP layer
type Analyzer interface {
	AnalyzeClaim(ctx context.Context, raw string) (*model.Analysis, error)
	Collectors() []string
}

// Server is the HTTP endpoint with lifecycle management
type Server struct {
	router *gin.Engine
	server *http.Server
	log    logging.Logger
	config model.ServerConfig
}

// New creates a server. Set the gin mode before calling.
func New(cfg model.ServerConfig, analyzer Analyzer, log logging.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logging.NewNop()
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))

	h := &handler{analyzer: analyzer, timeout: cfg.RequestTimeout, maxBody: cfg.MaxBodyBytes}
	router.POST("/analyze", h.analyze)
	router.GET("/healthz", h.health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log:    log,
		config: cfg,
	}
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", logging.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
	}

	// The parent context is already done, so shutdown needs its own deadline
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

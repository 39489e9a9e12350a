// Package server implements the HTTP transport of the indexer: it routes
// requests to the listing resolver, the thumbnail service or raw file
// serving, and renders the results with the embedded templates.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/webindexer/webindexer/internal/logger"
	"github.com/webindexer/webindexer/internal/ratelimiter"
	"github.com/webindexer/webindexer/pkg/config"
	"github.com/webindexer/webindexer/pkg/index"
	"github.com/webindexer/webindexer/pkg/metrics"
	"github.com/webindexer/webindexer/pkg/thumbs"
)

//go:embed templates/*.htm
var templateFS embed.FS

// Server serves directory listings over HTTP.
type Server struct {
	cfg       *config.Config
	resolver  *index.Resolver
	thumbs    *thumbs.Service
	metrics   metrics.HTTPMetrics
	limiter   *ratelimiter.ClientLimiter
	templates *template.Template

	server       *http.Server
	shutdownOnce sync.Once
}

// New creates the HTTP server. thumbSvc may be nil when thumbnails are
// disabled; httpMetrics may be nil for no-op metrics.
func New(cfg *config.Config, resolver *index.Resolver, thumbSvc *thumbs.Service, httpMetrics metrics.HTTPMetrics) (*Server, error) {
	if httpMetrics == nil {
		httpMetrics = metrics.NoopHTTPMetrics{}
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.htm")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		resolver:  resolver,
		thumbs:    thumbSvc,
		metrics:   httpMetrics,
		templates: tmpl,
	}

	if rl := cfg.Server.RateLimit; rl.Enabled {
		s.limiter = ratelimiter.New(rl.RequestsPerSecond, rl.Burst)
	}

	s.server = &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: http.HandlerFunc(s.handle),
	}

	return s, nil
}

// Serve listens until the context is cancelled, then drains connections
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", s.cfg.Server.Listen)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	}
}

// Stop shuts the server down gracefully. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("http server shutdown error: %w", err)
		} else {
			logger.Info("HTTP server stopped")
		}
	})
	return shutdownErr
}

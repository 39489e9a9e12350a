package server

import (
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/webindexer/webindexer/internal/logger"
	"github.com/webindexer/webindexer/pkg/index"
	"github.com/webindexer/webindexer/pkg/thumbs"
)

// thumbPrefix is the URL namespace for generated thumbnails.
const thumbPrefix = "/.thumb/"

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handle is the catch-all route. Everything the server does hangs off the
// request path: thumbnails, raw files, and directory listings.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequestStart()
	defer s.metrics.RecordRequestEnd()

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	route := s.dispatch(rec, r)

	s.metrics.RecordRequest(route, rec.status, time.Since(start))
}

// dispatch routes one request and returns the route class for metrics.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) string {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "error"
	}

	if s.limiter != nil && !s.limiter.Allow(clientAddr(r)) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return "error"
	}

	if strings.HasPrefix(r.URL.Path, thumbPrefix) {
		s.handleThumbnail(w, r)
		return "thumb"
	}

	webPath := path.Clean("/" + r.URL.Path)
	localPath := filepath.Join(s.resolver.Root(), filepath.FromSlash(webPath))

	info, err := os.Stat(localPath)
	if err != nil {
		s.renderNotFound(w, r.URL.Path)
		return "notfound"
	}

	if !info.IsDir() {
		if filepath.Base(localPath) == index.DocumentName {
			s.renderAccessDenied(w, r.URL.Path)
			return "file"
		}
		http.ServeFile(w, r, localPath)
		return "file"
	}

	s.handleListing(w, r, webPath, localPath)
	return "listing"
}

// handleListing authenticates the visitor, resolves the listing and renders
// the index page.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request, webPath, localPath string) {
	cfg := s.resolver.ResolveConfig(localPath)

	identity, ok := s.authenticate(r, cfg)
	if !ok {
		requireLogin(w)
		return
	}

	req := index.ListingRequest{
		Directory: localPath,
		WebPath:   webPath,
		BaseURL:   s.baseURL(r),
		Identity:  identity,
	}

	// Query parameters override the resolved sort for this request only.
	// Invalid values are ignored.
	query := r.URL.Query()
	if style, err := index.ParseSortStyle(query.Get("sort_style")); err == nil && query.Has("sort_style") {
		req.SortStyle = &style
	}
	if dir, err := index.ParseSortDir(query.Get("sort_dir")); err == nil && query.Has("sort_dir") {
		req.SortDir = &dir
	}

	listing, err := s.resolver.List(req)
	if err != nil {
		if errors.Is(err, index.ErrNotFound) || errors.Is(err, index.ErrNotDirectory) {
			s.renderNotFound(w, r.URL.Path)
			return
		}
		if errors.Is(err, index.ErrForbidden) {
			s.renderAccessDenied(w, r.URL.Path)
			return
		}
		logger.Error("Listing %s failed: %v", localPath, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.renderListing(w, webPath, listing)
}

// handleThumbnail serves a cached thumbnail for the image below the
// /.thumb/ namespace.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	if s.thumbs == nil {
		http.NotFound(w, r)
		return
	}

	rel := path.Clean("/" + strings.TrimPrefix(r.URL.Path, thumbPrefix))
	localPath := filepath.Join(s.resolver.Root(), filepath.FromSlash(rel))

	data, err := s.thumbs.Render(localPath)
	if err != nil {
		if errors.Is(err, thumbs.ErrUnrenderable) {
			s.renderNotFound(w, r.URL.Path)
			return
		}
		logger.Error("Thumbnail %s failed: %v", localPath, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(data)
}

// baseURL derives the absolute base URL for generated links, preferring
// the configured external URL over the request host.
func (s *Server) baseURL(r *http.Request) string {
	if s.cfg.Server.BaseURL != "" {
		return strings.TrimRight(s.cfg.Server.BaseURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// clientAddr extracts the client host from the remote address for rate
// limiting. Ports vary between connections from the same host.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

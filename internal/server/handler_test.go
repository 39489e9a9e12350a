package server

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/webindexer/webindexer/pkg/config"
	"github.com/webindexer/webindexer/pkg/index"
	"github.com/webindexer/webindexer/pkg/thumbs"
)

func newTestServer(t *testing.T, root string, attrs index.AttributeStore, thumbSvc *thumbs.Service) *Server {
	t.Helper()

	if attrs == nil {
		attrs = index.NewMemoryAttributeStore()
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Listen:          ":0",
			Root:            root,
			Title:           "Test",
			ShutdownTimeout: time.Second,
		},
	}

	srv, err := New(cfg, index.NewResolver(root, attrs), thumbSvc, nil)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return srv
}

func get(srv *Server, target string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, fn := range setup {
		fn(req)
	}
	rec := httptest.NewRecorder()
	srv.handle(rec, req)
	return rec
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListingPage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "beta.txt"), "b")
	writeFile(t, filepath.Join(root, "alpha.txt"), "a")

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	alpha := strings.Index(body, "alpha.txt")
	beta := strings.Index(body, "beta.txt")
	if alpha < 0 || beta < 0 {
		t.Fatalf("expected both entries in body, got alpha=%d beta=%d", alpha, beta)
	}
	if alpha > beta {
		t.Error("expected alpha.txt before beta.txt under default name/asc sort")
	}
}

func TestListingSortOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "aaa.bin"), "1")
	writeFile(t, filepath.Join(root, "zzz.bin"), "123456")

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/?sort_style=size&sort_dir=desc")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if strings.Index(body, "zzz.bin") > strings.Index(body, "aaa.bin") {
		t.Error("expected the larger file first with size/desc override")
	}
}

func TestNotFoundPage(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), nil, nil)
	rec := get(srv, "/missing")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/missing") {
		t.Error("expected the requested path in the not-found page")
	}
}

func TestUnreadableDirectoryForbidden(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permissions")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/locked")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an unreadable directory, got %d", rec.Code)
	}
}

func TestRawFileServed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/notes.txt")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "hello" {
		t.Errorf("expected file content, got %q", rec.Body.String())
	}
}

func TestSettingsDocumentForbidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, index.DocumentName), `{}`)

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/"+index.DocumentName)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for the settings document, got %d", rec.Code)
	}
}

func TestBasicAuthChallenge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, index.DocumentName), `{"auth": ["alice:secret"]}`)

	srv := newTestServer(t, root, nil, nil)

	rec := get(srv, "/")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); !strings.Contains(got, "Basic") {
		t.Errorf("expected basic auth challenge, got %q", got)
	}

	rec = get(srv, "/", func(r *http.Request) { r.SetBasicAuth("alice", "wrong") })
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad credentials, got %d", rec.Code)
	}

	rec = get(srv, "/", func(r *http.Request) { r.SetBasicAuth("alice", "secret") })
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid credentials, got %d", rec.Code)
	}
}

func TestAuthFilteringHidesEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, index.DocumentName),
		`{"auth": ["alice:secret", "bob:hunter2"], "auth_filtering": true, "auth_default": "alice:bob"}`)
	writeFile(t, filepath.Join(root, "forall.txt"), "x")
	writeFile(t, filepath.Join(root, "private.txt"), "x")

	attrs := index.NewMemoryAttributeStore()
	attrs.Set(filepath.Join(root, "private.txt"), index.AttrAccess, "alice")

	srv := newTestServer(t, root, attrs, nil)

	rec := get(srv, "/", func(r *http.Request) { r.SetBasicAuth("bob", "hunter2") })
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "forall.txt") {
		t.Error("bob should see forall.txt")
	}
	if strings.Contains(body, "private.txt") {
		t.Error("bob should not see private.txt")
	}

	rec = get(srv, "/", func(r *http.Request) { r.SetBasicAuth("alice", "secret") })
	if !strings.Contains(rec.Body.String(), "private.txt") {
		t.Error("alice should see private.txt")
	}
}

func TestGalleryRendered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, index.DocumentName), `{"enable_galleries": true}`)
	writeFile(t, filepath.Join(root, "photo.png"), "not a real png")

	srv := newTestServer(t, root, nil, nil)
	rec := get(srv, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/.thumb/photo.png") {
		t.Error("expected a gallery thumbnail link for photo.png")
	}
}

func TestThumbnailDisabled(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), nil, nil)
	rec := get(srv, "/.thumb/photo.png")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with thumbnails disabled, got %d", rec.Code)
	}
}

func TestThumbnailServed(t *testing.T) {
	root := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(root, "photo.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	svc := thumbs.NewService(thumbs.NewMemoryCache(), 150, 85)
	srv := newTestServer(t, root, nil, svc)

	rec := get(srv, "/.thumb/photo.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", got)
	}

	rec = get(srv, "/.thumb/missing.png")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing source, got %d", rec.Code)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	root := t.TempDir()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Listen:          ":0",
			Root:            root,
			Title:           "Test",
			ShutdownTimeout: time.Second,
			RateLimit: config.RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 1,
				Burst:             2,
			},
		},
	}

	srv, err := New(cfg, index.NewResolver(root, index.NewMemoryAttributeStore()), nil, nil)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	for i := 0; i < 2; i++ {
		if rec := get(srv, "/"); rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst expected 200, got %d", i, rec.Code)
		}
	}

	if rec := get(srv, "/"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, t.TempDir(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	srv.handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	httpServer "github.com/Roofsimple/tech-custom-rss-feed/internal/transport/http"
)

func newTestServer(t *testing.T) (*httpServer.Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Settings: config.Settings{
			OutputDir:   dir,
			PreviewPort: "0",
		},
	}
	return httpServer.New(cfg), dir
}

func TestHandler_ReturnsOKAtHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("want status %d, got %d", http.StatusOK, resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"status":"ok"`) {
		t.Fatalf("want health body, got %q", resp.Body.String())
	}
}

func TestHandler_ServesRenderedDigestPage(t *testing.T) {
	t.Parallel()
	s, dir := newTestServer(t)
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>digest</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Handler().ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("want status %d, got %d", http.StatusOK, resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "digest") {
		t.Fatalf("want rendered page body, got %q", resp.Body.String())
	}
}

func TestHandler_ReturnsNotFoundGivenMissingFile(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing.html", nil)
	s.Handler().ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("want status %d, got %d", http.StatusNotFound, resp.Code)
	}
}

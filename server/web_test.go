package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/skylark-imaging/cubeview/browse"
)

func newTestWebServer(t *testing.T) *WebServer {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cube.dat"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seeding temp dir: %v", err)
	}
	policy := browse.NewStaticPermissionPolicy()
	fb := browse.NewFileBrowser(dir, "", policy, 1<<20)
	return NewWebServer(fb, NewAuthenticator(authConfig{}))
}

func TestHandleListReturnsEntries(t *testing.T) {
	ws := newTestWebServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/list?dir=", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success bool `json:"success"`
		Entries []struct {
			Name string `json:"Name"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Name != "cube.dat" {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
}

func TestHandleListUnauthorizedWithoutToken(t *testing.T) {
	dir := t.TempDir()
	policy := browse.NewStaticPermissionPolicy()
	fb := browse.NewFileBrowser(dir, "", policy, 1<<20)
	ws := NewWebServer(fb, NewAuthenticator(authConfig{SecretKey: "shh"}))

	req := httptest.NewRequest(http.MethodGet, "/api/list?dir=", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/skylark-imaging/cubeview/browse"
	"github.com/skylark-imaging/cubeview/cvlog"
)

// WebServer exposes the directory-listing/file-info side of the
// browse.FileBrowser over plain HTTP+JSON, CORS-wrapped with rs/cors
// the way dvid's web.go wraps mainHandler/apiHandler with goji
// middleware (spec.md §6 leaves this transport unspecified; browsers
// in a CARTA-style frontend expect ordinary XHR, not the binary
// session protocol).
type WebServer struct {
	browser *browse.FileBrowser
	auth    Authenticator
}

func NewWebServer(browser *browse.FileBrowser, auth Authenticator) *WebServer {
	return &WebServer{browser: browser, auth: auth}
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/list", ws.handleList)
	mux.HandleFunc("/api/info", ws.handleInfo)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-Api-Key"},
	})
	return c.Handler(mux)
}

func (ws *WebServer) authorize(w http.ResponseWriter, r *http.Request) bool {
	if ws.auth == nil || ws.auth.AuthorizeRequest(r) {
		return true
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
	return false
}

func (ws *WebServer) handleList(w http.ResponseWriter, r *http.Request) {
	if !ws.authorize(w, r) {
		return
	}
	dir := strings.TrimPrefix(r.URL.Query().Get("dir"), "/")
	entries, err := ws.browser.ListDirectory(dir)
	if err != nil {
		cvlog.Debugf("list %q failed: %v\n", dir, err)
		writeJSON(w, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, map[string]interface{}{"success": true, "directory": dir, "entries": entries})
}

func (ws *WebServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	if !ws.authorize(w, r) {
		return
	}
	dir := strings.TrimPrefix(r.URL.Query().Get("dir"), "/")
	file := r.URL.Query().Get("file")
	hdu := r.URL.Query().Get("hdu")
	info, err := ws.browser.FileInfo(dir, file, hdu)
	if err != nil {
		writeJSON(w, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		cvlog.Errorf("writing json response: %v\n", err)
	}
}

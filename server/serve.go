package server

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/skylark-imaging/cubeview/browse"
	"github.com/skylark-imaging/cubeview/codec"
	"github.com/skylark-imaging/cubeview/cvlog"
	"github.com/skylark-imaging/cubeview/pool"
)

// Serve wires config, auth, the browse.FileBrowser, the shared
// CompressionPool, the binary session transport, and the HTTP browse
// endpoints into one running process, the same shape as dvid.go's
// main() calling into command.DoCommand — trimmed to cubeview's single
// subcommand instead of DVID's serve/repair/about/etc. dispatch.
func Serve(cfg Config) error {
	SetupLogging(cfg.Logging)

	policy := browse.NewStaticPermissionPolicy()
	policy.Enabled = cfg.Permissions.Enabled
	for prefix, keys := range cfg.Permissions.Allowed {
		policy.Allowed[prefix] = keys
	}

	browser := browse.NewFileBrowser(cfg.Server.BaseFolder, cfg.Auth.StaticKey, policy, cfg.Cache.SizeBytes)

	workerCount := cfg.Server.Workers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	workers := pool.NewCompressionPool(pool.New(workerCount), codec.ZstdCompressor{})

	auth := NewAuthenticator(cfg.Auth)

	sessionServer := NewSessionServer(
		cfg.Server.SessionAddress,
		workers,
		browser,
		auth,
		time.Duration(cfg.Server.PingIntervalS)*time.Second,
	)

	errs := make(chan error, 2)
	go func() {
		errs <- sessionServer.ListenAndServe()
	}()
	go func() {
		errs <- serveWeb(cfg.Server.WebAddress, browser, auth)
	}()

	cvlog.Infof("cubeview serving sessions on %s, browse api on %s\n", cfg.Server.SessionAddress, cfg.Server.WebAddress)
	return <-errs
}

// serveWeb runs the CORS-wrapped browse HTTP server, bounding
// keep-alive connections the way dvid's ServeHttp comment calls out
// (stay-alive connections shouldn't hog goroutines indefinitely).
func serveWeb(addr string, browser *browse.FileBrowser, auth Authenticator) error {
	ws := NewWebServer(browser, auth)
	srv := &http.Server{
		Addr:        addr,
		Handler:     ws.Handler(),
		ReadTimeout: 1 * time.Hour,
	}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("web server on %s: %w", addr, err)
	}
	return nil
}

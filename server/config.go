// Package server wires cubeview's core (frame/region/reduce/session)
// into a runnable process: TOML configuration, JWT/static-key auth,
// the length-prefixed binary session transport, and the CORS-wrapped
// HTTP browse endpoints. Structured the way janelia-flyem/dvid's own
// server package separates config.go/auth.go/web.go.
package server

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/skylark-imaging/cubeview/cvlog"
)

// Config is the top-level TOML document, parsed once at startup by
// LoadConfig and passed by value to Serve (mirrors dvid's tomlConfig /
// LoadConfig split; there is no package-level config or accessor).
type Config struct {
	Server      serverConfig
	Auth        authConfig
	Logging     loggingConfig
	Compression compressionConfig
	Cache       cacheConfig
	Permissions permissionsConfig
}

type serverConfig struct {
	SessionAddress string `toml:"session_address"` // binary session transport, e.g. ":9002"
	WebAddress     string `toml:"web_address"`      // HTTP browse endpoints, e.g. ":9003"
	BaseFolder     string `toml:"base_folder"`
	PingIntervalS  int    `toml:"ping_interval_seconds"`
	Workers        int    `toml:"workers"`
}

type authConfig struct {
	StaticKey string `toml:"static_key"`
	SecretKey string `toml:"secret_key"` // non-empty enables JWT verification instead of StaticKey comparison
}

type loggingConfig struct {
	Logfile    string `toml:"logfile"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	Verbose    bool   `toml:"verbose"`
}

type compressionConfig struct {
	DefaultQuality int `toml:"default_quality"`
	DefaultSubsets int `toml:"default_subsets"`
}

type cacheConfig struct {
	SizeBytes int `toml:"size_bytes"`
}

type permissionsConfig struct {
	Enabled bool                `toml:"enabled"`
	Allowed map[string][]string `toml:"allowed"`
}

// defaults fills in the zero-value fields dvid's LoadConfig leaves for
// CLI flags to override.
func defaults() Config {
	return Config{
		Server: serverConfig{
			SessionAddress: ":9002",
			WebAddress:     ":9003",
			BaseFolder:     ".",
			PingIntervalS:  5,
			Workers:        0, // 0 means runtime.GOMAXPROCS(0), resolved by pool.New
		},
		Compression: compressionConfig{DefaultQuality: 8, DefaultSubsets: 4},
		Cache:       cacheConfig{SizeBytes: 64 << 20},
	}
}

// LoadConfig reads and parses the TOML file at path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file %q: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// SetupLogging installs a lumberjack-backed cvlog.Logger from cfg, or
// leaves the stdlib default in place when Logfile is unset.
func SetupLogging(cfg loggingConfig) {
	if cfg.Verbose {
		cvlog.Verbose = true
		cvlog.SetMode(cvlog.DebugMode)
	}
	fc := cvlog.FileConfig{Logfile: cfg.Logfile, MaxSize: cfg.MaxSizeMB, MaxAge: cfg.MaxBackups}
	fc.SetFileLogger()
}

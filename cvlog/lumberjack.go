package cvlog

import (
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/lumberjack"
)

// FileConfig is the [logging] table of the server TOML configuration.
type FileConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"` // megabytes
	MaxAge  int `toml:"max_log_age"`  // days
}

type fileLogger struct {
	*lumberjack.Logger
}

// SetFileLogger installs a rotating-file Logger per the given config. If
// no filename is configured, logging stays on the stdlib-backed default
// and messages go to stderr.
func (c *FileConfig) SetFileLogger() {
	if c == nil || c.Logfile == "" {
		Infof("no log file configured, logging to stderr")
		return
	}
	fmt.Printf("sending log messages to: %s\n", c.Logfile)
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(l)
	SetLogger(fileLogger{l})
}

func (fl fileLogger) Debugf(format string, args ...interface{}) {
	log.Printf("   DEBUG "+format, args...)
}

func (fl fileLogger) Infof(format string, args ...interface{}) {
	log.Printf("    INFO "+format, args...)
}

func (fl fileLogger) Warningf(format string, args ...interface{}) {
	log.Printf(" WARNING "+format, args...)
}

func (fl fileLogger) Errorf(format string, args ...interface{}) {
	log.Printf("   ERROR "+format, args...)
}

func (fl fileLogger) Criticalf(format string, args ...interface{}) {
	log.Printf("CRITICAL "+format, args...)
}

func (fl fileLogger) Shutdown() {
	if fl.Logger != nil {
		fl.Close()
	}
}

// FormatBytes renders a byte count the way compression timing lines do,
// e.g. "2.1 MB".
func FormatBytes(n int) string {
	return humanize.Bytes(uint64(n))
}

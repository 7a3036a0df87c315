// Package cvlog provides the process-wide logging facility used by every
// other package in cubeview. It follows the severity-gated package-level
// logger pattern of dvid's own log package: a single active Logger is
// installed at startup and Debugf/Infof/... route through a mode check
// before reaching it.
package cvlog

import "time"

// ModeFlag is the minimum severity that will reach the active Logger.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

// Logger is implemented by anything that can record leveled messages.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Shutdown()
}

var (
	// Verbose enables the extra per-request timing lines described in
	// SPEC_FULL.md's RESTORED FROM original_source section.
	Verbose bool

	mode   ModeFlag
	active Logger = stdLogger{}
)

// SetLogger installs the active Logger, replacing the stdlib-backed default.
func SetLogger(l Logger) {
	if l != nil {
		active = l
	}
}

// SetMode sets the minimum severity that will be written.
func SetMode(m ModeFlag) {
	mode = m
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		active.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		active.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		active.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		active.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if mode <= CriticalMode {
		active.Criticalf(format, args...)
	}
}

func Shutdown() {
	active.Shutdown()
}

// TimeLog appends elapsed time since its creation to whatever it logs.
// Typical use:
//
//	tlog := cvlog.NewTimeLog()
//	// ... do work ...
//	tlog.Debugf("compressed tile")
type TimeLog struct {
	start time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{start: time.Now()}
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		active.Debugf(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		active.Infof(format+": %s", append(args, time.Since(t.start))...)
	}
}

// Package plog provides pexec's debug-gated logging: a single
// environment-variable check, cached once, controlling whether
// per-phase diagnostic lines (spawn, wait, reader lifecycle) are
// printed to stderr.
//
// Grounded on parl's on-debug.go/go-debug.go/debug-thunk.go family
// (IsThisDebug, parl.Debug, parl.DebugThunk): pexec carries the same
// "cheap check, argument evaluation deferred to a thunk" shape but
// under its own env var and without parl's GoDebug/sets machinery,
// which exists to support per-goroutine-group debug levels pexec has
// no use for.
package plog

import (
	"fmt"
	"os"
	"sync"
)

// EnvVar is the environment variable that, if set to any non-empty
// value, turns on debug logging.
const EnvVar = "PEXEC_DEBUG"

var (
	once    sync.Once
	enabled bool
)

// IsDebug reports whether debug logging is active. Cheap after the
// first call.
func IsDebug() bool {
	once.Do(func() {
		enabled = os.Getenv(EnvVar) != ""
	})
	return enabled
}

// Debug prints a formatted line to stderr if debug logging is active.
func Debug(format string, a ...any) {
	if !IsDebug() {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", a...)
}

// DebugFunc prints arg()'s result to stderr if debug logging is
// active, without evaluating arg otherwise — for call sites where
// constructing the message is itself non-trivial.
func DebugFunc(arg func() string) {
	if !IsDebug() {
		return
	}
	fmt.Fprintln(os.Stderr, arg())
}

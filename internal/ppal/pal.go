// Package ppal is the platform abstraction layer (C1): the
// platform-specific primitive that atomically creates a child with
// redirected standard streams, an exit-observation channel, optional
// suspension, optional parent-death linkage, and strict
// file-descriptor hygiene (spec.md §4.1).
//
// Grounded on os/exec's own forkExec path (the reference example at
// other_examples "go/src/syscall/exec_unix.go" shows the
// errno-over-close-on-exec-pipe technique spec.md §4.1 describes is
// exactly what syscall.ForkExec already implements) plus
// github.com/haraldrudell/parl's punix (signal naming), psyscall
// (errno classification) and parlp (process introspection) packages.
// Rather than hand-rolling fork/exec, ppal drives os.StartProcess on
// Unix and supplies the SysProcAttr/ProcAttr fields (Pdeathsig,
// Setpgid, Files) that give it spec.md's semantics; on Windows it
// calls windows.CreateProcess directly with its creation flags
// (spawn_windows.go).
package ppal

import (
	"os"
	"time"

	"github.com/halfbit/pexec/internal/perrs"
)

// Flags mirrors spec.md §3's StartOptions flag set.
type Flags struct {
	CreateNoWindow        bool
	KillOnParentDeath     bool
	CreateSuspended       bool
	CreateNewProcessGroup bool
}

// SpawnRequest is everything the PAL needs to create a child.
// Endpoint fields nil mean "inherit the parent's corresponding
// stream" (spec.md §4.4's standard-stream contract).
type SpawnRequest struct {
	Path string
	Args []string
	// Env is nil when the caller never referenced the environment
	// mapping (spec.md §4.1: "the PAL passes a null pointer meaning
	// inherit parent's current environment live").
	Env []string
	Dir string

	Stdin, Stdout, Stderr *os.File
	// ExtraFiles populate child fd 4, 5, …; ppal reserves fd 3 for the
	// exit-observation pipe's write end and appends the caller's own
	// extra files after it.
	ExtraFiles []*os.File
	// InheritHandles are additional handles visible to the child
	// beyond stdio and ExtraFiles, de-duplicated against stdio by the
	// caller (spec.md §9(b)).
	InheritHandles []*os.File

	Flags Flags
}

// SpawnResult is what a successful Spawn produces.
type SpawnResult struct {
	Process *os.Process
	PID     int
	// ExitObservationRead is the parent's read end of the
	// exit-observation pipe (spec.md GLOSSARY): closed-by-kernel once
	// every reference to its write end is gone. That is "every
	// descendant holding child fd 3 has exited," not "this process has
	// exited" — a grandchild that inherits fd 3 delays it — so
	// internal/ppal's wait path (wait_unix.go) uses this only as a
	// fallback when no pidfd could be obtained for identity-based
	// waiting. Always non-nil on Unix; nil on Windows, where
	// WaitForSingleObject on the process handle serves the same
	// purpose natively and correctly, by identity, unconditionally.
	ExitObservationRead *os.File
	// Suspended is true if the child was created stopped and awaits
	// Resume (spec.md §4.1 "Suspended start").
	Suspended bool
}

// ExitKind is the discriminant of ExitStatus, the Go rendering of
// spec.md §3's ExitStatus sum type (Exited | Signaled | Canceled).
type ExitKind uint8

const (
	ExitKindNormal ExitKind = iota
	ExitKindSignaled
	ExitKindCanceled
)

// ExitStatus is immutable once observed (spec.md §3 invariant).
type ExitStatus struct {
	Kind     ExitKind
	Code     int
	Signal   Signal
	Canceled bool
}

// TimedOut is returned by WaitTimeout when the deadline expires
// before the child exits; it does not indicate the child was killed.
var TimedOut = perrs.Errorf("%s", "wait deadline exceeded")

// shellKillCode is the exit-code convention forced termination
// receives on Unix (128 + SIGKILL), see spec.md §6 "Exit codes".
const shellKillCode = 128 + 9

func clampDeadlineMillis(d time.Duration) int {
	if d < 0 {
		return 0
	}
	const maxMillis = 1<<31 - 1
	var ms = d.Milliseconds()
	if ms > maxMillis {
		return maxMillis
	}
	return int(ms)
}

package perrs

import (
	"errors"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
)

// Sentinel kinds from spec.md §7. Each is wrapped with %w by the
// constructors below so callers can distinguish kinds with errors.Is,
// mirroring the teacher's sentinel-plus-Errorf("%w", …) pattern
// (pexec.ErrArgsListEmpty used the same way).
var (
	// ErrSpawnConfig: missing/empty path, empty argv, or a flag
	// combination the platform cannot honor.
	ErrSpawnConfig = errors.New("invalid process configuration")
	// ErrOsResource: out of file descriptors, memory, or process slots.
	ErrOsResource = errors.New("operating system resource exhausted")
	// ErrChildExec: the kernel rejected creation, or the child reported
	// an errno via the sync pipe before exec.
	ErrChildExec = errors.New("child process exec failed")
	// ErrPlatformUnsupported: a requested capability is absent on this OS.
	ErrPlatformUnsupported = errors.New("capability not supported on this platform")
	// ErrProcessInvariant: Resume on a non-suspended/already-resumed
	// handle, or a similar state-machine violation.
	ErrProcessInvariant = errors.New("process invariant violated")
)

// SpawnConfigError reports a bad path/options/flag combination.
func SpawnConfigError(format string, a ...any) error {
	return Errorf("%w: "+format, append([]any{ErrSpawnConfig}, a...)...)
}

// OsResourceError wraps an OS resource-exhaustion failure.
func OsResourceError(cause error) error {
	return Errorf("%w: %v", ErrOsResource, cause)
}

// PlatformUnsupportedError reports a capability absent on this OS.
func PlatformUnsupportedError(capability string) error {
	return Errorf("%w: %s", ErrPlatformUnsupported, capability)
}

// ProcessInvariantError reports a handle state-machine violation.
func ProcessInvariantError(format string, a ...any) error {
	return Errorf("%w: "+format, append([]any{ErrProcessInvariant}, a...)...)
}

// ChildExecError describes a failure to start the child, including
// the command that failed, rendered shell-quoted for
// readability (diagnostics only — never used to build the real argv:
// spec.md §6 requires Unix argv be passed as a vector, unquoted).
type ChildExecError struct {
	Phase string // the spawn step that failed: "start" (Unix) or "CreateProcess" (Windows)
	Errno error
	Args  []string
}

func (e *ChildExecError) Error() string {
	return fmt.Sprintf("child exec failed in phase %q running %s: %v",
		e.Phase, shellquote.Join(e.Args...), e.Errno)
}

func (e *ChildExecError) Unwrap() error { return ErrChildExec }

// NewChildExecError wraps a phase-tagged exec failure with a stack
// trace, satisfying errors.Is(err, ErrChildExec).
func NewChildExecError(phase string, errno error, args []string) error {
	return Errorf("%w", &ChildExecError{Phase: phase, Errno: errno, Args: args})
}

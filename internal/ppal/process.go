package ppal

import (
	"os"
	"sync"

	"github.com/halfbit/pexec/internal/perrs"
)

// reapState serializes the single, identity-based waitpid/os.Process.Wait
// call every Process may ever make. os.Process.Wait must not be called
// twice concurrently for the same process (the second call's behavior
// once the first has reaped the zombie is undefined) — TryWait,
// WaitTimeout and the handle-level background reaper in the pexec
// package can all race to be first to observe readiness, so the
// actual reap is funneled through this sync.Once rather than gated
// only by whichever caller happened to poll first.
type reapState struct {
	once   sync.Once
	status ExitStatus
	err    error
}

// Process is a spawned child, independent of the pexec-level handle
// state machine (spec.md §4.3) that wraps it. It owns the
// exit-observation pipe's read end and caches the exit status once
// observed, so repeated Wait calls after exit are free and
// idempotent — spec.md's "Wait may be called any number of times
// after exit and returns the same status".
type Process struct {
	proc     *os.Process
	pid      int
	exitRead *os.File // nil on Windows
	// pidfd is a Linux pidfd (see pidfd_linux.go), -1 when unavailable
	// or not applicable. Using it for signal delivery instead of the
	// raw PID avoids the PID-reuse race inherent in kill(2) once a
	// process has already exited and its PID has been recycled.
	pidfd int
	// winThread is the primary thread handle captured at CreateProcess
	// time on Windows (see spawn_windows.go), needed for ResumeThread
	// on a CREATE_SUSPENDED child; zero and unused elsewhere.
	winThread uintptr

	mu        sync.Mutex
	suspended bool
	status    *ExitStatus

	reapOnce reapState
}

func newProcess(res SpawnResult) *Process {
	return &Process{
		proc:      res.Process,
		pid:       res.PID,
		exitRead:  res.ExitObservationRead,
		suspended: res.Suspended,
		pidfd:     -1,
	}
}

// PID returns the operating-system process identifier.
func (p *Process) PID() int { return p.pid }

// cachedStatus returns the previously observed status, if any, without
// touching the OS.
func (p *Process) cachedStatus() (status ExitStatus, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == nil {
		return ExitStatus{}, false
	}
	return *p.status, true
}

func (p *Process) setStatus(status ExitStatus) ExitStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == nil {
		p.status = &status
	}
	return *p.status
}

// Resume releases a suspended-start child (spec.md §4.1). Calling
// Resume on a child that was not created suspended, or a second time,
// is a no-op — matching the idempotent-transition rule spec.md applies
// to every one-shot handle operation.
func (p *Process) Resume() error {
	p.mu.Lock()
	var wasSuspended = p.suspended
	p.suspended = false
	p.mu.Unlock()
	if !wasSuspended {
		return nil
	}
	return p.resume()
}

// errAlreadyClosed is surfaced when an operation targets a process
// whose exit-observation pipe is already gone, i.e. Close raced wait.
var errAlreadyClosed = perrs.Errorf("%s", "process handle already released")

package pexec

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/halfbit/pexec/internal/pconc"
	"github.com/halfbit/pexec/internal/perrs"
	"github.com/halfbit/pexec/internal/phandle"
	"github.com/halfbit/pexec/internal/ppal"
)

// State is ChildProcessHandle's lifecycle (spec.md §4.3): a process
// starts Running or Suspended, becomes Exited once observed dead, and
// becomes Disposed once its resources are released. Every transition
// is one-way.
type State uint8

const (
	StateRunning State = iota
	StateSuspended
	StateExited
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateExited:
		return "exited"
	case StateDisposed:
		return "disposed"
	default:
		return "state(?)"
	}
}

// ChildProcessHandle is the public handle to a spawned child (C4): the
// single owner of its pipe endpoints and platform process primitive,
// exposing wait/signal/kill/resume under one state machine so callers
// can never race a kill against a dispose or wait on a handle twice in
// conflicting ways. Correlated by a google/uuid ID for debug logging
// and diagnostics, the way the teacher tags its CmdContainer instances
// for log correlation across concurrent spawns.
type ChildProcessHandle struct {
	id   uuid.UUID
	proc *ppal.Process

	startedAt time.Time
	// state is accessed from the reap goroutine and from the owning
	// goroutine's Resume/Dispose calls concurrently, hence atomic
	// rather than a plain field.
	state atomic.Uint32

	exited *pconc.Awaitable
	status ExitStatus

	// owned are the parent-retained pipe ends this handle must close
	// on Dispose — e.g. the write end of a stdin pipe, the read ends
	// of stdout/stderr pipes. nil entries are fine (Weak/Close on a
	// nil *OwnedHandle are no-ops).
	owned []*phandle.OwnedHandle

	// stdoutR/stderrR are kept for StreamOutputLines/CaptureOutput to
	// read from; nil when that stream was discarded, redirected to a
	// file, or inherited.
	stdoutR, stderrR *phandle.OwnedHandle
}

func newHandle(proc *ppal.Process, suspended bool, owned []*phandle.OwnedHandle, stdoutR, stderrR *phandle.OwnedHandle) *ChildProcessHandle {
	var h = &ChildProcessHandle{
		id:        uuid.New(),
		proc:      proc,
		startedAt: time.Now(),
		exited:    &pconc.Awaitable{},
		owned:     owned,
		stdoutR:   stdoutR,
		stderrR:   stderrR,
	}
	if suspended {
		h.state.Store(uint32(StateSuspended))
	}
	if proc != nil {
		// One reaper per handle: readers (StreamOutputLines/Capture)
		// need to learn "the process exited" even if the caller never
		// calls Wait, to stop draining a pipe a grandchild still holds
		// open (spec.md §4.5). This is the one deliberate background
		// goroutine in the handle's lifecycle, not a per-call
		// happy-path spawn — Wait/TryWait below never start one.
		go h.reap()
	}
	return h
}

func (h *ChildProcessHandle) reap() {
	var status, err = h.proc.WaitTimeout(-1)
	if err == nil {
		h.status = fromPAL(status)
	}
	// a handle already disposed stays Disposed: transitions are one-way.
	for {
		var s = h.state.Load()
		if s == uint32(StateDisposed) || h.state.CompareAndSwap(s, uint32(StateExited)) {
			break
		}
	}
	h.exited.Close()
}

// ID is the handle's correlation identifier for debug logging and
// diagnostics.
func (h *ChildProcessHandle) ID() uuid.UUID { return h.id }

// PID returns the operating-system process identifier.
func (h *ChildProcessHandle) PID() int { return h.proc.PID() }

// State returns the handle's current lifecycle state.
func (h *ChildProcessHandle) State() State {
	var s = State(h.state.Load())
	if s == StateDisposed {
		return StateDisposed
	}
	if h.exited.IsClosed() {
		return StateExited
	}
	return s
}

// Exited returns a channel closed once the process has been observed
// to exit — the signal StreamOutputLines/CaptureOutput use to stop
// waiting on a pipe a grandchild still holds open.
func (h *ChildProcessHandle) Exited() <-chan struct{} { return h.exited.Ch() }

// Wait blocks until the child exits or ctx is done, whichever comes
// first. A nil ctx waits forever. Calling Wait again after exit
// returns the same cached status immediately.
func (h *ChildProcessHandle) Wait(ctx context.Context) (ExitStatus, error) {
	var d pconc.Deadline
	if ctx != nil {
		d = pconc.FromContext(ctx)
	} else {
		d = pconc.NoDeadline()
	}
	defer d.Release()
	select {
	case <-h.exited.Ch():
		return h.status, nil
	case <-d.Done():
	}
	return h.WaitTimeout(0)
}

// WaitTimeout blocks until exit or timeout elapses; a negative timeout
// waits forever.
func (h *ChildProcessHandle) WaitTimeout(timeout time.Duration) (ExitStatus, error) {
	select {
	case <-h.exited.Ch():
		return h.status, nil
	default:
	}
	var ps, err = h.proc.WaitTimeout(timeout)
	if err != nil {
		return ExitStatus{}, err
	}
	return fromPAL(ps), nil
}

// TryWait reports the child's status without blocking.
func (h *ChildProcessHandle) TryWait() (status ExitStatus, ok bool, err error) {
	select {
	case <-h.exited.Ch():
		return h.status, true, nil
	default:
	}
	var ps ppal.ExitStatus
	ps, ok, err = h.proc.TryWait()
	if !ok || err != nil {
		return ExitStatus{}, ok, err
	}
	return fromPAL(ps), true, nil
}

// WaitOutcome is the result delivered by WaitOrKillAsync.
type WaitOutcome struct {
	Status ExitStatus
	Err    error
}

// WaitOrKill blocks until the child exits on its own or ctx is done,
// whichever comes first (spec.md §4.3 wait_or_kill(deadline)). If ctx
// trips before the child has exited, the process is killed and
// reaped before WaitOrKill returns — it never returns TimedOut — and
// the returned status has Canceled set regardless of what Kind the
// actual reap produced (spec.md: "the returned status has the
// Canceled flag set"). A nil ctx is equivalent to Wait: it never
// kills.
func (h *ChildProcessHandle) WaitOrKill(ctx context.Context) (ExitStatus, error) {
	var d pconc.Deadline
	if ctx != nil {
		d = pconc.FromContext(ctx)
	} else {
		d = pconc.NoDeadline()
	}
	defer d.Release()
	select {
	case <-h.exited.Ch():
		return h.status, nil
	case <-d.Done():
	}
	return h.waitOrKillTimeout(0)
}

// WaitOrKillTimeout is WaitOrKill's duration-based sibling, mirroring
// the Wait/WaitTimeout split above. A negative timeout waits forever
// and never kills.
func (h *ChildProcessHandle) WaitOrKillTimeout(timeout time.Duration) (ExitStatus, error) {
	return h.waitOrKillTimeout(timeout)
}

func (h *ChildProcessHandle) waitOrKillTimeout(timeout time.Duration) (ExitStatus, error) {
	var status, err = h.WaitTimeout(timeout)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, ppal.TimedOut) {
		return ExitStatus{}, err
	}
	// Deadline tripped before the child exited on its own: kill it and
	// reap with no further timeout — this final wait is bounded by the
	// OS delivering SIGKILL/TerminateProcess to an already-dying
	// process, not by the caller's clock.
	if killErr := h.proc.Kill(); killErr != nil {
		return ExitStatus{}, killErr
	}
	status, err = h.WaitTimeout(-1)
	if err != nil {
		return ExitStatus{}, err
	}
	status.Canceled = true
	return status, nil
}

// WaitOrKillAsync is WaitOrKill's non-blocking form (spec.md §4.3
// wait_or_kill_async(cancel)): it returns immediately with a channel
// that receives exactly one WaitOutcome once the child exits or ctx
// governs a kill-and-reap, then closes.
func (h *ChildProcessHandle) WaitOrKillAsync(ctx context.Context) <-chan WaitOutcome {
	var out = make(chan WaitOutcome, 1)
	go func() {
		var status, err = h.WaitOrKill(ctx)
		out <- WaitOutcome{Status: status, Err: err}
		close(out)
	}()
	return out
}

// Signal delivers s to the process; group additionally targets its
// process group, meaningful only when the handle was created with
// CreateNewProcessGroup.
func (h *ChildProcessHandle) Signal(s Signal) error      { return h.proc.SignalGroup(s, false) }
func (h *ChildProcessHandle) SignalGroup(s Signal) error { return h.proc.SignalGroup(s, true) }

// Kill forcefully terminates the process (SIGKILL on Unix,
// TerminateProcess on Windows).
func (h *ChildProcessHandle) Kill() error { return h.proc.Kill() }

// Resume releases a suspended-start child (spec.md §4.1). It returns a
// process-invariant error if the handle was never created suspended
// or Resume already ran.
func (h *ChildProcessHandle) Resume() error {
	if !h.state.CompareAndSwap(uint32(StateSuspended), uint32(StateRunning)) {
		return perrs.ProcessInvariantError("resume pid %d: handle is %s, not suspended", h.PID(), h.State())
	}
	return h.proc.Resume()
}

// Dispose releases every resource this handle owns: the parent-side
// pipe endpoints and the platform process primitive. Calling Dispose
// more than once, or on a still-running process, is allowed — an
// undisposed still-running handle is simply detached (spec.md §6.4
// FireAndForget relies on exactly this).
func (h *ChildProcessHandle) Dispose() error {
	if h.state.Swap(uint32(StateDisposed)) == uint32(StateDisposed) {
		return nil
	}
	var err error
	for _, o := range h.owned {
		if e := o.Close(); e != nil && err == nil {
			err = e
		}
	}
	if e := h.proc.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return perrs.ErrorfPF("dispose pid %d: %w", h.PID(), err)
	}
	return nil
}

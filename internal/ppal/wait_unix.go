//go:build unix

package ppal

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/halfbit/pexec/internal/perrs"
)

// pollReadable blocks until fd becomes readable or timeoutMillis
// elapses. A negative timeoutMillis blocks forever, matching
// unix.Poll's own convention.
func pollReadable(fd int, timeoutMillis int) (ready bool, err error) {
	var fds = []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		var n int
		n, err = unix.Poll(fds, timeoutMillis)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

// waitReady blocks until the process has been observed to exit or
// timeoutMillis elapses, without reaping it. It is identity-based
// whenever possible: a pidfd (pidfd_linux.go) becomes readable only
// when the exact process it was opened against exits, independent of
// any other descriptor — unlike the exit-observation pipe, which
// depends on every holder of child fd 3 (including an inherited
// grandchild) closing it, and so only reflects "last descendant
// exited," not "this process exited" (spec.md §4.3: wait must not
// wait on pipe EOF). The pipe is therefore used only when no pidfd
// was obtained — an older kernel, or a non-Linux Unix.
func (p *Process) waitReady(timeoutMillis int) (ready bool, err error) {
	if p.pidfd >= 0 {
		return pollReadable(p.pidfd, timeoutMillis)
	}
	if p.exitRead == nil {
		return false, errAlreadyClosed
	}
	return pollReadable(int(p.exitRead.Fd()), timeoutMillis)
}

// doReap performs the single, identity-based os.Process.Wait call
// for this process — never call this directly; go through reap,
// which serializes it against every other caller.
func (p *Process) doReap() (ExitStatus, error) {
	var state, err = p.proc.Wait()
	if err != nil {
		return ExitStatus{}, perrs.ErrorfPF("reap pid %d: %w", p.pid, err)
	}
	var status ExitStatus
	if ws, isWS := state.Sys().(syscall.WaitStatus); isWS {
		switch {
		case ws.Signaled():
			// 128+signal is the POSIX shell exit-code convention
			// (spec.md Open Question (a)); shellKillCode documents the
			// SIGKILL case of this same formula.
			status = ExitStatus{Kind: ExitKindSignaled, Code: 128 + int(ws.Signal()), Signal: signalFromNative(ws.Signal())}
		default:
			status = ExitStatus{Kind: ExitKindNormal, Code: ws.ExitStatus()}
		}
	} else {
		status = ExitStatus{Kind: ExitKindNormal, Code: state.ExitCode()}
	}
	return p.setStatus(status), nil
}

// reap reaps the process exactly once no matter how many goroutines
// call it concurrently (TryWait, WaitTimeout, and the pexec package's
// background per-handle reaper can all race to be first to observe
// exit readiness) — a second os.Process.Wait on an already-reaped
// process is undefined, so every caller after the first gets the
// first call's cached result instead of making its own syscall.
func (p *Process) reap() (ExitStatus, error) {
	p.reapOnce.once.Do(func() {
		p.reapOnce.status, p.reapOnce.err = p.doReap()
	})
	return p.reapOnce.status, p.reapOnce.err
}

// TryWait reports the child's status without blocking, per spec.md
// §4.3's non-blocking poll operation.
func (p *Process) TryWait() (status ExitStatus, ok bool, err error) {
	if cached, had := p.cachedStatus(); had {
		return cached, true, nil
	}
	var ready bool
	if ready, err = p.waitReady(0); err != nil || !ready {
		return ExitStatus{}, false, err
	}
	status, err = p.reap()
	return status, err == nil, err
}

// WaitTimeout blocks until exit or timeout elapses; timeout < 0 means
// wait forever. It returns TimedOut (not an error wrapping it) when
// the deadline fires first, so callers can use errors.Is cleanly.
func (p *Process) WaitTimeout(timeout time.Duration) (status ExitStatus, err error) {
	if cached, had := p.cachedStatus(); had {
		return cached, nil
	}
	var millis = -1
	if timeout >= 0 {
		millis = clampDeadlineMillis(timeout)
	}
	var ready bool
	if ready, err = p.waitReady(millis); err != nil {
		return ExitStatus{}, perrs.ErrorfPF("wait for exit: %w", err)
	}
	if !ready {
		return ExitStatus{}, TimedOut
	}
	return p.reap()
}

// Kill sends SIGKILL, ignoring "already exited" races. It does not
// reap; a later WaitTimeout or TryWait does.
func (p *Process) Kill() error {
	if err := p.proc.Signal(syscall.SIGKILL); err != nil && err != os.ErrProcessDone {
		return perrs.ErrorfPF("kill pid %d: %w", p.pid, err)
	}
	return nil
}

// SignalGroup delivers sig to the process, or to its whole process
// group when group is true (only meaningful if the child was started
// with CreateNewProcessGroup). Targeting the single process prefers
// the pidfd, when one was obtained at spawn time, over a PID-based
// kill(2) to avoid a PID-reuse race against an already-exited child.
func (p *Process) SignalGroup(s Signal, group bool) error {
	var native, ok = nativeSignal(s)
	if !ok {
		return perrs.PlatformUnsupportedError(s.String())
	}
	if !group && p.pidfd >= 0 {
		if err := killPidfd(p.pidfd, native); err == nil {
			return nil
		}
		// fall through to PID-based delivery — pidfd may be stale on a
		// kernel whose pidfd_send_signal semantics differ.
	}
	var target = p.pid
	if group {
		target = -p.pid
	}
	if err := syscall.Kill(target, native); err != nil {
		return perrs.ErrorfPF("signal pid %d: %w", p.pid, err)
	}
	return nil
}

// Close releases resources held for a process that will never be
// waited on again (e.g. fire-and-forget detach, spec.md §6.4).
func (p *Process) Close() error {
	p.mu.Lock()
	var r = p.exitRead
	var fd = p.pidfd
	p.exitRead = nil
	p.pidfd = -1
	p.mu.Unlock()
	if fd >= 0 {
		unix.Close(fd)
	}
	if r == nil {
		return nil
	}
	return r.Close()
}

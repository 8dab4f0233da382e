//go:build windows

package ppal

import (
	"time"

	"golang.org/x/sys/windows"

	"github.com/halfbit/pexec/internal/perrs"
)

func (p *Process) openWaitHandle() (windows.Handle, error) {
	var h, err = windows.OpenProcess(windows.SYNCHRONIZE|windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(p.pid))
	if err != nil {
		return 0, perrs.ErrorfPF("open process %d: %w", p.pid, err)
	}
	return h, nil
}

func (p *Process) waitNative(timeout time.Duration) (status ExitStatus, err error) {
	var handle windows.Handle
	if handle, err = p.openWaitHandle(); err != nil {
		return
	}
	defer windows.CloseHandle(handle)

	var millis uint32 = windows.INFINITE
	if timeout >= 0 {
		millis = uint32(clampDeadlineMillis(timeout))
	}
	var event, waitErr = windows.WaitForSingleObject(handle, millis)
	switch event {
	case windows.WAIT_OBJECT_0:
		// falls through to GetExitCodeProcess below
	case uint32(windows.WAIT_TIMEOUT):
		return ExitStatus{}, TimedOut
	default:
		return ExitStatus{}, perrs.ErrorfPF("wait pid %d: %w", p.pid, waitErr)
	}

	var code uint32
	if err = windows.GetExitCodeProcess(handle, &code); err != nil {
		return ExitStatus{}, perrs.ErrorfPF("exit code pid %d: %w", p.pid, err)
	}
	status = ExitStatus{Kind: ExitKindNormal, Code: int(int32(code))}
	return p.setStatus(status), nil
}

// TryWait reports the child's status without blocking.
func (p *Process) TryWait() (status ExitStatus, ok bool, err error) {
	if cached, had := p.cachedStatus(); had {
		return cached, true, nil
	}
	status, err = p.waitNative(0)
	if err == TimedOut {
		return ExitStatus{}, false, nil
	}
	return status, err == nil, err
}

// WaitTimeout blocks until exit or timeout elapses; timeout < 0 means
// wait forever.
func (p *Process) WaitTimeout(timeout time.Duration) (status ExitStatus, err error) {
	if cached, had := p.cachedStatus(); had {
		return cached, nil
	}
	return p.waitNative(timeout)
}

// Kill terminates the process forcefully. Windows has no signal
// concept; TerminateProcess is the closest analogue (spec.md §4.3
// edge case).
func (p *Process) Kill() error {
	var handle, err = p.openWaitHandle()
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)
	// exit code 0xFFFFFFFF, read back by GetExitCodeProcess as -1.
	if err = windows.TerminateProcess(handle, ^uint32(0)); err != nil {
		return perrs.ErrorfPF("terminate pid %d: %w", p.pid, err)
	}
	return nil
}

// SignalGroup best-effort emulates a handful of POSIX signals (spec.md
// §4.3); group is honored only for the CTRL_BREAK / CTRL_C actions,
// which Windows already delivers to an entire console process group.
func (p *Process) SignalGroup(s Signal, group bool) error {
	switch windowsActionFor(s) {
	case actionTerminate:
		return p.Kill()
	case actionCtrlC:
		return windows.GenerateConsoleCtrlEvent(windows.CTRL_C_EVENT, uint32(p.pid))
	case actionCtrlBreak:
		return windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(p.pid))
	default:
		return perrs.PlatformUnsupportedError(s.String())
	}
}

// Close is a no-op on Windows: there is no exit-observation pipe to
// release, and the process handle is opened fresh by each wait call.
func (p *Process) Close() error { return nil }

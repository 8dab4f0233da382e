//go:build unix

package ppal

import (
	"os"
	"syscall"

	"github.com/halfbit/pexec/internal/perrs"
	"github.com/halfbit/pexec/internal/plog"
)

// Spawn creates the child. It relies on os.StartProcess, which in turn
// calls syscall.ForkExec — already the exec-synchronization-pipe
// design spec.md §4.1 describes (the child reports an exec failure
// errno over a close-on-exec pipe and exits status 127 before ever
// reaching the target program; the parent distinguishes "exec itself
// failed" from "the program ran and exited 127 on its own"). ppal adds
// a second, longer-lived pipe at fd 3 for exit observation — used only
// as wait_unix.go's fallback when a pidfd isn't available, since a
// grandchild inheriting fd 3 would otherwise delay this pipe's EOF
// past the direct child's own exit.
func Spawn(req SpawnRequest) (p *Process, err error) {
	var obsRead, obsWrite *os.File
	if obsRead, obsWrite, err = os.Pipe(); err != nil {
		err = perrs.ErrorfPF("exit-observation pipe: %w", err)
		return
	}
	defer obsWrite.Close()

	// os.StartProcess treats a nil entry in ProcAttr.Files as "this fd
	// is closed in the child", not "inherit" — so a nil SpawnRequest
	// stream (meaning inherit, per pal.go) is substituted with the
	// parent's own corresponding stream here.
	var files = []*os.File{
		orInherit(req.Stdin, os.Stdin),
		orInherit(req.Stdout, os.Stdout),
		orInherit(req.Stderr, os.Stderr),
		obsWrite,
	}
	files = append(files, req.ExtraFiles...)
	files = append(files, req.InheritHandles...)

	var attr = &syscall.SysProcAttr{}
	if req.Flags.CreateNewProcessGroup {
		attr.Setpgid = true
	}
	if req.Flags.KillOnParentDeath {
		setPdeathsig(attr)
	}

	var proc *os.Process
	proc, err = os.StartProcess(req.Path, req.Args, &os.ProcAttr{
		Dir:   req.Dir,
		Env:   req.Env,
		Files: files,
		Sys:   attr,
	})
	if err != nil {
		obsRead.Close()
		err = perrs.NewChildExecError("start", err, req.Args)
		return
	}

	if req.Flags.CreateSuspended {
		// Best-effort: the child may already have executed several
		// instructions by the time this signal lands (spec.md §4.1
		// explicitly allows suspended start to be best-effort on
		// Unix). A ptrace-based stop-at-exec would be race-free but is
		// out of scope here.
		if sigErr := proc.Signal(syscall.SIGSTOP); sigErr != nil {
			plog.Debug("ppal: best-effort suspend failed for pid %d: %v", proc.Pid, sigErr)
		}
	}

	p = newProcess(SpawnResult{
		Process:             proc,
		PID:                 proc.Pid,
		ExitObservationRead: obsRead,
		Suspended:           req.Flags.CreateSuspended,
	})
	p.pidfd = openPidfd(proc.Pid)
	return
}

func (p *Process) resume() error {
	return p.proc.Signal(syscall.SIGCONT)
}

func orInherit(f, parent *os.File) *os.File {
	if f != nil {
		return f
	}
	return parent
}

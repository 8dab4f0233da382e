//go:build windows

package ppal

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/halfbit/pexec/internal/perrs"
)

// Spawn drives windows.CreateProcess directly rather than
// os.StartProcess: a suspended start (spec.md §4.1) needs the primary
// thread handle CreateProcess returns so it can later be resumed with
// ResumeThread, and os.StartProcess does not expose it.
func Spawn(req SpawnRequest) (p *Process, err error) {
	var cmdLine = JoinCommandLine(req.Args)

	var creationFlags uint32
	if req.Flags.CreateNoWindow {
		creationFlags |= windows.CREATE_NO_WINDOW
	}
	if req.Flags.CreateSuspended {
		creationFlags |= windows.CREATE_SUSPENDED
	}
	if req.Flags.CreateNewProcessGroup {
		creationFlags |= windows.CREATE_NEW_PROCESS_GROUP
	}
	// a Unicode environment block always requires this flag.
	creationFlags |= windows.CREATE_UNICODE_ENVIRONMENT

	// a nil SpawnRequest stream means "inherit" (pal.go); STARTF_USESTDHANDLES
	// has no separate "inherit" value, so the parent's own standard
	// handle is substituted explicitly.
	var si windows.StartupInfo
	si.Flags |= windows.STARTF_USESTDHANDLES
	si.StdInput = windows.Handle(orInheritFd(req.Stdin, os.Stdin))
	si.StdOutput = windows.Handle(orInheritFd(req.Stdout, os.Stdout))
	si.StdErr = windows.Handle(orInheritFd(req.Stderr, os.Stderr))

	var cmdLinePtr *uint16
	if cmdLinePtr, err = syscall.UTF16PtrFromString(cmdLine); err != nil {
		return nil, perrs.ErrorfPF("encode command line: %w", err)
	}
	var dirPtr *uint16
	if req.Dir != "" {
		if dirPtr, err = syscall.UTF16PtrFromString(req.Dir); err != nil {
			return nil, perrs.ErrorfPF("encode working directory: %w", err)
		}
	}
	var envBlock *uint16
	if req.Env != nil {
		if envBlock, err = createEnvBlock(req.Env); err != nil {
			return nil, perrs.ErrorfPF("encode environment block: %w", err)
		}
	}

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil,
		cmdLinePtr,
		nil, nil,
		true, // inherit handles: required for STARTF_USESTDHANDLES redirection
		creationFlags,
		(*uint16)(unsafe.Pointer(envBlock)),
		dirPtr,
		&si,
		&pi,
	)
	if err != nil {
		err = perrs.NewChildExecError("CreateProcess", err, req.Args)
		return
	}

	var proc *os.Process
	if proc, err = os.FindProcess(int(pi.ProcessId)); err != nil {
		windows.CloseHandle(pi.Process)
		windows.CloseHandle(pi.Thread)
		return nil, perrs.ErrorfPF("wrap process %d: %w", pi.ProcessId, err)
	}
	windows.CloseHandle(pi.Process) // proc above opened its own handle

	p = newProcess(SpawnResult{
		Process:   proc,
		PID:       int(pi.ProcessId),
		Suspended: req.Flags.CreateSuspended,
	})
	if req.Flags.CreateSuspended {
		// retained for the eventual Resume call.
		p.winThread = uintptr(pi.Thread)
	} else {
		windows.CloseHandle(pi.Thread)
	}
	return
}

func orInheritFd(f, parent *os.File) uintptr {
	if f != nil {
		return f.Fd()
	}
	return parent.Fd()
}

func (p *Process) resume() error {
	if p.winThread == 0 {
		return nil
	}
	var handle = windows.Handle(p.winThread)
	p.winThread = 0
	defer windows.CloseHandle(handle)
	var _, err = windows.ResumeThread(handle)
	return err
}

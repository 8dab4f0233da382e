//go:build linux

package ppal

import "golang.org/x/sys/unix"

// openPidfd obtains a pidfd for pid, or -1 if the running kernel is
// too old (pidfd_open requires Linux 5.3+) or the call otherwise
// fails; callers fall back to PID-based signaling in that case.
func openPidfd(pid int) int {
	var fd, err = unix.PidfdOpen(pid, 0)
	if err != nil {
		return -1
	}
	return fd
}

// killPidfd delivers sig race-free: the kernel refuses the signal if
// the pidfd's process has already been reaped, rather than risking
// delivery to a reused PID.
func killPidfd(pidfd int, sig unix.Signal) error {
	return unix.PidfdSendSignal(pidfd, sig, nil, 0)
}

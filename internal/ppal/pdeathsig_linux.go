//go:build linux

package ppal

import "syscall"

// setPdeathsig arms the parent-death signal on Linux's prctl
// PR_SET_PDEATHSIG, which syscall.SysProcAttr.Pdeathsig already wraps.
// This is race-free: the kernel delivers SIGKILL to the child the
// moment the parent thread that called fork exits, regardless of
// ordering with the rest of the child's startup (spec.md §4.1
// "KillOnParentDeath").
func setPdeathsig(attr *syscall.SysProcAttr) {
	attr.Pdeathsig = syscall.SIGKILL
}

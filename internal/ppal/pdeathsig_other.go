//go:build unix && !linux

package ppal

import "syscall"

// setPdeathsig is a no-op on non-Linux Unix: there is no portable
// parent-death-signal primitive (BSD's PROC_PDEATHSIG_CTL is
// FreeBSD-only and still narrower than Linux's prctl). spec.md §4.1
// allows KillOnParentDeath to degrade to "accepted but not
// guaranteed" on platforms without kernel support; here the flag is
// accepted and has no effect.
func setPdeathsig(attr *syscall.SysProcAttr) {}

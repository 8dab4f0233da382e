//go:build unix

package ppal

import "golang.org/x/sys/unix"

// nativeSignal translates the abstract Signal to a unix.Signal. The
// zero value (SignalUnspecified) and signals with no Unix counterpart
// return ok=false.
func nativeSignal(s Signal) (sig unix.Signal, ok bool) {
	switch s {
	case SIGHUP:
		return unix.SIGHUP, true
	case SIGINT:
		return unix.SIGINT, true
	case SIGQUIT:
		return unix.SIGQUIT, true
	case SIGKILL:
		return unix.SIGKILL, true
	case SIGTERM:
		return unix.SIGTERM, true
	case SIGUSR1:
		return unix.SIGUSR1, true
	case SIGUSR2:
		return unix.SIGUSR2, true
	case SIGPIPE:
		return unix.SIGPIPE, true
	case SIGALRM:
		return unix.SIGALRM, true
	case SIGCHLD:
		return unix.SIGCHLD, true
	case SIGCONT:
		return unix.SIGCONT, true
	case SIGSTOP:
		return unix.SIGSTOP, true
	case SIGTSTP:
		return unix.SIGTSTP, true
	case SIGWINCH:
		return unix.SIGWINCH, true
	default:
		return 0, false
	}
}

// signalFromNative is the reverse mapping, used when rendering an
// observed wait status (spec.md §3 ExitStatus.Signal) back to the
// abstract enumeration. Signals outside the enumerated set surface as
// SignalUnspecified rather than failing: the raw code is kept
// separately by the caller if needed for diagnostics.
func signalFromNative(sig unix.Signal) Signal {
	switch sig {
	case unix.SIGHUP:
		return SIGHUP
	case unix.SIGINT:
		return SIGINT
	case unix.SIGQUIT:
		return SIGQUIT
	case unix.SIGKILL:
		return SIGKILL
	case unix.SIGTERM:
		return SIGTERM
	case unix.SIGUSR1:
		return SIGUSR1
	case unix.SIGUSR2:
		return SIGUSR2
	case unix.SIGPIPE:
		return SIGPIPE
	case unix.SIGALRM:
		return SIGALRM
	case unix.SIGCHLD:
		return SIGCHLD
	case unix.SIGCONT:
		return SIGCONT
	case unix.SIGSTOP:
		return SIGSTOP
	case unix.SIGTSTP:
		return SIGTSTP
	case unix.SIGWINCH:
		return SIGWINCH
	default:
		return SignalUnspecified
	}
}

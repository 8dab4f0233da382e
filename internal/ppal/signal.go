package ppal

// Signal is spec.md §3's ProcessSignal: a small, portable enumeration
// that both platforms can express something for, even though most of
// it is a best-effort translation on Windows (spec.md §4.3 Edge
// cases). Grounded on the teacher's punix package, which maps
// unix.Signal values to POSIX names for diagnostics; here the mapping
// runs the other way, abstract name to platform primitive.
type Signal uint8

const (
	SignalUnspecified Signal = iota
	SIGHUP
	SIGINT
	SIGQUIT
	SIGKILL
	SIGTERM
	SIGUSR1
	SIGUSR2
	SIGPIPE
	SIGALRM
	SIGCHLD
	SIGCONT
	SIGSTOP
	SIGTSTP
	SIGWINCH
)

var signalNames = [...]string{
	SignalUnspecified: "unspecified",
	SIGHUP:            "SIGHUP",
	SIGINT:            "SIGINT",
	SIGQUIT:           "SIGQUIT",
	SIGKILL:           "SIGKILL",
	SIGTERM:           "SIGTERM",
	SIGUSR1:           "SIGUSR1",
	SIGUSR2:           "SIGUSR2",
	SIGPIPE:           "SIGPIPE",
	SIGALRM:           "SIGALRM",
	SIGCHLD:           "SIGCHLD",
	SIGCONT:           "SIGCONT",
	SIGSTOP:           "SIGSTOP",
	SIGTSTP:           "SIGTSTP",
	SIGWINCH:          "SIGWINCH",
}

func (s Signal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return "Signal(?)"
}

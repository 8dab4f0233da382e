//go:build unix && !linux

package ppal

import (
	"golang.org/x/sys/unix"

	"github.com/halfbit/pexec/internal/perrs"
)

// openPidfd: pidfd is Linux-only (FreeBSD's pdfork-based equivalent
// uses a different, incompatible API not worth chasing for this
// enhancement). Every other Unix falls back to PID-based signaling.
func openPidfd(pid int) int { return -1 }

func killPidfd(pidfd int, sig unix.Signal) error {
	return perrs.PlatformUnsupportedError("pidfd")
}

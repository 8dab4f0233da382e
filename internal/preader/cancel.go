package preader

import (
	"os"
	"time"
)

// watchExit arms f's read deadline the moment exited fires, unblocking
// whatever Read call is in flight so the reader goroutine can notice
// the process is gone instead of waiting on a pipe a grandchild is
// still holding open (spec.md §4.5). It stops watching, without ever
// touching the deadline, if stop closes first — the normal case where
// the reader reached EOF on its own before the process exited.
func watchExit(f *os.File, exited <-chan struct{}, stop <-chan struct{}) {
	select {
	case <-exited:
		// An already-past deadline makes the next and all subsequent
		// Read calls return immediately with os.ErrDeadlineExceeded.
		_ = f.SetReadDeadline(time.Unix(0, 1))
	case <-stop:
	}
}

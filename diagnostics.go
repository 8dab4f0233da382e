package pexec

import (
	"fmt"
	"sync"
	"time"

	sysinfo "github.com/elastic/go-sysinfo"
)

var (
	parentStartOnce sync.Once
	parentStartTime time.Time
	parentStartErr  error
)

// parentStart lazily resolves the hosting (parent) process' own start
// time via go-sysinfo, cached for the process lifetime — this never
// changes, so repeated ParentAge calls don't re-walk /proc or call
// NtQuerySystemInformation every time.
func parentStart() (time.Time, error) {
	parentStartOnce.Do(func() {
		var self, err = sysinfo.Self()
		if err != nil {
			parentStartErr = err
			return
		}
		var info, infoErr = self.Info()
		if infoErr != nil {
			parentStartErr = infoErr
			return
		}
		parentStartTime = info.StartTime
	})
	return parentStartTime, parentStartErr
}

// ParentAge returns how long the pexec-hosting process has itself been
// running, for diagnostics that want to distinguish "this host process
// just started and is spawning a burst of children" from a steady
// running state. Zero if go-sysinfo could not determine it on this
// platform.
func ParentAge() time.Duration {
	var start, err = parentStart()
	if err != nil || start.IsZero() {
		return 0
	}
	return time.Since(start)
}

// Age returns how long ago this handle was created (spawn time, not
// process start time on the OS clock — they are the same instant for
// all practical purposes here).
func (h *ChildProcessHandle) Age() time.Duration { return time.Since(h.startedAt) }

// DescribeExit renders status plus optional captured stderr into a
// single human-readable diagnostic line, grounded on the teacher's
// ExitErrorData/ExitErrorString rendering (SPEC_FULL.md §10).
func DescribeExit(pid int, status ExitStatus, stderrTail []byte) string {
	var verdict string
	switch status.Kind {
	case ExitStatusNormal:
		if status.Success() {
			verdict = "exited 0"
		} else {
			verdict = fmt.Sprintf("exited %d", status.Code)
		}
	case ExitStatusSignaled:
		verdict = fmt.Sprintf("killed by %s (code %d)", status.Signal, status.Code)
	case ExitStatusCanceled:
		verdict = "canceled before exit observed"
	default:
		verdict = "unknown exit"
	}
	if len(stderrTail) == 0 {
		return fmt.Sprintf("pid %d: %s", pid, verdict)
	}
	return fmt.Sprintf("pid %d: %s; stderr: %s", pid, verdict, trimTail(stderrTail, 2048))
}

func trimTail(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return "…" + string(b[len(b)-max:])
}

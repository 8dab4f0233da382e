// Package phandle provides C2: typed owning wrappers for OS
// handles/descriptors, a pipe-pair factory, a null-device opener and
// non-owning standard-stream accessors.
//
// Grounded on pio.CloserBuffer's close-once-under-atomic-bool pattern
// and pexec.CmdContainer's single-assignment-via-atomic-pointer style
// (both in the teacher's pexec/pio packages), applied here to *os.File
// instead of a buffer/exec.Cmd.
package phandle

import (
	"os"
	"sync/atomic"
)

// OwnedHandle is exclusive ownership of a single *os.File. It is
// closed exactly once; a second Close is a no-op returning nil, never
// an error, matching spec.md's "Closed exactly once on drop" without
// forcing every caller to special-case a repeat close.
type OwnedHandle struct {
	file   *os.File
	closed atomic.Bool
}

// NewOwnedHandle takes ownership of f. f must not be closed by any
// other code path afterward.
func NewOwnedHandle(f *os.File) *OwnedHandle {
	return &OwnedHandle{file: f}
}

// File returns the underlying *os.File. The returned value must not
// be closed directly — use Close on the OwnedHandle so double-close
// bookkeeping stays correct.
func (h *OwnedHandle) File() *os.File {
	if h == nil {
		return nil
	}
	return h.file
}

// Fd returns the raw descriptor/handle, or an invalid value if h is
// nil or already closed.
func (h *OwnedHandle) Fd() uintptr {
	if h == nil || h.file == nil {
		return ^uintptr(0)
	}
	return h.file.Fd()
}

// Close closes the underlying file exactly once.
func (h *OwnedHandle) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	return h.file.Close()
}

// Weak returns the underlying *os.File for use as a spawn endpoint
// without transferring ownership: the spawner may duplicate it into
// the child but must never close it. This is spec.md's "a weak
// observation never extends lifetime" — Weak is for membership checks
// and endpoint duplication, not a second owner.
func (h *OwnedHandle) Weak() *os.File { return h.File() }

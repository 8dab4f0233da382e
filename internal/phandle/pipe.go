package phandle

import "os"

// PipePair is an anonymous pipe's two owning ends.
//   - on Unix both ends carry close-on-exec until the spawner clears it
//     for whichever end becomes the child-visible one (os.Pipe already
//     returns close-on-exec descriptors on every Go-supported Unix)
//   - on Windows only the child-visible end is made inheritable; the
//     parent-retained end is duplicated to a non-inheritable copy by
//     the PAL at spawn time, not here
type PipePair struct {
	Read  *OwnedHandle
	Write *OwnedHandle
}

// NewPipePair creates an anonymous pipe. Named-pipe (FIFO) creation is
// out of scope per spec.md §9(c) — deferred to a future extension.
func NewPipePair() (p PipePair, err error) {
	var r, w *os.File
	if r, w, err = os.Pipe(); err != nil {
		return
	}
	p = PipePair{Read: NewOwnedHandle(r), Write: NewOwnedHandle(w)}
	return
}

// Close closes both ends. Safe to call after either end has already
// been duplicated away and closed individually (e.g. once handed to a
// child and the parent's copy released).
func (p PipePair) Close() (err error) {
	if e := p.Read.Close(); e != nil {
		err = e
	}
	if e := p.Write.Close(); e != nil && err == nil {
		err = e
	}
	return
}

// Package preader is C5, the output reader: turns a child's stdout
// and/or stderr pipes into either a bounded stream of decoded text
// lines or a fully captured byte buffer, in both cases independent of
// whether the underlying pipe ever reaches EOF on its own (spec.md §4.5
// "EOF is not exit"). A grandchild that inherits the pipe and outlives
// the direct child keeps the write end open; the reader must stop
// anyway once the handle layer reports the watched process has
// exited, or a caller would hang forever waiting for a byte that is
// never coming from a process that is already gone.
//
// Grounded on the teacher's pio package (CopyThread, Reader,
// CloserBuffer) for the concurrent-drain/owned-buffer shape, with
// golang.org/x/text/encoding layered on top for non-UTF-8 children
// (spec.md §10 "character encoding").
package preader

import "os"

// Stream identifies which child descriptor a Line or byte range came
// from.
type Stream uint8

const (
	Stdout Stream = iota
	Stderr
	Combined
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case Combined:
		return "combined"
	default:
		return "stream(?)"
	}
}

// Line is one decoded line of output (spec.md §3 OutputLine), with its
// trailing newline already stripped. Err is set, with Text empty, when
// the source could not be read or decoded; any text read before the
// failure has already been delivered on earlier lines. The read
// deadline watchExit sets once the process exits is not reported as
// an error.
type Line struct {
	Stream Stream
	Text   string
	Err    error
}

// Source pairs a stream tag with the *os.File the reader drains. A nil
// File means that stream was not requested (e.g. stderr merged into
// stdout, or simply not captured).
type Source struct {
	Stream Stream
	File   *os.File
}

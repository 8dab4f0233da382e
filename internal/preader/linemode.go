package preader

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/halfbit/pexec/internal/pconc"
)

// LineOptions configures StreamLines.
type LineOptions struct {
	// Encoding is an IANA charset name, or "" for UTF-8 (see decode.go).
	Encoding string
	// QueueSize bounds the merged-line channel (spec.md §4.5 "a bounded
	// merging queue applies backpressure to the child once the
	// consumer falls behind, rather than buffering without limit").
	QueueSize int
}

// StreamLines drains one or more Sources concurrently, splitting each
// on "\n" (a "\r" right before the "\n" is trimmed, so both Unix and Windows line
// endings normalize the same way) and merges them into a single
// channel in the order lines complete — not necessarily the order
// bytes were written, since stdout and stderr are independent pipes.
// A final, unterminated fragment at EOF is still emitted as a line,
// per spec.md's "no trailing newline is not data loss".
//
// exited — typically (*pconc.Awaitable).Ch() from the handle layer —
// is closed once the watched process has been observed to exit;
// StreamLines uses it to stop waiting on a pipe a grandchild still
// holds open rather than block forever (see cancel.go). The returned
// channel is closed once every source has both reached EOF (or been
// cancelled) — callers range over it rather than polling.
func StreamLines(sources []Source, opts LineOptions, exited <-chan struct{}) <-chan Line {
	var queueSize = opts.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	var out = make(chan Line, queueSize)
	var wg sync.WaitGroup
	for _, src := range sources {
		if src.File == nil {
			continue
		}
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			streamOne(src, opts.Encoding, exited, out)
		}(src)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func streamOne(src Source, encName string, exited <-chan struct{}, out chan<- Line) {
	var panicErr error
	defer func() {
		if panicErr != nil {
			out <- Line{Stream: src.Stream, Err: panicErr}
		}
	}()
	defer pconc.Recover("stream "+src.Stream.String(), &panicErr)

	var stop = make(chan struct{})
	defer close(stop)
	go watchExit(src.File, exited, stop)

	var r io.Reader = src.File
	if decoded, err := DecoderFor(encName, src.File); err == nil {
		r = decoded
	} else {
		out <- Line{Stream: src.Stream, Err: err}
		return
	}

	var scanner = bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		out <- Line{Stream: src.Stream, Text: scanner.Text()}
	}
	// os.ErrDeadlineExceeded is watchExit ending the stream once the
	// process exited, not a read failure.
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		out <- Line{Stream: src.Stream, Err: err}
	}
}

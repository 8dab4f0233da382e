package pexec

import (
	"context"

	"github.com/halfbit/pexec/internal/phandle"
	"github.com/halfbit/pexec/internal/preader"
)

// OutputLine is one decoded line from a streaming child (spec.md §3
// OutputLine), newline already stripped.
type OutputLine struct {
	Content    string
	FromStderr bool
	// Err is set, with Content empty, when the underlying pipe could
	// not be read or decoded; text read before the failure arrives on
	// earlier lines.
	Err error
}

// StreamOptions configures StreamOutputLines.
type StreamOptions struct {
	// Encoding is an IANA charset name, or "" for UTF-8.
	Encoding string
	// QueueSize bounds the merged-line channel; <= 0 uses a sensible
	// default (spec.md §4.5 "a bounded merging queue").
	QueueSize int
}

// StreamOutputLines starts a child with stdout and stderr piped and
// merged into a single channel of decoded lines, in completion order
// rather than strict per-stream order (spec.md §6.5). The returned
// channel closes once both pipes reach EOF or the process is observed
// to exit, whichever comes first — a grandchild still holding a pipe
// open never wedges the channel shut (spec.md §4.5). Unlike the other
// composition operations, StreamOutputLines returns its handle
// immediately rather than blocking on it — the deadline in ctx is
// still enforced, by a supervisory goroutine that calls
// h.WaitOrKill(ctx) in the background and kills the child if ctx
// expires before it exits on its own (spec.md §4.6).
func StreamOutputLines(ctx context.Context, opts StartOptions, lineOpts StreamOptions) (<-chan OutputLine, *ChildProcessHandle, error) {
	var outPipe, err = phandle.NewPipePair()
	if err != nil {
		return nil, nil, err
	}
	var errPipe, pipeErr = phandle.NewPipePair()
	if pipeErr != nil {
		outPipe.Close()
		return nil, nil, pipeErr
	}

	var h, spawnErr = doSpawn(&opts, nil, outPipe.Write.Weak(), errPipe.Write.Weak(),
		[]*phandle.OwnedHandle{outPipe.Read, errPipe.Read},
		outPipe.Read, errPipe.Read)
	// the child-visible write ends close in the parent as soon as
	// spawn returns, whether it succeeded or failed — the OS
	// duplicated those fds into the child at fork/CreateProcess time,
	// so the parent's copy must not linger: an open parent-side write
	// end would prevent the reader from ever seeing EOF.
	outPipe.Write.Close()
	errPipe.Write.Close()
	if spawnErr != nil {
		outPipe.Read.Close()
		errPipe.Read.Close()
		return nil, nil, spawnErr
	}

	var sources = []preader.Source{
		{Stream: preader.Stdout, File: outPipe.Read.Weak()},
		{Stream: preader.Stderr, File: errPipe.Read.Weak()},
	}
	var raw = preader.StreamLines(sources, preader.LineOptions{
		Encoding:  lineOpts.Encoding,
		QueueSize: lineOpts.QueueSize,
	}, h.Exited())

	go h.WaitOrKill(ctx)

	var out = make(chan OutputLine, 1)
	go func() {
		defer close(out)
		for line := range raw {
			out <- OutputLine{Content: line.Text, FromStderr: line.Stream == preader.Stderr, Err: line.Err}
		}
	}()
	return out, h, nil
}

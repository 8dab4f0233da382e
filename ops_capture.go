package pexec

import (
	"context"

	"github.com/halfbit/pexec/internal/phandle"
	"github.com/halfbit/pexec/internal/preader"
)

// CombinedOutput is the result of CaptureCombined (spec.md §3
// CombinedOutput).
type CombinedOutput struct {
	Bytes  []byte
	Status ExitStatus
	PID    int
}

func startCapture(opts StartOptions) (*phandle.PipePair, *phandle.PipePair, *ChildProcessHandle, error) {
	var outPipe, err = phandle.NewPipePair()
	if err != nil {
		return nil, nil, nil, err
	}
	var errPipe, pipeErr = phandle.NewPipePair()
	if pipeErr != nil {
		outPipe.Close()
		return nil, nil, nil, pipeErr
	}

	var h, spawnErr = doSpawn(&opts, nil, outPipe.Write.Weak(), errPipe.Write.Weak(),
		[]*phandle.OwnedHandle{outPipe.Read, errPipe.Read}, outPipe.Read, errPipe.Read)
	outPipe.Write.Close()
	errPipe.Write.Close()
	if spawnErr != nil {
		outPipe.Read.Close()
		errPipe.Read.Close()
		return nil, nil, nil, spawnErr
	}
	return &outPipe, &errPipe, h, nil
}

// CaptureOutput starts a child, fully drains stdout and stderr into
// separate byte buffers, waits for exit, and returns both plus the
// exit status (spec.md §6.6) — the "run it, get everything back"
// operation, for output sizes that comfortably fit in memory.
// CaptureOutput blocks until the child exits or ctx is done, killing
// and reaping on ctx expiry (spec.md §4.6).
func CaptureOutput(ctx context.Context, opts StartOptions, encoding string) (stdout, stderr []byte, status ExitStatus, err error) {
	var outPipe, errPipe, h, startErr = startCapture(opts)
	if startErr != nil {
		return nil, nil, ExitStatus{}, startErr
	}
	defer h.Dispose()

	var sources = []preader.Source{
		{Stream: preader.Stdout, File: outPipe.Read.Weak()},
		{Stream: preader.Stderr, File: errPipe.Read.Weak()},
	}
	var result = preader.Capture(sources, encoding, false, h.Exited())
	status, err = h.WaitOrKill(ctx)
	if err != nil {
		return nil, nil, ExitStatus{}, err
	}
	if readErrs := result.Errors(); len(readErrs) > 0 {
		err = readErrs[0]
	}
	return result.Bytes(preader.Stdout), result.Bytes(preader.Stderr), status, err
}

// CaptureCombined is CaptureOutput with stdout and stderr additionally
// interleaved into one buffer in completion order (spec.md §6.6
// "combined capture"), returned as a single CombinedOutput value.
// CaptureCombined blocks until the child exits or ctx is done, killing
// and reaping on ctx expiry (spec.md §4.6).
func CaptureCombined(ctx context.Context, opts StartOptions, encoding string) (CombinedOutput, error) {
	var outPipe, errPipe, h, startErr = startCapture(opts)
	if startErr != nil {
		return CombinedOutput{}, startErr
	}
	defer h.Dispose()

	var sources = []preader.Source{
		{Stream: preader.Stdout, File: outPipe.Read.Weak()},
		{Stream: preader.Stderr, File: errPipe.Read.Weak()},
	}
	var result = preader.Capture(sources, encoding, true, h.Exited())
	var status, err = h.WaitOrKill(ctx)
	if err != nil {
		return CombinedOutput{}, err
	}
	if readErrs := result.Errors(); len(readErrs) > 0 {
		return CombinedOutput{Bytes: result.Bytes(preader.Combined), Status: status, PID: h.PID()}, readErrs[0]
	}
	return CombinedOutput{Bytes: result.Bytes(preader.Combined), Status: status, PID: h.PID()}, nil
}

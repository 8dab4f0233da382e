package preader

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/halfbit/pexec/internal/pconc"
)

// CaptureResult holds the fully drained bytes from one or more
// sources, keyed by Stream. Combined, when requested, interleaves
// stdout and stderr in the order each chunk was read — an
// approximation of terminal interleaving, not a guarantee, since the
// two pipes are read concurrently (spec.md §4.5 "Combined output order
// is best-effort").
type CaptureResult struct {
	buffers map[Stream][]byte
	errs    pconc.ErrSlice
}

// Bytes returns the captured bytes for stream, or nil if that stream
// was not requested.
func (r CaptureResult) Bytes(stream Stream) []byte { return r.buffers[stream] }

// Errors returns any read errors encountered, including a recovered
// panic from a drain goroutine if one occurred; order reflects
// whichever drain goroutine observed it first, not stream order.
func (r CaptureResult) Errors() []error { return r.errs.Errors() }

// Capture drains every Source to completion (EOF or a watched
// process's exit closes the race, see cancel.go) concurrently,
// growing one buffer per stream plus, when combine is true, a second
// shared buffer interleaving every chunk read across all sources in
// completion order.
func Capture(sources []Source, encName string, combine bool, exited <-chan struct{}) CaptureResult {
	var result = CaptureResult{buffers: make(map[Stream][]byte, len(sources)+1)}
	var mu sync.Mutex
	var combined bytes.Buffer
	var wg sync.WaitGroup

	for _, src := range sources {
		if src.File == nil {
			continue
		}
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			var drainErr error
			defer func() {
				if drainErr != nil {
					result.errs.AddError(drainErr)
				}
			}()
			defer pconc.Recover("capture drain "+src.Stream.String(), &drainErr)

			var stop = make(chan struct{})
			defer close(stop)
			go watchExit(src.File, exited, stop)

			var r io.Reader = src.File
			if decoded, err := DecoderFor(encName, src.File); err == nil {
				r = decoded
			} else {
				result.errs.AddError(err)
				return
			}

			var buf bytes.Buffer
			var chunk = make([]byte, 32*1024)
			for {
				var n, err = r.Read(chunk)
				if n > 0 {
					buf.Write(chunk[:n])
					if combine {
						mu.Lock()
						combined.Write(chunk[:n])
						mu.Unlock()
					}
				}
				if err != nil {
					// os.ErrDeadlineExceeded is watchExit ending the drain
					// once the process exited, not a read failure.
					if err != io.EOF && !errors.Is(err, os.ErrDeadlineExceeded) {
						drainErr = err
					}
					break
				}
			}
			mu.Lock()
			result.buffers[src.Stream] = buf.Bytes()
			mu.Unlock()
		}(src)
	}
	wg.Wait()
	if combine {
		result.buffers[Combined] = combined.Bytes()
	}
	return result
}

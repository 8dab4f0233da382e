// Package pconc provides the small set of concurrency primitives pexec
// needs: a one-shot semaphore, a thread-safe error collector, a
// uniform deadline accounting helper and panic recovery.
//
// Grounded on github.com/haraldrudell/parl's root package
// (awaitable.go, err-slice.go, cancel-context.go, recover.go):
// pexec's domain is narrow enough that parl's generic, allocation-free
// AwaitableSlice machinery (awaitable-slice-*.go, ~8 files, a
// work-stealing ring buffer) is not worth porting — ErrSlice here is a
// mutex-guarded slice, not a lock-free queue.
package pconc

import "sync/atomic"

// Awaitable is a semaphore that any number of goroutines can observe
// and wait on.
//   - zero value is ready to use, starts open
//   - Close is idempotent, thread-safe and panic-free
type Awaitable struct {
	isClosed atomic.Bool
	chanp    atomic.Pointer[chan struct{}]
}

// Ch returns a channel that closes when Close is invoked.
func (a *Awaitable) Ch() (ch <-chan struct{}) { return a.ch() }

// IsClosed returns whether Close has been invoked.
func (a *Awaitable) IsClosed() (isClosed bool) { return a.isClosed.Load() }

// Close triggers the awaitable. Safe to call more than once and from
// more than one goroutine; only the first call has effect.
func (a *Awaitable) Close() (didClose bool) {
	var ch = a.ch()
	if didClose = a.isClosed.CompareAndSwap(false, true); !didClose {
		return // already closed
	}
	close(ch)
	return
}

func (a *Awaitable) ch() (ch chan struct{}) {
	var newChanp *chan struct{}
	for {
		var loaded = a.chanp.Load()
		if loaded != nil {
			return *loaded
		}
		if newChanp == nil {
			var c = make(chan struct{})
			newChanp = &c
		}
		if a.chanp.CompareAndSwap(loaded, newChanp) {
			return *newChanp
		}
	}
}

package pconc

import (
	"context"
	"time"
)

// Deadline is the uniform remaining-time accounting helper used by
// every blocking pexec call (C3 in the design). It is derived once
// from whatever the caller provided — a duration, an absolute time,
// or a context.Context — and decremented against a monotonic clock,
// so every PAL wait call along the way sees a consistent "how much
// time is left" view instead of each layer re-deriving its own.
//
// Grounded on parl's NewCancelContext/InvokeCancel pattern
// (cancel-context.go): here the roles are reversed — a Deadline
// degrades to a context.Context for callers that want one via Ctx(),
// rather than parl's approach of stashing a cancel func inside a
// context value.
type Deadline struct {
	// zero Time means no deadline: Remaining is always the max duration
	at      time.Time
	hasTime bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NoDeadline is a Deadline that never expires.
func NoDeadline() Deadline { return Deadline{} }

// NewDeadline derives a Deadline from a duration, measured from now.
// A zero or negative d means "expired immediately": a single poll
// still gets one chance to succeed, matching spec.md's "for all
// operations that accept a deadline >= 0" invariant.
func NewDeadline(d time.Duration) Deadline {
	var ctx, cancel = context.WithTimeout(context.Background(), d)
	return Deadline{at: time.Now().Add(d), hasTime: true, ctx: ctx, cancel: cancel}
}

// NewDeadlineAt derives a Deadline from an absolute point in time.
func NewDeadlineAt(t time.Time) Deadline {
	var ctx, cancel = context.WithDeadline(context.Background(), t)
	return Deadline{at: t, hasTime: true, ctx: ctx, cancel: cancel}
}

// FromContext derives a Deadline from a context.Context, honoring
// both its Done channel (cancellation) and its deadline, if any. A
// nil ctx is treated as context.Background.
func FromContext(ctx context.Context) Deadline {
	if ctx == nil {
		ctx = context.Background()
	}
	var d = Deadline{ctx: ctx}
	if t, ok := ctx.Deadline(); ok {
		d.at, d.hasTime = t, true
	}
	return d
}

// Remaining returns the time left before expiry. For NoDeadline it
// returns the largest representable duration.
func (d Deadline) Remaining() time.Duration {
	if !d.hasTime {
		return time.Duration(1<<63 - 1)
	}
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether the deadline has passed or its context has
// been canceled.
func (d Deadline) Expired() bool {
	if d.ctx != nil {
		select {
		case <-d.ctx.Done():
			return true
		default:
		}
	}
	return d.hasTime && !time.Now().Before(d.at)
}

// Done returns a channel that closes on expiry/cancellation, or nil
// if this Deadline never expires (matching context.Context.Done's nil
// convention for context.Background()).
func (d Deadline) Done() <-chan struct{} {
	if d.ctx != nil {
		return d.ctx.Done()
	}
	return nil
}

// Ctx returns a context.Context equivalent to this Deadline, for
// handing to APIs (os/exec, golang.org/x/sys) that want one.
func (d Deadline) Ctx() context.Context {
	if d.ctx != nil {
		return d.ctx
	}
	return context.Background()
}

// Release frees resources associated with this Deadline's internal
// context timer. Deferrable, idempotent, safe on a NoDeadline value.
func (d Deadline) Release() {
	if d.cancel != nil {
		d.cancel()
	}
}

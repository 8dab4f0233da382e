// Package pexec spawns, supervises, and tears down external OS
// processes with race-free creation, a uniform deadline-aware wait
// path, and explicit standard-I/O plumbing — replacing ad hoc process
// launching code that deadlocks on full pipe buffers, leaks file
// descriptors, or has no way to bound how long a wait can take.
//
// A process is started through one of the composition operations —
// Inherit, Discard, RedirectToFiles, CaptureOutput, CaptureCombined —
// each blocking on the child until it exits or the supplied
// context.Context is done, at which point it is killed, reaped, and
// reported back with ExitStatus.Canceled set. FireAndForget and
// StreamOutputLines instead return a live *ChildProcessHandle
// immediately, since their whole point is to hand back control before
// the child is known to have exited; that handle owns the resources it
// created and must eventually be disposed of with Dispose. Run is a
// convenience wrapper over CaptureCombined for the common one-shot
// case.
//
// Debug logging is enabled by setting PEXEC_DEBUG to any non-empty
// value; see internal/plog.
package pexec

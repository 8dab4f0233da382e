package pexec

import "context"

// Run is the common "run a command, get its output and status back"
// convenience (SPEC_FULL.md §10), grounded on the teacher's
// ExecBlocking: builds a StartOptions from path/args, leaves stdin
// inherited from the parent, captures stdout/stderr combined, and
// waits to completion. ctx governs
// the run's deadline (spec.md §4.6); pass context.Background() for no
// deadline. For anything beyond the defaults — working directory,
// environment, streaming, suspended start — assemble a StartOptions
// and call CaptureCombined/StreamOutputLines/Inherit directly.
func Run(ctx context.Context, path string, args ...string) (CombinedOutput, error) {
	var opts = StartOptions{Path: path, Args: append([]string{path}, args...)}
	return CaptureCombined(ctx, opts, "")
}

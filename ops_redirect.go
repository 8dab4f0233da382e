package pexec

import (
	"context"
	"os"
)

// RedirectToFiles starts a child with each standard stream connected
// directly to a caller-supplied file (spec.md §6.3) — e.g. a log file
// opened with os.O_APPEND. A nil entry means "inherit the parent's
// corresponding stream", matching StartOptions' own nil-means-inherit
// convention — Discard's null-device semantics are not implied here.
// The caller retains ownership of every file passed in; pexec never
// closes them. RedirectToFiles blocks until the child exits or ctx is
// done, killing and reaping on ctx expiry (spec.md §4.6).
func RedirectToFiles(ctx context.Context, opts StartOptions, stdin, stdout, stderr *os.File) (ExitStatus, error) {
	var h, err = doSpawn(&opts, stdin, stdout, stderr, nil, nil, nil)
	if err != nil {
		return ExitStatus{}, err
	}
	defer h.Dispose()
	return h.WaitOrKill(ctx)
}

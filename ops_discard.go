package pexec

import (
	"context"

	"github.com/halfbit/pexec/internal/phandle"
)

// Discard starts a child with all three standard streams connected to
// the platform null device (spec.md §6.2): no user-space copy loop, no
// pipe buffer to fill — the kernel discards writes directly. Stdin
// reads as EOF immediately. Discard blocks until the child exits or
// ctx is done, killing and reaping on ctx expiry (spec.md §4.6).
func Discard(ctx context.Context, opts StartOptions) (ExitStatus, error) {
	var null, err = phandle.OpenNull()
	if err != nil {
		return ExitStatus{}, err
	}
	var f = null.Weak()
	var h *ChildProcessHandle
	if h, err = doSpawn(&opts, f, f, f, []*phandle.OwnedHandle{null}, nil, nil); err != nil {
		return ExitStatus{}, err
	}
	defer h.Dispose()
	return h.WaitOrKill(ctx)
}

package pexec

import (
	"context"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/halfbit/pexec/internal/phandle"
	"github.com/halfbit/pexec/internal/plog"
)

// Inherit starts a child with the three standard streams directly
// connected to the parent's own (spec.md §6.1): the simplest
// composition, used for interactive subprocesses the user should see
// and type into directly. When the parent's stdout is a real
// terminal, pexec logs its window size for diagnostics — it does not
// and cannot force the child to treat that terminal as its own
// controlling tty beyond what stdio inheritance already gives it.
// Inherit blocks until the child exits or ctx is done; on ctx expiry
// it kills and reaps the child and returns a status with Canceled set
// (spec.md §4.6, §6.1). A nil ctx waits forever.
func Inherit(ctx context.Context, opts StartOptions) (ExitStatus, error) {
	var stdin = phandle.StandardInput()
	var stdout = phandle.StandardOutput()
	var stderr = phandle.StandardError()

	if isatty.IsTerminal(stdout.Fd()) || isatty.IsCygwinTerminal(stdout.Fd()) {
		if w, hgt, err := term.GetSize(int(stdout.Fd())); err == nil {
			plog.Debug("pexec: inheriting terminal %dx%d for %q", w, hgt, opts.Path)
		}
	}

	var h, err = doSpawn(&opts, stdin, stdout, stderr, nil, nil, nil)
	if err != nil {
		return ExitStatus{}, err
	}
	defer h.Dispose()
	return h.WaitOrKill(ctx)
}

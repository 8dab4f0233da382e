package pexec

import "github.com/halfbit/pexec/internal/phandle"

// FireAndForget starts a child the caller never intends to wait on or
// read output from (spec.md §6.4): stdio discarded, the returned
// handle's reaper goroutine still runs so the child is reaped on exit
// and never left as a zombie even if the caller drops the handle
// immediately. KillOnParentDeath is commonly paired with this
// operation so an abandoned child does not outlive the parent.
func FireAndForget(opts StartOptions) (*ChildProcessHandle, error) {
	var null, err = phandle.OpenNull()
	if err != nil {
		return nil, err
	}
	var f = null.Weak()
	var h *ChildProcessHandle
	if h, err = doSpawn(&opts, f, f, f, []*phandle.OwnedHandle{null}, nil, nil); err != nil {
		return nil, err
	}
	return h, nil
}

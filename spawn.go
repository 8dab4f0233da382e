package pexec

import (
	"os"

	"github.com/halfbit/pexec/internal/phandle"
	"github.com/halfbit/pexec/internal/plog"
	"github.com/halfbit/pexec/internal/ppal"
)

// doSpawn is the single path every ops_*.go composition goes through:
// validates opts, builds a ppal.SpawnRequest from the resolved
// stdio/extra-files, invokes the PAL, fires OnStart, and wraps the
// result in a ChildProcessHandle that owns exactly the pipe ends
// passed as owned.
func doSpawn(opts *StartOptions, stdin, stdout, stderr *os.File, owned []*phandle.OwnedHandle, stdoutR, stderrR *phandle.OwnedHandle) (*ChildProcessHandle, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var env, referenced = opts.Env()
	var req = ppal.SpawnRequest{
		Path:           opts.Path,
		Args:           opts.Args,
		Env:            ppal.BuildEnv(env, referenced),
		Dir:            opts.Dir,
		Stdin:          stdin,
		Stdout:         stdout,
		Stderr:         stderr,
		ExtraFiles:     opts.ExtraFiles,
		InheritHandles: opts.InheritHandles,
		Flags: ppal.Flags{
			CreateNoWindow:        opts.CreateNoWindow,
			KillOnParentDeath:     opts.KillOnParentDeath,
			CreateSuspended:       opts.CreateSuspended,
			CreateNewProcessGroup: opts.CreateNewProcessGroup,
		},
	}

	plog.DebugFunc(func() string { return "pexec: spawning " + opts.Path })
	var proc, err = ppal.Spawn(req)
	if opts.OnStart != nil {
		if err != nil {
			opts.OnStart(0, err)
		} else {
			opts.OnStart(proc.PID(), nil)
		}
	}
	if err != nil {
		return nil, err
	}

	var h = newHandle(proc, opts.CreateSuspended, owned, stdoutR, stderrR)
	plog.Debug("pexec: spawned pid %d (%s) as %s", proc.PID(), h.ID(), h.State())
	return h, nil
}

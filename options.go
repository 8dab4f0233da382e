package pexec

import (
	"os"

	"github.com/halfbit/pexec/internal/perrs"
)

// StartOptions is the complete, programmatic configuration surface
// for starting a child process (the data model's StartOptions). There
// is no file or CLI configuration layer — see SPEC_FULL.md §3.3.
type StartOptions struct {
	// Path is the executable to run. On Unix it is passed to
	// os.StartProcess as given; no PATH search is done. On Windows the
	// command line built from Args is passed to CreateProcess and Path
	// is not used, so Args[0] names the program.
	Path string
	// Args is the full argv, Args[0] conventionally the program name.
	// Never shell-interpreted (spec.md Non-goals).
	Args []string
	// Dir is the child's working directory, or "" to inherit the
	// parent's current directory.
	Dir string

	// env, when referenced (see Env/SetEnv*/UnsetEnvVar below),
	// replaces the child's entire environment. A nil entry value
	// (UnsetEnvVar) omits that key from the built environment, distinct
	// from the key never having been set at all — both look the same
	// to the child, but the distinction matters when composing a base
	// map and then removing one inherited-looking key from it.
	env        map[string]*string
	referenced bool

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// ExtraFiles become the child's fd 4, 5, … on Unix, in order (fd 3
	// is the exit-observation pipe). The Windows spawner does not pass
	// ExtraFiles or InheritHandles to the child.
	ExtraFiles []*os.File
	// InheritHandles are visible to the child beyond stdio/ExtraFiles.
	// De-duplicated against the three stdio slots by Validate, stdio
	// taking precedence (spec.md §9(b)).
	InheritHandles []*os.File

	CreateNoWindow        bool
	KillOnParentDeath     bool
	CreateSuspended       bool
	CreateNewProcessGroup bool

	// OnStart, if set, is invoked with (pid, err) the instant the PAL's
	// spawn call returns, before any wait — supplemented from the
	// teacher's CmdContainer/StartCallback (SPEC_FULL.md §10).
	OnStart func(pid int, err error)
}

// SetEnv replaces the environment mapping wholesale and marks it as
// referenced, so an explicitly empty map means "no environment" and
// not "unset, inherit the parent's".
func (o *StartOptions) SetEnv(env map[string]string) {
	o.env = make(map[string]*string, len(env))
	for k, v := range env {
		var v = v
		o.env[k] = &v
	}
	o.referenced = true
}

// SetEnvVar sets a single variable and marks the mapping referenced.
// If no mapping was set yet it starts from an empty one; the parent's
// environment is not copied in, so the child then gets only the
// variables set here. StartOptions{} with no SetEnv/SetEnvVar/
// UnsetEnvVar call stays unreferenced and the child inherits the
// parent's live environment.
func (o *StartOptions) SetEnvVar(key, value string) {
	if o.env == nil {
		o.env = map[string]*string{}
	}
	o.env[key] = &value
	o.referenced = true
}

// UnsetEnvVar removes a variable from the child's environment by
// recording a nil value for key (spec.md §3: nil-valued entries are
// omitted from the built environment, distinct from never having set
// the variable at all). Like SetEnvVar, it starts from an empty
// mapping if none was set yet.
func (o *StartOptions) UnsetEnvVar(key string) {
	if o.env == nil {
		o.env = map[string]*string{}
	}
	o.env[key] = nil
	o.referenced = true
}

// Env returns the current environment mapping and whether it has ever
// been referenced (SetEnv/SetEnvVar/UnsetEnvVar called at least once).
// A nil value for a key means that key is explicitly unset.
func (o *StartOptions) Env() (env map[string]*string, referenced bool) {
	return o.env, o.referenced
}

// Validate checks the option set for internal consistency and applies
// the InheritHandles/stdio de-duplication rule (spec.md §9(b)). It
// does not touch the filesystem or the OS process table.
func (o *StartOptions) Validate() error {
	if o.Path == "" {
		return perrs.SpawnConfigError("empty executable path")
	}
	if len(o.Args) == 0 {
		return perrs.SpawnConfigError("empty argv for %q", o.Path)
	}
	if len(o.InheritHandles) > 0 {
		var stdio = map[uintptr]bool{}
		for _, f := range []*os.File{o.Stdin, o.Stdout, o.Stderr} {
			if f != nil {
				stdio[f.Fd()] = true
			}
		}
		var deduped = o.InheritHandles[:0]
		for _, f := range o.InheritHandles {
			if f == nil || stdio[f.Fd()] {
				continue
			}
			deduped = append(deduped, f)
		}
		o.InheritHandles = deduped
	}
	return nil
}

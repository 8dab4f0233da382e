// Package perrs provides stack-trace-carrying errors and the typed
// failure taxonomy from spec.md §7: SpawnConfigError, OsResourceError,
// ChildExecError, PlatformUnsupported and ProcessInvariantError.
//
// Grounded on github.com/haraldrudell/parl/perrors (Errorf, ErrorfPF,
// AppendError, Stack/HasStack, pruntime.NewCodeLocation), simplified
// to a single capturing error type instead of parl's pluggable
// errorglue chain (NewErrorStack/NewRelatedError/NewErrorData/…):
// pexec only ever needs "carry one stack trace, optionally wrap a
// sentinel, optionally attach a related error", not parl's general
// multi-facet error-data system.
package perrs

import (
	"errors"
	"fmt"
	"runtime"
)

// stackErr is an error decorated with the call stack captured at the
// point it was created, and optionally a second, related error
// (attached with AppendError).
type stackErr struct {
	msg     string
	wrapped error
	related error
	frames  []uintptr
}

func (e *stackErr) Error() string {
	if e.related == nil {
		return e.msg
	}
	return fmt.Sprintf("%s; also: %s", e.msg, e.related.Error())
}

func (e *stackErr) Unwrap() error { return e.wrapped }

// StackTrace renders the captured call stack, one frame per line.
func (e *stackErr) StackTrace() string {
	var frames = runtime.CallersFrames(e.frames)
	var s string
	for {
		f, more := frames.Next()
		s += fmt.Sprintf("%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return s
}

func captureFrames(skip int) []uintptr {
	var pc = make([]uintptr, 32)
	var n = runtime.Callers(skip+2, pc)
	return pc[:n]
}

// Errorf is fmt.Errorf with a call stack attached, unless err already
// carries one (matching perrors.Errorf: never re-capture).
func Errorf(format string, a ...any) error {
	var err = fmt.Errorf(format, a...)
	if HasStack(err) {
		return err
	}
	return &stackErr{msg: err.Error(), wrapped: errors.Unwrap(err), frames: captureFrames(1)}
}

// ErrorfPF is Errorf prefixed by "package.Func: ", grounded on
// perrors.ErrorfPF, identifying the call site in the message itself
// rather than requiring %+v stack-trace printing to locate it.
func ErrorfPF(format string, a ...any) error {
	var loc = callerPackFunc(2)
	return Errorf(loc+": "+format, a...)
}

// HasStack reports whether err's chain already carries a captured
// stack trace.
func HasStack(err error) bool {
	var se *stackErr
	return errors.As(err, &se)
}

// AppendError associates err2 with err as a related error for
// diagnostic rendering; nil-safe in both arguments.
func AppendError(err, err2 error) error {
	if err2 == nil {
		return err
	}
	if err == nil {
		return err2
	}
	if se, ok := err.(*stackErr); ok {
		var clone = *se
		if clone.related == nil {
			clone.related = err2
		} else {
			clone.related = AppendError(clone.related, err2)
		}
		return &clone
	}
	return &stackErr{msg: err.Error(), wrapped: err, related: err2, frames: captureFrames(1)}
}

func callerPackFunc(skip int) string {
	var pc = make([]uintptr, 1)
	if runtime.Callers(skip+1, pc) == 0 {
		return "?"
	}
	var frames = runtime.CallersFrames(pc)
	f, _ := frames.Next()
	var name = f.Function
	// f.Function is "full/import/path.Func" or "...path.(*Type).Method";
	// keep package-base.Func the way perrors.PackFunc renders it.
	var lastSlash = -1
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			lastSlash = i
			break
		}
	}
	if lastSlash >= 0 {
		name = name[lastSlash+1:]
	}
	return name
}

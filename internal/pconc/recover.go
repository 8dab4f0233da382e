package pconc

import "fmt"

// Recover recovers a panic in a deferred call, aggregating it into
// *errp. annotation identifies the recovering goroutine in the
// resulting error message.
//
//	defer pconc.Recover("copy stdout", &err)
//
// Grounded on parl.Recover (recover.go), shorn of parl's pluggable
// onError callback and deferred-annotation machinery: pexec always
// wants the same behavior, aggregate into an error pointer.
func Recover(annotation string, errp *error) {
	var r = recover()
	if r == nil {
		return
	}
	var panicErr error
	if e, ok := r.(error); ok {
		panicErr = fmt.Errorf("%s: panic: %w", annotation, e)
	} else {
		panicErr = fmt.Errorf("%s: panic: %v", annotation, r)
	}
	if errp == nil {
		return
	}
	if *errp != nil {
		panicErr = fmt.Errorf("%w; %w", *errp, panicErr)
	}
	*errp = panicErr
}

package conductor

import (
	"errors"
	"fmt"
)

// Fault is the intentional halt signal: a skip or fail that carries the
// Result it halted. Work bodies return one (via Execution.Skip or
// Execution.Fail) to stop their own execution; the Pipeline builds one
// when a child Result matches a group breakpoint so the composite can
// mirror it.
//
// A Fault is recoverable control flow, not an unexpected error: the
// Worker converts it into a terminal Result in non-strict mode and only
// returns it to the caller in strict mode when the outcome matches the
// configured breakpoints.
type Fault struct {
	status Status
	reason string
	res    *Result
}

// newFault builds a Fault halting the given Result with a status.
func newFault(status Status, reason string, res *Result) *Fault {
	return &Fault{status: status, reason: reason, res: res}
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.reason == "" {
		return f.status.String()
	}
	return fmt.Sprintf("%s: %s", f.status, f.reason)
}

// Status returns the outcome the Fault carries (skipped or failed).
func (f *Fault) Status() Status { return f.status }

// Reason returns the explanation attached to the Fault.
func (f *Fault) Reason() string { return f.reason }

// Result returns the Result the Fault halted.
func (f *Fault) Result() *Result { return f.res }

// AsFault unwraps err into a *Fault when it carries one.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFault reports whether err is (or wraps) a Fault.
func IsFault(err error) bool {
	_, ok := AsFault(err)
	return ok
}

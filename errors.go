package conductor

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUndefinedWork indicates a Task was built without a work
	// function. This is a programmer error: it always propagates (as a
	// panic) and is never converted into a Result status.
	ErrUndefinedWork = errors.New("work is not defined")

	// ErrFrozen indicates a mutation was attempted on a Result or
	// Context after its owning execution finalized.
	ErrFrozen = errors.New("frozen after finalization")

	// ErrUnknownHookType indicates a hook was registered or invoked
	// under a type the registry does not know.
	ErrUnknownHookType = errors.New("unknown hook type")

	// ErrUnsupportedInput indicates Execute was given an input that is
	// neither nil, a map, nor an existing *Context.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrDeprecated indicates a definition marked with DeprecationError
	// was executed.
	ErrDeprecated = errors.New("definition is deprecated")

	// ErrTimeout indicates the Timeout middleware expired before the
	// wrapped work finished.
	ErrTimeout = errors.New("execution timed out")
)

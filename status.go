package conductor

// Status represents the outcome of an execution.
// Status values use snake_case-free lowercase for log serialization.
type Status string

// Status constants define the valid outcomes a Result can report.
const (
	// StatusSuccess indicates the work finished without skipping or failing.
	// Every Result starts out success until told otherwise.
	StatusSuccess Status = "success"

	// StatusSkipped indicates the work declined to run to completion on
	// purpose. Skipped is a "good" outcome: nothing went wrong.
	StatusSkipped Status = "skipped"

	// StatusFailed indicates the work failed, either intentionally via
	// Fail or because it returned an unhandled error.
	StatusFailed Status = "failed"
)

// String returns the string representation of the Status.
// This implements fmt.Stringer for convenient logging and debugging.
func (s Status) String() string {
	return string(s)
}

// State represents where an execution is in its lifecycle.
//
// The state machine follows this flow:
//
//	Initialized → Executing
//	Executing   → Complete, Interrupted
type State string

// State constants define the lifecycle positions an execution moves through.
const (
	// StateInitialized indicates the execution was built but has not started.
	StateInitialized State = "initialized"

	// StateExecuting indicates the work body is currently running.
	StateExecuting State = "executing"

	// StateComplete indicates the execution ran to the end of its work
	// body without being halted.
	StateComplete State = "complete"

	// StateInterrupted indicates the execution was halted: a skip or
	// fail fault, a validation failure, or an unhandled error.
	StateInterrupted State = "interrupted"
)

// String returns the string representation of the State.
func (s State) String() string {
	return string(s)
}

// validStateTransitions defines all allowed transitions in the
// execution lifecycle. Terminal states are not present as keys.
//
//nolint:gochecknoglobals // Read-only lookup table
var validStateTransitions = map[State][]State{
	StateInitialized: {StateExecuting},
	StateExecuting:   {StateComplete, StateInterrupted},
}

// IsValidStateTransition checks if a transition between lifecycle
// states is allowed. Returns false for transitions from terminal states
// or to the same state.
func IsValidStateTransition(from, to State) bool {
	if from == to {
		return false
	}
	targets, exists := validStateTransitions[from]
	if !exists {
		return false
	}
	for _, target := range targets {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminalState returns true for states where execution has finished.
// Terminal states: Complete, Interrupted.
func IsTerminalState(state State) bool {
	return state == StateComplete || state == StateInterrupted
}

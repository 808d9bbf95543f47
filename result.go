package conductor

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Metadata keys the core writes into Result metadata.
const (
	// MetaReason holds the human-readable explanation for a skip or failure.
	MetaReason = "reason"

	// MetaMessages holds the per-field validation message map.
	MetaMessages = "messages"

	// MetaOriginalError holds the unhandled error that was wrapped into
	// a failed Result.
	MetaOriginalError = "original_error"

	// MetaRetries holds the number of retry attempts performed so far.
	MetaRetries = "retries"
)

// Result records the outcome of one execution: its status, lifecycle
// state, metadata, position in the Chain, and causation links to other
// Results when a failure was thrown across a workflow boundary.
//
// A Result is owned exclusively by its execution and mutated only while
// that execution runs. Once the execution finalizes, the Result is
// frozen and all further mutation returns ErrFrozen.
type Result struct {
	status   Status
	state    State
	metadata map[string]any

	index   int
	chainID string

	defName string
	defKind string
	taskID  string

	causedFailure *Result
	threwFailure  *Result

	runtime time.Duration
	frozen  bool
}

// newResult creates an initialized Result with the default success status.
func newResult(defName, defKind, taskID string) *Result {
	return &Result{
		status:   StatusSuccess,
		state:    StateInitialized,
		metadata: make(map[string]any),
		index:    -1,
		defName:  defName,
		defKind:  defKind,
		taskID:   taskID,
	}
}

// Status returns the outcome of the execution.
func (r *Result) Status() Status { return r.status }

// State returns the lifecycle position of the execution.
func (r *Result) State() State { return r.state }

// Index returns the Result's position in the Chain. Index 0 is the root
// execution. Returns -1 before the Result is appended to a Chain.
func (r *Result) Index() int { return r.index }

// ChainID returns the identifier of the Chain this Result belongs to.
func (r *Result) ChainID() string { return r.chainID }

// TaskID returns the unique identifier of the owning execution.
func (r *Result) TaskID() string { return r.taskID }

// Name returns the name of the definition that produced this Result.
func (r *Result) Name() string { return r.defName }

// Kind returns "task" or "workflow".
func (r *Result) Kind() string { return r.defKind }

// Runtime returns the wall time the execution took.
func (r *Result) Runtime() time.Duration { return r.runtime }

// Frozen reports whether the Result has been finalized.
func (r *Result) Frozen() bool { return r.frozen }

// Success reports a success status.
func (r *Result) Success() bool { return r.status == StatusSuccess }

// Skipped reports a skipped status.
func (r *Result) Skipped() bool { return r.status == StatusSkipped }

// Failed reports a failed status.
func (r *Result) Failed() bool { return r.status == StatusFailed }

// Good reports a non-failed outcome (success or skipped).
func (r *Result) Good() bool { return r.status != StatusFailed }

// Bad reports a non-success outcome (skipped or failed).
func (r *Result) Bad() bool { return r.status != StatusSuccess }

// Complete reports the execution ran to the end of its work body.
func (r *Result) Complete() bool { return r.state == StateComplete }

// Interrupted reports the execution was halted before completing.
func (r *Result) Interrupted() bool { return r.state == StateInterrupted }

// Executed reports the execution reached a terminal state.
func (r *Result) Executed() bool { return IsTerminalState(r.state) }

// Outcome collapses state and status into one reporting value: the
// status for completed executions, the state otherwise.
func (r *Result) Outcome() string {
	if r.state == StateInitialized || r.state == StateExecuting {
		return r.state.String()
	}
	if r.state == StateInterrupted && r.status == StatusSuccess {
		return r.state.String()
	}
	return r.status.String()
}

// Reason returns the recorded skip/failure reason, or "" for success.
func (r *Result) Reason() string {
	reason, _ := r.metadata[MetaReason].(string)
	return reason
}

// Metadata returns a shallow copy of the Result's metadata. Mutate
// through SetMetadata so freezing is enforced.
func (r *Result) Metadata() map[string]any {
	out := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// SetMetadata records an arbitrary key/value on the Result. Returns
// ErrFrozen after finalization.
func (r *Result) SetMetadata(key string, value any) error {
	if r.frozen {
		return fmt.Errorf("%w: result %s", ErrFrozen, r.taskID)
	}
	r.metadata[key] = value
	return nil
}

// CausedFailure returns the Result that originally halted, walking
// through every nesting level, or nil when this Result did not mirror a
// thrown failure.
func (r *Result) CausedFailure() *Result { return r.causedFailure }

// ThrewFailure returns the Result that most recently threw its failure
// into this one, or nil.
func (r *Result) ThrewFailure() *Result { return r.threwFailure }

// MarkSkipped records a skipped status without halting execution. Use
// Execution.Skip to halt instead.
func (r *Result) MarkSkipped(reason string) error {
	return r.apply(StatusSkipped, reason, nil)
}

// MarkFailed records a failed status without halting execution. Use
// Execution.Fail to halt instead.
func (r *Result) MarkFailed(reason string) error {
	return r.apply(StatusFailed, reason, nil)
}

// apply records a status, reason, and extra metadata.
func (r *Result) apply(status Status, reason string, metadata map[string]any) error {
	if r.frozen {
		return fmt.Errorf("%w: result %s", ErrFrozen, r.taskID)
	}
	r.status = status
	if reason != "" {
		r.metadata[MetaReason] = reason
	}
	for k, v := range metadata {
		r.metadata[k] = v
	}
	return nil
}

// throwFrom mirrors a failure thrown by another Result into this one.
// The caused link always points at the deepest Result in the causation
// chain; the threw link points at the immediate source.
func (r *Result) throwFrom(src *Result) {
	r.status = src.status
	for k, v := range src.metadata {
		r.metadata[k] = v
	}
	if src.causedFailure != nil {
		r.causedFailure = src.causedFailure
	} else {
		r.causedFailure = src
	}
	r.threwFailure = src
}

// transition moves the Result to the given lifecycle state. Invalid
// transitions indicate a core bug and panic.
func (r *Result) transition(to State) {
	if !IsValidStateTransition(r.state, to) {
		panic(fmt.Sprintf("conductor: invalid state transition %s -> %s", r.state, to))
	}
	r.state = to
}

// freeze makes the Result immutable.
func (r *Result) freeze() {
	r.frozen = true
}

// Serialize returns the structured record the Worker logs once per
// finalized Result.
func (r *Result) Serialize() map[string]any {
	return map[string]any{
		"index":    r.index,
		"chain_id": r.chainID,
		"type":     r.defKind,
		"class":    r.defName,
		"id":       r.taskID,
		"state":    r.state.String(),
		"status":   r.status.String(),
		"outcome":  r.Outcome(),
		"metadata": r.Metadata(),
		"runtime":  r.runtime.String(),
	}
}

// Dump renders the serialized Result as YAML for inspection and error
// reports.
func (r *Result) Dump() string {
	out, err := yaml.Marshal(r.Serialize())
	if err != nil {
		return fmt.Sprintf("%v", r.Serialize())
	}
	return string(out)
}

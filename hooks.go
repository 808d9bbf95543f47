package conductor

import (
	"fmt"
	"reflect"
)

// HookType names a lifecycle point hooks can attach to.
type HookType string

// Lifecycle hook types, in rough invocation order.
const (
	// BeforeValidation runs before attribute validation and coercion.
	BeforeValidation HookType = "before_validation"

	// BeforeExecution runs after validation passes, before the work body.
	BeforeExecution HookType = "before_execution"

	// OnExecuting runs as the work body starts.
	OnExecuting HookType = "on_executing"

	// OnComplete runs when the execution reached the end of its work body.
	OnComplete HookType = "on_complete"

	// OnInterrupted runs when the execution was halted.
	OnInterrupted HookType = "on_interrupted"

	// OnExecuted runs for every terminal execution, after the
	// state-specific hook.
	OnExecuted HookType = "on_executed"

	// OnSuccess, OnSkipped, and OnFailed run for the matching status.
	OnSuccess HookType = "on_success"
	OnSkipped HookType = "on_skipped"
	OnFailed  HookType = "on_failed"

	// OnGood runs for non-failed outcomes; OnBad for non-success ones.
	// A skipped execution fires both.
	OnGood HookType = "on_good"
	OnBad  HookType = "on_bad"
)

// knownHookTypes is the membership set for registration and invocation
// checks.
//
//nolint:gochecknoglobals // Read-only lookup table
var knownHookTypes = map[HookType]struct{}{
	BeforeValidation: {},
	BeforeExecution:  {},
	OnExecuting:      {},
	OnComplete:       {},
	OnInterrupted:    {},
	OnExecuted:       {},
	OnSuccess:        {},
	OnSkipped:        {},
	OnFailed:         {},
	OnGood:           {},
	OnBad:            {},
}

// Hook is one lifecycle callback. Hooks observe and mutate the
// execution; they cannot halt it.
type Hook func(e *Execution)

// Conditions gates a hook entry. Empty conditions always pass.
type Conditions struct {
	If     Condition
	Unless Condition
}

// met evaluates the conditions against the execution.
func (c Conditions) met(e *Execution) bool {
	if c.If != nil && !c.If(e) {
		return false
	}
	if c.Unless != nil && c.Unless(e) {
		return false
	}
	return true
}

// hookEntry is one registered (callables, conditions) tuple.
type hookEntry struct {
	fns  []Hook
	cond Conditions
}

// equal reports whether two entries register the same callables under
// the same conditions, by function identity.
func (h hookEntry) equal(other hookEntry) bool {
	if len(h.fns) != len(other.fns) {
		return false
	}
	for i := range h.fns {
		if funcPointer(h.fns[i]) != funcPointer(other.fns[i]) {
			return false
		}
	}
	return funcPointer(h.cond.If) == funcPointer(other.cond.If) &&
		funcPointer(h.cond.Unless) == funcPointer(other.cond.Unless)
}

// funcPointer returns the identity of a function value (0 for nil).
func funcPointer(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

// HookRegistry holds ordered, conditionally-gated hook entries per
// lifecycle type. Registering the exact same (callables, conditions)
// tuple twice stores it once; the same callables under different
// conditions are separate entries.
type HookRegistry struct {
	entries map[HookType][]hookEntry
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{entries: make(map[HookType][]hookEntry)}
}

// Register appends one entry under the given hook type. Unknown types
// return ErrUnknownHookType.
func (r *HookRegistry) Register(hookType HookType, cond Conditions, fns ...Hook) error {
	if _, ok := knownHookTypes[hookType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHookType, hookType)
	}
	entry := hookEntry{fns: fns, cond: cond}
	for _, existing := range r.entries[hookType] {
		if existing.equal(entry) {
			return nil
		}
	}
	r.entries[hookType] = append(r.entries[hookType], entry)
	return nil
}

// Invoke runs every entry registered under the hook type whose
// conditions pass, in registration order. Unknown types return
// ErrUnknownHookType.
func (r *HookRegistry) Invoke(hookType HookType, e *Execution) error {
	if _, ok := knownHookTypes[hookType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHookType, hookType)
	}
	for _, entry := range r.entries[hookType] {
		if !entry.cond.met(e) {
			continue
		}
		for _, fn := range entry.fns {
			fn(e)
		}
	}
	return nil
}

// Len returns the number of entries registered under the hook type.
func (r *HookRegistry) Len(hookType HookType) int {
	return len(r.entries[hookType])
}

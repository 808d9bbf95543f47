package conductor

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrorMatcher decides whether an error belongs to a retryable (or
// propagated) class. Build matchers with MatchErrorIs or supply your
// own predicate.
type ErrorMatcher func(error) bool

// MatchErrorIs returns a matcher satisfied when errors.Is(err, target).
func MatchErrorIs(target error) ErrorMatcher {
	return func(err error) bool {
		return errors.Is(err, target)
	}
}

// MatchErrorAny matches every non-nil error. This is the retry default.
func MatchErrorAny() ErrorMatcher {
	return func(err error) bool {
		return err != nil
	}
}

// DeprecationMode controls what happens when a deprecated definition is
// executed.
type DeprecationMode string

// Deprecation modes.
const (
	// DeprecationNone marks the definition as current. The default.
	DeprecationNone DeprecationMode = ""

	// DeprecationWarn logs a warning on every execution.
	DeprecationWarn DeprecationMode = "warn"

	// DeprecationError fails the execution with ErrDeprecated.
	DeprecationError DeprecationMode = "error"
)

// Settings is the per-definition configuration surface the core
// consumes. Zero values fall through to the Worker's defaults
// (WithDefaults, typically built from config.Config.Settings); a
// definition that sets a field overrides the default wholesale.
type Settings struct {
	// Retries is the maximum number of retry attempts after the work
	// body returns an error. Zero disables retrying.
	Retries int

	// RetryOn restricts retries to errors matched by at least one
	// matcher. Empty means any non-Fault error is retryable.
	RetryOn []ErrorMatcher

	// Breakpoints lists statuses that cause strict-mode execution to
	// return the underlying Fault, and serves as the workflow fallback
	// when WorkflowBreakpoints is unset.
	Breakpoints []string

	// TaskBreakpoints is the fallback for Breakpoints in strict mode.
	TaskBreakpoints []string

	// WorkflowBreakpoints lists statuses that make a workflow's Result
	// mirror a child's (defaults to failed).
	WorkflowBreakpoints []string

	// PropagateErrors lists error classes that strict mode returns
	// unwrapped instead of reporting the wrapping Fault.
	PropagateErrors []ErrorMatcher

	// Deprecated controls warn-or-fail behavior on use.
	Deprecated DeprecationMode

	// Tags are attached to every log record for this definition.
	Tags []string

	// Logger overrides the Worker's logger for this definition.
	Logger *zerolog.Logger

	// LogLevel overrides the level the finalized Result is logged at.
	// Empty uses the Worker default (info).
	LogLevel string
}

// withDefaults returns a copy of s with every zero-valued field filled
// from d. Definitions override defaults per field, never per element:
// a definition that names its own breakpoints replaces the default
// list entirely.
func (s Settings) withDefaults(d Settings) Settings {
	if s.Retries == 0 {
		s.Retries = d.Retries
	}
	if len(s.RetryOn) == 0 {
		s.RetryOn = d.RetryOn
	}
	if len(s.Breakpoints) == 0 {
		s.Breakpoints = d.Breakpoints
	}
	if len(s.TaskBreakpoints) == 0 {
		s.TaskBreakpoints = d.TaskBreakpoints
	}
	if len(s.WorkflowBreakpoints) == 0 {
		s.WorkflowBreakpoints = d.WorkflowBreakpoints
	}
	if len(s.PropagateErrors) == 0 {
		s.PropagateErrors = d.PropagateErrors
	}
	if s.Deprecated == DeprecationNone {
		s.Deprecated = d.Deprecated
	}
	if len(s.Tags) == 0 {
		s.Tags = d.Tags
	}
	if s.Logger == nil {
		s.Logger = d.Logger
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	return s
}

// breakpointSet is a normalized, de-duplicated membership set of status
// strings.
type breakpointSet map[string]struct{}

// normalizeBreakpoints builds a breakpointSet from the first non-empty
// candidate list. Values tolerate mixed spellings: whitespace, a
// leading ":", and case differences are all normalized away, and
// duplicates collapse.
func normalizeBreakpoints(candidates ...[]string) breakpointSet {
	for _, list := range candidates {
		if len(list) == 0 {
			continue
		}
		set := make(breakpointSet, len(list))
		for _, raw := range list {
			set[normalizeStatus(raw)] = struct{}{}
		}
		return set
	}
	return nil
}

// normalizeStatus canonicalizes one breakpoint value.
func normalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ":"))
}

// matches reports whether the given status is a member of the set.
func (b breakpointSet) matches(status Status) bool {
	if len(b) == 0 {
		return false
	}
	_, ok := b[normalizeStatus(status.String())]
	return ok
}

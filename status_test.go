package conductor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsValidStateTransition_AllValidTransitions tests all valid
// transitions defined in the lifecycle state machine.
func TestIsValidStateTransition_AllValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"initialized to executing", StateInitialized, StateExecuting},
		{"executing to complete", StateExecuting, StateComplete},
		{"executing to interrupted", StateExecuting, StateInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsValidStateTransition(tt.from, tt.to),
				"transition from %s to %s should be valid", tt.from, tt.to)
		})
	}
}

// TestIsValidStateTransition_InvalidTransitions tests transitions that
// are NOT allowed: same-state, backwards, and from terminal states.
func TestIsValidStateTransition_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"same state", StateExecuting, StateExecuting},
		{"initialized to complete skips executing", StateInitialized, StateComplete},
		{"initialized to interrupted skips executing", StateInitialized, StateInterrupted},
		{"complete is terminal", StateComplete, StateExecuting},
		{"interrupted is terminal", StateInterrupted, StateExecuting},
		{"executing backwards", StateExecuting, StateInitialized},
		{"unknown state", State("bogus"), StateExecuting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsValidStateTransition(tt.from, tt.to),
				"transition from %s to %s should be invalid", tt.from, tt.to)
		})
	}
}

func TestIsTerminalState(t *testing.T) {
	assert.True(t, IsTerminalState(StateComplete))
	assert.True(t, IsTerminalState(StateInterrupted))
	assert.False(t, IsTerminalState(StateInitialized))
	assert.False(t, IsTerminalState(StateExecuting))
}

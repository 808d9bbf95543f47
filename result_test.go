package conductor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResult_Defaults(t *testing.T) {
	r := newResult("order", "task", "id-1")

	assert.Equal(t, StatusSuccess, r.Status())
	assert.Equal(t, StateInitialized, r.State())
	assert.Equal(t, -1, r.Index())
	assert.False(t, r.Executed())
	assert.True(t, r.Good())
	assert.False(t, r.Bad())
	assert.Empty(t, r.Reason())
}

func TestResult_StatusPredicates(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		good    bool
		bad     bool
		success bool
		skipped bool
		failed  bool
	}{
		{"success is good only", StatusSuccess, true, false, true, false, false},
		{"skipped is good and bad", StatusSkipped, true, true, false, true, false},
		{"failed is bad only", StatusFailed, false, true, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResult("t", "task", "id")
			require.NoError(t, r.apply(tt.status, "", nil))

			assert.Equal(t, tt.good, r.Good())
			assert.Equal(t, tt.bad, r.Bad())
			assert.Equal(t, tt.success, r.Success())
			assert.Equal(t, tt.skipped, r.Skipped())
			assert.Equal(t, tt.failed, r.Failed())
		})
	}
}

func TestResult_ApplyRecordsReasonAndMetadata(t *testing.T) {
	r := newResult("t", "task", "id")
	err := r.apply(StatusFailed, "bad input", map[string]any{"attempt": 2})
	require.NoError(t, err)

	assert.Equal(t, "bad input", r.Reason())
	assert.Equal(t, 2, r.Metadata()["attempt"])
}

func TestResult_ThrowFrom_LinksCausation(t *testing.T) {
	leaf := newResult("leaf", "task", "leaf-id")
	require.NoError(t, leaf.apply(StatusFailed, "disk full", nil))

	inner := newResult("inner", "workflow", "inner-id")
	inner.throwFrom(leaf)

	outer := newResult("outer", "workflow", "outer-id")
	outer.throwFrom(inner)

	// The caused link always reaches the deepest failure; the threw
	// link names the immediate source.
	assert.Equal(t, StatusFailed, outer.Status())
	assert.Equal(t, "disk full", outer.Reason())
	assert.Same(t, leaf, outer.CausedFailure())
	assert.Same(t, inner, outer.ThrewFailure())
	assert.Same(t, leaf, inner.CausedFailure())
	assert.Same(t, leaf, inner.ThrewFailure())
}

func TestResult_FrozenRejectsMutation(t *testing.T) {
	r := newResult("t", "task", "id")
	r.freeze()

	assert.ErrorIs(t, r.SetMetadata("k", "v"), ErrFrozen)
	assert.ErrorIs(t, r.MarkSkipped("late"), ErrFrozen)
	assert.ErrorIs(t, r.MarkFailed("late"), ErrFrozen)
}

func TestResult_MetadataReturnsCopy(t *testing.T) {
	r := newResult("t", "task", "id")
	require.NoError(t, r.SetMetadata("k", "v"))

	md := r.Metadata()
	md["k"] = "mutated"

	assert.Equal(t, "v", r.Metadata()["k"])
}

func TestResult_Outcome(t *testing.T) {
	r := newResult("t", "task", "id")
	assert.Equal(t, "initialized", r.Outcome())

	r.transition(StateExecuting)
	assert.Equal(t, "executing", r.Outcome())

	r.transition(StateComplete)
	assert.Equal(t, "success", r.Outcome())

	failed := newResult("t", "task", "id2")
	failed.transition(StateExecuting)
	require.NoError(t, failed.apply(StatusFailed, "boom", nil))
	failed.transition(StateInterrupted)
	assert.Equal(t, "failed", failed.Outcome())
}

func TestResult_InvalidTransitionPanics(t *testing.T) {
	r := newResult("t", "task", "id")
	assert.Panics(t, func() { r.transition(StateComplete) })
}

func TestResult_SerializeAndDump(t *testing.T) {
	r := newResult("order", "task", "id-9")
	r.transition(StateExecuting)
	r.transition(StateComplete)

	ser := r.Serialize()
	assert.Equal(t, "task", ser["type"])
	assert.Equal(t, "order", ser["class"])
	assert.Equal(t, "success", ser["status"])
	assert.Equal(t, "complete", ser["state"])

	dump := r.Dump()
	assert.Contains(t, dump, "class: order")
	assert.Contains(t, dump, "status: success")
}

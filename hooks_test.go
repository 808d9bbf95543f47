package conductor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookRegistry_RegisterIsIdempotentForExactDuplicates(t *testing.T) {
	r := NewHookRegistry()
	logIt := func(e *Execution) {}

	require.NoError(t, r.Register(OnSuccess, Conditions{}, logIt))
	require.NoError(t, r.Register(OnSuccess, Conditions{}, logIt))

	assert.Equal(t, 1, r.Len(OnSuccess), "exact duplicate registration should be suppressed")
}

func TestHookRegistry_DistinctConditionsStoreSeparateEntries(t *testing.T) {
	r := NewHookRegistry()
	logIt := func(e *Execution) {}
	onlyGood := func(e *Execution) bool { return e.Result().Good() }

	require.NoError(t, r.Register(OnSuccess, Conditions{}, logIt))
	require.NoError(t, r.Register(OnSuccess, Conditions{If: onlyGood}, logIt))

	assert.Equal(t, 2, r.Len(OnSuccess))
}

func TestHookRegistry_UnknownTypeErrors(t *testing.T) {
	r := NewHookRegistry()

	err := r.Register(HookType("on_lunch"), Conditions{}, func(e *Execution) {})
	assert.ErrorIs(t, err, ErrUnknownHookType)

	err = r.Invoke(HookType("on_lunch"), nil)
	assert.ErrorIs(t, err, ErrUnknownHookType)
}

func TestHookRegistry_InvokeRunsInRegistrationOrder(t *testing.T) {
	r := NewHookRegistry()
	var order []string

	require.NoError(t, r.Register(BeforeExecution, Conditions{}, func(e *Execution) {
		order = append(order, "first")
	}))
	require.NoError(t, r.Register(BeforeExecution, Conditions{}, func(e *Execution) {
		order = append(order, "second")
	}))

	require.NoError(t, r.Invoke(BeforeExecution, nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestHookRegistry_ConditionsGateInvocation(t *testing.T) {
	r := NewHookRegistry()
	var fired []string

	always := func(e *Execution) { fired = append(fired, "always") }
	gatedOn := func(e *Execution) { fired = append(fired, "if_true") }
	gatedOff := func(e *Execution) { fired = append(fired, "if_false") }
	unlessOn := func(e *Execution) { fired = append(fired, "unless_false") }
	unlessOff := func(e *Execution) { fired = append(fired, "unless_true") }

	yes := func(e *Execution) bool { return true }
	no := func(e *Execution) bool { return false }

	require.NoError(t, r.Register(OnExecuted, Conditions{}, always))
	require.NoError(t, r.Register(OnExecuted, Conditions{If: yes}, gatedOn))
	require.NoError(t, r.Register(OnExecuted, Conditions{If: no}, gatedOff))
	require.NoError(t, r.Register(OnExecuted, Conditions{Unless: no}, unlessOn))
	require.NoError(t, r.Register(OnExecuted, Conditions{Unless: yes}, unlessOff))

	require.NoError(t, r.Invoke(OnExecuted, nil))
	assert.Equal(t, []string{"always", "if_true", "unless_false"}, fired)
}

package conductor

import "github.com/google/uuid"

// Chain is the ordered registry of every Result produced during one
// root-level execution. It is created when the root execution starts,
// shared by reference through all nested executions, and cleared
// exactly once when the root Result (index 0) finalizes — on the
// success path and on the strict-mode error path alike, so no state
// leaks into the next unrelated run.
//
// Indices are assigned at Result construction, before the work body
// runs, so nested ordering reflects call order rather than completion
// order.
type Chain struct {
	id      string
	results []*Result
}

// newChain creates an empty Chain with a fresh identifier.
func newChain() *Chain {
	return &Chain{id: newID()}
}

// ID returns the chain identifier shared by all Results in this run.
func (c *Chain) ID() string { return c.id }

// Len returns the number of registered Results.
func (c *Chain) Len() int { return len(c.results) }

// Results returns a copy of the registered Results in append order.
func (c *Chain) Results() []*Result {
	out := make([]*Result, len(c.results))
	copy(out, c.results)
	return out
}

// First returns the root Result, or nil when the chain is empty.
func (c *Chain) First() *Result {
	if len(c.results) == 0 {
		return nil
	}
	return c.results[0]
}

// append registers a Result, assigning its index and chain id.
func (c *Chain) append(r *Result) {
	r.index = len(c.results)
	r.chainID = c.id
	c.results = append(c.results, r)
}

// clear empties the registry. Called once, when the root Result
// finalizes.
func (c *Chain) clear() {
	c.results = nil
}

// newID produces a unique identifier. UUID v7 is preferred for its
// time-ordered prefix; v4 is the fallback when v7 generation fails.
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.New().String()
}

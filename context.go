package conductor

import (
	"fmt"
	"strings"
)

// Context is the shared mutable key/value bag for one run. Every
// execution in a chain reads and writes the same Context instance, so
// outputs accumulated by earlier tasks are visible to later tasks.
//
// Keys are normalized on every access: surrounding whitespace and a
// leading ":" are stripped, so "name" and ":name" address the same
// entry regardless of how a caller spelled the key.
//
// The Context is unsynchronized on purpose: execution within one root
// chain is single-threaded. Once the root Result finalizes, the Context
// freezes and all further writes return ErrFrozen.
type Context struct {
	values map[string]any
	frozen bool
}

// NewContext creates a Context seeded from the given map. A nil map
// yields an empty Context.
func NewContext(input map[string]any) *Context {
	c := &Context{values: make(map[string]any, len(input))}
	for k, v := range input {
		c.values[normalizeKey(k)] = v
	}
	return c
}

// contextFrom wraps arbitrary input into a Context: nil and maps build
// a fresh bag, an existing *Context is shared by reference.
func contextFrom(input any) (*Context, error) {
	switch in := input.(type) {
	case nil:
		return NewContext(nil), nil
	case *Context:
		if in == nil {
			return NewContext(nil), nil
		}
		return in, nil
	case map[string]any:
		return NewContext(in), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

// normalizeKey canonicalizes a context key.
func normalizeKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), ":")
}

// Get returns the value stored under the normalized key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[normalizeKey(key)]
	return v, ok
}

// Value returns the value stored under key, or nil when absent.
func (c *Context) Value(key string) any {
	v, _ := c.Get(key)
	return v
}

// String returns the value under key coerced to its string form, or ""
// when absent.
func (c *Context) String(key string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Set stores a value under the normalized key. Returns ErrFrozen after
// the root execution finalizes.
func (c *Context) Set(key string, value any) error {
	if c.frozen {
		return fmt.Errorf("%w: context", ErrFrozen)
	}
	c.values[normalizeKey(key)] = value
	return nil
}

// Delete removes a key. Returns ErrFrozen after finalization.
func (c *Context) Delete(key string) error {
	if c.frozen {
		return fmt.Errorf("%w: context", ErrFrozen)
	}
	delete(c.values, normalizeKey(key))
	return nil
}

// Len returns the number of stored entries.
func (c *Context) Len() int { return len(c.values) }

// Frozen reports whether the Context has been finalized.
func (c *Context) Frozen() bool { return c.frozen }

// Snapshot returns a shallow copy of the stored values.
func (c *Context) Snapshot() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// freeze makes the Context immutable.
func (c *Context) freeze() {
	c.frozen = true
}

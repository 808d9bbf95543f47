package param

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Bag is the context surface param reads from and writes coerced values
// back to. conductor.Context satisfies it.
type Bag interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
}

// Attribute declares one input an execution expects.
type Attribute struct {
	// Name is the context key the value lives under (and the key the
	// coerced value is written back to).
	Name string

	// Type selects the coercion applied to the raw value. Empty leaves
	// the value untouched.
	Type Type

	// Source reads the raw value from a different context key than
	// Name. Empty means Name.
	Source string

	// Required makes a missing value a validation failure.
	Required bool

	// Default is written when the value is absent. Defaults are coerced
	// like any other value.
	Default any

	// Options restricts the coerced value to a closed set. Empty allows
	// anything.
	Options []any
}

// ValidationError aggregates every attribute failure from one Verify
// pass. Messages maps field name to its list of problems; Error renders
// the combined reason.
type ValidationError struct {
	Messages map[string][]string
}

// Error implements the error interface with the combined reason string.
func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Messages))
	for field := range v.Messages {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range v.Messages[field] {
			parts = append(parts, fmt.Sprintf("%s %s", field, msg))
		}
	}
	return strings.Join(parts, ". ")
}

// add records one failure message for a field.
func (v *ValidationError) add(field, message string) {
	if v.Messages == nil {
		v.Messages = make(map[string][]string)
	}
	v.Messages[field] = append(v.Messages[field], message)
}

// Verify checks and coerces every attribute against the bag using the
// default registry. Missing required values and coercion failures are
// aggregated into a single *ValidationError; coerced values are written
// back under the attribute name. Returns nil when everything passed.
func Verify(attrs []Attribute, bag Bag) error {
	return VerifyWith(defaultRegistry, attrs, bag)
}

// VerifyWith is Verify against an explicit coercion registry.
func VerifyWith(reg *Registry, attrs []Attribute, bag Bag) error {
	verr := &ValidationError{}

	for _, attr := range attrs {
		source := attr.Source
		if source == "" {
			source = attr.Name
		}

		raw, ok := bag.Get(source)
		if !ok || raw == nil {
			if attr.Default != nil {
				raw = attr.Default
			} else if attr.Required {
				verr.add(attr.Name, "is a required attribute")
				continue
			} else {
				continue
			}
		}

		value := raw
		if attr.Type != "" {
			coerced, err := reg.Coerce(attr.Type, raw)
			if err != nil {
				verr.add(attr.Name, fmt.Sprintf("could not coerce into a %s: %v", attr.Type, err))
				continue
			}
			value = coerced
		}

		if len(attr.Options) > 0 && !optionAllowed(attr.Options, value) {
			verr.add(attr.Name, fmt.Sprintf("is not one of the allowed options: %v", value))
			continue
		}

		if err := bag.Set(attr.Name, value); err != nil {
			verr.add(attr.Name, fmt.Sprintf("could not be written: %v", err))
		}
	}

	if len(verr.Messages) > 0 {
		return verr
	}
	return nil
}

// optionAllowed reports whether value matches one of the allowed
// options. DeepEqual, not ==: options may hold slices and maps.
func optionAllowed(options []any, value any) bool {
	for _, opt := range options {
		if reflect.DeepEqual(opt, value) {
			return true
		}
	}
	return false
}

package param

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Type names a registered coercion.
type Type string

// Built-in coercion types.
const (
	TypeString   Type = "string"
	TypeInt      Type = "int"
	TypeFloat    Type = "float"
	TypeBool     Type = "bool"
	TypeDuration Type = "duration"
	TypeTime     Type = "time"
	TypeStrings  Type = "strings"
	TypeMap      Type = "map"
)

// ErrUnknownCoercion indicates a coercion type that was never
// registered.
var ErrUnknownCoercion = errors.New("unknown coercion type")

// CoerceFunc transforms a raw context value into its declared type.
type CoerceFunc func(raw any) (any, error)

// Registry holds named coercions.
type Registry struct {
	coercers map[Type]CoerceFunc
}

// defaultRegistry backs the package-level Coerce/Register/Verify calls.
//
//nolint:gochecknoglobals // Shared default registry, mirrors the settings surface
var defaultRegistry = NewRegistry()

// NewRegistry creates a Registry seeded with the built-in coercions.
func NewRegistry() *Registry {
	r := &Registry{coercers: make(map[Type]CoerceFunc)}
	r.MustRegister(TypeString, decodeInto[string])
	r.MustRegister(TypeInt, decodeInto[int])
	r.MustRegister(TypeFloat, decodeInto[float64])
	r.MustRegister(TypeBool, decodeInto[bool])
	r.MustRegister(TypeDuration, decodeInto[time.Duration])
	r.MustRegister(TypeTime, decodeInto[time.Time])
	r.MustRegister(TypeStrings, decodeInto[[]string])
	r.MustRegister(TypeMap, decodeInto[map[string]any])
	return r
}

// Register adds or replaces a coercion under the given type name.
func (r *Registry) Register(t Type, fn CoerceFunc) error {
	if t == "" {
		return fmt.Errorf("coercion type cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("coercion func cannot be nil")
	}
	r.coercers[t] = fn
	return nil
}

// MustRegister is Register panicking on error. For package init paths.
func (r *Registry) MustRegister(t Type, fn CoerceFunc) {
	if err := r.Register(t, fn); err != nil {
		panic(err)
	}
}

// Coerce transforms raw using the coercion registered under t. Returns
// ErrUnknownCoercion (wrapped) for unregistered types.
func (r *Registry) Coerce(t Type, raw any) (any, error) {
	fn, ok := r.coercers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCoercion, t)
	}
	return fn(raw)
}

// Register adds a coercion to the default registry.
func Register(t Type, fn CoerceFunc) error {
	return defaultRegistry.Register(t, fn)
}

// Coerce transforms raw using the default registry.
func Coerce(t Type, raw any) (any, error) {
	return defaultRegistry.Coerce(t, raw)
}

// decodeInto coerces raw into T through a weakly-typed mapstructure
// decode. String inputs pick up duration and RFC3339 time parsing via
// decode hooks, matching how configuration values arrive.
func decodeInto[T any](raw any) (any, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return out, nil
}

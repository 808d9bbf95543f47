package param

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapBag is a minimal Bag over a plain map.
type mapBag map[string]any

func (b mapBag) Get(key string) (any, bool) {
	v, ok := b[key]
	return v, ok
}

func (b mapBag) Set(key string, value any) error {
	b[key] = value
	return nil
}

func TestVerify_RequiredMissingAggregates(t *testing.T) {
	bag := mapBag{}
	attrs := []Attribute{
		{Name: "user_id", Required: true},
		{Name: "email", Required: true},
		{Name: "nickname"},
	}

	err := Verify(attrs, bag)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Messages, 2)
	assert.Equal(t, []string{"is a required attribute"}, verr.Messages["user_id"])
	assert.Equal(t, []string{"is a required attribute"}, verr.Messages["email"])

	// Error renders field-sorted messages joined by ". ".
	assert.Equal(t, "email is a required attribute. user_id is a required attribute", verr.Error())
}

func TestVerify_CoercesAndWritesBack(t *testing.T) {
	bag := mapBag{
		"count":   "42",
		"ratio":   "0.5",
		"active":  "true",
		"wait":    "150ms",
		"started": "2026-08-27T10:00:00Z",
	}
	attrs := []Attribute{
		{Name: "count", Type: TypeInt},
		{Name: "ratio", Type: TypeFloat},
		{Name: "active", Type: TypeBool},
		{Name: "wait", Type: TypeDuration},
		{Name: "started", Type: TypeTime},
	}

	require.NoError(t, Verify(attrs, bag))

	assert.Equal(t, 42, bag["count"])
	assert.Equal(t, 0.5, bag["ratio"])
	assert.Equal(t, true, bag["active"])
	assert.Equal(t, 150*time.Millisecond, bag["wait"])
	assert.Equal(t, time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), bag["started"])
}

func TestVerify_CoercionFailureMessage(t *testing.T) {
	bag := mapBag{"count": "not-a-number"}
	attrs := []Attribute{{Name: "count", Type: TypeInt}}

	err := Verify(attrs, bag)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Messages["count"], 1)
	assert.Contains(t, verr.Messages["count"][0], "could not coerce into a int")
}

func TestVerify_DefaultAppliedAndCoerced(t *testing.T) {
	bag := mapBag{}
	attrs := []Attribute{
		{Name: "limit", Type: TypeInt, Default: "10"},
	}

	require.NoError(t, Verify(attrs, bag))
	assert.Equal(t, 10, bag["limit"])
}

func TestVerify_DefaultDoesNotOverrideProvided(t *testing.T) {
	bag := mapBag{"limit": 3}
	attrs := []Attribute{{Name: "limit", Type: TypeInt, Default: 10}}

	require.NoError(t, Verify(attrs, bag))
	assert.Equal(t, 3, bag["limit"])
}

func TestVerify_SourceReadsAlternateKey(t *testing.T) {
	bag := mapBag{"raw_count": "7"}
	attrs := []Attribute{{Name: "count", Type: TypeInt, Source: "raw_count"}}

	require.NoError(t, Verify(attrs, bag))
	assert.Equal(t, 7, bag["count"])
	assert.Equal(t, "7", bag["raw_count"], "source value stays untouched")
}

func TestVerify_OptionalMissingIsFine(t *testing.T) {
	bag := mapBag{}
	attrs := []Attribute{{Name: "nickname", Type: TypeString}}

	require.NoError(t, Verify(attrs, bag))
	_, ok := bag["nickname"]
	assert.False(t, ok)
}

func TestVerify_StringsAndMapCoercions(t *testing.T) {
	bag := mapBag{
		"tags":  []any{"a", "b"},
		"extra": map[string]any{"k": 1},
	}
	attrs := []Attribute{
		{Name: "tags", Type: TypeStrings},
		{Name: "extra", Type: TypeMap},
	}

	require.NoError(t, Verify(attrs, bag))
	assert.Equal(t, []string{"a", "b"}, bag["tags"])
	assert.Equal(t, map[string]any{"k": 1}, bag["extra"])
}

func TestVerify_OptionsRestrictValues(t *testing.T) {
	attrs := []Attribute{
		{Name: "mode", Type: TypeString, Options: []any{"fast", "safe"}},
	}

	bag := mapBag{"mode": "fast"}
	require.NoError(t, Verify(attrs, bag))

	bag = mapBag{"mode": "reckless"}
	err := Verify(attrs, bag)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages["mode"][0], "allowed options")
}

func TestVerify_OptionsWithUncomparableValues(t *testing.T) {
	// Slice and map options must not panic; they compare structurally.
	attrs := []Attribute{
		{Name: "regions", Type: TypeStrings, Options: []any{
			[]string{"us", "eu"},
			[]string{"us"},
		}},
	}

	bag := mapBag{"regions": []any{"us", "eu"}}
	require.NoError(t, Verify(attrs, bag))
	assert.Equal(t, []string{"us", "eu"}, bag["regions"])

	bag = mapBag{"regions": []any{"apac"}}
	err := Verify(attrs, bag)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages["regions"][0], "allowed options")
}

func TestRegistry_UnknownCoercion(t *testing.T) {
	_, err := Coerce(Type("uuid"), "abc")
	assert.ErrorIs(t, err, ErrUnknownCoercion)
}

func TestRegistry_CustomCoercion(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(Type("upper"), func(raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return strings.ToUpper(s), nil
	}))

	bag := mapBag{"code": "abc"}
	attrs := []Attribute{{Name: "code", Type: Type("upper")}}

	require.NoError(t, VerifyWith(reg, attrs, bag))
	assert.Equal(t, "ABC", bag["code"])
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register("", func(raw any) (any, error) { return raw, nil }))
	assert.Error(t, reg.Register(Type("x"), nil))
	assert.Panics(t, func() { reg.MustRegister("", nil) })
}

func TestVerify_SetFailureReported(t *testing.T) {
	bag := failingBag{}
	attrs := []Attribute{{Name: "count", Default: 1}}

	err := Verify(attrs, bag)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages["count"][0], "could not be written")
}

type failingBag struct{}

func (failingBag) Get(string) (any, bool) { return nil, false }
func (failingBag) Set(string, any) error  { return errors.New("sealed") }

package casting

import (
	"context"
	"math"
	"math/big"
	"net/url"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akairo/pkg/argtypes"
)

func TestBuiltins(t *testing.T) {
	registry := NewRegistryWithBuiltins()

	tests := []struct {
		name     string
		typ      string
		phrase   any
		expected any
	}{
		{name: "string passes through", typ: TypeString, phrase: "hello", expected: "hello"},
		{name: "string rejects empty", typ: TypeString, phrase: "", expected: nil},
		{name: "lowercase", typ: TypeLowercase, phrase: "HeLLo", expected: "hello"},
		{name: "uppercase", typ: TypeUppercase, phrase: "straße", expected: "STRASSE"},
		{name: "char codes", typ: TypeCharCodes, phrase: "ab", expected: []int{97, 98}},
		{name: "number", typ: TypeNumber, phrase: "3.5", expected: 3.5},
		{name: "number rejects text", typ: TypeNumber, phrase: "abc", expected: nil},
		{name: "integer", typ: TypeInteger, phrase: "42", expected: 42},
		{name: "integer truncates", typ: TypeInteger, phrase: "5.9", expected: 5},
		{name: "integer negative", typ: TypeInteger, phrase: "-3", expected: -3},
		{name: "integer rejects text", typ: TypeInteger, phrase: "abc", expected: nil},
		{name: "integer rejects empty", typ: TypeInteger, phrase: "", expected: nil},
		{name: "integer max", typ: TypeInteger, phrase: "9223372036854775807", expected: math.MaxInt64},
		{name: "integer min", typ: TypeInteger, phrase: "-9223372036854775808", expected: math.MinInt64},
		{name: "integer rejects above max", typ: TypeInteger, phrase: "9223372036854775808", expected: nil},
		{name: "integer rejects far above max", typ: TypeInteger, phrase: "9223372036854775809", expected: nil},
		{name: "integer rejects below min", typ: TypeInteger, phrase: "-9223372036854775809", expected: nil},
		{name: "integer rejects huge float", typ: TypeInteger, phrase: "9.3e18", expected: nil},
		{name: "emojint", typ: TypeEmojint, phrase: "1️⃣2️⃣", expected: 12},
		{name: "emojint ten", typ: TypeEmojint, phrase: "🔟", expected: 10},
		{name: "color with hash", typ: TypeColor, phrase: "#ff0000", expected: 0xff0000},
		{name: "color without hash", typ: TypeColor, phrase: "00ff00", expected: 0x00ff00},
		{name: "color out of range", typ: TypeColor, phrase: "1000000", expected: nil},
		{name: "duration", typ: TypeDuration, phrase: "1m30s", expected: 90 * time.Second},
		{name: "boolean yes", typ: TypeBoolean, phrase: "yes", expected: true},
		{name: "boolean off", typ: TypeBoolean, phrase: "off", expected: false},
		{name: "boolean rejects", typ: TypeBoolean, phrase: "maybe", expected: nil},
		{name: "url rejects bare number", typ: TypeURL, phrase: "42", expected: nil},
		{name: "uuid rejects", typ: TypeUUID, phrase: "not-a-uuid", expected: nil},
		{name: "semver rejects", typ: TypeSemver, phrase: "one.two", expected: nil},
		{name: "date rejects", typ: TypeDate, phrase: "yesterday-ish", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := registry.Cast(context.Background(), nil, argtypes.Named(tt.typ), tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestBuiltins_StructuredValues(t *testing.T) {
	registry := NewRegistryWithBuiltins()
	ctx := context.Background()

	res, err := registry.Cast(ctx, nil, argtypes.Named(TypeURL), "<https://example.com/a?b=c>")
	require.NoError(t, err)
	u, ok := res.(*url.URL)
	require.True(t, ok)
	assert.Equal(t, "example.com", u.Host)

	res, err = registry.Cast(ctx, nil, argtypes.Named(TypeBigint), "123456789012345678901234567890")
	require.NoError(t, err)
	n, ok := res.(*big.Int)
	require.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", n.String())

	res, err = registry.Cast(ctx, nil, argtypes.Named(TypeDate), "2024-02-29")
	require.NoError(t, err)
	date, ok := res.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.February, date.Month())

	id := uuid.New()
	res, err = registry.Cast(ctx, nil, argtypes.Named(TypeUUID), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, res)

	res, err = registry.Cast(ctx, nil, argtypes.Named(TypeSemver), "v1.2.3")
	require.NoError(t, err)
	v, ok := res.(*semver.Version)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", v.String())

	res, err = registry.Cast(ctx, nil, argtypes.Named(TypeSemverConstraint), ">= 1.0, < 2")
	require.NoError(t, err)
	c, ok := res.(*semver.Constraints)
	require.True(t, ok)
	assert.True(t, c.Check(v))
}

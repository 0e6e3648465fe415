package casting

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akairo/pkg/argtypes"
)

var (
	integer   = argtypes.Named(TypeInteger)
	lowercase = argtypes.Named(TypeLowercase)
	urlType   = argtypes.Named(TypeURL)
)

func alwaysFail(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
	return argtypes.Fail{Tag: "always", Input: phrase}, nil
}

func passThrough(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
	return phrase, nil
}

func run(t *testing.T, fn argtypes.Func, phrase any) any {
	t.Helper()
	res, err := fn(context.Background(), nil, phrase)
	require.NoError(t, err)
	return res
}

func TestCompose_ShortCircuits(t *testing.T) {
	called := false
	neverCalled := argtypes.Func(func(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
		called = true
		return phrase, nil
	})

	res := run(t, Compose(argtypes.Func(alwaysFail), neverCalled), "x")

	assert.False(t, called)
	assert.Equal(t, argtypes.Fail{Tag: "always", Input: "x"}, res)
}

func TestCompose_PipesAccumulator(t *testing.T) {
	double := argtypes.Func(func(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
		return phrase.(int) * 2, nil
	})

	assert.Equal(t, 84, run(t, Compose(integer, double), "42"))
	assert.Nil(t, run(t, Compose(integer, double), "abc"))
}

func TestComposeWithFailure_RunsEveryStage(t *testing.T) {
	stages := 0
	counting := argtypes.Func(func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		stages++
		return passThrough(ctx, inv, phrase)
	})

	res := run(t, ComposeWithFailure(argtypes.Func(alwaysFail), counting), "x")

	assert.Equal(t, 1, stages)
	assert.Equal(t, argtypes.Fail{Tag: "always", Input: "x"}, res)
	assert.True(t, IsFailure(res))
}

func TestComposeWithFailure_LaterStageCanRecover(t *testing.T) {
	recoverFail := argtypes.Func(func(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
		if IsFailure(phrase) {
			return "recovered", nil
		}
		return phrase, nil
	})

	assert.Equal(t, "recovered", run(t, ComposeWithFailure(integer, recoverFail), "abc"))
	assert.Equal(t, 7, run(t, ComposeWithFailure(integer, recoverFail), "7"))
}

func TestUnion(t *testing.T) {
	assert.Equal(t, "abc", run(t, Union(integer, lowercase), "abc"))
	assert.Equal(t, 12, run(t, Union(integer, lowercase), "12"))
	assert.Nil(t, run(t, Union(integer, argtypes.Func(alwaysFail)), "abc"))
}

func TestProduct(t *testing.T) {
	res := run(t, Product(integer, urlType), "42")
	assert.Nil(t, res, "url failure is returned instead of a partial array")

	res = run(t, Product(integer, argtypes.Named(TypeNumber)), "42")
	assert.Equal(t, []any{42, 42.0}, res)

	res = run(t, Product(integer, argtypes.Func(alwaysFail)), "42")
	assert.Equal(t, argtypes.Fail{Tag: "always", Input: "42"}, res)
}

func TestRange(t *testing.T) {
	tests := []struct {
		name      string
		typ       argtypes.Type
		min, max  float64
		inclusive bool
		phrase    string
		expected  any
	}{
		{name: "exclusive upper bound rejects max", typ: integer, min: 1, max: 10, phrase: "10", expected: nil},
		{name: "inclusive upper bound accepts max", typ: integer, min: 1, max: 10, inclusive: true, phrase: "10", expected: 10},
		{name: "below min", typ: integer, min: 1, max: 10, phrase: "0", expected: nil},
		{name: "min is inclusive", typ: integer, min: 1, max: 10, phrase: "1", expected: 1},
		{name: "string length", typ: argtypes.Named(TypeString), min: 2, max: 4, phrase: "abc", expected: "abc"},
		{name: "string too long", typ: argtypes.Named(TypeString), min: 2, max: 4, phrase: "abcd", expected: nil},
		{name: "slice length", typ: argtypes.Named(TypeCharCodes), min: 1, max: 3, phrase: "ab", expected: []int{97, 98}},
		{name: "cast failure stays failure", typ: integer, min: 1, max: 10, phrase: "x", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, run(t, Range(tt.typ, tt.min, tt.max, tt.inclusive), tt.phrase))
		})
	}
}

func TestRange_Dates(t *testing.T) {
	date := argtypes.Named(TypeDate)
	lo := float64(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	hi := float64(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	within := Range(date, lo, hi, false)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), run(t, within, "2024-05-01"))
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), run(t, within, "2000-01-01"))
	assert.Nil(t, run(t, within, "1999-12-31"))
	assert.Nil(t, run(t, within, "2100-01-01"))
	assert.NotNil(t, run(t, Range(date, lo, hi, true), "2100-01-01"))
}

func TestRange_BigintBounds(t *testing.T) {
	bigint := argtypes.Named(TypeBigint)
	limit := float64(1 << 53)

	// 2^53+1 collapses onto 2^53 as a float64
	assert.Nil(t, run(t, Range(bigint, 0, limit, true), "9007199254740993"))
	assert.NotNil(t, run(t, Range(bigint, 0, limit, true), "9007199254740992"))
	assert.Nil(t, run(t, Range(bigint, 0, limit, false), "9007199254740992"))
	assert.NotNil(t, run(t, Range(bigint, limit, math.Inf(1), false), "9007199254740993"))
}

func TestRange_Unmeasurable(t *testing.T) {
	opaque := argtypes.Func(func(context.Context, *argtypes.Invocation, any) (any, error) {
		return struct{}{}, nil
	})
	assert.Nil(t, run(t, Range(opaque, 0, 10, true), "x"))
	assert.Nil(t, run(t, Range(integer, math.NaN(), 10, true), "5"))
}

func TestValidate(t *testing.T) {
	even := Validate(integer, func(_ *argtypes.Invocation, phrase any, value any) bool {
		assert.IsType(t, "", phrase)
		return value.(int)%2 == 0
	})

	assert.Equal(t, 4, run(t, even, "4"))
	assert.Nil(t, run(t, even, "5"))
}

func TestTagged(t *testing.T) {
	assert.Equal(t, TaggedValue{Tag: "integer", Value: 5}, run(t, Tagged(integer), "5"))
	assert.Equal(t, argtypes.Fail{Tag: "integer", Value: nil}, run(t, Tagged(integer), "x"))
	assert.Equal(t, TaggedValue{Tag: "n", Value: 5}, run(t, Tagged(integer, "n"), "5"))
}

func TestTaggedWithInput(t *testing.T) {
	assert.Equal(t, TaggedInputValue{Tag: "integer", Input: "5", Value: 5}, run(t, TaggedWithInput(integer), "5"))
	assert.Equal(t, argtypes.Fail{Tag: "integer", Input: "x"}, run(t, TaggedWithInput(integer), "x"))
}

func TestTaggedUnion(t *testing.T) {
	assert.Equal(t, TaggedValue{Tag: "lowercase", Value: "abc"}, run(t, TaggedUnion(integer, lowercase), "ABC"))
	assert.Equal(t, TaggedValue{Tag: "integer", Value: 3}, run(t, TaggedUnion(integer, lowercase), "3"))
	assert.Nil(t, run(t, TaggedUnion(integer, urlType), "nope"))
}

func TestWithInput(t *testing.T) {
	assert.Equal(t, InputValue{Input: "9", Value: 9}, run(t, WithInput(integer), "9"))
	assert.Equal(t, argtypes.Fail{Input: "z"}, run(t, WithInput(integer), "z"))
}

func TestIsFailure(t *testing.T) {
	assert.True(t, IsFailure(nil))
	assert.True(t, IsFailure(argtypes.Fail{}))
	assert.False(t, IsFailure(0))
	assert.False(t, IsFailure(false))
	assert.False(t, IsFailure(""))
}

package casting

import (
	"context"
	"math"
	"math/big"
	"reflect"
	"time"

	"akairo/pkg/argtypes"
)

// TaggedValue is the success value of Tagged.
type TaggedValue struct {
	Tag   any
	Value any
}

// TaggedInputValue is the success value of TaggedWithInput.
type TaggedInputValue struct {
	Tag   any
	Input any
	Value any
}

// InputValue is the success value of WithInput.
type InputValue struct {
	Input any
	Value any
}

// Predicate decides whether a successfully cast value is acceptable.
type Predicate func(inv *argtypes.Invocation, phrase any, value any) bool

// Compose pipes the phrase through every type in order and stops at the first failure.
func Compose(types ...argtypes.Type) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		acc := phrase
		for _, t := range types {
			res, err := Cast(ctx, inv, t, acc)
			if err != nil {
				return nil, err
			}
			if argtypes.IsFailure(res) {
				return res, nil
			}
			acc = res
		}
		return acc, nil
	}
}

// ComposeWithFailure pipes the phrase through every type in order without ever
// stopping. Each stage sees the previous stage's result, failures included, and
// the last result is returned as-is.
func ComposeWithFailure(types ...argtypes.Type) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		acc := phrase
		for _, t := range types {
			res, err := Cast(ctx, inv, t, acc)
			if err != nil {
				return nil, err
			}
			acc = res
		}
		return acc, nil
	}
}

// Union returns the first successful result, or nil when every type fails.
func Union(types ...argtypes.Type) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		for _, t := range types {
			res, err := Cast(ctx, inv, t, phrase)
			if err != nil {
				return nil, err
			}
			if !argtypes.IsFailure(res) {
				return res, nil
			}
		}
		return nil, nil
	}
}

// Product casts the same phrase with every type and returns all results in order.
// The first failure is returned verbatim.
func Product(types ...argtypes.Type) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		results := make([]any, 0, len(types))
		for _, t := range types {
			res, err := Cast(ctx, inv, t, phrase)
			if err != nil {
				return nil, err
			}
			if argtypes.IsFailure(res) {
				return res, nil
			}
			results = append(results, res)
		}
		return results, nil
	}
}

// Validate casts and then downgrades the result to nil when pred rejects it.
func Validate(t argtypes.Type, pred Predicate) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		res, err := Cast(ctx, inv, t, phrase)
		if err != nil || argtypes.IsFailure(res) {
			return res, err
		}
		if !pred(inv, phrase, res) {
			return nil, nil
		}
		return res, nil
	}
}

// Range accepts results whose size lies in [min, max), or [min, max] when inclusive.
// Numbers are compared directly, then anything with a length, then anything with
// a Size method. Times compare as Unix milliseconds.
func Range(t argtypes.Type, min, max float64, inclusive bool) argtypes.Func {
	return Validate(t, func(_ *argtypes.Invocation, _ any, value any) bool {
		if math.IsNaN(min) || math.IsNaN(max) {
			return false
		}
		x, ok := magnitude(value)
		if !ok || x.Cmp(big.NewFloat(min)) < 0 {
			return false
		}
		upper := x.Cmp(big.NewFloat(max))
		if inclusive {
			return upper <= 0
		}
		return upper < 0
	})
}

// Tagged wraps success as TaggedValue and failure as a Fail carrying the tag.
// The tag defaults to the type itself, or its name for Named types.
func Tagged(t argtypes.Type, tag ...any) argtypes.Func {
	label := tagFor(t, tag)
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		res, err := Cast(ctx, inv, t, phrase)
		if err != nil {
			return nil, err
		}
		if argtypes.IsFailure(res) {
			return argtypes.Fail{Tag: label, Value: res}, nil
		}
		return TaggedValue{Tag: label, Value: res}, nil
	}
}

// TaggedWithInput is Tagged that also keeps the input phrase.
func TaggedWithInput(t argtypes.Type, tag ...any) argtypes.Func {
	label := tagFor(t, tag)
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		res, err := Cast(ctx, inv, t, phrase)
		if err != nil {
			return nil, err
		}
		if argtypes.IsFailure(res) {
			return argtypes.Fail{Tag: label, Input: phrase, Value: res}, nil
		}
		return TaggedInputValue{Tag: label, Input: phrase, Value: res}, nil
	}
}

// TaggedUnion tries each type wrapped with Tagged and returns the first success.
// Total failure yields nil rather than a Fail.
func TaggedUnion(types ...argtypes.Type) argtypes.Func {
	tagged := make([]argtypes.Type, 0, len(types))
	for _, t := range types {
		tagged = append(tagged, Tagged(t))
	}
	return Union(tagged...)
}

// WithInput wraps success as InputValue and failure as a Fail carrying the input.
func WithInput(t argtypes.Type) argtypes.Func {
	return func(ctx context.Context, inv *argtypes.Invocation, phrase any) (any, error) {
		res, err := Cast(ctx, inv, t, phrase)
		if err != nil {
			return nil, err
		}
		if argtypes.IsFailure(res) {
			return argtypes.Fail{Input: phrase, Value: res}, nil
		}
		return InputValue{Input: phrase, Value: res}, nil
	}
}

// IsFailure reports whether v is a failed cast.
func IsFailure(v any) bool {
	return argtypes.IsFailure(v)
}

func tagFor(t argtypes.Type, tag []any) any {
	if len(tag) > 0 {
		return tag[0]
	}
	if name, ok := t.(argtypes.Named); ok {
		return string(name)
	}
	return t
}

type sizer interface {
	Size() int
}

type lengther interface {
	Len() int
}

// magnitude picks the quantity Range compares. Integers convert exactly.
func magnitude(v any) (*big.Float, bool) {
	switch v := v.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Float).SetInt(v), true
	case time.Time:
		return new(big.Float).SetInt64(v.UnixMilli()), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Float).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Float).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return nil, false
		}
		return big.NewFloat(rv.Float()), true
	case reflect.String:
		return big.NewFloat(float64(len([]rune(rv.String())))), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return big.NewFloat(float64(rv.Len())), true
	}
	if l, ok := v.(lengther); ok {
		return big.NewFloat(float64(l.Len())), true
	}
	if s, ok := v.(sizer); ok {
		return big.NewFloat(float64(s.Size())), true
	}
	return nil, false
}

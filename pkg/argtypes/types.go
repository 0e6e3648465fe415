package argtypes

import (
	"context"
	"fmt"
	"regexp"
)

// Caster turns a phrase into a value.
// The phrase is usually a string but composed casters receive the previous stage's output.
// A nil value or a Fail means the input was rejected; a non-nil error aborts resolution.
type Caster func(ctx context.Context, inv *Invocation, phrase any) (any, error)

// Type describes how a phrase is cast. It is resolved once when an argument is
// built, so casting never has to sniff the shape again.
type Type interface {
	isType()
}

// Named refers to a caster registered under that name.
type Named string

func (Named) isType() {}

// Choices matches the phrase case-insensitively against alias groups.
// A match yields the first entry of the group.
type Choices [][]string

func (Choices) isType() {}

// OneOf builds Choices where every choice is its own group.
func OneOf(choices ...string) Choices {
	c := make(Choices, 0, len(choices))
	for _, choice := range choices {
		c = append(c, []string{choice})
	}
	return c
}

// Alias returns a copy of c with one more alias group appended.
func (c Choices) Alias(canonical string, aliases ...string) Choices {
	group := append([]string{canonical}, aliases...)
	out := make(Choices, 0, len(c)+1)
	out = append(out, c...)
	return append(out, group)
}

// Pattern matches the phrase against a regular expression.
// Global collects every match in addition to the first.
type Pattern struct {
	Regexp *regexp.Regexp
	Global bool
}

func (Pattern) isType() {}

// RegexMatch is the value produced by a Pattern type.
type RegexMatch struct {
	Match   []string
	Matches [][]string
}

// Func is a caster used directly as a type.
type Func Caster

func (Func) isType() {}

// TypeOf resolves a Go value into a Type. It accepts strings (Named), string
// slices (Choices), nested string slices (alias groups), regular expressions,
// casters and existing Types. Any other value is a programming error and panics.
func TypeOf(v any) Type {
	switch v := v.(type) {
	case nil:
		return nil
	case Type:
		return v
	case string:
		return Named(v)
	case []string:
		return OneOf(v...)
	case [][]string:
		return Choices(v)
	case *regexp.Regexp:
		return Pattern{Regexp: v}
	case Caster:
		return Func(v)
	case func(context.Context, *Invocation, any) (any, error):
		return Func(v)
	default:
		panic(fmt.Sprintf("argtypes: unsupported argument type %T", v))
	}
}

// Package argument resolves command arguments: it extracts phrases by match
// strategy, casts them and falls back to defaults, otherwise texts or
// interactive prompts when casting fails.
package argument

import (
	"context"
	"fmt"

	"akairo/internal/casting"
	"akairo/pkg/argtypes"
)

// FailureData is passed to a Supplier computing a default.
type FailureData struct {
	Phrase  string
	Failure any
}

// Supplier computes a default value on demand.
type Supplier func(inv *argtypes.Invocation, data FailureData) any

// Argument describes how one argument is extracted, cast and recovered.
// Arguments hold no per-run state and can be shared across runs.
type Argument struct {
	ID          string
	Description string

	// Match selects the tokens consumed. Empty means MatchPhrase.
	Match argtypes.MatchStrategy
	// Type casts the extracted phrase. Nil keeps any non-empty phrase.
	Type argtypes.Type

	// Flags are the flag words matched by MatchFlag and MatchOption.
	Flags []string
	// MultipleFlags counts flags, or collects every option value.
	MultipleFlags bool

	// Index reads at a fixed phrase position instead of the shared cursor.
	Index *int
	// Unordered lets MatchPhrase search unused phrases.
	Unordered Unordered
	// Limit caps how many phrases or option values are taken. Zero or less is unlimited.
	Limit int

	// Default is a value, or a Supplier, used when casting fails.
	Default any
	// Otherwise is sent when casting fails; the run is then cancelled.
	Otherwise       Text
	ModifyOtherwise Modifier

	// Prompt enables interactive collection when casting fails.
	Prompt *PromptOptions
}

func (a *Argument) match() argtypes.MatchStrategy {
	if a.Match == "" {
		return argtypes.MatchPhrase
	}
	return a.Match
}

// Cast casts phrase with the argument's type.
func (a *Argument) Cast(ctx context.Context, inv *argtypes.Invocation, phrase string) (any, error) {
	return casting.Cast(ctx, inv, a.Type, phrase)
}

// Process casts phrase and applies the argument's recovery policy on failure:
// otherwise text, then a prompt, then the default, then the failure itself.
// An empty phrase for an optional argument skips casting.
func (a *Argument) Process(ctx context.Context, env Env, inv *argtypes.Invocation, phrase string) (any, error) {
	inv = env.bind(inv)
	opts := env.promptOptions(a)

	if phrase == "" && opts.optional() {
		if a.Otherwise != nil {
			return a.otherwise(ctx, env, inv, phrase, nil)
		}
		return a.defaultValue(inv, phrase, nil), nil
	}

	res, err := a.Cast(ctx, inv, phrase)
	if err != nil {
		return nil, err
	}
	if !argtypes.IsFailure(res) {
		return res, nil
	}

	if a.Otherwise != nil {
		return a.otherwise(ctx, env, inv, phrase, res)
	}
	if a.Prompt != nil {
		return a.Collect(ctx, env, inv, phrase, res)
	}
	if a.Default == nil {
		return res, nil
	}
	return a.defaultValue(inv, phrase, res), nil
}

// otherwise sends the otherwise text, if any, and cancels.
func (a *Argument) otherwise(ctx context.Context, env Env, inv *argtypes.Invocation, phrase string, failure any) (any, error) {
	data := TextData{Input: inv.Message, Phrase: phrase, Failure: failure}
	text := render(inv, a.Otherwise, env.modifyOtherwise(a), data)
	if err := send(ctx, inv, text); err != nil {
		return nil, err
	}
	return argtypes.Cancel{}, nil
}

func (a *Argument) defaultValue(inv *argtypes.Invocation, phrase string, failure any) any {
	switch d := a.Default.(type) {
	case Supplier:
		return d(inv, FailureData{Phrase: phrase, Failure: failure})
	case func(*argtypes.Invocation, FailureData) any:
		return d(inv, FailureData{Phrase: phrase, Failure: failure})
	default:
		return d
	}
}

// send delivers non-empty text on the invocation's channel.
func send(ctx context.Context, inv *argtypes.Invocation, text string) error {
	if text == "" {
		return nil
	}
	if inv.Channel == nil {
		return argtypes.ErrNoInputChannel
	}
	if _, err := inv.Channel.Send(ctx, text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

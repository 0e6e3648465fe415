package argument

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akairo/internal/logger"
	"akairo/pkg/argtypes"
)

var promptLog = logger.NewStyledLogger("Prompt")

// Collect prompts for the argument until a reply casts, the user gives up or
// the retry budget runs out. phrase and failure describe the cast that failed
// before prompting.
//
// The result is the cast value, a slice of values in infinite mode, Cancel, or
// Retry carrying a reply that looks like another command.
func (a *Argument) Collect(ctx context.Context, env Env, inv *argtypes.Invocation, phrase string, failure any) (any, error) {
	inv = env.bind(inv)
	if inv.Channel == nil {
		return nil, argtypes.ErrNoInputChannel
	}

	opts := env.promptOptions(a)
	infinite := opts.infinite() || (a.match() == argtypes.MatchSeparate && phrase == "")

	if prompts := env.prompts(); prompts != nil {
		prompts.Add(inv.ChannelID(), inv.AuthorID())
		defer prompts.Remove(inv.ChannelID(), inv.AuthorID())
	}

	var values []any
	retries := 1
	prev := inv.Message

	for {
		data := TextData{Retries: retries, Infinite: infinite, Input: prev, Phrase: phrase, Failure: failure}

		if retries != 1 || !infinite || len(values) == 0 {
			text := render(inv, opts.Start, opts.ModifyStart, data)
			if retries != 1 {
				text = render(inv, opts.Retry, opts.ModifyRetry, data)
			}
			if err := send(ctx, inv, text); err != nil {
				return nil, err
			}
		}

		promptLog.Debug("Awaiting reply", "command", inv.Command, "retries", retries)
		input, err := inv.Channel.AwaitNext(ctx, inv.AuthorID(), opts.wait())
		if errors.Is(err, argtypes.ErrInputTimeout) {
			if err := send(ctx, inv, render(inv, opts.Timeout, opts.ModifyTimeout, data)); err != nil {
				return nil, err
			}
			promptLog.Debug("Prompt timed out", "command", inv.Command)
			return argtypes.Cancel{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to await reply: %w", err)
		}

		if opts.breakout() {
			if probe := env.breakout(); probe != nil && probe.LooksLikeCommand(ctx, input) {
				promptLog.Debug("Prompt broken out", "input", input.Content)
				return argtypes.Retry{ResumeWith: input}, nil
			}
		}

		data.Input = input
		data.Phrase = input.Content

		if strings.EqualFold(input.Content, opts.cancelWord()) {
			if err := send(ctx, inv, render(inv, opts.Cancel, opts.ModifyCancel, data)); err != nil {
				return nil, err
			}
			return argtypes.Cancel{}, nil
		}

		if infinite && strings.EqualFold(input.Content, opts.stopWord()) {
			if len(values) == 0 {
				prev, phrase, failure = input, input.Content, nil
				retries++
				continue
			}
			return values, nil
		}

		res, err := a.Cast(ctx, inv.WithMessage(input), input.Content)
		if err != nil {
			return nil, err
		}

		if argtypes.IsFailure(res) {
			if retries <= opts.retries() {
				prev, phrase, failure = input, input.Content, res
				retries++
				continue
			}
			data.Failure = res
			if err := send(ctx, inv, render(inv, opts.Ended, opts.ModifyEnded, data)); err != nil {
				return nil, err
			}
			promptLog.Debug("Prompt retries exhausted", "command", inv.Command, "retries", retries)
			return argtypes.Cancel{}, nil
		}

		if !infinite {
			return res, nil
		}

		values = append(values, res)
		if limit := opts.limit(); limit > 0 && len(values) >= limit {
			return values, nil
		}
		prev, phrase, failure = inv.Message, input.Content, res
		retries = 1
	}
}

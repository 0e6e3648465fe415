package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akairo/internal/argument"
	"akairo/internal/logger"
	"akairo/internal/parser"
	"akairo/pkg/argtypes"
)

const defaultMaxRedirects = 5

var (
	// ErrNotACommand is returned for input that does not start with a prefix and a name.
	ErrNotACommand = errors.New("not a command")
	// ErrUnknownCommand is returned when no command matches the name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrAlreadyPrompting is returned when the author is still answering a prompt.
	ErrAlreadyPrompting = errors.New("already waiting for a reply")
	// ErrTooManyRedirects is returned when Retry and Continue signals keep chaining.
	ErrTooManyRedirects = errors.New("too many command redirects")
)

// Probe recognises messages that invoke a known command. It is the breakout
// probe used by prompts.
type Probe struct {
	Table    *Table
	Prefixes []string
}

// LooksLikeCommand reports whether msg starts with a prefix and a registered command name.
func (p Probe) LooksLikeCommand(_ context.Context, msg *argtypes.Message) bool {
	if msg == nil || p.Table == nil {
		return false
	}
	line, ok := parser.SplitCommand(msg.Content, p.Prefixes...)
	if !ok {
		return false
	}
	_, found := p.Table.Find(line.Name)
	return found
}

// Result is the outcome of dispatching one message.
type Result struct {
	// Command is the command that ran last, after any redirects.
	Command string
	Outcome *argument.Outcome
	// Output is the action's text. Empty when the run was short-circuited.
	Output string
	// Redirects counts followed Retry and Continue signals.
	Redirects int
}

// Cancelled reports whether the run ended with Cancel or Timeout.
func (r *Result) Cancelled() bool {
	if r == nil || r.Outcome == nil || r.Outcome.Signal == nil {
		return false
	}
	switch r.Outcome.Signal.Kind() {
	case argtypes.KindCancel, argtypes.KindTimeout:
		return true
	default:
		return false
	}
}

// Dispatcher routes messages to commands and follows Retry and Continue signals.
type Dispatcher struct {
	Table     *Table
	Handler   *argument.Handler
	Prefixes  []string
	Tokenizer parser.ContentParser
	// MaxRedirects bounds signal chaining. Zero means the default of 5.
	MaxRedirects int
}

// NewDispatcher creates a dispatcher whose handler breaks out of prompts into table commands.
func NewDispatcher(table *Table, h *argument.Handler, tokenizer parser.ContentParser, prefixes ...string) *Dispatcher {
	if h.Breakout == nil {
		h.Breakout = Probe{Table: table, Prefixes: prefixes}
	}
	return &Dispatcher{
		Table:     table,
		Handler:   h,
		Prefixes:  prefixes,
		Tokenizer: tokenizer,
	}
}

func (d *Dispatcher) maxRedirects() int {
	if d.MaxRedirects <= 0 {
		return defaultMaxRedirects
	}
	return d.MaxRedirects
}

// Dispatch runs the command named in inv.Message. A Retry signal re-dispatches
// the reply it carries; a Continue signal runs its command on the remaining input.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *argtypes.Invocation) (*Result, error) {
	if inv == nil || inv.Message == nil {
		return nil, ErrNotACommand
	}
	if d.Handler.Prompts != nil && d.Handler.Prompts.Has(inv.ChannelID(), inv.AuthorID()) {
		return nil, ErrAlreadyPrompting
	}

	line, ok := parser.SplitCommand(inv.Message.Content, d.Prefixes...)
	if !ok {
		return nil, ErrNotACommand
	}
	name, content := line.Name, line.Content

	for redirects := 0; ; redirects++ {
		if redirects > d.maxRedirects() {
			return nil, ErrTooManyRedirects
		}

		cmd, found := d.Table.Find(name)
		if !found {
			return nil, d.unknown(name)
		}

		logger.CommandResolution(cmd.Name, content)
		runInv := inv.WithMessage(inv.Message)
		runInv.Command = cmd.Name

		out, err := cmd.Resolve(ctx, d.Handler, runInv, d.Tokenizer, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, err)
		}

		switch sig := out.Signal.(type) {
		case nil:
			res := &Result{Command: cmd.Name, Outcome: out, Redirects: redirects}
			if cmd.Action != nil {
				text, err := cmd.Action(ctx, runInv, out.Args)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", cmd.Name, err)
				}
				res.Output = text
			}
			return res, nil

		case argtypes.Retry:
			if sig.ResumeWith == nil {
				return &Result{Command: cmd.Name, Outcome: out, Redirects: redirects}, nil
			}
			next, ok := parser.SplitCommand(sig.ResumeWith.Content, d.Prefixes...)
			if !ok {
				return nil, ErrNotACommand
			}
			inv = inv.WithMessage(sig.ResumeWith)
			name, content = next.Name, next.Content

		case argtypes.Continue:
			name, content = sig.Command, strings.TrimSpace(sig.RestRaw)

		default:
			return &Result{Command: cmd.Name, Outcome: out, Redirects: redirects}, nil
		}
	}
}

func (d *Dispatcher) unknown(name string) error {
	if suggestions := d.Table.Suggest(name); len(suggestions) > 0 {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownCommand, name, suggestions[0])
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

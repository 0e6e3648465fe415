// Package shell runs akairo commands in an interactive terminal session.
//
// The shell owns its read loop rather than using ishell's Run: a prompt that
// times out leaves a read in flight, and the next command line must come from
// that same read.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"akairo/internal/commands"
	"akairo/internal/logger"
)

// DefaultUser authors every line typed into the terminal.
const DefaultUser = "local"

var exitWords = []string{"exit", "quit"}

// Shell reads command lines and dispatches them.
type Shell struct {
	Dispatcher *commands.Dispatcher
	Channel    *TerminalChannel
	Renderer   *Renderer

	out     Printer
	stopped atomic.Bool
}

// New creates a shell over a reader and printer. *ishell.Shell serves as both.
func New(d *commands.Dispatcher, in LineReader, out Printer, r *Renderer) *Shell {
	if r == nil {
		r = NewRenderer(true)
	}
	return &Shell{
		Dispatcher: d,
		Channel:    NewTerminalChannel(in, out, DefaultUser, r.Prompt),
		Renderer:   r,
		out:        out,
	}
}

// NewInteractive builds an ishell session with command completion and a shell around it.
// The returned ishell.Shell must be closed by the caller.
func NewInteractive(d *commands.Dispatcher, r *Renderer) (*Shell, *ishell.Shell) {
	prompt := "akairo> "
	if !r.Plain() {
		prompt = r.Prompt("akairo") + "> "
	}

	sh := ishell.NewWithConfig(&readline.Config{Prompt: prompt})
	sh.CustomCompleter(Completer{Table: d.Table, Prefixes: d.Prefixes})
	return New(d, sh, sh, r), sh
}

// Stop ends Run after the current line.
func (s *Shell) Stop() {
	s.stopped.Store(true)
}

// Run reads and handles lines until EOF, an exit word, Stop or ctx ends.
func (s *Shell) Run(ctx context.Context) error {
	logger.Debug("Shell started", "prefixes", s.Dispatcher.Prefixes)
	for !s.stopped.Load() {
		line, err := s.Channel.ReadLine(ctx)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if slices.Contains(exitWords, strings.ToLower(strings.TrimSpace(line))) {
			return nil
		}
		s.Handle(ctx, line)
	}
	return nil
}

// Handle dispatches one line and prints the outcome. It returns the result of
// a completed dispatch, or nil.
func (s *Shell) Handle(ctx context.Context, line string) *commands.Result {
	inv := s.Channel.Invocation(line)
	if inv.Message.Content == "" {
		return nil
	}

	res, err := s.Dispatcher.Dispatch(ctx, inv)
	switch {
	case errors.Is(err, commands.ErrNotACommand):
		s.out.Println(s.Renderer.Hint(s.notACommandHint()))
		return nil
	case errors.Is(err, commands.ErrAlreadyPrompting):
		s.out.Println(s.Renderer.Warn("Still waiting for a reply to the last prompt."))
		return nil
	case err != nil:
		logger.Debug("Command failed", "input", inv.Message.Content, "error", err)
		s.out.Println(s.Renderer.Error(err))
		return nil
	}

	if res.Cancelled() {
		logger.Debug("Command cancelled", "command", res.Command, "signal", res.Outcome.Signal.Kind())
		return res
	}
	if res.Output != "" {
		s.out.Println(s.Renderer.Output(res.Output))
	}
	return res
}

func (s *Shell) notACommandHint() string {
	if len(s.Dispatcher.Prefixes) == 0 {
		return "No command prefix is configured."
	}
	prefix := s.Dispatcher.Prefixes[0]
	return fmt.Sprintf("Commands start with `%s`. Try `%shelp`, or `exit` to leave.", prefix, prefix)
}

package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"akairo/pkg/argtypes"
)

const (
	// ChannelID is the channel every terminal message belongs to.
	ChannelID = "terminal"
	// BotID authors the texts the shell sends.
	BotID = "akairo"
)

// LineReader reads one line of input. *ishell.Shell satisfies it.
type LineReader interface {
	ReadLineErr() (string, error)
}

// Printer writes a line of output. *ishell.Shell satisfies it.
type Printer interface {
	Println(val ...interface{})
}

type readResult struct {
	line string
	err  error
}

// TerminalChannel is the InputChannel of an interactive session. There is a
// single user, so every line read is attributed to User.
//
// A read abandoned by a timeout stays pending and its line is handed to the
// next caller, since the underlying reader cannot be interrupted.
type TerminalChannel struct {
	User string

	in     LineReader
	out    Printer
	render func(string) string

	mu      sync.Mutex
	pending chan readResult
}

// NewTerminalChannel creates a channel reading from in and printing to out.
// render formats sent texts; nil prints them unchanged.
func NewTerminalChannel(in LineReader, out Printer, user string, render func(string) string) *TerminalChannel {
	if render == nil {
		render = func(s string) string { return s }
	}
	return &TerminalChannel{User: user, in: in, out: out, render: render}
}

// Send prints text.
func (c *TerminalChannel) Send(_ context.Context, text string) (*argtypes.Message, error) {
	c.out.Println(c.render(text))
	return &argtypes.Message{
		ID:        uuid.NewString(),
		ChannelID: ChannelID,
		AuthorID:  BotID,
		Content:   text,
	}, nil
}

// AwaitNext reads the next line. fromUser is ignored: the terminal has one author.
func (c *TerminalChannel) AwaitNext(ctx context.Context, _ string, timeout time.Duration) (*argtypes.Message, error) {
	read := c.read()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-read:
		c.clearPending()
		if res.err != nil {
			return nil, fmt.Errorf("failed to read input: %w", res.err)
		}
		return c.Message(res.line), nil
	case <-expired:
		return nil, argtypes.ErrInputTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReadLine reads the next command line, taking over a read left pending by a prompt.
func (c *TerminalChannel) ReadLine(ctx context.Context) (string, error) {
	select {
	case res := <-c.read():
		c.clearPending()
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// read returns the pending read, starting one if there is none.
func (c *TerminalChannel) read() <-chan readResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := c.in.ReadLineErr()
			ch <- readResult{line: line, err: err}
		}()
		c.pending = ch
	}
	return c.pending
}

func (c *TerminalChannel) clearPending() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Message wraps a typed line. Escape sequences pasted into the terminal are dropped.
func (c *TerminalChannel) Message(line string) *argtypes.Message {
	return &argtypes.Message{
		ID:        uuid.NewString(),
		ChannelID: ChannelID,
		AuthorID:  c.User,
		Content:   strings.TrimSpace(ansi.Strip(line)),
	}
}

// Invocation returns the invocation for a command line typed by the user.
func (c *TerminalChannel) Invocation(line string) *argtypes.Invocation {
	return &argtypes.Invocation{Message: c.Message(line), Channel: c}
}

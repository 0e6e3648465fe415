package argtypes

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownMatch is returned when an argument names a match strategy the runner does not know.
	ErrUnknownMatch = errors.New("unknown match strategy")
	// ErrInputTimeout is returned by InputChannel.AwaitNext when no input arrives in time.
	ErrInputTimeout = errors.New("timed out waiting for input")
	// ErrNoInputChannel is returned when a prompt or otherwise text needs a channel and none is set.
	ErrNoInputChannel = errors.New("no input channel available")
	// ErrUnknownType is returned by strict type lookups for names that are not registered.
	ErrUnknownType = errors.New("unknown type")
)

// MatchStrategy selects which tokens an argument consumes.
type MatchStrategy string

const (
	MatchPhrase      MatchStrategy = "phrase"
	MatchFlag        MatchStrategy = "flag"
	MatchOption      MatchStrategy = "option"
	MatchRest        MatchStrategy = "rest"
	MatchSeparate    MatchStrategy = "separate"
	MatchText        MatchStrategy = "text"
	MatchContent     MatchStrategy = "content"
	MatchRestContent MatchStrategy = "restContent"
	MatchNone        MatchStrategy = "none"
)

// Valid reports whether m is a known strategy.
func (m MatchStrategy) Valid() bool {
	switch m {
	case MatchPhrase, MatchFlag, MatchOption, MatchRest, MatchSeparate,
		MatchText, MatchContent, MatchRestContent, MatchNone:
		return true
	default:
		return false
	}
}

// Message is one input event: the text a user sent, or a text sent back to them.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// InputChannel is the conversation a resolution pass can talk back to.
type InputChannel interface {
	// Send delivers text to the conversation.
	Send(ctx context.Context, text string) (*Message, error)
	// AwaitNext blocks until fromUser sends the next message or timeout elapses.
	// A timeout is reported as ErrInputTimeout.
	AwaitNext(ctx context.Context, fromUser string, timeout time.Duration) (*Message, error)
}

// BreakoutProbe decides whether a message looks like a different command.
type BreakoutProbe interface {
	LooksLikeCommand(ctx context.Context, msg *Message) bool
}

// TypeCaster casts a phrase according to a Type.
type TypeCaster interface {
	Cast(ctx context.Context, inv *Invocation, t Type, phrase any) (any, error)
}

// Invocation is the execution context passed to every caster.
type Invocation struct {
	// Message is the input that started this pass, or the prompt reply being cast.
	Message *Message
	// Channel is where prompts are sent and replies awaited.
	Channel InputChannel
	// Command is the name of the command being resolved.
	Command string
	// Types resolves named types. Nil means the process-wide registry.
	Types TypeCaster
}

// WithMessage returns a copy of inv bound to msg.
func (inv *Invocation) WithMessage(msg *Message) *Invocation {
	if inv == nil {
		return &Invocation{Message: msg}
	}
	c := *inv
	c.Message = msg
	return &c
}

// AuthorID returns the author of the bound message, or "".
func (inv *Invocation) AuthorID() string {
	if inv == nil || inv.Message == nil {
		return ""
	}
	return inv.Message.AuthorID
}

// ChannelID returns the channel of the bound message, or "".
func (inv *Invocation) ChannelID() string {
	if inv == nil || inv.Message == nil {
		return ""
	}
	return inv.Message.ChannelID
}

package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"akairo/pkg/argtypes"
)

const (
	// MockChannelID is the channel every MockChannel message belongs to.
	MockChannelID = "test-channel"
	// MockUserID is the author of scripted replies and invoking messages.
	MockUserID = "test-user"
	// MockBotID is the author of sent messages.
	MockBotID = "test-bot"
)

type scriptedReply struct {
	content string
	timeout bool
}

// MockChannel implements argtypes.InputChannel with scripted replies.
// Replies are handed out in order; once the script runs out every wait times out.
type MockChannel struct {
	mu      sync.Mutex
	replies []scriptedReply
	sent    []string
	waits   []time.Duration

	// SendErr is returned by Send when set.
	SendErr error
}

// NewMockChannel creates a channel that replies with each of replies in turn.
func NewMockChannel(replies ...string) *MockChannel {
	m := &MockChannel{}
	for _, r := range replies {
		m.Then(r)
	}
	return m
}

// Then appends a reply to the script.
func (m *MockChannel) Then(content string) *MockChannel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, scriptedReply{content: content})
	return m
}

// ThenTimeout appends a wait that times out.
func (m *MockChannel) ThenTimeout() *MockChannel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, scriptedReply{timeout: true})
	return m
}

// Send records text.
func (m *MockChannel) Send(_ context.Context, text string) (*argtypes.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.sent = append(m.sent, text)
	return &argtypes.Message{
		ID:        GenerateUUID(true),
		ChannelID: MockChannelID,
		AuthorID:  MockBotID,
		Content:   text,
	}, nil
}

// AwaitNext returns the next scripted reply as a message from fromUser.
func (m *MockChannel) AwaitNext(ctx context.Context, fromUser string, timeout time.Duration) (*argtypes.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.waits = append(m.waits, timeout)
	if len(m.replies) == 0 {
		return nil, argtypes.ErrInputTimeout
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.timeout {
		return nil, argtypes.ErrInputTimeout
	}
	return &argtypes.Message{
		ID:        GenerateUUID(true),
		ChannelID: MockChannelID,
		AuthorID:  fromUser,
		Content:   next.content,
	}, nil
}

// Sent returns every text sent so far.
func (m *MockChannel) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.sent...)
}

// Waits returns the timeout of every AwaitNext call so far.
func (m *MockChannel) Waits() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]time.Duration(nil), m.waits...)
}

// Remaining returns how many scripted replies are left.
func (m *MockChannel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.replies)
}

// Invocation returns an invocation for content sent by MockUserID on m.
func (m *MockChannel) Invocation(command, content string) *argtypes.Invocation {
	return &argtypes.Invocation{
		Message: &argtypes.Message{
			ID:        GenerateUUID(true),
			ChannelID: MockChannelID,
			AuthorID:  MockUserID,
			Content:   content,
		},
		Channel: m,
		Command: command,
	}
}

// PrefixProbe treats any message starting with Prefix followed by a word as a command.
type PrefixProbe struct {
	Prefix string
}

// LooksLikeCommand reports whether msg starts with the prefix and a command name.
func (p PrefixProbe) LooksLikeCommand(_ context.Context, msg *argtypes.Message) bool {
	if msg == nil || p.Prefix == "" {
		return false
	}
	rest, ok := strings.CutPrefix(msg.Content, p.Prefix)
	return ok && strings.TrimSpace(rest) != ""
}

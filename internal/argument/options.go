package argument

import (
	"time"

	"akairo/pkg/argtypes"
)

const (
	defaultRetries    = 1
	defaultTime       = 30 * time.Second
	defaultCancelWord = "cancel"
	defaultStopWord   = "stop"
)

// TextData is what text suppliers and modifiers see when building a message.
type TextData struct {
	// Retries is the 1-based attempt number of the current prompt.
	Retries int
	// Infinite is true while collecting several values.
	Infinite bool
	// Input is the message the text answers: the invoking message or the last reply.
	Input *argtypes.Message
	// Phrase is the text that failed to cast.
	Phrase string
	// Failure is the failed cast result, nil or a Fail.
	Failure any
}

// Text produces content to send. An empty result sends nothing.
type Text func(inv *argtypes.Invocation, data TextData) string

// Static returns a Text that always yields s.
func Static(s string) Text {
	return func(*argtypes.Invocation, TextData) string { return s }
}

// Modifier rewrites text right before it is sent.
type Modifier func(inv *argtypes.Invocation, text string, data TextData) string

// PromptOptions configures the prompt collector. Nil and empty fields inherit
// from the next layer down: argument, then command, then handler.
type PromptOptions struct {
	Start   Text
	Retry   Text
	Timeout Text
	Ended   Text
	Cancel  Text

	ModifyStart   Modifier
	ModifyRetry   Modifier
	ModifyTimeout Modifier
	ModifyEnded   Modifier
	ModifyCancel  Modifier

	// Retries is how many failed replies are tolerated before giving up.
	Retries *int
	// Time bounds each individual wait for a reply.
	Time *time.Duration
	// Breakout abandons the prompt when a reply looks like another command.
	Breakout *bool
	// Infinite collects values until the stop word or Limit.
	Infinite *bool
	// Optional lets an empty phrase skip casting entirely.
	Optional *bool
	// Limit caps infinite collection. Zero or less is unlimited.
	Limit *int

	CancelWord string
	StopWord   string
}

// Ptr returns a pointer to v, for filling PromptOptions literals.
func Ptr[T any](v T) *T {
	return &v
}

// DefaultPromptOptions returns the built-in handler-wide prompt settings.
// No texts are set, so a bare prompt is silent.
func DefaultPromptOptions() *PromptOptions {
	return &PromptOptions{
		Retries:    Ptr(defaultRetries),
		Time:       Ptr(defaultTime),
		Breakout:   Ptr(true),
		Infinite:   Ptr(false),
		Optional:   Ptr(false),
		Limit:      Ptr(0),
		CancelWord: defaultCancelWord,
		StopWord:   defaultStopWord,
	}
}

// MergePromptOptions layers options from lowest to highest precedence.
// Nil layers are skipped.
func MergePromptOptions(layers ...*PromptOptions) PromptOptions {
	var out PromptOptions
	for _, l := range layers {
		if l == nil {
			continue
		}
		out.Start = pickText(out.Start, l.Start)
		out.Retry = pickText(out.Retry, l.Retry)
		out.Timeout = pickText(out.Timeout, l.Timeout)
		out.Ended = pickText(out.Ended, l.Ended)
		out.Cancel = pickText(out.Cancel, l.Cancel)

		out.ModifyStart = pickModifier(out.ModifyStart, l.ModifyStart)
		out.ModifyRetry = pickModifier(out.ModifyRetry, l.ModifyRetry)
		out.ModifyTimeout = pickModifier(out.ModifyTimeout, l.ModifyTimeout)
		out.ModifyEnded = pickModifier(out.ModifyEnded, l.ModifyEnded)
		out.ModifyCancel = pickModifier(out.ModifyCancel, l.ModifyCancel)

		out.Retries = pickPtr(out.Retries, l.Retries)
		out.Time = pickPtr(out.Time, l.Time)
		out.Breakout = pickPtr(out.Breakout, l.Breakout)
		out.Infinite = pickPtr(out.Infinite, l.Infinite)
		out.Optional = pickPtr(out.Optional, l.Optional)
		out.Limit = pickPtr(out.Limit, l.Limit)

		if l.CancelWord != "" {
			out.CancelWord = l.CancelWord
		}
		if l.StopWord != "" {
			out.StopWord = l.StopWord
		}
	}
	return out
}

func pickText(cur, next Text) Text {
	if next != nil {
		return next
	}
	return cur
}

func pickModifier(cur, next Modifier) Modifier {
	if next != nil {
		return next
	}
	return cur
}

func pickPtr[T any](cur, next *T) *T {
	if next != nil {
		return next
	}
	return cur
}

func (o PromptOptions) retries() int {
	if o.Retries == nil {
		return defaultRetries
	}
	return *o.Retries
}

func (o PromptOptions) wait() time.Duration {
	if o.Time == nil || *o.Time <= 0 {
		return defaultTime
	}
	return *o.Time
}

func (o PromptOptions) breakout() bool {
	return o.Breakout == nil || *o.Breakout
}

func (o PromptOptions) infinite() bool {
	return o.Infinite != nil && *o.Infinite
}

func (o PromptOptions) optional() bool {
	return o.Optional != nil && *o.Optional
}

func (o PromptOptions) limit() int {
	if o.Limit == nil {
		return 0
	}
	return *o.Limit
}

func (o PromptOptions) cancelWord() string {
	if o.CancelWord == "" {
		return defaultCancelWord
	}
	return o.CancelWord
}

func (o PromptOptions) stopWord() string {
	if o.StopWord == "" {
		return defaultStopWord
	}
	return o.StopWord
}

// render evaluates text and passes it through mod.
func render(inv *argtypes.Invocation, text Text, mod Modifier, data TextData) string {
	var s string
	if text != nil {
		s = text(inv, data)
	}
	if mod != nil {
		s = mod(inv, s, data)
	}
	return s
}

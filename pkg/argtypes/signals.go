package argtypes

import "time"

// SignalKind identifies the variant of a Signal.
type SignalKind int

const (
	// KindCancel - the pass was cancelled by the user or by an otherwise/prompt policy
	KindCancel SignalKind = iota
	// KindTimeout - the pass gave up waiting
	KindTimeout
	// KindRetry - the input should be re-dispatched, usually as a different command
	KindRetry
	// KindContinue - resolution should continue as a different command
	KindContinue
	// KindFail - a failed cast carrying diagnostic context
	KindFail
)

// String returns a human-readable name for the signal kind.
func (k SignalKind) String() string {
	switch k {
	case KindCancel:
		return "cancel"
	case KindTimeout:
		return "timeout"
	case KindRetry:
		return "retry"
	case KindContinue:
		return "continue"
	case KindFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Signal is a non-value result produced by casters, the prompt collector or a
// generator. Signals are values, not errors.
type Signal interface {
	Kind() SignalKind
}

// Cancel stops the resolution pass.
type Cancel struct{}

// Kind returns KindCancel.
func (Cancel) Kind() SignalKind { return KindCancel }

// Timeout stops the resolution pass after waiting for Elapsed.
type Timeout struct {
	Elapsed time.Duration
}

// Kind returns KindTimeout.
func (Timeout) Kind() SignalKind { return KindTimeout }

// Retry stops the resolution pass and asks the caller to handle ResumeWith from scratch.
type Retry struct {
	ResumeWith *Message
}

// Kind returns KindRetry.
func (Retry) Kind() SignalKind { return KindRetry }

// Continue stops the resolution pass and asks the caller to run Command with the
// untouched trailing input. The runner fills RestRaw.
type Continue struct {
	Command string
	Ignore  bool
	RestRaw string
}

// Kind returns KindContinue.
func (Continue) Kind() SignalKind { return KindContinue }

// Fail is a failed cast that keeps why and what failed.
type Fail struct {
	Tag   any
	Input any
	Value any
}

// Kind returns KindFail.
func (Fail) Kind() SignalKind { return KindFail }

// IsFailure reports whether v is a failed cast: nil or a Fail.
func IsFailure(v any) bool {
	switch v.(type) {
	case nil, Fail, *Fail:
		return true
	default:
		return false
	}
}

// IsShortCircuit reports whether v terminates a resolution pass.
func IsShortCircuit(v any) bool {
	s, ok := v.(Signal)
	if !ok {
		return false
	}
	switch s.Kind() {
	case KindCancel, KindTimeout, KindRetry, KindContinue:
		return true
	default:
		return false
	}
}

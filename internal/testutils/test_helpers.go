package testutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"akairo/pkg/argtypes"
)

// Words builds a ParsedInput with one phrase per whitespace-separated word.
func Words(content string) *argtypes.ParsedInput {
	parsed := &argtypes.ParsedInput{}
	fields := strings.Fields(content)
	for i, f := range fields {
		raw := f
		if i < len(fields)-1 {
			raw += " "
		}
		parsed.Append(argtypes.Phrase{Raw: raw, Value: f})
	}
	return parsed
}

// RequireSignal fails the test unless v is a signal of the given kind.
func RequireSignal(t *testing.T, kind argtypes.SignalKind, v any) argtypes.Signal {
	t.Helper()
	sig, ok := v.(argtypes.Signal)
	require.True(t, ok, "expected %s signal, got %T (%v)", kind, v, v)
	require.Equal(t, kind, sig.Kind())
	return sig
}

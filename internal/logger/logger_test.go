package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	saved := Logger
	t.Cleanup(func() {
		Logger = saved
		outputMu.Lock()
		output = os.Stderr
		outputMu.Unlock()
	})
}

func TestConfigure_Level(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		env      string
		testMode bool
		expected log.Level
	}{
		{name: "default", expected: log.InfoLevel},
		{name: "flag", flag: "debug", expected: log.DebugLevel},
		{name: "environment", env: "warn", expected: log.WarnLevel},
		{name: "flag beats environment", flag: "error", env: "warn", expected: log.ErrorLevel},
		{name: "test mode keeps flag", flag: "debug", testMode: true, expected: log.DebugLevel},
		{name: "test mode ignores environment", env: "debug", testMode: true, expected: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLogger(t)
			t.Setenv("AKAIRO_LOG_LEVEL", tt.env)

			require.NoError(t, Configure(tt.flag, "", tt.testMode))
			assert.Equal(t, tt.expected, Logger.GetLevel())
			assert.Equal(t, tt.expected, NewStyledLogger("Runner").GetLevel())
		})
	}
}

func TestConfigure_LogFile(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "akairo.log")

	require.NoError(t, Configure("info", path, false))
	Info("Resolving command", "command", "add")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Resolving command")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
}

package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akairo/internal/argument"
	"akairo/internal/casting"
	"akairo/internal/commands"
	"akairo/internal/parser"
	"akairo/internal/testutils"
	"akairo/internal/version"
)

func newTestDispatcher(t *testing.T) *commands.Dispatcher {
	t.Helper()
	types := casting.NewRegistryWithBuiltins()
	table := commands.NewTable()
	require.NoError(t, Register(table, types))
	require.NoError(t, RegisterExamples(table))

	h := argument.NewHandler(types, nil)
	return commands.NewDispatcher(table, h, parser.ContentParser{}, "!")
}

func run(t *testing.T, d *commands.Dispatcher, ch *testutils.MockChannel, input string) string {
	t.Helper()
	res, err := d.Dispatch(context.Background(), ch.Invocation("", input))
	require.NoError(t, err)
	return res.Output
}

func TestRegister_Duplicate(t *testing.T) {
	table := commands.NewTable()
	types := casting.NewRegistryWithBuiltins()
	require.NoError(t, Register(table, types))

	err := Register(table, types)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register help command")
}

func TestRegisterDefinitions_InvalidYAML(t *testing.T) {
	err := RegisterDefinitions(commands.NewTable(), []byte("commands: [{name: x, args: [{match: bogus}]}]"), nil)
	assert.Error(t, err)
}

func TestHelpCommand(t *testing.T) {
	d := newTestDispatcher(t)
	ch := testutils.NewMockChannel()

	out := run(t, d, ch, "!help")
	assert.Contains(t, out, "Available commands:")
	for _, name := range []string{"add", "echo", "help", "pick", "release", "roll", "types", "version"} {
		assert.Contains(t, out, name)
	}

	out = run(t, d, ch, "!help sum")
	assert.Contains(t, out, "Command: add")
	assert.Contains(t, out, "Usage: add <numbers...> [--verbose|-v]")
	assert.Contains(t, out, "Aliases: sum, plus")
	assert.Contains(t, out, "numbers (separate) numbers to add")

	out = run(t, d, ch, "!help ech")
	assert.Equal(t, "command 'ech' not found, did you mean 'echo'?", out)
	assert.Empty(t, ch.Sent())
}

func TestTypesCommand(t *testing.T) {
	d := newTestDispatcher(t)
	ch := testutils.NewMockChannel()

	out := run(t, d, ch, "!types")
	assert.Contains(t, out, "semverConstraint")
	assert.Contains(t, out, "integer")

	out = run(t, d, ch, "!types SEMV")
	assert.Equal(t, "semver\nsemverConstraint", out)

	out = run(t, d, ch, "!types qqq")
	assert.Equal(t, "No matching types.", out)
}

func TestVersionCommand(t *testing.T) {
	originalVersion, originalCommit, originalDate := version.Version, version.GitCommit, version.BuildDate
	defer version.SetBuildInfo(originalVersion, originalCommit, originalDate)
	version.SetBuildInfo("1.4.2", "unknown", "unknown")

	d := newTestDispatcher(t)
	ch := testutils.NewMockChannel()

	assert.Equal(t, "akairo v1.4.2", run(t, d, ch, "!version"))
	assert.Equal(t, "v1.4.2 satisfies ^1.2", run(t, d, ch, "!version --check=^1.2"))
	assert.Equal(t, "v1.4.2 does not satisfy >=2.0", run(t, d, ch, "!version --check=>=2.0"))
}

func TestExampleCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		replies  []string
		expected string
	}{
		{name: "add", input: "!add 1 2 3.5", expected: "6.5"},
		{name: "add verbose", input: "!sum 1 2 -v", expected: "1 + 2 = 3"},
		{name: "add prompts until stop", input: "!add", replies: []string{"4", "5", "stop"}, expected: "9"},
		{name: "echo", input: "!echo hello there", expected: "hello there"},
		{name: "echo repeated loud", input: "!say --times=2 --loud hi", expected: "HI\nHI"},
		{name: "echo prompts for text", input: "!echo", replies: []string{"hey"}, expected: "hey"},
		{name: "pick alias", input: "!pick big", expected: "size: large"},
		{name: "paint", input: "!paint ff8800", expected: "color: 16746496"},
		{name: "release default constraint", input: "!release 1.2.3", expected: "1.2.3 satisfies >=0.0.0"},
		{name: "release constraint miss", input: "!release --want=<1 1.2.3", expected: "1.2.3 does not satisfy <1"},
		{name: "release without version", input: "!release", expected: "No valid version given."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			ch := testutils.NewMockChannel(tt.replies...)

			out := run(t, d, ch, tt.input)
			assert.Equal(t, tt.expected, out)
			assert.Zero(t, ch.Remaining())
		})
	}
}

func TestRollAction_Seeded(t *testing.T) {
	d := newTestDispatcher(t)
	ch := testutils.NewMockChannel()

	first := run(t, d, ch, "!roll 20 seed:42")
	second := run(t, d, ch, "!roll 20 seed:42")
	assert.Equal(t, first, second)
	assert.Contains(t, first, "(d20)")
}

func TestRollAction_PromptsForBadSides(t *testing.T) {
	d := newTestDispatcher(t)
	// 1 is out of range, so the reply supplies the sides
	ch := testutils.NewMockChannel("12")

	out := run(t, d, ch, "!roll 1 seed:7")
	assert.Contains(t, out, "(d12)")
	assert.Zero(t, ch.Remaining())
}

func TestPickOtherwise(t *testing.T) {
	d := newTestDispatcher(t)
	ch := testutils.NewMockChannel()

	res, err := d.Dispatch(context.Background(), ch.Invocation("", "!pick huge"))
	require.NoError(t, err)
	assert.True(t, res.Cancelled())
	assert.Equal(t, []string{"Sorry, huge is not a size I know."}, ch.Sent())
}

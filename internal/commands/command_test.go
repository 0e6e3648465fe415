package commands

import (
	"context"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akairo/internal/argument"
	"akairo/internal/casting"
	"akairo/internal/parser"
	"akairo/internal/specfile"
	"akairo/internal/testutils"
	"akairo/pkg/argtypes"
)

func TestCommand_Usage(t *testing.T) {
	cmd := &Command{
		Name: "add",
		Args: []*argument.Argument{
			{ID: "numbers", Match: argtypes.MatchSeparate},
			{ID: "label"},
			{ID: "round", Default: 2},
			{ID: "verbose", Match: argtypes.MatchFlag, Flags: []string{"--verbose", "-v"}},
			{ID: "unit", Match: argtypes.MatchOption, Flags: []string{"--unit="}},
			{ID: "nothing", Match: argtypes.MatchNone},
		},
	}

	assert.Equal(t, "add <numbers...> <label> [round] [--verbose|-v] [--unit=<unit>]", cmd.Usage())
	assert.Equal(t, "ping", (&Command{Name: "ping"}).Usage())
}

func TestDescribeArgs(t *testing.T) {
	v := semver.MustParse("1.2.3")
	out, err := DescribeArgs(context.Background(), nil, map[string]any{
		"text":    "hello",
		"count":   3,
		"loud":    true,
		"numbers": []any{1.5, 2.0},
		"version": v,
		"missing": nil,
	})
	require.NoError(t, err)

	expected := `count: 3
loud: true
missing: null
numbers:
    - 1.5
    - 2
text: hello
version: 1.2.3`
	assert.Equal(t, expected, out)

	out, err = DescribeArgs(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "(no arguments)", out)
}

func TestFromDefinition(t *testing.T) {
	defs, err := specfile.Parse([]byte(`
commands:
  - name: greet
    aliases: [hi]
    description: Greets someone
    args:
      - id: who
      - id: loud
        match: flag
        flags: [--loud]
`))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	cmd := FromDefinition(defs[0], nil)
	assert.Equal(t, "greet", cmd.Name)
	assert.Equal(t, []string{"hi"}, cmd.Aliases)
	assert.Equal(t, "Greets someone", cmd.Description)
	assert.Len(t, cmd.Args, 2)
	assert.Equal(t, []string{"--loud"}, cmd.FlagWords)
	require.NotNil(t, cmd.Action)

	out, err := cmd.Action(context.Background(), nil, map[string]any{"who": "amy"})
	require.NoError(t, err)
	assert.Equal(t, "who: amy", out)
}

func TestCommand_Tokenizer(t *testing.T) {
	base := parser.ContentParser{FlagWords: []string{"--help"}}
	cmd := &Command{FlagWords: []string{"--loud"}, OptionFlagWords: []string{"--name="}}

	tok := cmd.Tokenizer(base)
	assert.Equal(t, []string{"--help", "--loud"}, tok.FlagWords)
	assert.Equal(t, []string{"--name="}, tok.OptionFlagWords)
	assert.Equal(t, []string{"--help"}, base.FlagWords, "base tokenizer must not change")
}

func TestCommand_Resolve(t *testing.T) {
	h := argument.NewHandler(casting.NewRegistryWithBuiltins(), nil)
	ch := testutils.NewMockChannel()

	cmd := &Command{
		Name: "greet",
		Args: []*argument.Argument{
			{ID: "who"},
			{ID: "times", Type: argtypes.Named(casting.TypeInteger), Default: 1},
			{ID: "loud", Match: argtypes.MatchFlag, Flags: []string{"--loud"}},
			{ID: "name", Match: argtypes.MatchOption, Flags: []string{"--name="}},
		},
		FlagWords:       []string{"--loud"},
		OptionFlagWords: []string{"--name="},
	}

	out, err := cmd.Resolve(context.Background(), h, ch.Invocation("greet", "!greet amy --loud --name=bob 3"), parser.ContentParser{}, "amy --loud --name=bob 3")
	require.NoError(t, err)
	assert.Nil(t, out.Signal)
	assert.Equal(t, map[string]any{"who": "amy", "times": 3, "loud": true, "name": "bob"}, out.Args)
	assert.Empty(t, ch.Sent())
}

func TestCommand_Resolve_Sequence(t *testing.T) {
	h := argument.NewHandler(casting.NewRegistryWithBuiltins(), nil)
	ch := testutils.NewMockChannel()

	second := &argument.Argument{ID: "second"}
	cmd := &Command{
		Name: "pair",
		Args: []*argument.Argument{{ID: "ignored"}},
		Sequence: func(_ *argtypes.Invocation, _ *argtypes.ParsedInput, _ *argument.State) argument.Generator {
			step := 0
			return argument.GeneratorFunc(func(_ any) (argument.Step, error) {
				step++
				if step == 1 {
					return argument.Step{Yield: second}, nil
				}
				return argument.Step{Done: true, Return: map[string]any{"only": "sequence"}}, nil
			})
		},
	}

	out, err := cmd.Resolve(context.Background(), h, ch.Invocation("pair", "x"), parser.ContentParser{}, "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"only": "sequence"}, out.Args)
}

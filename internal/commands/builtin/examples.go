package builtin

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"akairo/internal/commands"
	"akairo/pkg/argtypes"
)

// exampleActions gives the embedded example commands something to do.
// pick and paint print their resolved arguments.
var exampleActions = map[string]commands.Action{
	"add":     addAction,
	"echo":    echoAction,
	"roll":    rollAction,
	"release": releaseAction,
}

func addAction(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
	numbers, _ := args["numbers"].([]any)
	sum := 0.0
	terms := make([]string, 0, len(numbers))
	for _, n := range numbers {
		f, ok := n.(float64)
		if !ok {
			return "", fmt.Errorf("expected a number, got %T", n)
		}
		sum += f
		terms = append(terms, formatNumber(f))
	}

	if verbose, _ := args["verbose"].(bool); verbose && len(terms) > 0 {
		return fmt.Sprintf("%s = %s", strings.Join(terms, " + "), formatNumber(sum)), nil
	}
	return formatNumber(sum), nil
}

func echoAction(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
	text := fmt.Sprint(args["text"])
	if loud, _ := args["loud"].(bool); loud {
		text = strings.ToUpper(text)
	}

	times, ok := args["times"].(int)
	if !ok || times < 1 {
		times = 1
	}
	return strings.TrimSuffix(strings.Repeat(text+"\n", times), "\n"), nil
}

func rollAction(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
	sides, ok := args["sides"].(int)
	if !ok || sides < 2 {
		sides = 6
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	if m, ok := args["seed"].(argtypes.RegexMatch); ok && len(m.Match) > 1 {
		seed, err := strconv.ParseUint(m.Match[1], 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid seed %q: %w", m.Match[1], err)
		}
		rng = rand.New(rand.NewPCG(seed, 0))
	}
	return fmt.Sprintf("rolled %d (d%d)", rng.IntN(sides)+1, sides), nil
}

func releaseAction(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
	v, ok := args["version"].(*semver.Version)
	if !ok {
		return "No valid version given.", nil
	}

	var c *semver.Constraints
	switch want := args["constraint"].(type) {
	case *semver.Constraints:
		c = want
	case string:
		parsed, err := semver.NewConstraint(want)
		if err != nil {
			return "", fmt.Errorf("invalid constraint %q: %w", want, err)
		}
		c = parsed
	default:
		return "", fmt.Errorf("unexpected constraint %T", want)
	}

	if c.Check(v) {
		return fmt.Sprintf("%s satisfies %s", v, c), nil
	}
	return fmt.Sprintf("%s does not satisfy %s", v, c), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

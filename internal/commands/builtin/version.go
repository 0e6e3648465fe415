package builtin

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"akairo/internal/argument"
	"akairo/internal/casting"
	"akairo/internal/commands"
	"akairo/internal/version"
	"akairo/pkg/argtypes"
)

// NewVersionCommand creates the version command. With --check it reports whether
// the running version satisfies a constraint instead.
func NewVersionCommand() *commands.Command {
	return &commands.Command{
		Name:        "version",
		Description: "Show akairo version information",
		Args: []*argument.Argument{{
			ID:          "check",
			Description: "version constraint to test against",
			Match:       argtypes.MatchOption,
			Flags:       []string{"--check="},
			Type:        argtypes.Named(casting.TypeSemverConstraint),
		}},
		OptionFlagWords: []string{"--check="},
		Action: func(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
			c, ok := args["check"].(*semver.Constraints)
			if !ok {
				return version.GetFormattedVersion(), nil
			}
			satisfied, err := version.Satisfies(c)
			if err != nil {
				return "", err
			}
			if satisfied {
				return fmt.Sprintf("v%s satisfies %s", version.GetVersion(), c), nil
			}
			return fmt.Sprintf("v%s does not satisfy %s", version.GetVersion(), c), nil
		},
	}
}

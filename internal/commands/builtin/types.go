package builtin

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"akairo/internal/argument"
	"akairo/internal/casting"
	"akairo/internal/commands"
	"akairo/pkg/argtypes"
)

// NewTypesCommand creates the types command, which lists the type names registered
// in types. An optional filter keeps the names that fuzzily contain it.
func NewTypesCommand(types *casting.Registry) *commands.Command {
	return &commands.Command{
		Name:        "types",
		Description: "List registered argument types",
		Args: []*argument.Argument{{
			ID:          "filter",
			Description: "only show types matching this",
			Type:        argtypes.Named(casting.TypeLowercase),
		}},
		Action: func(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
			names := types.Names()
			if filter, ok := args["filter"].(string); ok {
				names = fuzzy.FindFold(filter, names)
			}
			if len(names) == 0 {
				return "No matching types.", nil
			}
			return strings.Join(names, "\n"), nil
		},
	}
}

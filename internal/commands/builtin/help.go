package builtin

import (
	"context"
	"fmt"
	"strings"

	"akairo/internal/argument"
	"akairo/internal/commands"
	"akairo/pkg/argtypes"
)

// NewHelpCommand creates the help command. Without an argument it lists every
// command in table, with one it shows that command's usage and arguments.
func NewHelpCommand(table *commands.Table) *commands.Command {
	return &commands.Command{
		Name:        "help",
		Aliases:     []string{"commands"},
		Description: "Show command help",
		Args: []*argument.Argument{{
			ID:          "command",
			Description: "command to describe",
			Type:        commandType(table),
		}},
		Action: func(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
			switch v := args["command"].(type) {
			case *commands.Command:
				return describeCommand(v), nil
			case argtypes.Fail:
				return unknownCommand(table, fmt.Sprint(v.Input)), nil
			default:
				return listCommands(table), nil
			}
		},
	}
}

// commandType resolves a phrase to a registered command.
// Unknown names fail with the name kept as input so help can suggest a fix.
func commandType(table *commands.Table) argtypes.Func {
	return func(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
		name, _ := phrase.(string)
		if name == "" {
			return nil, nil
		}
		if cmd, ok := table.Find(name); ok {
			return cmd, nil
		}
		return argtypes.Fail{Tag: "command", Input: name}, nil
	}
}

func listCommands(table *commands.Table) string {
	all := table.All()
	width := 0
	for _, cmd := range all {
		width = max(width, len(cmd.Name))
	}

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range all {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, cmd.Name, cmd.Description)
	}
	b.WriteString("\nUse help <command> for details.")
	return b.String()
}

func describeCommand(cmd *commands.Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command: %s\n", cmd.Name)
	if cmd.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", cmd.Description)
	}
	fmt.Fprintf(&b, "Usage: %s", cmd.Usage())
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(&b, "\nAliases: %s", strings.Join(cmd.Aliases, ", "))
	}

	if len(cmd.Args) > 0 {
		b.WriteString("\n\nArguments:")
		for _, a := range cmd.Args {
			match := a.Match
			if match == "" {
				match = argtypes.MatchPhrase
			}
			fmt.Fprintf(&b, "\n  %s (%s)", a.ID, match)
			if a.Description != "" {
				fmt.Fprintf(&b, " %s", a.Description)
			}
		}
	}
	return b.String()
}

func unknownCommand(table *commands.Table, name string) string {
	msg := fmt.Sprintf("command '%s' not found", name)
	if suggestions := table.Suggest(name); len(suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean '%s'?", suggestions[0])
	}
	return msg
}

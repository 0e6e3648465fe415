// Package builtin provides the commands an akairo shell starts with.
// It registers help, types and version, and loads the example commands
// defined in the embedded commands.yaml.
package builtin

import (
	"fmt"

	"akairo/internal/casting"
	"akairo/internal/commands"
	"akairo/internal/data/embedded"
	"akairo/internal/specfile"
)

// Register adds the help, types and version commands to table.
func Register(table *commands.Table, types *casting.Registry) error {
	for _, cmd := range []*commands.Command{
		NewHelpCommand(table),
		NewTypesCommand(types),
		NewVersionCommand(),
	} {
		if err := table.Register(cmd); err != nil {
			return fmt.Errorf("failed to register %s command: %w", cmd.Name, err)
		}
	}
	return nil
}

// RegisterDefinitions compiles YAML command definitions into table.
// Commands named in actions run that action, the rest print their resolved arguments.
func RegisterDefinitions(table *commands.Table, data []byte, actions map[string]commands.Action) error {
	defs, err := specfile.Parse(data)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := table.Register(commands.FromDefinition(def, actions[def.Name])); err != nil {
			return fmt.Errorf("failed to register %s command: %w", def.Name, err)
		}
	}
	return nil
}

// RegisterExamples adds the embedded example commands to table.
func RegisterExamples(table *commands.Table) error {
	return RegisterDefinitions(table, embedded.BuiltinCommandsData, exampleActions)
}

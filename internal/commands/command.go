package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"akairo/internal/argument"
	"akairo/internal/parser"
	"akairo/internal/specfile"
	"akairo/pkg/argtypes"
)

// Action runs once a command's arguments are resolved and returns the text to show.
type Action func(ctx context.Context, inv *argtypes.Invocation, args map[string]any) (string, error)

// Command is a named argument list plus the action run with the resolved values.
type Command struct {
	Name        string
	Aliases     []string
	Description string

	Args []*argument.Argument
	// Sequence replaces Args when the arguments depend on earlier values.
	Sequence argument.Sequencer
	Defaults argument.Defaults

	// FlagWords and OptionFlagWords are added to the tokenizer's own words.
	FlagWords       []string
	OptionFlagWords []string

	Action Action
}

// FromDefinition builds a command from a YAML definition. A nil action prints the resolved values.
func FromDefinition(def specfile.Definition, action Action) *Command {
	if action == nil {
		action = DescribeArgs
	}
	return &Command{
		Name:            def.Name,
		Aliases:         def.Aliases,
		Description:     def.Description,
		Args:            def.Args,
		Defaults:        def.Defaults,
		FlagWords:       def.FlagWords,
		OptionFlagWords: def.OptionFlagWords,
		Action:          action,
	}
}

// Tokenizer returns base extended with the command's flag words.
func (c *Command) Tokenizer(base parser.ContentParser) parser.ContentParser {
	p := base
	p.FlagWords = append(append([]string(nil), base.FlagWords...), c.FlagWords...)
	p.OptionFlagWords = append(append([]string(nil), base.OptionFlagWords...), c.OptionFlagWords...)
	return p
}

// Resolve tokenizes content and runs the command's arguments against it.
func (c *Command) Resolve(ctx context.Context, h *argument.Handler, inv *argtypes.Invocation, tokenizer parser.ContentParser, content string) (*argument.Outcome, error) {
	t := c.Tokenizer(tokenizer)
	parsed := t.Parse(content)

	seq := c.Sequence
	if seq == nil {
		seq = argument.FromArguments(c.Args...)
	}
	return argument.NewRunner(h, c.Name, c.Defaults).Run(ctx, inv, parsed, seq)
}

// Usage renders a one-line synopsis such as "add <numbers...> [--verbose]".
func (c *Command) Usage() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		switch a.Match {
		case argtypes.MatchFlag:
			parts = append(parts, "["+strings.Join(a.Flags, "|")+"]")
		case argtypes.MatchOption:
			parts = append(parts, "["+strings.Join(a.Flags, "|")+"<"+a.ID+">]")
		case argtypes.MatchSeparate:
			parts = append(parts, "<"+a.ID+"...>")
		case argtypes.MatchNone:
		default:
			if a.Default != nil {
				parts = append(parts, "["+a.ID+"]")
			} else {
				parts = append(parts, "<"+a.ID+">")
			}
		}
	}
	return strings.Join(parts, " ")
}

// DescribeArgs renders resolved values as YAML, keys sorted.
func DescribeArgs(_ context.Context, _ *argtypes.Invocation, args map[string]any) (string, error) {
	if len(args) == 0 {
		return "(no arguments)", nil
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var node yaml.Node
	node.Kind = yaml.MappingNode
	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(printable(args[k])); err != nil {
			return "", fmt.Errorf("failed to encode %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("failed to encode arguments: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// printable converts values yaml cannot encode meaningfully into strings.
func printable(v any) any {
	switch v := v.(type) {
	case nil, string, bool, int, int64, float64:
		return v
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, printable(item))
		}
		return out
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

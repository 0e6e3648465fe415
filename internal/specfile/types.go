package specfile

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"akairo/internal/casting"
	"akairo/pkg/argtypes"
)

// TypeDef is the YAML form of an argument type:
//
//	type: integer                      # registered type name
//	type: /^#?[0-9a-f]{6}$/i           # regular expression, flags g, i, m, s
//	type: [small, [large, big, l]]     # choices, nested lists are alias groups
//	type: {union: [integer, url]}      # combinator
type TypeDef struct {
	node *yaml.Node
}

// UnmarshalYAML keeps the node so it can be compiled once the whole file is known.
func (t *TypeDef) UnmarshalYAML(value *yaml.Node) error {
	t.node = value
	return nil
}

// Compile resolves the definition into a Type. An absent definition yields nil.
func (t TypeDef) Compile() (argtypes.Type, error) {
	if t.node == nil {
		return nil, nil
	}
	return compileType(t.node)
}

func compileType(node *yaml.Node) (argtypes.Type, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return compileType(node.Alias)
	case yaml.ScalarNode:
		return compileScalar(node.Value)
	case yaml.SequenceNode:
		return compileChoices(node)
	case yaml.MappingNode:
		return compileCombinator(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported type definition", node.Line)
	}
}

func compileScalar(s string) (argtypes.Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "/") {
		if end := strings.LastIndex(s, "/"); end > 0 {
			return compilePattern(s[1:end], s[end+1:])
		}
	}
	return argtypes.Named(s), nil
}

func compilePattern(expr, flags string) (argtypes.Type, error) {
	var global bool
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'g':
			global = true
		case 'i', 'm', 's':
			inline.WriteRune(f)
		default:
			return nil, fmt.Errorf("unsupported regular expression flag %q", f)
		}
	}
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression: %w", err)
	}
	return argtypes.Pattern{Regexp: re, Global: global}, nil
}

func compileChoices(node *yaml.Node) (argtypes.Type, error) {
	choices := make(argtypes.Choices, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			choices = append(choices, []string{item.Value})
		case yaml.SequenceNode:
			var group []string
			if err := item.Decode(&group); err != nil {
				return nil, fmt.Errorf("line %d: alias group: %w", item.Line, err)
			}
			if len(group) == 0 {
				return nil, fmt.Errorf("line %d: empty alias group", item.Line)
			}
			choices = append(choices, group)
		default:
			return nil, fmt.Errorf("line %d: choices must be strings or lists of strings", item.Line)
		}
	}
	return choices, nil
}

type rangeDef struct {
	Type      TypeDef `yaml:"type"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Inclusive bool    `yaml:"inclusive"`
}

type taggedDef struct {
	Type TypeDef `yaml:"type"`
	Tag  string  `yaml:"tag"`
}

// compileCombinator handles a single-key mapping naming a combinator.
func compileCombinator(node *yaml.Node) (argtypes.Type, error) {
	if len(node.Content) != 2 {
		return nil, fmt.Errorf("line %d: a combinator mapping needs exactly one key", node.Line)
	}
	name, body := node.Content[0].Value, node.Content[1]

	switch name {
	case "union":
		return variadic(body, casting.Union)
	case "tagged_union":
		return variadic(body, casting.TaggedUnion)
	case "compose":
		return variadic(body, casting.Compose)
	case "compose_with_failure":
		return variadic(body, casting.ComposeWithFailure)
	case "product":
		return variadic(body, casting.Product)
	case "with_input":
		inner, err := compileType(body)
		if err != nil {
			return nil, err
		}
		return casting.WithInput(inner), nil
	case "range":
		var def rangeDef
		if err := body.Decode(&def); err != nil {
			return nil, fmt.Errorf("line %d: range: %w", body.Line, err)
		}
		inner, err := def.Type.Compile()
		if err != nil {
			return nil, err
		}
		return casting.Range(inner, def.Min, def.Max, def.Inclusive), nil
	case "tagged", "tagged_with_input":
		def := taggedDef{}
		if body.Kind == yaml.MappingNode && hasKey(body, "type") {
			if err := body.Decode(&def); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", body.Line, name, err)
			}
		} else {
			def.Type = TypeDef{node: body}
		}
		inner, err := def.Type.Compile()
		if err != nil {
			return nil, err
		}
		var tag []any
		if def.Tag != "" {
			tag = append(tag, def.Tag)
		}
		if name == "tagged" {
			return casting.Tagged(inner, tag...), nil
		}
		return casting.TaggedWithInput(inner, tag...), nil
	default:
		return nil, fmt.Errorf("line %d: unknown type combinator %q", node.Line, name)
	}
}

func variadic(body *yaml.Node, build func(...argtypes.Type) argtypes.Func) (argtypes.Type, error) {
	if body.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of types", body.Line)
	}
	types := make([]argtypes.Type, 0, len(body.Content))
	for _, item := range body.Content {
		t, err := compileType(item)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return build(types...), nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Package specfile loads command argument definitions from YAML.
//
// A file lists commands, each with the arguments it resolves:
//
//	commands:
//	  - name: add
//	    aliases: [plus]
//	    description: Adds numbers
//	    prompt:
//	      retries: 2
//	    args:
//	      - id: numbers
//	        match: separate
//	        type: integer
//	        prompt:
//	          start: Which numbers should I add?
//	          retry: "{phrase} is not a number, try again."
//	      - id: verbose
//	        match: flag
//	        flags: [--verbose, -v]
//
// Texts may use the placeholders {phrase}, {retries} and {user}.
package specfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"akairo/internal/argument"
	"akairo/pkg/argtypes"
)

// File is the top-level YAML document.
type File struct {
	Commands []CommandDef `yaml:"commands"`
}

// CommandDef is one command in a File.
type CommandDef struct {
	Name        string     `yaml:"name"`
	Aliases     []string   `yaml:"aliases"`
	Description string     `yaml:"description"`
	Prompt      *PromptDef `yaml:"prompt"`
	Args        []ArgDef   `yaml:"args"`

	// OtherwisePrefix is prepended to every otherwise text of the command.
	OtherwisePrefix string `yaml:"otherwise_prefix"`
}

// ArgDef is one argument of a command.
type ArgDef struct {
	ID            string       `yaml:"id"`
	Description   string       `yaml:"description"`
	Match         string       `yaml:"match"`
	Type          TypeDef      `yaml:"type"`
	Flags         []string     `yaml:"flags"`
	MultipleFlags bool         `yaml:"multiple_flags"`
	Index         *int         `yaml:"index"`
	Unordered     UnorderedDef `yaml:"unordered"`
	Limit         int          `yaml:"limit"`
	Default       any          `yaml:"default"`
	Otherwise     string       `yaml:"otherwise"`
	Prompt        *PromptDef   `yaml:"prompt"`
}

// PromptDef is the YAML form of argument.PromptOptions.
type PromptDef struct {
	Start      string `yaml:"start"`
	Retry      string `yaml:"retry"`
	Timeout    string `yaml:"timeout"`
	Ended      string `yaml:"ended"`
	Cancel     string `yaml:"cancel"`
	Retries    *int   `yaml:"retries"`
	Time       string `yaml:"time"`
	Breakout   *bool  `yaml:"breakout"`
	Infinite   *bool  `yaml:"infinite"`
	Optional   *bool  `yaml:"optional"`
	Limit      *int   `yaml:"limit"`
	CancelWord string `yaml:"cancel_word"`
	StopWord   string `yaml:"stop_word"`
}

// UnorderedDef accepts true (any position), a start index or a list of indices.
type UnorderedDef struct {
	value argument.Unordered
}

// UnmarshalYAML decodes the three accepted forms.
func (u *UnorderedDef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if n, err := strconv.Atoi(value.Value); err == nil {
			u.value = argument.FromPosition(n)
			return nil
		}
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: unordered must be a boolean, an index or a list of indices", value.Line)
		}
		if b {
			u.value = argument.AnyPosition()
		}
		return nil
	case yaml.SequenceNode:
		var indices []int
		if err := value.Decode(&indices); err != nil {
			return fmt.Errorf("line %d: unordered: %w", value.Line, err)
		}
		u.value = argument.AtPositions(indices...)
		return nil
	default:
		return fmt.Errorf("line %d: unordered must be a boolean, an index or a list of indices", value.Line)
	}
}

// Definition is a compiled command ready to be run.
type Definition struct {
	Name        string
	Aliases     []string
	Description string
	Args        []*argument.Argument
	Defaults    argument.Defaults
	// FlagWords and OptionFlagWords are collected from flag and option arguments.
	FlagWords       []string
	OptionFlagWords []string
}

// Load reads and compiles a definitions file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read command definitions: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse compiles definitions from YAML data.
func Parse(data []byte) ([]Definition, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse command definitions: %w", err)
	}

	defs := make([]Definition, 0, len(file.Commands))
	for _, cmd := range file.Commands {
		def, err := cmd.Compile()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Compile turns the YAML form of a command into a Definition.
func (c CommandDef) Compile() (Definition, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Definition{}, fmt.Errorf("command without a name")
	}

	def := Definition{
		Name:        c.Name,
		Aliases:     c.Aliases,
		Description: c.Description,
	}

	prompt, err := c.Prompt.Compile()
	if err != nil {
		return Definition{}, fmt.Errorf("command %q: %w", c.Name, err)
	}
	def.Defaults.Prompt = prompt
	if c.OtherwisePrefix != "" {
		def.Defaults.ModifyOtherwise = prefixModifier(c.OtherwisePrefix)
	}

	for i, a := range c.Args {
		arg, err := a.Compile()
		if err != nil {
			id := a.ID
			if id == "" {
				id = strconv.Itoa(i)
			}
			return Definition{}, fmt.Errorf("command %q argument %q: %w", c.Name, id, err)
		}
		if arg.ID == "" {
			arg.ID = strconv.Itoa(i)
		}
		switch arg.Match {
		case argtypes.MatchFlag:
			def.FlagWords = append(def.FlagWords, arg.Flags...)
		case argtypes.MatchOption:
			def.OptionFlagWords = append(def.OptionFlagWords, arg.Flags...)
		}
		def.Args = append(def.Args, arg)
	}
	return def, nil
}

// Compile turns the YAML form of an argument into an Argument.
func (a ArgDef) Compile() (*argument.Argument, error) {
	match := argtypes.MatchStrategy(a.Match)
	if match == "" {
		match = argtypes.MatchPhrase
	}
	if !match.Valid() {
		return nil, fmt.Errorf("%w: %q", argtypes.ErrUnknownMatch, a.Match)
	}
	if (match == argtypes.MatchFlag || match == argtypes.MatchOption) && len(a.Flags) == 0 {
		return nil, fmt.Errorf("%s argument needs at least one flag", match)
	}

	typ, err := a.Type.Compile()
	if err != nil {
		return nil, err
	}
	prompt, err := a.Prompt.Compile()
	if err != nil {
		return nil, err
	}

	arg := &argument.Argument{
		ID:            a.ID,
		Description:   a.Description,
		Match:         match,
		Type:          typ,
		Flags:         a.Flags,
		MultipleFlags: a.MultipleFlags,
		Index:         a.Index,
		Unordered:     a.Unordered.value,
		Limit:         a.Limit,
		Default:       a.Default,
		Prompt:        prompt,
	}
	if a.Otherwise != "" {
		arg.Otherwise = template(a.Otherwise)
	}
	return arg, nil
}

// Compile turns the YAML form of a prompt into PromptOptions. A nil definition yields nil.
func (p *PromptDef) Compile() (*argument.PromptOptions, error) {
	if p == nil {
		return nil, nil
	}

	opts := &argument.PromptOptions{
		Retries:    p.Retries,
		Breakout:   p.Breakout,
		Infinite:   p.Infinite,
		Optional:   p.Optional,
		Limit:      p.Limit,
		CancelWord: p.CancelWord,
		StopWord:   p.StopWord,
	}
	if p.Time != "" {
		d, err := time.ParseDuration(p.Time)
		if err != nil {
			return nil, fmt.Errorf("prompt time: %w", err)
		}
		opts.Time = &d
	}
	if p.Start != "" {
		opts.Start = template(p.Start)
	}
	if p.Retry != "" {
		opts.Retry = template(p.Retry)
	}
	if p.Timeout != "" {
		opts.Timeout = template(p.Timeout)
	}
	if p.Ended != "" {
		opts.Ended = template(p.Ended)
	}
	if p.Cancel != "" {
		opts.Cancel = template(p.Cancel)
	}
	return opts, nil
}

// template returns a Text filling {phrase}, {retries} and {user}.
func template(s string) argument.Text {
	if !strings.Contains(s, "{") {
		return argument.Static(s)
	}
	return func(inv *argtypes.Invocation, data argument.TextData) string {
		return strings.NewReplacer(
			"{phrase}", data.Phrase,
			"{retries}", strconv.Itoa(data.Retries),
			"{user}", inv.AuthorID(),
		).Replace(s)
	}
}

// prefixModifier prepends prefix to every otherwise text of a command.
func prefixModifier(prefix string) argument.Modifier {
	return func(_ *argtypes.Invocation, text string, _ argument.TextData) string {
		if text == "" {
			return text
		}
		return prefix + " " + text
	}
}

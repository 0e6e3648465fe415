package parser

import (
	"sort"
	"strings"
	"unicode"
)

// CommandLine is raw input split into prefix, command name and content.
type CommandLine struct {
	Prefix  string
	Name    string
	Content string
}

// SplitCommand splits "<prefix><name> <content>" input. Whitespace is allowed
// between the prefix and the name. It reports false when input does not start
// with one of prefixes or has no name after it.
func SplitCommand(input string, prefixes ...string) (*CommandLine, bool) {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)

	sorted := append([]string(nil), prefixes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	for _, prefix := range sorted {
		if prefix == "" || len(input) < len(prefix) || !strings.EqualFold(input[:len(prefix)], prefix) {
			continue
		}

		rest := strings.TrimLeftFunc(input[len(prefix):], unicode.IsSpace)
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end == -1 {
			end = len(rest)
		}
		name := rest[:end]
		if name == "" {
			return nil, false
		}

		return &CommandLine{
			Prefix:  input[:len(prefix)],
			Name:    name,
			Content: strings.TrimLeftFunc(rest[end:], unicode.IsSpace),
		}, true
	}

	return nil, false
}

package shell

import (
	"strings"

	"akairo/internal/commands"
)

// Completer completes command names after a prefix. It implements readline.AutoCompleter.
type Completer struct {
	Table    *commands.Table
	Prefixes []string
}

// Do returns the completions for the word before pos and the length of that word.
func (c Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if c.Table == nil || pos > len(line) {
		return nil, 0
	}
	head := string(line[:pos])

	word, ok := c.commandWord(head)
	if !ok {
		return nil, 0
	}

	lower := strings.ToLower(word)
	for _, name := range c.Table.Complete(word) {
		if !strings.HasPrefix(name, lower) {
			continue
		}
		newLine = append(newLine, []rune(name[len(lower):]))
	}
	return newLine, len([]rune(word))
}

// commandWord returns the partial name when head is a prefix followed by a single word.
func (c Completer) commandWord(head string) (string, bool) {
	for _, prefix := range c.Prefixes {
		rest, ok := strings.CutPrefix(head, prefix)
		if !ok {
			continue
		}
		if strings.ContainsAny(rest, " \t") {
			return "", false
		}
		return rest, true
	}
	return "", false
}

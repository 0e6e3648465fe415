// Package commands provides command registration, lookup and dispatch for the akairo shell.
// It maps command names and aliases to argument lists and runs input through them.
package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Table manages command registration and lookup.
// Names and aliases are case-insensitive and share one namespace.
type Table struct {
	mu       sync.RWMutex
	commands map[string]*Command
	aliases  map[string]string
}

// NewTable creates an empty command table.
func NewTable() *Table {
	return &Table{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds a command. Returns an error if the name is empty or if the
// name or one of the aliases is already taken.
func (t *Table) Register(cmd *Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cmd == nil || strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	name := strings.ToLower(cmd.Name)
	keys := []string{name}
	for _, alias := range cmd.Aliases {
		keys = append(keys, strings.ToLower(alias))
	}
	for _, key := range keys {
		if _, exists := t.aliases[key]; exists {
			return fmt.Errorf("command %s already registered", key)
		}
	}

	t.commands[name] = cmd
	for _, key := range keys {
		t.aliases[key] = name
	}
	return nil
}

// Unregister removes a command and its aliases.
// This operation will not error if the command doesn't exist.
func (t *Table) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name = strings.ToLower(name)
	if _, ok := t.commands[name]; !ok {
		return
	}
	delete(t.commands, name)
	for key, target := range t.aliases {
		if target == name {
			delete(t.aliases, key)
		}
	}
}

// Find looks a command up by name or alias.
func (t *Table) Find(name string) (*Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	target, ok := t.aliases[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	cmd, ok := t.commands[target]
	return cmd, ok
}

// All returns every command sorted by name.
func (t *Table) All() []*Command {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Command, 0, len(t.commands))
	for _, cmd := range t.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Names returns every name and alias, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.aliases))
	for key := range t.aliases {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Suggest returns known names within a small edit distance of name, closest first.
func (t *Table) Suggest(name string) []string {
	name = strings.ToLower(name)
	if name == "" {
		return nil
	}

	type scored struct {
		name string
		dist int
	}
	var results []scored
	for _, cand := range t.Names() {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist == 0 || dist > levenshteinLimit(len(cand)) {
			continue
		}
		results = append(results, scored{name: cand, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].name < results[j].name
		}
		return results[i].dist < results[j].dist
	})

	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.name)
	}
	return out
}

// Complete returns names that fuzzily contain partial, best match first.
func (t *Table) Complete(partial string) []string {
	names := t.Names()
	if partial == "" {
		return names
	}

	ranks := fuzzy.RankFindFold(partial, names)
	sort.Sort(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Package casting maps type names to casters and builds new casters from existing ones.
package casting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"akairo/internal/logger"
	"akairo/pkg/argtypes"
)

// Registry maps type names to casters. Registration overwrites silently so
// callers can replace built-ins.
type Registry struct {
	mu      sync.RWMutex
	casters map[string]argtypes.Caster
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		casters: make(map[string]argtypes.Caster),
	}
}

// NewRegistryWithBuiltins creates a registry holding every built-in caster.
func NewRegistryWithBuiltins() *Registry {
	return NewRegistry().RegisterMany(Builtins())
}

// Register stores fn under name, replacing any previous caster.
func (r *Registry) Register(name string, fn argtypes.Caster) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.casters[name] = fn
	return r
}

// RegisterMany stores every caster in casters.
func (r *Registry) RegisterMany(casters map[string]argtypes.Caster) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(casters))
	for name, fn := range casters {
		r.casters[name] = fn
		names = append(names, name)
	}
	sort.Strings(names)
	logger.TypeRegistration(names...)
	return r
}

// Lookup returns the caster registered under name.
func (r *Registry) Lookup(name string) (argtypes.Caster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.casters[name]
	return fn, ok
}

// MustLookup is Lookup for callers that cannot fall back to the identity caster.
func (r *Registry) MustLookup(name string) (argtypes.Caster, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", argtypes.ErrUnknownType, name)
	}
	return fn, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.casters))
	for name := range r.casters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cast casts phrase according to t.
//
//   - Choices: case-insensitive membership; the first entry of the matched group is returned.
//   - Func: called as-is.
//   - Pattern: a RegexMatch, or nil when the phrase does not match.
//   - Named: the registered caster, or the identity caster when the name is unknown.
func (r *Registry) Cast(ctx context.Context, inv *argtypes.Invocation, t argtypes.Type, phrase any) (any, error) {
	switch t := t.(type) {
	case argtypes.Choices:
		return castChoices(t, phrase), nil
	case argtypes.Func:
		if t == nil {
			return identity(phrase), nil
		}
		return t(ctx, inv, phrase)
	case argtypes.Pattern:
		return castPattern(t, phrase), nil
	case argtypes.Named:
		if fn, ok := r.Lookup(string(t)); ok {
			return fn(ctx, inv, phrase)
		}
		return identity(phrase), nil
	default:
		return identity(phrase), nil
	}
}

func castChoices(choices argtypes.Choices, phrase any) any {
	s, ok := phrase.(string)
	if !ok {
		return nil
	}
	for _, group := range choices {
		for _, entry := range group {
			if strings.EqualFold(entry, s) {
				return group[0]
			}
		}
	}
	return nil
}

func castPattern(p argtypes.Pattern, phrase any) any {
	s, ok := phrase.(string)
	if !ok || p.Regexp == nil {
		return nil
	}
	match := p.Regexp.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	matches := [][]string{}
	if p.Global {
		matches = p.Regexp.FindAllStringSubmatch(s, -1)
	}
	return argtypes.RegexMatch{Match: match, Matches: matches}
}

// identity returns phrase when it is truthy, nil otherwise.
func identity(phrase any) any {
	if truthy(phrase) {
		return phrase
	}
	return nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	default:
		return true
	}
}

var (
	globalRegistry   = NewRegistryWithBuiltins()
	globalRegistryMu sync.RWMutex
)

// GetGlobalRegistry returns the process-wide registry.
func GetGlobalRegistry() *Registry {
	globalRegistryMu.RLock()
	defer globalRegistryMu.RUnlock()
	return globalRegistry
}

// SetGlobalRegistry replaces the process-wide registry.
func SetGlobalRegistry(registry *Registry) {
	globalRegistryMu.Lock()
	defer globalRegistryMu.Unlock()
	globalRegistry = registry
}

// Cast casts with the invocation's TypeCaster, or the global registry when it has none.
func Cast(ctx context.Context, inv *argtypes.Invocation, t argtypes.Type, phrase any) (any, error) {
	if inv != nil && inv.Types != nil {
		return inv.Types.Cast(ctx, inv, t, phrase)
	}
	return GetGlobalRegistry().Cast(ctx, inv, t, phrase)
}

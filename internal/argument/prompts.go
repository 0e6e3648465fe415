package argument

import "sync"

type promptKey struct {
	channel string
	user    string
}

// PromptRegistry records which (channel, user) pairs are in the middle of a prompt.
// Entries are only touched by the prompt collector on enter and exit.
type PromptRegistry struct {
	active sync.Map
}

// NewPromptRegistry creates an empty registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{}
}

// Add marks the pair as prompting.
func (r *PromptRegistry) Add(channel, user string) {
	r.active.Store(promptKey{channel: channel, user: user}, struct{}{})
}

// Remove clears the pair.
func (r *PromptRegistry) Remove(channel, user string) {
	r.active.Delete(promptKey{channel: channel, user: user})
}

// Has reports whether the pair is prompting.
func (r *PromptRegistry) Has(channel, user string) bool {
	_, ok := r.active.Load(promptKey{channel: channel, user: user})
	return ok
}

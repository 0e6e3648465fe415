package argument

import (
	"akairo/pkg/argtypes"
)

// Defaults are argument settings shared by every argument of a command, or of
// every command of a handler.
type Defaults struct {
	Prompt          *PromptOptions
	ModifyOtherwise Modifier
}

// Handler holds the process-wide pieces every resolution pass shares.
type Handler struct {
	// Types casts named types when the invocation brings no TypeCaster.
	Types argtypes.TypeCaster
	// Defaults are the lowest-precedence argument settings.
	Defaults Defaults
	// Prompts tracks active prompts.
	Prompts *PromptRegistry
	// Breakout recognises replies that start another command. Nil disables breakout.
	Breakout argtypes.BreakoutProbe
}

// NewHandler creates a handler with the built-in prompt defaults and an empty prompt registry.
func NewHandler(types argtypes.TypeCaster, breakout argtypes.BreakoutProbe) *Handler {
	return &Handler{
		Types:    types,
		Defaults: Defaults{Prompt: DefaultPromptOptions()},
		Prompts:  NewPromptRegistry(),
		Breakout: breakout,
	}
}

// Env is the handler and command an argument is resolved under.
type Env struct {
	Handler *Handler
	Command Defaults
}

func (e Env) handlerDefaults() Defaults {
	if e.Handler == nil {
		return Defaults{}
	}
	return e.Handler.Defaults
}

// promptOptions merges handler, command and argument prompt options.
func (e Env) promptOptions(a *Argument) PromptOptions {
	return MergePromptOptions(e.handlerDefaults().Prompt, e.Command.Prompt, a.Prompt)
}

func (e Env) modifyOtherwise(a *Argument) Modifier {
	if a.ModifyOtherwise != nil {
		return a.ModifyOtherwise
	}
	if e.Command.ModifyOtherwise != nil {
		return e.Command.ModifyOtherwise
	}
	return e.handlerDefaults().ModifyOtherwise
}

func (e Env) prompts() *PromptRegistry {
	if e.Handler == nil {
		return nil
	}
	return e.Handler.Prompts
}

func (e Env) breakout() argtypes.BreakoutProbe {
	if e.Handler == nil {
		return nil
	}
	return e.Handler.Breakout
}

// bind gives inv the handler's TypeCaster when it has none.
func (e Env) bind(inv *argtypes.Invocation) *argtypes.Invocation {
	if inv == nil {
		inv = &argtypes.Invocation{}
	}
	if inv.Types == nil && e.Handler != nil && e.Handler.Types != nil {
		c := *inv
		c.Types = e.Handler.Types
		return &c
	}
	return inv
}

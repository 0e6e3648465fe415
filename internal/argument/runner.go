package argument

import (
	"context"
	"fmt"
	"strings"

	"akairo/internal/logger"
	"akairo/pkg/argtypes"
)

var runnerLog = logger.NewStyledLogger("Runner")

// State is the cursor state of one run.
type State struct {
	// PhraseIndex is the next phrase for cursor-based strategies.
	PhraseIndex int
	// RawIndex is the matching position in ParsedInput.All.
	RawIndex int
	// UsedIndices are phrases already claimed by unordered arguments.
	UsedIndices map[int]struct{}
}

// NewState returns a state at the start of the input.
func NewState() *State {
	return &State{UsedIndices: make(map[int]struct{})}
}

// Used reports whether phrase i was claimed by an unordered argument.
func (s *State) Used(i int) bool {
	_, ok := s.UsedIndices[i]
	return ok
}

// IncreaseIndex advances the phrase cursor by n and the raw cursor past n
// tokens, skipping any non-phrase tokens after each.
func (s *State) IncreaseIndex(parsed *argtypes.ParsedInput, n int) {
	s.PhraseIndex += n
	for ; n > 0; n-- {
		s.RawIndex++
		for s.RawIndex < len(parsed.All) && !argtypes.IsPhrase(parsed.All[s.RawIndex]) {
			s.RawIndex++
		}
	}
}

// Step is one result of a Generator: either a value to resolve or the final result.
type Step struct {
	// Yield is an *Argument to resolve, or a Signal that ends the run.
	Yield any
	// Return is the final result once Done is set.
	Return any
	Done   bool
}

// Generator yields arguments one at a time. Next is resumed with the resolved
// value of the previously yielded argument, nil on the first call.
type Generator interface {
	Next(resume any) (Step, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(resume any) (Step, error)

// Next calls f.
func (f GeneratorFunc) Next(resume any) (Step, error) {
	return f(resume)
}

// Sequencer starts a Generator for one run. state is live and may be inspected
// between steps.
type Sequencer func(inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State) Generator

// Entry pairs an argument with the key its value is stored under.
type Entry struct {
	ID       string
	Argument *Argument
}

// FromSpecs yields each argument in order and returns a map of their values.
func FromSpecs(entries ...Entry) Sequencer {
	return func(*argtypes.Invocation, *argtypes.ParsedInput, *State) Generator {
		res := make(map[string]any, len(entries))
		i := 0
		return GeneratorFunc(func(resume any) (Step, error) {
			if i > 0 {
				res[entries[i-1].ID] = resume
			}
			if i == len(entries) {
				return Step{Done: true, Return: res}, nil
			}
			i++
			return Step{Yield: entries[i-1].Argument}, nil
		})
	}
}

// FromArguments is FromSpecs keyed by each argument's ID.
func FromArguments(args ...*Argument) Sequencer {
	entries := make([]Entry, 0, len(args))
	for _, a := range args {
		entries = append(entries, Entry{ID: a.ID, Argument: a})
	}
	return FromSpecs(entries...)
}

// Outcome is the result of a run. Exactly one of Signal or the result fields is meaningful.
type Outcome struct {
	// Args is the generator's result when it is a map.
	Args map[string]any
	// Value is the generator's result as returned.
	Value any
	// Signal is set when the run was short-circuited.
	Signal argtypes.Signal
	State  State
}

// Runner resolves the arguments of one command.
type Runner struct {
	handler  *Handler
	command  string
	defaults Defaults
}

// NewRunner creates a runner for command. defaults are the command-wide argument settings.
func NewRunner(h *Handler, command string, defaults Defaults) *Runner {
	return &Runner{handler: h, command: command, defaults: defaults}
}

func (r *Runner) env() Env {
	return Env{Handler: r.handler, Command: r.defaults}
}

// Run drives seq over parsed. A short-circuit signal, yielded by the generator
// or produced by an argument, ends the run and is returned in Outcome.Signal.
// Errors are configuration or infrastructure faults.
func (r *Runner) Run(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, seq Sequencer) (*Outcome, error) {
	inv = r.env().bind(inv)
	if inv.Command == "" {
		c := *inv
		c.Command = r.command
		inv = &c
	}
	if parsed == nil {
		parsed = &argtypes.ParsedInput{}
	}

	state := NewState()
	gen := seq(inv, parsed, state)

	var resume any
	for {
		step, err := gen.Next(resume)
		if err != nil {
			return nil, err
		}

		if step.Done {
			out := &Outcome{Value: step.Return, State: *state}
			if args, ok := step.Return.(map[string]any); ok {
				out.Args = args
			}
			return out, nil
		}

		if argtypes.IsShortCircuit(step.Yield) {
			return r.shortCircuit(step.Yield.(argtypes.Signal), parsed, state), nil
		}

		arg, ok := step.Yield.(*Argument)
		if !ok {
			return nil, fmt.Errorf("generator yielded %T, expected *Argument or a signal", step.Yield)
		}

		res, err := r.RunOne(ctx, inv, parsed, state, arg)
		if err != nil {
			return nil, err
		}
		if argtypes.IsShortCircuit(res) {
			return r.shortCircuit(res.(argtypes.Signal), parsed, state), nil
		}
		resume = res
	}
}

func (r *Runner) shortCircuit(sig argtypes.Signal, parsed *argtypes.ParsedInput, state *State) *Outcome {
	if c, ok := sig.(argtypes.Continue); ok {
		c.RestRaw = parsed.RawFrom(state.RawIndex, 0)
		sig = c
	}
	runnerLog.Debug("Run short-circuited", "command", r.command, "signal", sig.Kind())
	return &Outcome{Signal: sig, State: *state}
}

// RunOne resolves a single argument against parsed, moving state as its strategy requires.
func (r *Runner) RunOne(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State, arg *Argument) (any, error) {
	runnerLog.Debug("Resolving argument", "command", r.command, "strategy", arg.match())

	switch arg.match() {
	case argtypes.MatchPhrase:
		return r.runPhrase(ctx, inv, parsed, state, arg)
	case argtypes.MatchFlag:
		return r.runFlag(parsed, arg), nil
	case argtypes.MatchOption:
		return r.runOption(ctx, inv, parsed, arg)
	case argtypes.MatchRest:
		return r.runRest(ctx, inv, parsed, state, arg)
	case argtypes.MatchSeparate:
		return r.runSeparate(ctx, inv, parsed, state, arg)
	case argtypes.MatchText:
		return r.runText(ctx, inv, parsed, arg)
	case argtypes.MatchContent:
		return r.runContent(ctx, inv, parsed, arg)
	case argtypes.MatchRestContent:
		return r.runRestContent(ctx, inv, parsed, state, arg)
	case argtypes.MatchNone:
		return arg.Process(ctx, r.env(), inv, "")
	default:
		return nil, fmt.Errorf("%w: %q", argtypes.ErrUnknownMatch, arg.Match)
	}
}

func (r *Runner) runPhrase(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State, arg *Argument) (any, error) {
	if arg.Unordered != nil {
		for _, i := range arg.Unordered.positions(len(parsed.Phrases)) {
			if state.Used(i) {
				continue
			}
			res, err := arg.Cast(ctx, inv, parsed.PhraseValue(i))
			if err != nil {
				return nil, err
			}
			if !argtypes.IsFailure(res) {
				state.UsedIndices[i] = struct{}{}
				return res, nil
			}
		}
		return arg.Process(ctx, r.env(), inv, "")
	}

	index := state.PhraseIndex
	if arg.Index != nil {
		index = *arg.Index
	}
	res, err := arg.Process(ctx, r.env(), inv, parsed.PhraseValue(index))
	if arg.Index == nil {
		state.IncreaseIndex(parsed, 1)
	}
	return res, err
}

func (r *Runner) runRest(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State, arg *Argument) (any, error) {
	index := state.PhraseIndex
	if arg.Index != nil {
		index = *arg.Index
	}
	res, err := arg.Process(ctx, r.env(), inv, parsed.JoinPhrases(index, arg.Limit))
	if arg.Index == nil {
		state.IncreaseIndex(parsed, 1)
	}
	return res, err
}

func (r *Runner) runSeparate(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State, arg *Argument) (any, error) {
	index := state.PhraseIndex
	if arg.Index != nil {
		index = *arg.Index
	}

	phrases := parsed.PhraseSlice(index, arg.Limit)
	if len(phrases) == 0 {
		return arg.Process(ctx, r.env(), inv, "")
	}

	values := make([]any, 0, len(phrases))
	for _, p := range phrases {
		res, err := arg.Process(ctx, r.env(), inv, p.Value)
		if err != nil {
			return nil, err
		}
		if argtypes.IsShortCircuit(res) {
			return res, nil
		}
		values = append(values, res)
	}

	if arg.Index == nil {
		state.IncreaseIndex(parsed, len(phrases))
	}
	return values, nil
}

func (r *Runner) runText(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, arg *Argument) (any, error) {
	index := 0
	if arg.Index != nil {
		index = *arg.Index
	}
	return arg.Process(ctx, r.env(), inv, parsed.JoinPhrases(index, arg.Limit))
}

func (r *Runner) runContent(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, arg *Argument) (any, error) {
	index := 0
	if arg.Index != nil {
		index = *arg.Index
	}
	return arg.Process(ctx, r.env(), inv, parsed.JoinAll(index, arg.Limit))
}

func (r *Runner) runRestContent(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, state *State, arg *Argument) (any, error) {
	index := state.RawIndex
	if arg.Index != nil {
		index = *arg.Index
	}
	res, err := arg.Process(ctx, r.env(), inv, parsed.JoinAll(index, arg.Limit))
	if arg.Index == nil {
		state.IncreaseIndex(parsed, 1)
	}
	return res, err
}

func (r *Runner) runFlag(parsed *argtypes.ParsedInput, arg *Argument) any {
	if arg.MultipleFlags {
		count := 0
		for _, f := range parsed.Flags {
			if matchesFlag(arg.Flags, f.Key) {
				count++
			}
		}
		return count
	}

	found := false
	for _, f := range parsed.Flags {
		if matchesFlag(arg.Flags, f.Key) {
			found = true
			break
		}
	}
	if arg.Default != nil {
		return !found
	}
	return found
}

func (r *Runner) runOption(ctx context.Context, inv *argtypes.Invocation, parsed *argtypes.ParsedInput, arg *Argument) (any, error) {
	if arg.MultipleFlags {
		values := []any{}
		for _, o := range parsed.OptionFlags {
			if arg.Limit > 0 && len(values) >= arg.Limit {
				break
			}
			if !matchesFlag(arg.Flags, o.Key) {
				continue
			}
			res, err := arg.Process(ctx, r.env(), inv, o.Value)
			if err != nil {
				return nil, err
			}
			if argtypes.IsShortCircuit(res) {
				return res, nil
			}
			values = append(values, res)
		}
		return values, nil
	}

	value := ""
	for _, o := range parsed.OptionFlags {
		if matchesFlag(arg.Flags, o.Key) {
			value = o.Value
			break
		}
	}
	return arg.Process(ctx, r.env(), inv, value)
}

func matchesFlag(names []string, key string) bool {
	for _, name := range names {
		if strings.EqualFold(name, key) {
			return true
		}
	}
	return false
}

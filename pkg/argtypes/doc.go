// Package argtypes defines the data model and contracts shared by the argument
// resolution engine.
//
// The engine turns tokenized user text into typed values. Its pieces talk to
// each other through the types declared here:
//
//   - Tokens (tokens.go): Phrase, Flag and OptionFlag, collected into a
//     ParsedInput by a tokenizer. ParsedInput is read-only to the engine.
//   - Types (types.go): the Type sum type (Named, Choices, Pattern, Func)
//     describing how a phrase is cast, and the Caster function signature.
//   - Signals (signals.go): Cancel, Timeout, Retry, Continue and Fail. The
//     first four stop a resolution pass; Fail is a failure carrying context.
//   - Contracts (interfaces.go): Message, InputChannel, BreakoutProbe,
//     TypeCaster and the Invocation execution context.
//
// # Failure convention
//
// A caster reports bad user input by returning a nil value or a Fail. Both are
// recognised by IsFailure. The error return of a Caster is reserved for faults
// that must abort the whole pass, such as misconfiguration.
//
//	res, err := registry.Cast(ctx, inv, argtypes.Named("integer"), "12")
//	if err != nil {
//		return err
//	}
//	if argtypes.IsFailure(res) {
//		// fall back to a default or prompt
//	}
package argtypes

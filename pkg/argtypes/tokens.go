package argtypes

import "strings"

// Token is one element of the interleaved token sequence produced by a tokenizer.
type Token interface {
	// RawText returns the token as it appeared in the input, including trailing whitespace.
	RawText() string
	isToken()
}

// Phrase is a whitespace or quote delimited piece of input.
// Raw keeps the original quoting and trailing whitespace, Value is the unwrapped text.
type Phrase struct {
	Raw   string
	Value string
}

// RawText returns the raw form of the phrase.
func (p Phrase) RawText() string { return p.Raw }
func (Phrase) isToken()          {}

// Flag is a boolean flag word such as "--force".
type Flag struct {
	Key string
	Raw string
}

// RawText returns the raw form of the flag.
func (f Flag) RawText() string { return f.Raw }
func (Flag) isToken()          {}

// OptionFlag is a flag word that carries a value, such as "--name=foo".
type OptionFlag struct {
	Key   string
	Value string
	Raw   string
}

// RawText returns the raw form of the option flag.
func (o OptionFlag) RawText() string { return o.Raw }
func (OptionFlag) isToken()          {}

// IsPhrase reports whether the token is a Phrase.
func IsPhrase(t Token) bool {
	_, ok := t.(Phrase)
	return ok
}

// ParsedInput is the tokenizer output for one invocation.
// All holds every token in input order; the other slices are the typed subsequences.
type ParsedInput struct {
	All         []Token
	Phrases     []Phrase
	Flags       []Flag
	OptionFlags []OptionFlag
}

// Append adds a token to All and to the matching typed slice.
func (p *ParsedInput) Append(t Token) {
	p.All = append(p.All, t)
	switch t := t.(type) {
	case Phrase:
		p.Phrases = append(p.Phrases, t)
	case Flag:
		p.Flags = append(p.Flags, t)
	case OptionFlag:
		p.OptionFlags = append(p.OptionFlags, t)
	}
}

// PhraseValue returns the value of the phrase at index i, or "" when out of range.
func (p *ParsedInput) PhraseValue(i int) string {
	if p == nil || i < 0 || i >= len(p.Phrases) {
		return ""
	}
	return p.Phrases[i].Value
}

// PhraseSlice returns up to limit phrases starting at from. A limit <= 0 means no limit.
func (p *ParsedInput) PhraseSlice(from, limit int) []Phrase {
	if p == nil {
		return nil
	}
	start, end := bounds(len(p.Phrases), from, limit)
	return p.Phrases[start:end]
}

// JoinPhrases raw-joins up to limit phrases starting at from and trims the result.
func (p *ParsedInput) JoinPhrases(from, limit int) string {
	var b strings.Builder
	for _, phrase := range p.PhraseSlice(from, limit) {
		b.WriteString(phrase.Raw)
	}
	return strings.TrimSpace(b.String())
}

// JoinAll raw-joins up to limit tokens of All starting at from and trims the result.
func (p *ParsedInput) JoinAll(from, limit int) string {
	return strings.TrimSpace(p.RawFrom(from, limit))
}

// RawFrom raw-joins up to limit tokens of All starting at from without trimming.
func (p *ParsedInput) RawFrom(from, limit int) string {
	if p == nil {
		return ""
	}
	start, end := bounds(len(p.All), from, limit)
	var b strings.Builder
	for _, t := range p.All[start:end] {
		b.WriteString(t.RawText())
	}
	return b.String()
}

func bounds(n, from, limit int) (int, int) {
	if from < 0 {
		from = 0
	}
	if from > n {
		from = n
	}
	end := n
	if limit > 0 && limit < n-from {
		end = from + limit
	}
	return from, end
}

// Package parser tokenizes command content into phrases, flags and option flags.
package parser

import (
	"sort"
	"strings"
	"unicode"

	"akairo/pkg/argtypes"
)

// ContentParser splits command content into a ParsedInput.
//
// Phrases are separated by whitespace, or by Separator when it is set. Double
// quotes and curly quotes group words into one phrase unless DisableQuotes is
// set. Flag words (e.g. "--force") must stand alone; option flag words
// (e.g. "--name=") take the phrase that follows them as their value.
type ContentParser struct {
	FlagWords       []string
	OptionFlagWords []string
	DisableQuotes   bool
	Separator       string
}

type flagWord struct {
	word   []rune
	option bool
}

// Parse tokenizes content.
func (p *ContentParser) Parse(content string) *argtypes.ParsedInput {
	words := p.flagWords()
	if p.Separator != "" {
		return parseSeparated(content, p.Separator, words, !p.DisableQuotes)
	}

	s := &scanner{src: []rune(content), words: words, quotes: !p.DisableQuotes}
	return s.run()
}

// flagWords returns every flag word, longest first so longer words win over their prefixes.
func (p *ContentParser) flagWords() []flagWord {
	words := make([]flagWord, 0, len(p.FlagWords)+len(p.OptionFlagWords))
	for _, w := range p.FlagWords {
		if w != "" {
			words = append(words, flagWord{word: []rune(w)})
		}
	}
	for _, w := range p.OptionFlagWords {
		if w != "" {
			words = append(words, flagWord{word: []rune(w), option: true})
		}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i].word) > len(words[j].word)
	})
	return words
}

type scanner struct {
	src    []rune
	pos    int
	words  []flagWord
	quotes bool
}

func (s *scanner) run() *argtypes.ParsedInput {
	out := &argtypes.ParsedInput{}
	s.whitespace()

	for s.pos < len(s.src) {
		if w, ok := s.matchFlag(); ok {
			if w.option {
				out.Append(s.optionFlag(w))
			} else {
				out.Append(s.flag(w))
			}
			continue
		}
		out.Append(s.phrase())
	}

	return out
}

func (s *scanner) matchFlag() (flagWord, bool) {
	rest := s.src[s.pos:]
	for _, w := range s.words {
		if !hasPrefixFold(rest, w.word) {
			continue
		}
		if w.option || len(rest) == len(w.word) || unicode.IsSpace(rest[len(w.word)]) {
			return w, true
		}
	}
	return flagWord{}, false
}

func (s *scanner) flag(w flagWord) argtypes.Flag {
	key := string(s.src[s.pos : s.pos+len(w.word)])
	s.pos += len(w.word)
	return argtypes.Flag{Key: key, Raw: key + s.whitespace()}
}

func (s *scanner) optionFlag(w flagWord) argtypes.OptionFlag {
	key := string(s.src[s.pos : s.pos+len(w.word)])
	s.pos += len(w.word)

	flag := argtypes.OptionFlag{Key: key, Raw: key + s.whitespace()}
	if s.pos >= len(s.src) {
		return flag
	}
	if _, ok := s.matchFlag(); ok {
		return flag
	}

	phrase := s.phrase()
	flag.Value = phrase.Value
	flag.Raw += phrase.Raw
	return flag
}

func (s *scanner) phrase() argtypes.Phrase {
	start := s.pos

	if s.quotes {
		if closing, ok := closingQuote(s.src[s.pos]); ok {
			s.pos++
			valueStart := s.pos
			for s.pos < len(s.src) && s.src[s.pos] != closing {
				s.pos++
			}
			value := string(s.src[valueStart:s.pos])
			if s.pos < len(s.src) {
				s.pos++
			}
			raw := string(s.src[start:s.pos])
			return argtypes.Phrase{Value: value, Raw: raw + s.whitespace()}
		}
	}

	for s.pos < len(s.src) && !unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
	value := string(s.src[start:s.pos])
	return argtypes.Phrase{Value: value, Raw: value + s.whitespace()}
}

// whitespace consumes and returns a run of whitespace.
func (s *scanner) whitespace() string {
	start := s.pos
	for s.pos < len(s.src) && unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

func closingQuote(r rune) (rune, bool) {
	switch r {
	case '"':
		return '"', true
	case '“':
		return '”', true
	default:
		return 0, false
	}
}

func hasPrefixFold(s, prefix []rune) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(string(s[:len(prefix)]), string(prefix))
}

func parseSeparated(content, sep string, words []flagWord, quotes bool) *argtypes.ParsedInput {
	out := &argtypes.ParsedInput{}
	parts := strings.Split(content, sep)

	for i, part := range parts {
		raw := part
		if i < len(parts)-1 {
			raw += sep
		}
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out.Append(separatedToken(trimmed, raw, words, quotes))
	}

	return out
}

func separatedToken(trimmed, raw string, words []flagWord, quotes bool) argtypes.Token {
	runes := []rune(trimmed)
	for _, w := range words {
		if !hasPrefixFold(runes, w.word) {
			continue
		}
		key := string(runes[:len(w.word)])
		if w.option {
			value := strings.TrimSpace(string(runes[len(w.word):]))
			return argtypes.OptionFlag{Key: key, Value: unquote(value, quotes), Raw: raw}
		}
		if len(runes) == len(w.word) {
			return argtypes.Flag{Key: key, Raw: raw}
		}
	}
	return argtypes.Phrase{Value: unquote(trimmed, quotes), Raw: raw}
}

func unquote(s string, quotes bool) string {
	if !quotes {
		return s
	}
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}
	if closing, ok := closingQuote(runes[0]); ok && runes[len(runes)-1] == closing {
		return string(runes[1 : len(runes)-1])
	}
	return s
}

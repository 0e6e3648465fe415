package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"

	"akairo/pkg/argtypes"
)

func phrase(raw, value string) argtypes.Phrase {
	return argtypes.Phrase{Raw: raw, Value: value}
}

func TestContentParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		parser   ContentParser
		input    string
		expected []argtypes.Token
	}{
		{
			name:     "plain words keep trailing whitespace",
			input:    "foo bar",
			expected: []argtypes.Token{phrase("foo ", "foo"), phrase("bar", "bar")},
		},
		{
			name:     "leading whitespace is dropped",
			input:    "   foo",
			expected: []argtypes.Token{phrase("foo", "foo")},
		},
		{
			name:   "quoted phrase and flag",
			parser: ContentParser{FlagWords: []string{"--loud"}},
			input:  `say "hello world"  --loud`,
			expected: []argtypes.Token{
				phrase("say ", "say"),
				phrase(`"hello world"  `, "hello world"),
				argtypes.Flag{Key: "--loud", Raw: "--loud"},
			},
		},
		{
			name:     "flag words are case insensitive",
			parser:   ContentParser{FlagWords: []string{"--loud"}},
			input:    "--LOUD x",
			expected: []argtypes.Token{argtypes.Flag{Key: "--LOUD", Raw: "--LOUD "}, phrase("x", "x")},
		},
		{
			name:     "flag word must stand alone",
			parser:   ContentParser{FlagWords: []string{"--loud"}},
			input:    "--louder",
			expected: []argtypes.Token{phrase("--louder", "--louder")},
		},
		{
			name:   "option flag with attached value",
			parser: ContentParser{OptionFlagWords: []string{"--name="}},
			input:  "--name=Alice rest",
			expected: []argtypes.Token{
				argtypes.OptionFlag{Key: "--name=", Value: "Alice", Raw: "--name=Alice "},
				phrase("rest", "rest"),
			},
		},
		{
			name:   "option flag with spaced quoted value",
			parser: ContentParser{OptionFlagWords: []string{"--title"}},
			input:  `--title "Big News" x`,
			expected: []argtypes.Token{
				argtypes.OptionFlag{Key: "--title", Value: "Big News", Raw: `--title "Big News" `},
				phrase("x", "x"),
			},
		},
		{
			name:   "option flag followed by flag has no value",
			parser: ContentParser{FlagWords: []string{"-v"}, OptionFlagWords: []string{"--out"}},
			input:  "--out -v",
			expected: []argtypes.Token{
				argtypes.OptionFlag{Key: "--out", Raw: "--out "},
				argtypes.Flag{Key: "-v", Raw: "-v"},
			},
		},
		{
			name:     "curly quotes",
			input:    "“a b” c",
			expected: []argtypes.Token{phrase("“a b” ", "a b"), phrase("c", "c")},
		},
		{
			name:     "unclosed quote runs to the end",
			input:    `"a b`,
			expected: []argtypes.Token{phrase(`"a b`, "a b")},
		},
		{
			name:     "quotes disabled",
			parser:   ContentParser{DisableQuotes: true},
			input:    `"a b"`,
			expected: []argtypes.Token{phrase(`"a `, `"a`), phrase(`b"`, `b"`)},
		},
		{
			name:   "separator mode",
			parser: ContentParser{Separator: ",", FlagWords: []string{"--f"}},
			input:  "a, b c ,--f",
			expected: []argtypes.Token{
				phrase("a,", "a"),
				phrase(" b c ,", "b c"),
				argtypes.Flag{Key: "--f", Raw: "--f"},
			},
		},
		{
			name:   "separator mode option flag",
			parser: ContentParser{Separator: "|", OptionFlagWords: []string{"to:"}},
			input:  `x | to: "home"`,
			expected: []argtypes.Token{
				phrase("x |", "x"),
				argtypes.OptionFlag{Key: "to:", Value: "home", Raw: ` to: "home"`},
			},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := tt.parser.Parse(tt.input)
			if diff := cmp.Diff(tt.expected, parsed.All, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContentParser_TypedSubsequences(t *testing.T) {
	p := ContentParser{FlagWords: []string{"-f"}, OptionFlagWords: []string{"--n="}}
	parsed := p.Parse("a -f b --n=3 c")

	assert.Equal(t, []string{"a", "b", "c"}, values(parsed.Phrases))
	assert.Len(t, parsed.Flags, 1)
	assert.Equal(t, "-f", parsed.Flags[0].Key)
	assert.Len(t, parsed.OptionFlags, 1)
	assert.Equal(t, "3", parsed.OptionFlags[0].Value)
	assert.Len(t, parsed.All, 5)
}

func TestParsedInput_Joins(t *testing.T) {
	p := ContentParser{FlagWords: []string{"-f"}}
	parsed := p.Parse("a  b -f   c ")

	assert.Equal(t, "b -f   c", parsed.JoinAll(1, 0))
	assert.Equal(t, "a  b", parsed.JoinPhrases(0, 2))
	assert.Equal(t, "b c", parsed.JoinPhrases(1, 0))
	assert.Equal(t, "", parsed.JoinPhrases(10, 0))
	assert.Equal(t, "-f   c ", parsed.RawFrom(2, 0))
	assert.Equal(t, "", parsed.PhraseValue(3))
}

func values(phrases []argtypes.Phrase) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, p.Value)
	}
	return out
}

package casting

import (
	"context"
	"errors"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"akairo/pkg/argtypes"
)

// Built-in type names.
const (
	TypeString           = "string"
	TypeLowercase        = "lowercase"
	TypeUppercase        = "uppercase"
	TypeCharCodes        = "charCodes"
	TypeNumber           = "number"
	TypeInteger          = "integer"
	TypeBigint           = "bigint"
	TypeEmojint          = "emojint"
	TypeURL              = "url"
	TypeDate             = "date"
	TypeColor            = "color"
	TypeDuration         = "duration"
	TypeBoolean          = "boolean"
	TypeUUID             = "uuid"
	TypeSemver           = "semver"
	TypeSemverConstraint = "semverConstraint"
)

// Builtins returns the primitive casters every registry starts with.
func Builtins() map[string]argtypes.Caster {
	return map[string]argtypes.Caster{
		TypeString:           castString,
		TypeLowercase:        stringCaster(castLowercase),
		TypeUppercase:        stringCaster(castUppercase),
		TypeCharCodes:        stringCaster(castCharCodes),
		TypeNumber:           stringCaster(castNumber),
		TypeInteger:          stringCaster(castInteger),
		TypeBigint:           stringCaster(castBigint),
		TypeEmojint:          stringCaster(castEmojint),
		TypeURL:              stringCaster(castURL),
		TypeDate:             stringCaster(castDate),
		TypeColor:            stringCaster(castColor),
		TypeDuration:         stringCaster(castDuration),
		TypeBoolean:          stringCaster(castBoolean),
		TypeUUID:             stringCaster(castUUID),
		TypeSemver:           stringCaster(castSemver),
		TypeSemverConstraint: stringCaster(castSemverConstraint),
	}
}

// stringCaster adapts a pure string conversion into a Caster.
// Non-string and empty phrases fail without calling fn.
func stringCaster(fn func(string) any) argtypes.Caster {
	return func(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
		s, ok := phrase.(string)
		if !ok || s == "" {
			return nil, nil
		}
		return fn(s), nil
	}
}

func castString(_ context.Context, _ *argtypes.Invocation, phrase any) (any, error) {
	return identity(phrase), nil
}

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

func castLowercase(s string) any {
	return lower.String(s)
}

func castUppercase(s string) any {
	return upper.String(s)
}

func castCharCodes(s string) any {
	codes := make([]int, 0, len(s))
	for _, r := range s {
		codes = append(codes, int(r))
	}
	return codes
}

func castNumber(s string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return f
}

// castInteger accepts anything numeric and truncates toward zero.
func castInteger(s string) any {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	return int(math.Trunc(f))
}

func castBigint(s string) any {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil
	}
	return n
}

var keycapRegex = regexp.MustCompile(`([0-9])\x{FE0F}?\x{20E3}`)

// castEmojint reads numbers written with keycap emoji, e.g. "1️⃣2️⃣".
func castEmojint(s string) any {
	s = strings.ReplaceAll(s, "🔟", "10")
	s = keycapRegex.ReplaceAllString(s, "$1")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return n
}

func castURL(s string) any {
	if len(s) > 2 && strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = s[1 : len(s)-1]
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil
	}
	return u
}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func castDate(s string) any {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

func castColor(s string) any {
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 16, 64)
	if err != nil || n < 0 || n > 0xFFFFFF {
		return nil
	}
	return int(n)
}

func castDuration(s string) any {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return d
}

func castBoolean(s string) any {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return nil
	}
}

func castUUID(s string) any {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return id
}

func castSemver(s string) any {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return v
}

func castSemverConstraint(s string) any {
	c, err := semver.NewConstraint(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return c
}

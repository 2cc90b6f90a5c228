package identifiers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shishobooks/bookbuddy/pkg/errcodes"
)

// Kind is the classification of an ISBN-like string.
type Kind string

const (
	KindISBN10       Kind = "isbn10"
	KindISBN13       Kind = "isbn13"
	KindUnrecognized Kind = ""
)

// Identifier is a classified ISBN. Value is the canonical form that gets
// persisted: ten characters for ISBN-10 (the last may be an X check digit) and
// thirteen digits for ISBN-13. Number is the numeric reading of Value where an
// X check digit counts as 10.
type Identifier struct {
	Kind   Kind
	Value  string
	Number int64
}

var (
	labelRegex     = regexp.MustCompile(`^(?:URN:)?ISBN(?:-?1[03](?:\s*:|\s+))?\s*:?`)
	qualifierRegex = regexp.MustCompile(`\s*[(\[].*$`)
)

// Normalize strips a leading "ISBN", "ISBN-10:", "ISBN-13:" or "urn:isbn:"
// label, a trailing qualifier such as "(pbk.)", and the hyphens, spaces and
// punctuation in between. Letters other than X are kept so that a value of the
// right length with stray characters is reported as malformed rather than
// silently shortened.
func Normalize(value string) string {
	value = strings.TrimSpace(strings.ToUpper(value))
	value = labelRegex.ReplaceAllString(value, "")
	value = qualifierRegex.ReplaceAllString(value, "")

	var result strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Classify decides whether value is an ISBN-10, an ISBN-13 or neither, based on
// its length after normalizing. A value of the right length that isn't numeric
// fails with a malformed identifier error. Values of any other length are
// unrecognized, which isn't an error.
func Classify(value string) (Identifier, error) {
	normalized := Normalize(value)

	// Length is counted in characters, so a non-ASCII letter in an otherwise
	// well-formed ISBN is malformed rather than unrecognized.
	switch utf8.RuneCountInString(normalized) {
	case 10:
		n, ok := parseISBN10(normalized)
		if !ok {
			return Identifier{}, errcodes.MalformedIdentifier(value)
		}
		return Identifier{Kind: KindISBN10, Value: normalized, Number: n}, nil
	case 13:
		if !isDigits(normalized) {
			return Identifier{}, errcodes.MalformedIdentifier(value)
		}
		n, err := strconv.ParseInt(normalized, 10, 64)
		if err != nil {
			return Identifier{}, errcodes.MalformedIdentifier(value)
		}
		return Identifier{Kind: KindISBN13, Value: normalized, Number: n}, nil
	default:
		return Identifier{Kind: KindUnrecognized}, nil
	}
}

// ISBN10 returns the canonical ISBN-10 for value, or nil when value isn't one.
func ISBN10(value string) *string {
	id, err := Classify(value)
	if err != nil || id.Kind != KindISBN10 {
		return nil
	}
	return &id.Value
}

// ISBN13 returns the canonical ISBN-13 for value, or nil when value isn't one.
func ISBN13(value string) *string {
	id, err := Classify(value)
	if err != nil || id.Kind != KindISBN13 {
		return nil
	}
	return &id.Value
}

// parseISBN10 reads nine digits followed by a digit or an X check digit.
func parseISBN10(s string) (int64, bool) {
	body, check := s[:9], s[9]
	if !isDigits(body) {
		return 0, false
	}
	n, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return 0, false
	}
	switch {
	case check >= '0' && check <= '9':
		return n*10 + int64(check-'0'), true
	case check == 'X':
		return n*10 + 10, true
	default:
		return 0, false
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

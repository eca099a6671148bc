package extract

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// ErrEmptyClaim is returned when the input normalizes to nothing
var ErrEmptyClaim = errors.New("empty claim")

// editorialPrefix matches a leading "breaking:", "report:", "exclusive:" or "update:"
var editorialPrefix = regexp.MustCompile(`(?i)^(breaking|report|exclusive|update)\s*:\s*`)

// quotePairs are the matching quote characters stripped from around a claim
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
	{"«", "»"},
}

// NormalizeClaim cleans raw input into claim text.
// Each pass trims whitespace, one layer of quotes and one editorial prefix;
// passes repeat until nothing changes, so the result is a fixpoint.
func NormalizeClaim(raw string) (string, error) {
	text := raw
	for {
		next := normalizePass(text)
		if next == text {
			break
		}
		text = next
	}

	if text == "" {
		return "", ErrEmptyClaim
	}
	return text, nil
}

// NewClaim normalizes raw input into a Claim
func NewClaim(raw string) (model.Claim, error) {
	text, err := NormalizeClaim(raw)
	if err != nil {
		return model.Claim{}, err
	}
	return model.Claim{Text: text, Raw: raw}, nil
}

func normalizePass(text string) string {
	text = strings.TrimSpace(text)
	text = stripQuotes(text)
	text = strings.TrimSpace(text)

	if loc := editorialPrefix.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}

	return strings.TrimSpace(text)
}

// stripQuotes removes one layer of matching quotes
func stripQuotes(text string) string {
	for _, pair := range quotePairs {
		open, close := pair[0], pair[1]
		if len(text) >= len(open)+len(close) && strings.HasPrefix(text, open) && strings.HasSuffix(text, close) {
			return text[len(open) : len(text)-len(close)]
		}
	}
	return text
}

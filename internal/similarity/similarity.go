package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultSnippetLength is how many runes of a snippet are compared against a claim
const DefaultSnippetLength = 200

var folder = cases.Fold()

// Normalize prepares text for comparison: NFKC, case folding,
// punctuation dropped and whitespace collapsed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = folder.String(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// Score returns the textual closeness of a and b in [0,1].
// Identical text after normalization scores 1; empty input scores 0.
func Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}

	dist := levenshtein.ComputeDistance(a, b)
	ratio := 1 - float64(dist)/float64(longest)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// Best scores a claim against an evidence title and the head of its snippet,
// returning the higher of the two.
func Best(claim, title, snippet string, snippetRunes int) float64 {
	if snippetRunes <= 0 {
		snippetRunes = DefaultSnippetLength
	}

	best := Score(claim, title)
	if snippet != "" {
		runes := []rune(snippet)
		if len(runes) > snippetRunes {
			runes = runes[:snippetRunes]
		}
		if s := Score(claim, string(runes)); s > best {
			best = s
		}
	}
	return best
}

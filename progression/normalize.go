package progression

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accidentals = strings.NewReplacer("♭", "b", "♯", "#", "♮", "")

// NFKC folds the sub/superscript forms (ₘ, ᵐᵃʲ, ⁷) and the compatibility
// spaces. Format characters (zero-width space, joiners, BOM) and any remaining
// Unicode space become ASCII spaces.
func newNormalizer() transform.Transformer {
	return transform.Chain(
		norm.NFKC,
		runes.Map(func(r rune) rune {
			if unicode.IsSpace(r) || unicode.Is(unicode.Cf, r) {
				return ' '
			}
			return r
		}),
	)
}

// Normalize prepares chord text for matching. It runs before any pattern is
// applied, for both the chord-name and the progression parser.
func Normalize(s string) string {
	s = accidentals.Replace(s)
	out, _, err := transform.String(newNormalizer(), s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// Tokenize splits normalized text on spaces and bar lines. Bar lines are
// dropped.
func Tokenize(s string) []string {
	s = strings.ReplaceAll(Normalize(s), "|", " ")
	return strings.Fields(s)
}

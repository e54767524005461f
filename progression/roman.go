package progression

import (
	"regexp"
	"strings"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/scale"
)

var romanPattern = regexp.MustCompile(`^(b|#)?(VII|III|IV|VI|II|V|I|vii|iii|iv|vi|ii|v|i)(°7|ø7|dim7|maj7|min7|m7b5|°|\+|dim|aug|7|M7|m7|ø)?$`)

var degrees = map[string]int{
	"i": 0, "ii": 1, "iii": 2, "iv": 3, "v": 4, "vi": 5, "vii": 6,
}

// IsRoman reports whether a normalized token is a Roman numeral.
func IsRoman(token string) bool {
	return romanPattern.MatchString(token)
}

// resolveRoman binds a numeral to key. Plain numerals take the key's own scale
// degree; numerals carrying b or # alter the major-scale degree of the key
// root, so bVII in C is A# in any mode.
func resolveRoman(token string, key Key) (chord.Token, error) {
	m := romanPattern.FindStringSubmatch(token)
	if m == nil {
		return chord.Token{}, &InvalidChordError{Token: token, Reason: "not a roman numeral"}
	}
	acc, numeral, suffix := m[1], m[2], m[3]
	degree := degrees[strings.ToLower(numeral)]

	var root pitch.Class
	switch acc {
	case "":
		notes := scale.Notes(key.Root, key.Scale)
		if degree >= len(notes) {
			return chord.Token{}, &InvalidChordError{Token: token, Reason: "degree out of range for " + key.String()}
		}
		root = notes[degree]
	case "b":
		root = scale.Notes(key.Root, scale.Major)[degree].Transpose(-1)
	case "#":
		root = scale.Notes(key.Root, scale.Major)[degree].Transpose(1)
	}

	upper := numeral == strings.ToUpper(numeral)
	kind := chord.Minor
	if upper {
		kind = chord.Major
	}
	switch suffix {
	case "°", "dim":
		kind = chord.Diminished
	case "+", "aug":
		kind = chord.Augmented
	case "7":
		if upper {
			kind = chord.Dominant7
		} else {
			kind = chord.Minor7
		}
	case "maj7", "M7":
		kind = chord.Major7
	case "dim7", "°7":
		kind = chord.Diminished7
	case "min7", "m7":
		kind = chord.Minor7
	case "ø7", "ø", "m7b5":
		kind = chord.HalfDiminished7
	}
	return chord.New(root, kind), nil
}

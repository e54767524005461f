package progression

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
)

var ErrInvalidChord = errors.New("invalid chord")

// InvalidChordError names the token a parse stopped at.
type InvalidChordError struct {
	Token  string
	Reason string
}

func (e *InvalidChordError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid chord %q", e.Token)
	}
	return fmt.Sprintf("invalid chord %q: %s", e.Token, e.Reason)
}

func (e *InvalidChordError) Is(target error) bool {
	return target == ErrInvalidChord
}

// Suffixes are case sensitive: "M7" is major 7, "m7" minor 7.
var suffixes = map[string]chord.Kind{
	"":       chord.Major,
	"M":      chord.Major,
	"maj":    chord.Major,
	"m":      chord.Minor,
	"min":    chord.Minor,
	"-":      chord.Minor,
	"dim":    chord.Diminished,
	"°":      chord.Diminished,
	"o":      chord.Diminished,
	"aug":    chord.Augmented,
	"+":      chord.Augmented,
	"sus2":   chord.Sus2,
	"sus4":   chord.Sus4,
	"sus":    chord.Sus4,
	"maj7":   chord.Major7,
	"Maj7":   chord.Major7,
	"M7":     chord.Major7,
	"m7":     chord.Minor7,
	"min7":   chord.Minor7,
	"-7":     chord.Minor7,
	"7":      chord.Dominant7,
	"dom7":   chord.Dominant7,
	"dim7":   chord.Diminished7,
	"°7":     chord.Diminished7,
	"o7":     chord.Diminished7,
	"m7b5":   chord.HalfDiminished7,
	"min7b5": chord.HalfDiminished7,
	"ø7":     chord.HalfDiminished7,
	"ø":      chord.HalfDiminished7,
	"6":      chord.Major6,
	"maj6":   chord.Major6,
	"M6":     chord.Major6,
	"add9":   chord.Add9,
	"maj9":   chord.Major9,
	"M9":     chord.Major9,
	"m9":     chord.Minor9,
	"min9":   chord.Minor9,
	"6/9":    chord.SixNine,
	"69":     chord.SixNine,
}

var rootPattern = regexp.MustCompile(`^([A-G][#b]?)(.*)$`)

// ParseChord parses one absolute chord: lead-sheet text like "Cmaj7", "Eₘ⁷"
// or "D/F#", or a display name like "C Major".
func ParseChord(text string) (chord.Token, error) {
	s := Normalize(text)
	if s == "" {
		return chord.Token{}, &InvalidChordError{Token: text, Reason: "empty"}
	}
	if strings.Contains(s, " ") {
		return parseDisplayName(text, s)
	}

	m := rootPattern.FindStringSubmatch(s)
	if m == nil {
		return chord.Token{}, &InvalidChordError{Token: text, Reason: "no root"}
	}
	root := pitch.Parse(m[1])
	if !root.Valid() {
		return chord.Token{}, &InvalidChordError{Token: text, Reason: "no root"}
	}

	suffix, bassText, err := splitBass(m[2])
	if err != nil {
		return chord.Token{}, &InvalidChordError{Token: text, Reason: err.Error()}
	}
	kind, ok := suffixes[suffix]
	if !ok {
		return chord.Token{}, &InvalidChordError{Token: text, Reason: fmt.Sprintf("unknown quality %q", suffix)}
	}

	tok := chord.New(root, kind)
	if bassText != "" {
		bass := pitch.Parse(bassText)
		if !bass.Valid() || !rootPattern.MatchString(bassText) {
			return chord.Token{}, &InvalidChordError{Token: text, Reason: fmt.Sprintf("unknown bass %q", bassText)}
		}
		tok = tok.WithBass(bass)
	}
	return tok, nil
}

func splitBass(rest string) (suffix, bass string, err error) {
	if strings.HasPrefix(rest, "6/9") {
		suffix, rest = "6/9", rest[len("6/9"):]
		if rest == "" {
			return suffix, "", nil
		}
		if rest[0] != '/' {
			return "", "", fmt.Errorf("unexpected %q after 6/9", rest)
		}
		if rest == "/" {
			return "", "", errors.New("missing bass after /")
		}
		return suffix, rest[1:], nil
	}
	i := strings.Index(rest, "/")
	if i < 0 {
		return rest, "", nil
	}
	if i == len(rest)-1 {
		return "", "", errors.New("missing bass after /")
	}
	return rest[:i], rest[i+1:], nil
}

func parseDisplayName(original, s string) (chord.Token, error) {
	root, name, _ := strings.Cut(s, " ")
	pc := pitch.Parse(root)
	if !pc.Valid() || !rootPattern.MatchString(root) {
		return chord.Token{}, &InvalidChordError{Token: original, Reason: "no root"}
	}
	kind, ok := chord.ParseKind(name)
	if !ok {
		return chord.Token{}, &InvalidChordError{Token: original, Reason: fmt.Sprintf("unknown quality %q", name)}
	}
	return chord.New(pc, kind), nil
}

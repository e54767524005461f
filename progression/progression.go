package progression

import (
	"fmt"
	"strings"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/scale"
)

// Key is the context Roman numerals are resolved against.
type Key struct {
	Root  pitch.Class `json:"root"`
	Scale scale.Kind  `json:"scale"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", k.Root, k.Scale)
}

func (k Key) Valid() bool {
	return k.Root.Valid() && k.Scale.Valid()
}

type ElementKind string

const (
	Roman    ElementKind = "roman"
	Absolute ElementKind = "absolute"
)

// Element is one chord of a progression, written either as a Roman numeral
// or as an absolute chord. Chord is always resolved.
type Element struct {
	Kind  ElementKind `json:"kind"`
	Roman string      `json:"roman,omitempty"`
	Text  string      `json:"text,omitempty"`
	Chord chord.Token `json:"chord"`
}

// Source is the text the element was parsed from.
func (e Element) Source() string {
	if e.Kind == Roman {
		return e.Roman
	}
	return e.Text
}

// Parse resolves mixed Roman numeral and absolute chord text against key. It
// stops at the first bad token and returns no chords with the error.
func Parse(text string, key Key) ([]Element, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid key %v", key)
	}
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, &InvalidChordError{Token: text, Reason: "empty progression"}
	}
	res := make([]Element, 0, len(tokens))
	for _, tok := range tokens {
		if IsRoman(tok) {
			c, err := resolveRoman(tok, key)
			if err != nil {
				return nil, err
			}
			res = append(res, Element{Kind: Roman, Roman: tok, Chord: c})
			continue
		}
		c, err := ParseChord(tok)
		if err != nil {
			return nil, err
		}
		res = append(res, Element{Kind: Absolute, Text: tok, Chord: c})
	}
	return res, nil
}

// Render writes the resolved chords back as lead-sheet symbols.
func Render(elements []Element) string {
	symbols := make([]string, 0, len(elements))
	for _, e := range elements {
		symbols = append(symbols, e.Chord.Symbol())
	}
	return strings.Join(symbols, " ")
}

// Chords drops the element tagging.
func Chords(elements []Element) []chord.Token {
	res := make([]chord.Token, 0, len(elements))
	for _, e := range elements {
		res = append(res, e.Chord)
	}
	return res
}

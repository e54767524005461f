package exercise

import (
	"fmt"

	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/progression"
	"github.com/jsphweid/keyquest/scale"
)

type Mode string

const (
	ScaleMode Mode = "scale"
	ChordMode Mode = "chord"
)

type Pattern string

const (
	// Run is up the scale, the octave, and back down.
	Run Pattern = "run"
	// Intervals goes out from the root to each degree in turn.
	Intervals Pattern = "intervals"
)

// CircleOfFifths is the default key cycle.
var CircleOfFifths = []pitch.Class{0, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}

// Sequence is what one key of an exercise asks for: pitch classes in scale
// mode, chords in chord mode.
type Sequence struct {
	Notes  []pitch.Class         `json:"notes,omitempty"`
	Chords []progression.Element `json:"chords,omitempty"`
}

func (s Sequence) Len() int {
	if len(s.Chords) > 0 {
		return len(s.Chords)
	}
	return len(s.Notes)
}

type Exercise struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Mode          Mode          `json:"mode"`
	KeyCycle      []pitch.Class `json:"keyCycle"`
	MaxKeys       int           `json:"maxKeys,omitempty"`
	StartKeyIndex int           `json:"startKeyIndex"`
	Scale         scale.Kind    `json:"scale"`
	// PinInversion makes chord targets match only in the written inversion.
	PinInversion bool `json:"pinInversion,omitempty"`

	Progression string  `json:"progression,omitempty"`
	Inversions  []int   `json:"inversions,omitempty"`
	Pattern     Pattern `json:"pattern,omitempty"`
}

// KeyCount is how many keys one pass walks.
func (e Exercise) KeyCount() int {
	n := len(e.KeyCycle)
	if e.MaxKeys > 0 && e.MaxKeys < n {
		return e.MaxKeys
	}
	return n
}

// KeyAt returns the key visited at position i of a pass.
func (e Exercise) KeyAt(i int) pitch.Class {
	if len(e.KeyCycle) == 0 {
		return pitch.Invalid
	}
	return e.KeyCycle[pitch.Mod(e.StartKeyIndex+i, len(e.KeyCycle))]
}

// Keys lists the keys of one pass in order.
func (e Exercise) Keys() []pitch.Class {
	res := make([]pitch.Class, 0, e.KeyCount())
	for i := 0; i < e.KeyCount(); i++ {
		res = append(res, e.KeyAt(i))
	}
	return res
}

// MakeSequence builds the targets for root.
func (e Exercise) MakeSequence(root pitch.Class) (Sequence, error) {
	if !root.Valid() {
		return Sequence{}, fmt.Errorf("exercise %s: invalid key %d", e.ID, root)
	}
	switch e.Mode {
	case ChordMode:
		return e.chordSequence(root)
	case ScaleMode:
		return e.scaleSequence(root)
	}
	return Sequence{}, fmt.Errorf("exercise %s: unknown mode %q", e.ID, e.Mode)
}

func (e Exercise) chordSequence(root pitch.Class) (Sequence, error) {
	elements, err := progression.Parse(e.Progression, progression.Key{Root: root, Scale: e.Scale})
	if err != nil {
		return Sequence{}, fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if len(e.Inversions) == 0 {
		return Sequence{Chords: elements}, nil
	}
	res := make([]progression.Element, 0, len(elements)*len(e.Inversions))
	for _, el := range elements {
		for _, inv := range e.Inversions {
			shaped := el
			shaped.Chord.Bass = nil
			shaped.Chord.Inversion = pitch.Mod(inv, shaped.Chord.Kind.Size())
			res = append(res, shaped)
		}
	}
	return Sequence{Chords: res}, nil
}

func (e Exercise) scaleSequence(root pitch.Class) (Sequence, error) {
	switch e.Pattern {
	case Run, "":
		notes := scale.Run(root, e.Scale)
		if len(notes) == 0 {
			return Sequence{}, fmt.Errorf("exercise %s: invalid scale", e.ID)
		}
		return Sequence{Notes: notes}, nil
	case Intervals:
		degrees := scale.Notes(root, e.Scale)
		if len(degrees) == 0 {
			return Sequence{}, fmt.Errorf("exercise %s: invalid scale", e.ID)
		}
		notes := make([]pitch.Class, 0, 2*len(degrees)-1)
		for _, d := range degrees[1:] {
			notes = append(notes, root, d)
		}
		notes = append(notes, root)
		return Sequence{Notes: notes}, nil
	}
	return Sequence{}, fmt.Errorf("exercise %s: unknown pattern %q", e.ID, e.Pattern)
}

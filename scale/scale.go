package scale

import (
	"strings"

	"github.com/jsphweid/keyquest/pitch"
)

type Kind int

const (
	Major Kind = iota
	NaturalMinor
	HarmonicMinor
	MelodicMinor
	Lydian
	Blues
	MajorPentatonic
	MinorPentatonic
)

type definition struct {
	ID    string
	Name  string
	Steps []int
}

var table = [...]definition{
	Major:           {"major", "Major", []int{2, 2, 1, 2, 2, 2, 1}},
	NaturalMinor:    {"natural_minor", "Natural Minor", []int{2, 1, 2, 2, 1, 2, 2}},
	HarmonicMinor:   {"harmonic_minor", "Harmonic Minor", []int{2, 1, 2, 2, 1, 3, 1}},
	MelodicMinor:    {"melodic_minor", "Melodic Minor", []int{2, 1, 2, 2, 2, 2, 1}},
	Lydian:          {"lydian", "Lydian", []int{2, 2, 2, 1, 2, 2, 1}},
	Blues:           {"blues", "Blues", []int{3, 2, 1, 1, 3, 2}},
	MajorPentatonic: {"major_pentatonic", "Major Pentatonic", []int{2, 2, 3, 2, 3}},
	MinorPentatonic: {"minor_pentatonic", "Minor Pentatonic", []int{3, 2, 2, 3, 2}},
}

// Kinds lists every scale kind in table order.
func Kinds() []Kind {
	res := make([]Kind, len(table))
	for i := range table {
		res[i] = Kind(i)
	}
	return res
}

func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(table)
}

func (k Kind) ID() string {
	if !k.Valid() {
		return ""
	}
	return table[k].ID
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return table[k].Name
}

// Steps returns a copy of the kind's step vector.
func (k Kind) Steps() []int {
	if !k.Valid() {
		return nil
	}
	return append([]int(nil), table[k].Steps...)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.ID()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return &UnknownKindError{Text: string(b)}
	}
	*k = parsed
	return nil
}

type UnknownKindError struct {
	Text string
}

func (e *UnknownKindError) Error() string {
	return "unknown scale kind: " + e.Text
}

// ParseKind accepts ids ("natural_minor") and display names ("Natural Minor").
// "minor" is natural minor.
func ParseKind(s string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "minor" || key == "aeolian" {
		return NaturalMinor, true
	}
	if key == "ionian" {
		return Major, true
	}
	for i, d := range table {
		if d.ID == key {
			return Kind(i), true
		}
	}
	return 0, false
}

// Notes walks the step vector from root and returns one pitch class per
// step, root first, octave excluded. Returns nil for an invalid root or kind.
func Notes(root pitch.Class, kind Kind) []pitch.Class {
	if !root.Valid() || !kind.Valid() {
		return nil
	}
	steps := table[kind].Steps
	res := make([]pitch.Class, 0, len(steps))
	current := root
	for i := 0; i < len(steps); i++ {
		res = append(res, current)
		current = current.Transpose(steps[i])
	}
	return res
}

// Run is the practice walk over a scale: ascending degrees, the octave root,
// then the degrees descending back to the root.
func Run(root pitch.Class, kind Kind) []pitch.Class {
	notes := Notes(root, kind)
	if len(notes) == 0 {
		return nil
	}
	res := make([]pitch.Class, 0, len(notes)*2+1)
	res = append(res, notes...)
	res = append(res, root)
	for i := len(notes) - 1; i >= 0; i-- {
		res = append(res, notes[i])
	}
	return res
}

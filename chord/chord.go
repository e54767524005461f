package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/keyquest/pitch"
)

// Token is a resolved chord. Bass, when set, overrides the bass implied by
// Inversion (slash chords).
type Token struct {
	Root      pitch.Class  `json:"root"`
	Kind      Kind         `json:"kind"`
	Inversion int          `json:"inversion"`
	Bass      *pitch.Class `json:"bass,omitempty"`
}

func New(root pitch.Class, kind Kind) Token {
	return Token{Root: root, Kind: kind}
}

// WithBass returns a copy of t with bass in the lowest voice. When bass is a
// chord tone the inversion follows from it.
func (t Token) WithBass(bass pitch.Class) Token {
	b := bass
	t.Bass = &b
	t.Inversion = 0
	for i, pc := range Tones(t.Root, t.Kind) {
		if pc == bass {
			t.Inversion = i
			break
		}
	}
	return t
}

// SameChord compares root and kind only.
func (t Token) SameChord(other Token) bool {
	return t.Root == other.Root && t.Kind == other.Kind
}

// BassNote is the pitch class sounding lowest.
func (t Token) BassNote() pitch.Class {
	if t.Bass != nil {
		return *t.Bass
	}
	tones := Tones(t.Root, t.Kind)
	if len(tones) == 0 {
		return pitch.Invalid
	}
	return tones[pitch.Mod(t.Inversion, len(tones))]
}

// Name is the display form, e.g. "C Major".
func (t Token) Name() string {
	return fmt.Sprintf("%s %s", t.Root, t.Kind)
}

// Symbol is the lead-sheet form, e.g. "Cmaj7" or "G/B".
func (t Token) Symbol() string {
	res := t.Root.String() + t.Kind.Suffix()
	if bass := t.BassNote(); bass != t.Root && bass.Valid() {
		res += "/" + bass.String()
	}
	return res
}

func (t Token) String() string {
	if t.Inversion == 0 && t.Bass == nil {
		return t.Name()
	}
	return fmt.Sprintf("%s (%s)", t.Name(), InversionName(t.Inversion))
}

func InversionName(i int) string {
	switch i {
	case 0:
		return "root position"
	case 1:
		return "1st inversion"
	case 2:
		return "2nd inversion"
	case 3:
		return "3rd inversion"
	default:
		return fmt.Sprintf("%dth inversion", i)
	}
}

// Tones returns the root followed by each interval above it, mod 12.
func Tones(root pitch.Class, kind Kind) []pitch.Class {
	if !root.Valid() || !kind.Valid() {
		return nil
	}
	intervals := table[kind].Intervals
	res := make([]pitch.Class, 0, len(intervals)+1)
	res = append(res, root)
	for _, iv := range intervals {
		res = append(res, root.Transpose(iv))
	}
	return res
}

// Voice lays the chord out from baseOctave with the tones rotated by
// inversion: each tone goes in the current octave unless it isn't above the
// previous one, in which case the octave advances. Inversion wraps modulo the
// number of tones. Voicings that would run past MIDI 127 are shifted down by whole
// octaves.
func Voice(root pitch.Class, kind Kind, inversion, baseOctave int) []int {
	tones := Tones(root, kind)
	if len(tones) == 0 {
		return nil
	}
	inversion = pitch.Mod(inversion, len(tones))
	rotated := append(append([]pitch.Class{}, tones[inversion:]...), tones[:inversion]...)

	res := make([]int, 0, len(rotated))
	octave := baseOctave
	for i, pc := range rotated {
		if i > 0 && pc <= rotated[i-1] {
			octave++
		}
		res = append(res, (octave+1)*12+int(pc))
	}
	for res[len(res)-1] > pitch.MaxMidi && res[0]-12 >= pitch.MinMidi {
		for i := range res {
			res[i] -= 12
		}
	}
	sort.Ints(res)
	return res
}

// Voicing voices the token at baseOctave. A slash bass that isn't a chord tone
// is added below the voicing.
func (t Token) Voicing(baseOctave int) []int {
	notes := Voice(t.Root, t.Kind, t.Inversion, baseOctave)
	if t.Bass == nil || len(notes) == 0 {
		return notes
	}
	for _, pc := range Tones(t.Root, t.Kind) {
		if pc == *t.Bass {
			return notes
		}
	}
	bass := notes[0] - notes[0]%12 + int(*t.Bass)
	for bass >= notes[0] {
		bass -= 12
	}
	if bass < pitch.MinMidi {
		return notes
	}
	return append([]int{bass}, notes...)
}

// PitchClasses reduces MIDI numbers to their sorted, deduplicated pitch
// classes. Numbers outside 0..127 are skipped.
func PitchClasses(notes []int) []pitch.Class {
	var seen [12]bool
	for _, n := range notes {
		if pitch.ValidMidi(n) {
			seen[pitch.MidiPitchClass(n)] = true
		}
	}
	var res []pitch.Class
	for pc, ok := range seen {
		if ok {
			res = append(res, pitch.Class(pc))
		}
	}
	return res
}

// CreateChordKey renders notes as a stable key like "60-64-67".
func CreateChordKey(notes []int) string {
	sorted := append([]int(nil), notes...)
	sort.Ints(sorted)
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

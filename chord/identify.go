package chord

import (
	"sort"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/pitch"
	"github.com/jsphweid/keyquest/util"
)

const MinIdentifiable = 3

// Suggestion is a chord the held notes are part of.
type Suggestion struct {
	Chord      Token         `json:"chord"`
	Missing    []pitch.Class `json:"missing"`
	Complexity int           `json:"complexity"`
}

// Identify returns the first interpretation in declaration order, or nil.
func Identify(notes []int) *Token {
	all := IdentifyAll(notes)
	if len(all) == 0 {
		return nil
	}
	return &all[0]
}

// IdentifyAll returns every chord whose tones are exactly the pitch classes of
// notes. Only the lowest note matters beyond pitch classes: it sets the
// inversion.
func IdentifyAll(notes []int) []Token {
	pcs := PitchClasses(notes)
	if len(pcs) < MinIdentifiable {
		return nil
	}
	bass, ok := lowest(notes)
	if !ok {
		return nil
	}
	set := toSet(pcs)

	var res []Token
	for _, kind := range Kinds() {
		if kind.Size() != len(pcs) {
			continue
		}
		for root := pitch.Class(0); root < 12; root++ {
			if !sameSet(Tones(root, kind), set) {
				continue
			}
			res = append(res, Token{
				Root:      root,
				Kind:      kind,
				Inversion: inversionFor(root, kind, pitch.MidiPitchClass(bass)),
			})
		}
	}
	return res
}

// Suggest lists chords that contain every held pitch class and are missing
// one or two tones, simplest first, then by root name. At most five.
func Suggest(notes []int) []Suggestion {
	pcs := PitchClasses(notes)
	if len(pcs) == 0 {
		return nil
	}
	held := toSet(pcs)

	var res []Suggestion
	for _, kind := range Kinds() {
		for root := pitch.Class(0); root < 12; root++ {
			tones := Tones(root, kind)
			missing := missingFrom(tones, held)
			if missing == nil {
				continue
			}
			if n := len(missing); n < 1 || n > 2 {
				continue
			}
			res = append(res, Suggestion{
				Chord:      New(root, kind),
				Missing:    missing,
				Complexity: len(tones) - 1,
			})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Complexity != res[j].Complexity {
			return res[i].Complexity < res[j].Complexity
		}
		return res[i].Chord.Root.String() < res[j].Chord.Root.String()
	})
	return res[:util.Min(len(res), constants.SuggestionLimit)]
}

func inversionFor(root pitch.Class, kind Kind, bass pitch.Class) int {
	interval := root.Interval(bass)
	if interval == 0 {
		return 0
	}
	for k, iv := range table[kind].Intervals {
		if iv%12 == interval {
			return k + 1
		}
	}
	// the bass isn't a chord tone; report root position
	return 0
}

func lowest(notes []int) (int, bool) {
	min, found := 0, false
	for _, n := range notes {
		if !pitch.ValidMidi(n) {
			continue
		}
		if !found || n < min {
			min, found = n, true
		}
	}
	return min, found
}

func toSet(pcs []pitch.Class) map[pitch.Class]bool {
	res := make(map[pitch.Class]bool, len(pcs))
	for _, pc := range pcs {
		res[pc] = true
	}
	return res
}

func sameSet(tones []pitch.Class, set map[pitch.Class]bool) bool {
	if len(toSet(tones)) != len(set) {
		return false
	}
	for _, pc := range tones {
		if !set[pc] {
			return false
		}
	}
	return true
}

// missingFrom returns the tones not in held, or nil when held has a pitch
// class the chord lacks.
func missingFrom(tones []pitch.Class, held map[pitch.Class]bool) []pitch.Class {
	chordSet := toSet(tones)
	for pc := range held {
		if !chordSet[pc] {
			return nil
		}
	}
	missing := []pitch.Class{}
	for _, pc := range tones {
		if !held[pc] {
			missing = append(missing, pc)
		}
	}
	return missing
}

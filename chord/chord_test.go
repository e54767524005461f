package chord

import (
	"fmt"
	"sort"
	"testing"

	"github.com/jsphweid/keyquest/pitch"
	"github.com/stretchr/testify/assert"
)

func TestTonesContainRootAndAreDistinct(t *testing.T) {
	for _, kind := range Kinds() {
		for root := pitch.Class(0); root < 12; root++ {
			tones := Tones(root, kind)
			assert.Len(t, toSet(tones), len(kind.Intervals())+1, "%v %v", root, kind)
			assert.Equal(t, root, tones[0])
		}
	}
}

func TestVoiceIsAscendingWithChordTones(t *testing.T) {
	for _, kind := range Kinds() {
		for root := pitch.Class(0); root < 12; root++ {
			for inversion := 0; inversion < kind.Size(); inversion++ {
				for octave := 0; octave <= 8; octave++ {
					name := fmt.Sprintf("%v %v inv %d oct %d", root, kind, inversion, octave)
					notes := Voice(root, kind, inversion, octave)
					assert.Len(t, notes, kind.Size(), name)
					for i := 1; i < len(notes); i++ {
						assert.Less(t, notes[i-1], notes[i], name)
					}
					assert.Equal(t, sortedClasses(Tones(root, kind)), sortedClasses(classesOf(notes)), name)
				}
			}
		}
	}
}

func TestVoiceInversions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]int{60, 64, 67}, Voice(0, Major, 0, 4))
	assert.Equal([]int{64, 67, 72}, Voice(0, Major, 1, 4))
	assert.Equal([]int{67, 72, 76}, Voice(0, Major, 2, 4))
	assert.Equal([]int{60, 64, 67}, Voice(0, Major, 3, 4), "inversion wraps")
	assert.Equal([]int{60, 64, 67, 74}, Voice(0, Add9, 0, 4))
	assert.Nil(Voice(pitch.Invalid, Major, 0, 4))
}

func TestVoicingAddsForeignBass(t *testing.T) {
	assert := assert.New(t)
	slash := New(0, Major).WithBass(2)
	assert.Equal([]int{50, 60, 64, 67}, slash.Voicing(4))

	inverted := New(7, Major).WithBass(11)
	assert.Equal(1, inverted.Inversion)
	assert.Equal([]int{71, 74, 79}, inverted.Voicing(4))
}

func TestIdentifyCMajor(t *testing.T) {
	assert := assert.New(t)
	c := Identify([]int{60, 64, 67})
	if assert.NotNil(c) {
		assert.Equal(pitch.Class(0), c.Root)
		assert.Equal(Major, c.Kind)
		assert.Equal(0, c.Inversion)
		assert.Equal("C Major", c.Name())
	}
}

func TestIdentifyAmbiguousSeventhAndSixth(t *testing.T) {
	assert := assert.New(t)
	notes := []int{69, 72, 76, 79}
	all := IdentifyAll(notes)
	assert.Contains(all, Token{Root: 9, Kind: Minor7, Inversion: 0})
	assert.Contains(all, Token{Root: 0, Kind: Major6, Inversion: 3})
	first := Identify(notes)
	if assert.NotNil(first) {
		assert.Equal(all[0], *first)
		assert.Equal(Minor7, first.Kind)
	}
}

func TestIdentifyInversionFromLowestNote(t *testing.T) {
	assert := assert.New(t)
	c := Identify([]int{64, 67, 72})
	if assert.NotNil(c) {
		assert.Equal(1, c.Inversion)
	}
	c = Identify([]int{55, 64, 72, 76})
	if assert.NotNil(c) {
		assert.Equal(2, c.Inversion)
	}
	c = Identify([]int{50, 64, 67, 72})
	if assert.NotNil(c) {
		assert.Equal(Add9, c.Kind)
		assert.Equal(3, c.Inversion, "the ninth is the fourth tone")
	}
}

func TestIdentifyIsOctaveAgnostic(t *testing.T) {
	assert := assert.New(t)
	a := IdentifyAll([]int{48, 64, 79})
	b := IdentifyAll([]int{36, 52, 55, 76, 91})
	assert.Equal(a, b)
}

func TestIdentifyNeedsThreePitchClasses(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(Identify(nil))
	assert.Nil(Identify([]int{60, 72, 64}))
	assert.Empty(IdentifyAll([]int{60, 64}))
	assert.Nil(Identify([]int{60, 61, 62}))
	assert.Nil(Identify([]int{200, 300, 400}))
}

func TestIdentifyResultsMatchPitchClasses(t *testing.T) {
	for _, kind := range Kinds() {
		for root := pitch.Class(0); root < 12; root++ {
			notes := Voice(root, kind, 0, 4)
			all := IdentifyAll(notes)
			assert.NotEmpty(t, all, "%v %v", root, kind)
			found := false
			for _, tok := range all {
				assert.Equal(t, PitchClasses(notes), sortedClasses(Tones(tok.Root, tok.Kind)))
				if tok.SameChord(New(root, kind)) {
					found = true
				}
			}
			assert.True(t, found, "%v %v not among %v", root, kind, all)
		}
	}
}

func TestSuggestTwoNotes(t *testing.T) {
	assert := assert.New(t)
	got := Suggest([]int{60, 64})
	var names []string
	for _, s := range got {
		names = append(names, s.Chord.Name())
		assert.Equal(2, s.Complexity)
		assert.Len(s.Missing, 1)
	}
	assert.Equal([]string{"A Minor", "C Major", "C Augmented", "E Augmented", "G# Augmented"}, names)
	assert.Equal([]pitch.Class{7}, got[1].Missing)
}

func TestSuggestFromFullTriad(t *testing.T) {
	assert := assert.New(t)
	got := Suggest([]int{60, 64, 67})
	assert.Len(got, 5)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(got[i-1].Complexity, got[i].Complexity)
	}
	for _, s := range got {
		assert.NotEmpty(s.Missing)
		assert.LessOrEqual(len(s.Missing), 2)
		assert.False(s.Chord.SameChord(New(0, Major)), "proper supersets only")
	}
	assert.Nil(Suggest(nil))
}

func TestSymbolAndString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Cmaj7", New(0, Major7).Symbol())
	assert.Equal("G/B", New(7, Major).WithBass(11).Symbol())
	assert.Equal("Am7", New(9, Minor7).Symbol())
	assert.Equal("C Major (1st inversion)", Token{Root: 0, Kind: Major, Inversion: 1}.String())
}

func TestParseKind(t *testing.T) {
	assert := assert.New(t)
	k, ok := ParseKind("Half-Diminished 7")
	assert.True(ok)
	assert.Equal(HalfDiminished7, k)
	k, ok = ParseKind("six_nine")
	assert.True(ok)
	assert.Equal(SixNine, k)
	_, ok = ParseKind("power")
	assert.False(ok)
}

func TestCreateChordKeyDoesNotMutate(t *testing.T) {
	notes := []int{67, 60, 64}
	assert.Equal(t, "60-64-67", CreateChordKey(notes))
	assert.Equal(t, []int{67, 60, 64}, notes)
}

func classesOf(notes []int) []pitch.Class {
	var res []pitch.Class
	for _, n := range notes {
		res = append(res, pitch.MidiPitchClass(n))
	}
	return res
}

func sortedClasses(pcs []pitch.Class) []pitch.Class {
	res := append([]pitch.Class(nil), pcs...)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

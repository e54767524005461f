package scale

import (
	"testing"

	"github.com/jsphweid/keyquest/pitch"
	"github.com/stretchr/testify/assert"
)

func TestNotesFollowStepVector(t *testing.T) {
	for _, kind := range Kinds() {
		for root := pitch.Class(0); root < 12; root++ {
			notes := Notes(root, kind)
			steps := kind.Steps()
			assert.Len(t, notes, len(steps), "%v %v", root, kind)
			assert.Equal(t, root, notes[0])
			for i := 1; i < len(notes); i++ {
				assert.Equal(t, steps[i-1], notes[i-1].Interval(notes[i]), "%v %v degree %d", root, kind, i)
			}
		}
	}
}

func TestStepVectorsSum(t *testing.T) {
	for _, kind := range Kinds() {
		sum := 0
		for _, s := range kind.Steps() {
			sum += s
		}
		assert.Equal(t, 12, sum, kind.String())
	}
}

func TestKnownScales(t *testing.T) {
	cases := []struct {
		root pitch.Class
		kind Kind
		want string
	}{
		{0, Major, "C D E F G A B"},
		{0, NaturalMinor, "C D D# F G G# A#"},
		{9, HarmonicMinor, "A B C D E F G#"},
		{0, Blues, "C D# F F# G A#"},
		{7, MajorPentatonic, "G A B D E"},
		{9, MinorPentatonic, "A C D E G"},
		{5, Lydian, "F G A B C D E"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			var names []string
			for _, n := range Notes(c.root, c.kind) {
				names = append(names, n.String())
			}
			assert.Equal(t, c.want, join(names))
		})
	}
}

func TestNotesInvalidRoot(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(Notes(pitch.Invalid, Major))
	assert.Empty(Notes(12, Major))
	assert.Empty(Notes(0, Kind(99)))
}

func TestRunIsUpAndBack(t *testing.T) {
	run := Run(0, Major)
	assert.Len(t, run, 15)
	assert.Equal(t, pitch.Class(0), run[7])
	assert.Equal(t, pitch.Class(11), run[8])
	assert.Equal(t, pitch.Class(0), run[14])
	assert.Len(t, Run(0, MajorPentatonic), 11)
}

func TestParseKind(t *testing.T) {
	assert := assert.New(t)
	k, ok := ParseKind("Natural Minor")
	assert.True(ok)
	assert.Equal(NaturalMinor, k)
	k, ok = ParseKind("minor")
	assert.True(ok)
	assert.Equal(NaturalMinor, k)
	k, ok = ParseKind("major_pentatonic")
	assert.True(ok)
	assert.Equal(MajorPentatonic, k)
	_, ok = ParseKind("dorian")
	assert.False(ok)
}

func join(s []string) string {
	res := ""
	for i, v := range s {
		if i > 0 {
			res += " "
		}
		res += v
	}
	return res
}

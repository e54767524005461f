package pitch

import "fmt"

const (
	MinMidi = 0
	MaxMidi = 127
)

func ValidMidi(m int) bool {
	return m >= MinMidi && m <= MaxMidi
}

// MidiPitchClass is m mod 12.
func MidiPitchClass(m int) Class {
	return Class(Mod(m, 12))
}

// Octave follows the C4 = 60 convention.
func Octave(m int) int {
	return floorDiv(m, 12) - 1
}

// MidiOf returns the MIDI number of pc in octave, or -1 when the result
// falls outside 0..127.
func MidiOf(pc Class, octave int) int {
	if !pc.Valid() {
		return -1
	}
	m := (octave+1)*12 + int(pc)
	if !ValidMidi(m) {
		return -1
	}
	return m
}

// NoteName renders a MIDI number like "C#4".
func NoteName(m int) string {
	return fmt.Sprintf("%s%d", MidiPitchClass(m), Octave(m))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

package pitch

import "strings"

// Class is a pitch class, 0 (C) through 11 (B). Invalid is the sentinel for
// names and numbers that don't map to one.
type Class int

const Invalid Class = -1

// Names holds the canonical sharp spelling, indexed by pitch class.
var Names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flats are folded to their sharp spelling on entry and never stored.
var flats = map[string]Class{
	"Db": 1,
	"Eb": 3,
	"Fb": 4,
	"Gb": 6,
	"Ab": 8,
	"Bb": 10,
	"Cb": 11,
}

// IndexOf returns the pitch class of a sharp or flat note name, or -1.
func IndexOf(name string) int {
	return int(Parse(name))
}

// Parse is IndexOf returning a Class.
func Parse(name string) Class {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("♯", "#", "♭", "b").Replace(name)
	if name == "" {
		return Invalid
	}
	// the letter may come in lower case, the accidental may not be "B"
	name = strings.ToUpper(name[:1]) + name[1:]
	for i, n := range Names {
		if n == name {
			return Class(i)
		}
	}
	if c, ok := flats[name]; ok {
		return c
	}
	return Invalid
}

// Spell returns the sharp spelling of i, or "" when i is out of range.
func Spell(i int) string {
	if i < 0 || i > 11 {
		return ""
	}
	return Names[i]
}

func (c Class) String() string {
	if !c.Valid() {
		return "?"
	}
	return Names[c]
}

func (c Class) Valid() bool {
	return c >= 0 && c <= 11
}

// Transpose moves c by semitones, wrapping around the octave.
func (c Class) Transpose(semitones int) Class {
	return Class(Mod(int(c)+semitones, 12))
}

// Interval is the ascending distance in semitones from c to other.
func (c Class) Interval(other Class) int {
	return Mod(int(other)-int(c), 12)
}

func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(b []byte) error {
	parsed := Parse(string(b))
	if !parsed.Valid() {
		return &UnknownNameError{Name: string(b)}
	}
	*c = parsed
	return nil
}

type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return "unknown note name: " + e.Name
}

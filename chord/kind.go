package chord

import "strings"

// Kind is a chord quality. The order of the constants is the order
// identification tries them in, so A-C-E-G names as A minor 7 before C major 6.
// Reordering them changes what Identify returns.
type Kind int

const (
	Major Kind = iota
	Minor
	Diminished
	Augmented
	Sus2
	Sus4
	Major7
	Minor7
	Dominant7
	Diminished7
	HalfDiminished7
	Major6
	Add9
	Major9
	Minor9
	SixNine
)

type definition struct {
	ID        string
	Name      string
	Suffix    string
	Intervals []int
}

var table = [...]definition{
	Major:           {"major", "Major", "", []int{4, 7}},
	Minor:           {"minor", "Minor", "m", []int{3, 7}},
	Diminished:      {"diminished", "Diminished", "dim", []int{3, 6}},
	Augmented:       {"augmented", "Augmented", "aug", []int{4, 8}},
	Sus2:            {"sus2", "Sus2", "sus2", []int{2, 7}},
	Sus4:            {"sus4", "Sus4", "sus4", []int{5, 7}},
	Major7:          {"major7", "Major 7", "maj7", []int{4, 7, 11}},
	Minor7:          {"minor7", "Minor 7", "m7", []int{3, 7, 10}},
	Dominant7:       {"dominant7", "Dominant 7", "7", []int{4, 7, 10}},
	Diminished7:     {"diminished7", "Diminished 7", "dim7", []int{3, 6, 9}},
	HalfDiminished7: {"half_diminished7", "Half-Diminished 7", "m7b5", []int{3, 6, 10}},
	Major6:          {"major6", "Major 6", "6", []int{4, 7, 9}},
	Add9:            {"add9", "Add 9", "add9", []int{4, 7, 14}},
	Major9:          {"major9", "Major 9", "maj9", []int{4, 7, 11, 14}},
	Minor9:          {"minor9", "Minor 9", "m9", []int{3, 7, 10, 14}},
	SixNine:         {"six_nine", "6/9", "6/9", []int{4, 7, 9, 14}},
}

// Kinds lists every chord kind in declaration order.
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

// String is the display name, e.g. "Minor 7".
func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return table[k].Name
}

// Suffix is the lead-sheet suffix, e.g. "m7".
func (k Kind) Suffix() string {
	if !k.Valid() {
		return ""
	}
	return table[k].Suffix
}

// Intervals returns a copy of the semitone offsets above the root.
func (k Kind) Intervals() []int {
	if !k.Valid() {
		return nil
	}
	return append([]int(nil), table[k].Intervals...)
}

// Size is the number of chord tones, root included.
func (k Kind) Size() int {
	if !k.Valid() {
		return 0
	}
	return len(table[k].Intervals) + 1
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
	return "unknown chord kind: " + e.Text
}

// ParseKind matches ids ("half_diminished7") and display names
// ("Half-Diminished 7"), ignoring case.
func ParseKind(s string) (Kind, bool) {
	key := normalizeKindKey(s)
	for i, d := range table {
		if normalizeKindKey(d.ID) == key || normalizeKindKey(d.Name) == key {
			return Kind(i), true
		}
	}
	return 0, false
}

func normalizeKindKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

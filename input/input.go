package input

import (
	"errors"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
)

type Kind string

const (
	NoteOn        Kind = "noteOn"
	NoteOff       Kind = "noteOff"
	InputsChanged Kind = "inputsChanged"
)

// Event is one message from the note source. A NoteOn with velocity 0 is a
// NoteOff. InputsChanged carries the new device label in Device.
type Event struct {
	Kind     Kind   `json:"kind"`
	Note     int    `json:"midi,omitempty"`
	Velocity int    `json:"velocity,omitempty"`
	Channel  int    `json:"channel,omitempty"`
	Device   string `json:"device,omitempty"`
}

func On(note, velocity int) Event {
	return Event{Kind: NoteOn, Note: note, Velocity: velocity}
}

func Off(note int) Event {
	return Event{Kind: NoteOff, Note: note}
}

// FromMessage converts a gomidi message. ok is false for anything that isn't
// a note message.
func FromMessage(msg midi.Message) (ev Event, ok bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Event{Kind: NoteOn, Note: int(key), Velocity: int(vel), Channel: int(ch)}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Kind: NoteOff, Note: int(key), Channel: int(ch)}, true
	}
	return Event{}, false
}

var ErrInvalidNote = errors.New("invalid midi note")

// Frame is the state after one event: the sorted active set and the notes
// that changed.
type Frame struct {
	Active   []int `json:"active"`
	Pressed  []int `json:"pressed"`
	Released []int `json:"released"`
}

// Changed reports whether the event moved any note.
func (f Frame) Changed() bool {
	return len(f.Pressed) > 0 || len(f.Released) > 0
}

// Demux tracks which notes are held. It is not safe for concurrent use; one
// event loop owns it.
type Demux struct {
	held map[int]bool
}

func NewDemux() *Demux {
	return &Demux{held: make(map[int]bool)}
}

// Apply folds ev into the held set. A repeated NoteOn for a held note and a
// NoteOff for a note that isn't held produce no edges.
func (d *Demux) Apply(ev Event) (Frame, error) {
	switch ev.Kind {
	case NoteOn, NoteOff:
		if ev.Note < 0 || ev.Note > 127 {
			return d.frame(nil, nil), fmt.Errorf("%w: %d", ErrInvalidNote, ev.Note)
		}
	case InputsChanged:
		return d.frame(nil, nil), nil
	default:
		return d.frame(nil, nil), fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	if ev.Kind == NoteOn && ev.Velocity > 0 {
		if d.held[ev.Note] {
			return d.frame(nil, nil), nil
		}
		d.held[ev.Note] = true
		return d.frame([]int{ev.Note}, nil), nil
	}
	if !d.held[ev.Note] {
		return d.frame(nil, nil), nil
	}
	delete(d.held, ev.Note)
	return d.frame(nil, []int{ev.Note}), nil
}

// Active returns the held notes in ascending order.
func (d *Demux) Active() []int {
	res := make([]int, 0, len(d.held))
	for note := range d.held {
		res = append(res, note)
	}
	sort.Ints(res)
	return res
}

// Reset releases every note without reporting edges.
func (d *Demux) Reset() {
	d.held = make(map[int]bool)
}

func (d *Demux) frame(pressed, released []int) Frame {
	return Frame{Active: d.Active(), Pressed: pressed, Released: released}
}

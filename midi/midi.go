package midi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/input"
)

var ErrDeviceUnavailable = errors.New("device unavailable")

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// smf can panic on malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("error parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file %s: %w", filepath, err)
	}
	return res, nil
}

// TimedEvent is a note event at an offset from the start of a file.
type TimedEvent struct {
	At    time.Duration `json:"at"`
	Event input.Event   `json:"event"`
}

// FileEvents merges the note events of every track into one list ordered by
// time, with note-offs ahead of note-ons at the same instant.
func FileEvents(s *smf.SMF) []TimedEvent {
	var res []TimedEvent
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			at := time.Duration(s.TimeAt(absTicks)) * time.Microsecond
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				kind := input.NoteOn
				if velocity == 0 {
					kind = input.NoteOff
				}
				res = append(res, TimedEvent{At: at, Event: input.Event{
					Kind: kind, Note: int(key), Velocity: int(velocity), Channel: int(channel),
				}})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				res = append(res, TimedEvent{At: at, Event: input.Event{
					Kind: input.NoteOff, Note: int(key), Channel: int(channel),
				}})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].At != res[j].At {
			return res[i].At < res[j].At
		}
		return res[i].Event.Kind == input.NoteOff && res[j].Event.Kind != input.NoteOff
	})
	return res
}

// Moment is what sounds from At until the next moment.
type Moment struct {
	At    time.Duration `json:"at"`
	Notes []int         `json:"notes"`
	Chord *chord.Token  `json:"chord,omitempty"`
}

// Timeline reduces a file to the distinct sets of sounding notes and
// identifies each. Silent stretches are left out.
func Timeline(s *smf.SMF) []Moment {
	var res []Moment
	demux := input.NewDemux()
	events := FileEvents(s)
	for i, te := range events {
		if _, err := demux.Apply(te.Event); err != nil {
			continue
		}
		// only the state after the last event at an instant counts
		if i+1 < len(events) && events[i+1].At == te.At {
			continue
		}
		notes := demux.Active()
		if len(notes) == 0 {
			continue
		}
		if n := len(res); n > 0 && chord.CreateChordKey(res[n-1].Notes) == chord.CreateChordKey(notes) {
			continue
		}
		res = append(res, Moment{At: te.At, Notes: notes, Chord: chord.Identify(notes)})
	}
	return res
}

// Replay sends events at their recorded offsets from now, scaled by speed.
func Replay(ctx context.Context, events []TimedEvent, speed float64, send func(input.Event) error) error {
	if speed <= 0 {
		speed = 1
	}
	start := time.Now()
	for _, te := range events {
		if wait := time.Until(start.Add(time.Duration(float64(te.At) / speed))); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := send(te.Event); err != nil {
			return err
		}
	}
	return nil
}

// InPorts lists the names of the available input ports.
func InPorts() []string {
	var res []string
	for _, in := range midi.GetInPorts() {
		res = append(res, in.String())
	}
	return res
}

// Listen forwards note events from the named input port, or the first port
// when name is empty, until stop is called.
func Listen(name string, handler func(input.Event)) (stop func(), err error) {
	var in drivers.In
	if name == "" {
		in, err = midi.InPort(0)
	} else {
		in, err = midi.FindInPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDeviceUnavailable, name, err)
	}
	device := in.String()
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if ev, ok := input.FromMessage(msg); ok {
			ev.Device = device
			handler(ev)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDeviceUnavailable, device, err)
	}
	handler(input.Event{Kind: input.InputsChanged, Device: device})
	return stop, nil
}

// Close releases the driver.
func Close() {
	midi.CloseDriver()
}

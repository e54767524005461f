package recording

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer"

	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/input"
)

// Event is one recorded note. TimestampMs counts from the start of the
// recording with paused spans removed.
type Event struct {
	Type        input.Kind `json:"type"`
	Note        int        `json:"note"`
	Velocity    int        `json:"velocity"`
	Channel     int        `json:"channel"`
	TimestampMs int64      `json:"timestamp_ms"`
}

// Recorder captures note events between Start and Stop. It is safe for
// concurrent use.
type Recorder struct {
	mu        sync.Mutex
	recording bool
	paused    bool
	start     time.Time
	pausedAt  time.Time
	pausedFor time.Duration
	last      int64
	events    []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start clears any previous take.
func (r *Recorder) Start(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording, r.paused = true, false
	r.start, r.pausedAt = now, time.Time{}
	r.pausedFor, r.last = 0, 0
	r.events = nil
}

func (r *Recorder) Pause(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording && !r.paused {
		r.paused = true
		r.pausedAt = now
	}
}

func (r *Recorder) Resume(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording && r.paused {
		r.paused = false
		if d := now.Sub(r.pausedAt); d > 0 {
			r.pausedFor += d
		}
	}
}

// Stop ends the take and returns its events.
func (r *Recorder) Stop(now time.Time) []Event {
	r.Resume(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording && !r.paused
}

// Record keeps ev if a take is running. Only note events are kept.
func (r *Recorder) Record(ev input.Event, now time.Time) bool {
	if ev.Kind != input.NoteOn && ev.Kind != input.NoteOff {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || r.paused {
		return false
	}
	ts := (now.Sub(r.start) - r.pausedFor).Milliseconds()
	if ts < r.last {
		ts = r.last
	}
	r.last = ts
	kind := ev.Kind
	if kind == input.NoteOn && ev.Velocity == 0 {
		kind = input.NoteOff
	}
	r.events = append(r.events, Event{
		Type:        kind,
		Note:        ev.Note,
		Velocity:    ev.Velocity,
		Channel:     ev.Channel,
		TimestampMs: ts,
	})
	return true
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func WriteJSON(w io.Writer, events []Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

func ReadJSON(rd io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(rd).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding recording: %w", err)
	}
	for i := 1; i < len(events); i++ {
		if events[i].TimestampMs < events[i-1].TimestampMs {
			return nil, fmt.Errorf("event %d goes back in time", i)
		}
	}
	return events, nil
}

// ToSMF renders events as a single-track file at bpm.
func ToSMF(events []Event, bpm float64) *smf.SMF {
	if bpm <= 0 {
		bpm = constants.DefaultBPM
	}
	file := smf.New()
	clock := smf.MetricTicks(constants.TicksPerQuarter)
	file.TimeFormat = clock

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("keyquest"))
	tr.Add(0, smf.MetaTempo(bpm))
	var prev int64
	for _, ev := range events {
		delta := clock.Ticks(bpm, time.Duration(ev.TimestampMs-prev)*time.Millisecond)
		prev = ev.TimestampMs
		ch, note := uint8(ev.Channel&0x0f), uint8(ev.Note&0x7f)
		if ev.Type == input.NoteOn {
			tr.Add(delta, midi.NoteOn(ch, note, uint8(ev.Velocity&0x7f)))
		} else {
			tr.Add(delta, midi.NoteOff(ch, note))
		}
	}
	tr.Close(0)
	file.Add(tr)
	return file
}

// WriteSMF writes events as a standard MIDI file, snapped to the beat grid
// when quantize is set.
func WriteSMF(w io.Writer, events []Event, bpm float64, quantize bool) error {
	var raw bytes.Buffer
	if _, err := ToSMF(events, bpm).WriteTo(&raw); err != nil {
		return err
	}
	if !quantize {
		_, err := raw.WriteTo(w)
		return err
	}
	var out bytes.Buffer
	if err := quantizer.Quantize(&raw, &out); err != nil {
		return fmt.Errorf("quantize: %w", err)
	}
	_, err := out.WriteTo(w)
	return err
}

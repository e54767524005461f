package midi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/keyquest/input"
)

// writeSong writes a one-track file at 120 BPM, 960 ticks per quarter:
// C major for a quarter, then G major for a quarter.
func writeSong(t *testing.T) string {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(0, midi.NoteOn(0, 64, 90))
	tr.Add(0, midi.NoteOn(0, 67, 90))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOff(0, 64))
	tr.Add(0, midi.NoteOn(0, 62, 90))
	tr.Add(0, midi.NoteOn(0, 71, 90))
	tr.Add(960, midi.NoteOff(0, 62))
	tr.Add(0, midi.NoteOff(0, 67))
	tr.Add(0, midi.NoteOff(0, 71))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(t.TempDir(), "song.mid")
	require.NoError(t, s.WriteFile(path))
	return path
}

func TestReadMidiFile(t *testing.T) {
	s, err := ReadMidiFile(writeSong(t))
	require.NoError(t, err)
	assert.Equal(t, 1, len(s.Tracks))

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	junk := filepath.Join(t.TempDir(), "junk.mid")
	require.NoError(t, os.WriteFile(junk, []byte("not a midi file"), 0o644))
	_, err = ReadMidiFile(junk)
	assert.Error(t, err)
}

func TestFileEvents(t *testing.T) {
	s, err := ReadMidiFile(writeSong(t))
	require.NoError(t, err)
	events := FileEvents(s)
	require.Len(t, events, 10)
	assert.Equal(t, time.Duration(0), events[0].At)
	assert.Equal(t, input.NoteOn, events[0].Event.Kind)
	assert.Equal(t, 90, events[0].Event.Velocity)

	// at the first beat the releases come before the new notes
	assert.Equal(t, 500*time.Millisecond, events[3].At)
	assert.Equal(t, input.NoteOff, events[3].Event.Kind)
	assert.Equal(t, input.NoteOff, events[4].Event.Kind)
	assert.Equal(t, input.NoteOn, events[5].Event.Kind)
}

func TestTimeline(t *testing.T) {
	s, err := ReadMidiFile(writeSong(t))
	require.NoError(t, err)
	moments := Timeline(s)
	require.Len(t, moments, 2)

	assert.Equal(t, []int{60, 64, 67}, moments[0].Notes)
	require.NotNil(t, moments[0].Chord)
	assert.Equal(t, "C Major", moments[0].Chord.Name())

	assert.Equal(t, 500*time.Millisecond, moments[1].At)
	assert.Equal(t, []int{62, 67, 71}, moments[1].Notes)
	require.NotNil(t, moments[1].Chord)
	assert.Equal(t, "G/D", moments[1].Chord.Symbol())
}

func TestReplay(t *testing.T) {
	events := []TimedEvent{
		{At: 0, Event: input.On(60, 80)},
		{At: 40 * time.Millisecond, Event: input.Off(60)},
	}
	var got []input.Event
	start := time.Now()
	err := Replay(context.Background(), events, 2, func(ev input.Event) error {
		got = append(got, ev)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []input.Event{input.On(60, 80), input.Off(60)}, got)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Replay(ctx, []TimedEvent{{At: time.Hour, Event: input.Off(1)}}, 1, func(input.Event) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

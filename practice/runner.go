package practice

import (
	"errors"
	"fmt"
	"time"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/exercise"
	"github.com/jsphweid/keyquest/input"
	"github.com/jsphweid/keyquest/pitch"
)

type Options struct {
	// RejectErrors sends the sequence back to its first step on a wrong
	// note or chord.
	RejectErrors bool
	// Debounce is how long a matching chord must be held. Zero means
	// constants.AdvanceDebounce.
	Debounce time.Duration
}

// State is a snapshot of where a Runner is.
type State struct {
	Exercise  string            `json:"exercise"`
	Mode      exercise.Mode     `json:"mode"`
	Key       pitch.Class       `json:"key"`
	KeyIndex  int               `json:"keyIndex"`
	StepIndex int               `json:"stepIndex"`
	Total     int               `json:"total"`
	Active    []int             `json:"active"`
	Sequence  exercise.Sequence `json:"sequence"`
	Pending   bool              `json:"pending"`
	Target    *chord.Token      `json:"target,omitempty"`
	Note      *pitch.Class      `json:"note,omitempty"`
}

// Runner walks an exercise one input event at a time. Time only enters
// through the now arguments, so a Runner is deterministic and not safe for
// concurrent use.
type Runner struct {
	ex   exercise.Exercise
	opts Options
	sink Sink

	demux *input.Demux
	seq   exercise.Sequence

	// visited counts keys finished in the current pass; the key being
	// played is ex.KeyAt(visited).
	visited int
	step    int

	pending  bool
	deadline time.Time
}

func NewRunner(ex exercise.Exercise, opts Options, sink Sink) (*Runner, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = constants.AdvanceDebounce
	}
	r := &Runner{opts: opts, sink: sink, demux: input.NewDemux()}
	if err := r.load(ex, 0); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) load(ex exercise.Exercise, visited int) error {
	if len(ex.KeyCycle) == 0 {
		return fmt.Errorf("exercise %s: empty key cycle", ex.ID)
	}
	seq, err := ex.MakeSequence(ex.KeyAt(visited))
	if err != nil {
		return err
	}
	if seq.Len() == 0 {
		return fmt.Errorf("exercise %s: empty sequence", ex.ID)
	}
	r.ex, r.seq, r.visited, r.step = ex, seq, visited, 0
	r.cancel()
	return nil
}

// SetExercise switches exercise and starts it from its first key. Notes held
// for the previous exercise are forgotten.
func (r *Runner) SetExercise(ex exercise.Exercise) error {
	if err := r.load(ex, 0); err != nil {
		return err
	}
	r.demux.Reset()
	r.emitStep()
	return nil
}

// SetKey jumps to the i-th key of the pass.
func (r *Runner) SetKey(i int) error {
	if i < 0 || i >= r.ex.KeyCount() {
		return fmt.Errorf("key index %d out of range", i)
	}
	if err := r.load(r.ex, i); err != nil {
		return err
	}
	r.emit(Message{Type: KeyAdvanced, Key: r.Key()})
	r.emitStep()
	return nil
}

// Reset goes back to the first step of the current key.
func (r *Runner) Reset() {
	r.step = 0
	r.cancel()
	r.emitStep()
}

func (r *Runner) Key() pitch.Class {
	return r.ex.KeyAt(r.visited)
}

func (r *Runner) State() State {
	s := State{
		Exercise:  r.ex.ID,
		Mode:      r.ex.Mode,
		Key:       r.Key(),
		KeyIndex:  r.visited,
		StepIndex: r.step,
		Total:     r.seq.Len(),
		Active:    r.demux.Active(),
		Sequence:  r.seq,
		Pending:   r.pending,
	}
	if r.ex.Mode == exercise.ChordMode {
		target := r.seq.Chords[r.step].Chord
		s.Target = &target
	} else {
		note := r.seq.Notes[r.step]
		s.Note = &note
	}
	return s
}

// Deadline reports when a pending advance becomes due.
func (r *Runner) Deadline() (time.Time, bool) {
	return r.deadline, r.pending
}

// Tick fires a pending advance whose debounce window has passed.
func (r *Runner) Tick(now time.Time) {
	if !r.pending || now.Before(r.deadline) {
		return
	}
	r.cancel()
	r.advance()
}

// Handle applies one input event.
func (r *Runner) Handle(ev input.Event, now time.Time) {
	frame, err := r.demux.Apply(ev)
	if err != nil {
		if errors.Is(err, input.ErrInvalidNote) {
			r.emit(Message{Type: Diagnostic, Text: "dropped event: " + err.Error()})
		} else {
			r.emit(Message{Type: Diagnostic, Text: err.Error()})
		}
		return
	}
	if ev.Kind == input.InputsChanged {
		r.emit(Message{Type: Status, Text: "inputs changed: " + ev.Device})
		return
	}
	if !frame.Changed() {
		return
	}

	all := chord.IdentifyAll(frame.Active)
	var primary *chord.Token
	if len(all) > 0 {
		primary = &all[0]
	}
	r.emit(Message{Type: Active, Active: frame.Active})
	r.emit(Message{Type: Detected, Chord: primary, Candidates: all})
	r.emit(Message{Type: Suggestions, Suggestions: chord.Suggest(frame.Active)})

	switch r.ex.Mode {
	case exercise.ScaleMode:
		r.scaleStep(frame)
	case exercise.ChordMode:
		r.chordStep(frame, all, now)
	}
}

func (r *Runner) scaleStep(frame input.Frame) {
	if len(frame.Pressed) == 0 {
		return
	}
	target := r.seq.Notes[r.step]
	var wrong []string
	for _, n := range frame.Pressed {
		if pitch.MidiPitchClass(n) == target {
			r.advance()
			return
		}
		wrong = append(wrong, pitch.NoteName(n))
	}
	if r.opts.RejectErrors {
		r.reset(fmt.Sprintf("wrong note %v, expected %s", wrong, target))
	}
}

func (r *Runner) chordStep(frame input.Frame, all []chord.Token, now time.Time) {
	r.cancel()
	target := r.seq.Chords[r.step].Chord

	var misplaced *chord.Token
	for i := range all {
		if !all[i].SameChord(target) {
			continue
		}
		if !r.ex.PinInversion || all[i].Inversion == target.Inversion {
			r.pending = true
			r.deadline = now.Add(r.opts.Debounce)
			return
		}
		misplaced = &all[i]
	}
	if misplaced != nil {
		r.emit(Message{Type: WrongInversion, Chord: misplaced, Inversion: misplaced.Inversion})
		return
	}
	// Only a press can be a wrong chord, and notes that all belong to the
	// target are a chord still being built.
	if len(all) > 0 && r.opts.RejectErrors && len(frame.Pressed) > 0 && !within(frame.Active, target) {
		r.reset(fmt.Sprintf("wrong chord %s, expected %s", all[0].Symbol(), target.Symbol()))
	}
}

func within(notes []int, target chord.Token) bool {
	tones := map[pitch.Class]bool{}
	for _, pc := range chord.Tones(target.Root, target.Kind) {
		tones[pc] = true
	}
	for _, pc := range chord.PitchClasses(notes) {
		if !tones[pc] {
			return false
		}
	}
	return true
}

func (r *Runner) advance() {
	r.step++
	if r.step < r.seq.Len() {
		r.emitStep()
		return
	}
	prev := r.Key()
	next := r.visited + 1
	wrapped := next >= r.ex.KeyCount()
	if wrapped {
		next = 0
	}
	if err := r.load(r.ex, next); err != nil {
		r.step = 0
		r.emit(Message{Type: Diagnostic, Text: err.Error()})
		r.emitStep()
		return
	}
	r.emitStep()
	if r.Key() != prev {
		r.emit(Message{Type: KeyAdvanced, Key: r.Key()})
	}
	if wrapped {
		r.emit(Message{Type: CycleCompleted, Key: r.Key()})
	}
}

func (r *Runner) reset(reason string) {
	r.step = 0
	r.cancel()
	r.emit(Message{Type: ProgressionReset, Step: 0, Total: r.seq.Len(), Key: r.Key(), Text: reason})
}

func (r *Runner) cancel() {
	r.pending = false
	r.deadline = time.Time{}
}

func (r *Runner) emitStep() {
	r.emit(Message{Type: StepAdvanced, Step: r.step, Total: r.seq.Len(), Key: r.Key()})
}

func (r *Runner) emit(m Message) {
	if r.sink != nil {
		r.sink(m)
	}
}

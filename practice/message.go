package practice

import (
	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/pitch"
)

type MessageType int

const (
	Active MessageType = iota
	Detected
	Suggestions
	StepAdvanced
	KeyAdvanced
	CycleCompleted
	WrongInversion
	ProgressionReset
	Status
	Diagnostic
)

var messageNames = [...]string{
	"active", "detected", "suggestions", "stepAdvanced", "keyAdvanced",
	"cycleCompleted", "wrongInversion", "progressionReset", "status", "diagnostic",
}

func (t MessageType) String() string {
	if t < 0 || int(t) >= len(messageNames) {
		return "unknown"
	}
	return messageNames[t]
}

func (t MessageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Message is one observable change of a Runner. Only the fields relevant to
// Type are set.
type Message struct {
	Type        MessageType        `json:"type"`
	Active      []int              `json:"active,omitempty"`
	Chord       *chord.Token       `json:"chord,omitempty"`
	Candidates  []chord.Token      `json:"candidates,omitempty"`
	Suggestions []chord.Suggestion `json:"suggestions,omitempty"`
	Step        int                `json:"step"`
	Total       int                `json:"total,omitempty"`
	Key         pitch.Class        `json:"key"`
	Inversion   int                `json:"inversion,omitempty"`
	Text        string             `json:"text,omitempty"`
}

// Sink receives messages in the order the runner produces them.
type Sink func(Message)

// Listener is the callback form of a Sink.
type Listener interface {
	OnActive(notes []int)
	OnDetected(primary *chord.Token, all []chord.Token)
	OnSuggestions(s []chord.Suggestion)
	OnStep(step, total int)
	OnKeyAdvanced(key pitch.Class)
	OnCycleCompleted()
	OnWrongInversion(played int)
	OnStatus(text string)
}

// Dispatch adapts l to a Sink. Resets are reported as a step back to zero
// and diagnostics as status text.
func Dispatch(l Listener) Sink {
	return func(m Message) {
		switch m.Type {
		case Active:
			l.OnActive(m.Active)
		case Detected:
			l.OnDetected(m.Chord, m.Candidates)
		case Suggestions:
			l.OnSuggestions(m.Suggestions)
		case StepAdvanced:
			l.OnStep(m.Step, m.Total)
		case KeyAdvanced:
			l.OnKeyAdvanced(m.Key)
		case CycleCompleted:
			l.OnCycleCompleted()
		case WrongInversion:
			l.OnWrongInversion(m.Inversion)
		case ProgressionReset:
			l.OnStep(m.Step, m.Total)
			l.OnStatus(m.Text)
		case Status, Diagnostic:
			l.OnStatus(m.Text)
		}
	}
}

// Tee fans a message out to several sinks.
func Tee(sinks ...Sink) Sink {
	return func(m Message) {
		for _, s := range sinks {
			if s != nil {
				s(m)
			}
		}
	}
}

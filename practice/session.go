package practice

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jsphweid/keyquest/input"
)

// Session runs a Runner on its own goroutine. Events, control calls and
// debounce deadlines are serialized through one select loop, so listeners
// see each transition completely applied.
type Session struct {
	runner  *Runner
	events  chan input.Event
	control chan func(*Runner)
	done    chan struct{}
}

func NewSession(r *Runner) *Session {
	return &Session{
		runner:  r,
		events:  make(chan input.Event),
		control: make(chan func(*Runner)),
		done:    make(chan struct{}),
	}
}

// Send hands ev to the loop. It returns once the loop has taken it, so
// events and Do calls from one goroutine are applied in order.
func (s *Session) Send(ctx context.Context, ev input.Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return context.Canceled
	}
}

// Do runs f against the runner inside the loop and waits for it.
func (s *Session) Do(ctx context.Context, f func(*Runner)) error {
	finished := make(chan struct{})
	call := func(r *Runner) {
		defer close(finished)
		f(r)
	}
	select {
	case s.control <- call:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return context.Canceled
	}
	<-finished
	return nil
}

// Run owns the runner until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	logger := log.FromContext(ctx).WithPrefix("practice")
	defer close(s.done)

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()
	var due <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			logger.Debug("event", "kind", ev.Kind, "note", ev.Note, "velocity", ev.Velocity)
			s.runner.Handle(ev, time.Now())
		case f := <-s.control:
			f(s.runner)
		case now := <-due:
			due = nil
			s.runner.Tick(now)
		}

		stopTimer(timer)
		due = nil
		if deadline, ok := s.runner.Deadline(); ok {
			timer.Reset(time.Until(deadline))
			due = timer.C
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

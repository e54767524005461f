package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bep/debounce"

	"github.com/jsphweid/keyquest/chord"
	"github.com/jsphweid/keyquest/constants"
	"github.com/jsphweid/keyquest/pitch"
)

// consolePrinter writes runner messages as lines. Detection output changes
// with every key and is coalesced so a rolled chord prints once.
type consolePrinter struct {
	mu       sync.Mutex
	out      io.Writer
	debounce func(func())
	pending  string
}

func newConsolePrinter(out io.Writer) *consolePrinter {
	return &consolePrinter{out: out, debounce: debounce.New(constants.DisplayDebounce)}
}

func (p *consolePrinter) println(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Flush prints any detection still waiting on the debounce.
func (p *consolePrinter) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending != "" {
		fmt.Fprintln(p.out, p.pending)
		p.pending = ""
	}
}

func (p *consolePrinter) OnActive(notes []int) {}

func (p *consolePrinter) OnDetected(primary *chord.Token, all []chord.Token) {
	line := "  ..."
	if primary != nil {
		names := make([]string, len(all))
		for i, c := range all {
			names[i] = c.Symbol()
		}
		line = fmt.Sprintf("  %s [%s]", primary.String(), strings.Join(names, ", "))
	}
	p.mu.Lock()
	p.pending = line
	p.mu.Unlock()
	p.debounce(p.Flush)
}

func (p *consolePrinter) OnSuggestions(s []chord.Suggestion) {}

func (p *consolePrinter) OnStep(step, total int) {
	p.println("step %d/%d", step, total)
}

func (p *consolePrinter) OnKeyAdvanced(key pitch.Class) {
	p.println("key: %s", key)
}

func (p *consolePrinter) OnCycleCompleted() {
	p.println("cycle completed")
}

func (p *consolePrinter) OnWrongInversion(played int) {
	p.println("right chord, wrong shape: %s", chord.InversionName(played))
}

func (p *consolePrinter) OnStatus(text string) {
	p.println("%s", text)
}

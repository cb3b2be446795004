package scenario

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/heathj/domevents/dom"
)

// TraceEntry records one listener invocation.
type TraceEntry struct {
	Step      int
	Type      string
	Phase     dom.EventPhase
	Current   string
	Target    string
	Prevented bool
}

// Tracer listens on every node of a world and records deliveries in order.
type Tracer struct {
	step    int
	entries []TraceEntry
	capture dom.Listener
	bubble  dom.Listener
}

func NewTracer() *Tracer {
	t := &Tracer{}
	// Both listeners run at the target; only the bubbling one records there.
	t.capture = dom.NewListener(func(ev *dom.Event) {
		if ev.EventPhase() == dom.CapturingPhase {
			t.record(ev)
		}
	})
	t.bubble = dom.NewListener(t.record)
	return t
}

func (t *Tracer) Attach(n *dom.Node, types []string) {
	for _, typ := range types {
		n.AddEventListener(typ, t.capture, true)
		n.AddEventListener(typ, t.bubble, false)
	}
}

func (t *Tracer) SetStep(i int) { t.step = i }

func (t *Tracer) Entries() []TraceEntry { return t.entries }

func (t *Tracer) record(ev *dom.Event) {
	t.entries = append(t.entries, TraceEntry{
		Step:      t.step,
		Type:      ev.Type(),
		Phase:     ev.EventPhase(),
		Current:   fmt.Sprint(ev.CurrentTarget()),
		Target:    fmt.Sprint(ev.Target()),
		Prevented: ev.DefaultPrevented(),
	})
}

var (
	stepColor    = color.New(color.Bold)
	captureColor = color.New(color.FgCyan)
	targetColor  = color.New(color.FgGreen, color.Bold)
	bubbleColor  = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func phaseColor(p dom.EventPhase) *color.Color {
	switch p {
	case dom.CapturingPhase:
		return captureColor
	case dom.AtTargetPhase:
		return targetColor
	default:
		return bubbleColor
	}
}

// Print writes the trace grouped by step, followed by each step's outcome.
func Print(w io.Writer, entries []TraceEntry, results []Result) {
	next := 0
	for _, res := range results {
		stepColor.Fprintf(w, "step %d\n", res.Step)
		for ; next < len(entries) && entries[next].Step == res.Step; next++ {
			e := entries[next]
			c := phaseColor(e.Phase)
			fmt.Fprintf(w, "  %-22s %s %-16s target=%s", e.Type, c.Sprintf("%-9s", e.Phase), e.Current, e.Target)
			if e.Prevented {
				fmt.Fprint(w, " prevented")
			}
			fmt.Fprintln(w)
		}
		if res.Err != nil {
			errorColor.Fprintf(w, "  error: %v\n", res.Err)
			continue
		}
		fmt.Fprintf(w, "  handled=%t\n", res.Handled)
	}
}

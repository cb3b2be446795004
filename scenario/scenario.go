// Package scenario replays recorded input against a small document described
// in JSON and records every event delivery.
package scenario

import (
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/heathj/domevents/config"
	"github.com/heathj/domevents/dom"
	"github.com/heathj/domevents/input"
	"github.com/heathj/domevents/loop"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// NodeSpec describes an element or text node and the box it occupies.
type NodeSpec struct {
	ID   string      `json:"id,omitempty"`
	Name string      `json:"name"`
	Text string      `json:"text,omitempty"`
	Box  *input.Rect `json:"box,omitempty"`

	Children []NodeSpec `json:"children,omitempty"`
	// Shadow holds the children of the node's shadow root.
	Shadow []NodeSpec `json:"shadow,omitempty"`
	// Slot names the ID of a slot in the parent's shadow tree.
	Slot string `json:"slot,omitempty"`

	// Event types this node prevents, stops, or consumes as a default action.
	Prevent []string `json:"prevent,omitempty"`
	Stop    []string `json:"stop,omitempty"`
	Default []string `json:"default,omitempty"`
}

// Step is one input record, a focus change, or a deferred event. Exactly one
// field is set.
type Step struct {
	Pointer *input.PointerRecord  `json:"pointer,omitempty"`
	Key     *input.KeyboardRecord `json:"key,omitempty"`
	Gesture *input.GestureRecord  `json:"gesture,omitempty"`
	Wheel   *input.WheelRecord    `json:"wheel,omitempty"`
	Focus   *string               `json:"focus,omitempty"`
	Post    *PostStep             `json:"post,omitempty"`
}

// PostStep queues a custom event for delivery on the next loop turn. An empty
// Target posts to the document.
type PostStep struct {
	Target  string `json:"target,omitempty"`
	Type    string `json:"type"`
	Bubbles bool   `json:"bubbles,omitempty"`
}

type Scenario struct {
	Name   string   `json:"name"`
	Listen []string `json:"listen"`
	// Tree is appended to the document node.
	Tree []NodeSpec `json:"tree"`
	// Detached subtrees get boxes but are never connected to the document.
	Detached []NodeSpec `json:"detached,omitempty"`
	Steps    []Step     `json:"steps"`
}

func Decode(r io.Reader) (*Scenario, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if len(s.Listen) == 0 {
		s.Listen = []string{
			dom.EventPointerDown, dom.EventPointerUp, dom.EventClick,
			dom.EventKeyDown, dom.EventChar, dom.EventWheel,
		}
	}
	return &s, nil
}

// World is a scenario's document with its geometry and input plumbing.
type World struct {
	Doc    *dom.Document
	Boxes  *input.BoxTree
	Router *input.Router
	Loop   *loop.Loop
	Trace  *Tracer

	delay   time.Duration
	nodes   map[string]*dom.Node
	focused *dom.Node
	actions map[dom.NodeID]map[string]bool
}

// Node returns the node declared with id.
func (w *World) Node(id string) *dom.Node { return w.nodes[id] }

func (w *World) FocusedElement() *dom.Node { return w.focused }

func (w *World) SelectStart(target *dom.Node, _ input.Point) {
	w.Router.DispatchSelectStart(target)
}

func (w *World) HandleDefault(ev *dom.Event) bool {
	n, ok := ev.Target().(*dom.Node)
	if !ok {
		return false
	}
	return w.actions[n.ID()][ev.Type()]
}

// Build creates the document, boxes and listeners for s.
func Build(s *Scenario, cfg config.Config, log logrus.FieldLogger) (*World, error) {
	clock := loop.NewManualClock(time.Unix(0, 0))
	l := loop.New(loop.WithClock(clock), loop.WithLogger(log))
	doc := dom.NewDocument(append(cfg.DocumentOptions(log), dom.WithScheduler(l))...)

	w := &World{
		Doc:     doc,
		Boxes:   input.NewBoxTree(),
		Loop:    l,
		Trace:   NewTracer(),
		delay:   cfg.QueueDelay,
		nodes:   make(map[string]*dom.Node),
		actions: make(map[dom.NodeID]map[string]bool),
	}
	w.Router = input.NewRouter(doc, w.Boxes, append(cfg.RouterOptions(log),
		input.WithFocusController(w),
		input.WithSelectionController(w),
		input.WithDefaultActionHandler(w))...)
	w.Trace.Attach(doc.Root(), s.Listen)

	var slots []slotRequest
	for _, spec := range s.Tree {
		if err := w.build(doc.Root(), nil, spec, s.Listen, &slots); err != nil {
			return nil, err
		}
	}
	for _, spec := range s.Detached {
		frag := doc.CreateDocumentFragment()
		if err := w.build(frag, nil, spec, s.Listen, &slots); err != nil {
			return nil, err
		}
	}
	for _, req := range slots {
		slot := w.nodes[req.slot]
		if slot == nil || !req.node.AssignSlot(slot) {
			return nil, errors.Errorf("node %s: cannot assign to slot %q", req.node, req.slot)
		}
	}
	return w, nil
}

type slotRequest struct {
	node *dom.Node
	slot string
}

func (w *World) build(parent *dom.Node, parentBox *input.Box, spec NodeSpec, listen []string, slots *[]slotRequest) error {
	var n *dom.Node
	switch spec.Name {
	case "":
		return errors.New("node without name")
	case "#text":
		n = w.Doc.CreateTextNode(spec.Text)
	default:
		n = w.Doc.CreateElement(spec.Name)
	}
	if parent.AppendChild(n) == nil {
		return errors.Errorf("cannot append %s to %s", n, parent)
	}
	if spec.ID != "" {
		if _, dup := w.nodes[spec.ID]; dup {
			return errors.Errorf("duplicate id %q", spec.ID)
		}
		w.nodes[spec.ID] = n
	}
	if spec.Slot != "" {
		*slots = append(*slots, slotRequest{node: n, slot: spec.Slot})
	}

	box := parentBox
	if spec.Box != nil {
		box = w.Boxes.Add(parentBox, n, *spec.Box)
	}
	w.Trace.Attach(n, listen)
	attachActions(n, spec)
	if len(spec.Default) > 0 {
		types := make(map[string]bool, len(spec.Default))
		for _, t := range spec.Default {
			types[t] = true
		}
		w.actions[n.ID()] = types
	}

	for _, c := range spec.Children {
		if err := w.build(n, box, c, listen, slots); err != nil {
			return err
		}
	}
	if len(spec.Shadow) > 0 {
		sr := n.AttachShadow()
		if sr == nil {
			return errors.Errorf("%s cannot host a shadow root", n)
		}
		w.Trace.Attach(sr, listen)
		for _, c := range spec.Shadow {
			if err := w.build(sr, box, c, listen, slots); err != nil {
				return err
			}
		}
	}
	return nil
}

func attachActions(n *dom.Node, spec NodeSpec) {
	for _, t := range spec.Prevent {
		n.AddEventListener(t, dom.NewListener(func(ev *dom.Event) { ev.PreventDefault() }), false)
	}
	for _, t := range spec.Stop {
		n.AddEventListener(t, dom.NewListener(func(ev *dom.Event) { ev.StopPropagation() }), false)
	}
}

// Result is the outcome of a single step.
type Result struct {
	Step    int
	Handled bool
	Err     error
}

// Run replays every step, draining the loop after each one. Routing errors
// are recorded per step and do not stop the replay.
func (w *World) Run(steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		w.Trace.SetStep(i)
		handled, err := w.route(step)
		w.Loop.Advance(w.delay)
		results = append(results, Result{Step: i, Handled: handled, Err: err})
	}
	return results
}

func (w *World) route(step Step) (bool, error) {
	switch {
	case step.Pointer != nil:
		return w.Router.Pointer(*step.Pointer)
	case step.Key != nil:
		return w.Router.Key(*step.Key)
	case step.Gesture != nil:
		return w.Router.Gesture(*step.Gesture)
	case step.Wheel != nil:
		return w.Router.Wheel(*step.Wheel)
	case step.Focus != nil:
		if *step.Focus == "" {
			w.focused = nil
			return false, nil
		}
		n := w.nodes[*step.Focus]
		if n == nil {
			return false, errors.Errorf("focus: unknown node %q", *step.Focus)
		}
		w.focused = n
		return false, nil
	case step.Post != nil:
		ev := dom.NewCustomEvent(step.Post.Type, step.Post.Target, step.Post.Bubbles, false)
		if step.Post.Target == "" {
			return w.Doc.Queue().Enqueue(ev), nil
		}
		n := w.nodes[step.Post.Target]
		if n == nil {
			return false, errors.Errorf("post: unknown node %q", step.Post.Target)
		}
		return n.DispatchScopedEvent(ev), nil
	}
	return false, errors.New("empty step")
}

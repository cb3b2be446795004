package input

import (
	"io"
	"testing"
	"time"

	"github.com/heathj/domevents/dom"
	"github.com/heathj/domevents/loop"
	"github.com/sirupsen/logrus"
)

type focusStub struct{ node *dom.Node }

func (f *focusStub) FocusedElement() *dom.Node { return f.node }

type selectionStub struct {
	router  *Router
	started []*dom.Node
	allowed []bool
}

func (s *selectionStub) SelectStart(target *dom.Node, _ Point) {
	s.started = append(s.started, target)
	s.allowed = append(s.allowed, s.router.DispatchSelectStart(target))
}

type defaultStub struct{ types map[string]bool }

func (d *defaultStub) HandleDefault(ev *dom.Event) bool { return d.types[ev.Type()] }

// fixture is
//
//	html > body [0,0 200x200]
//	  container [10,10 180x180]
//	    a [10,10 20x20]
//	    b [20,20 20x20] > "text" [20,20 10x10]
//	    overlay [25,12 20x6]
//
// plus far [300,300 20x20], an element never attached to the document.
type fixture struct {
	doc    *dom.Document
	loop   *loop.Loop
	boxes  *BoxTree
	router *Router

	body, container, a, b, text, overlay, far *dom.Node

	focus     *focusStub
	selection *selectionStub
	defaults  *defaultStub
	events    []string
}

func newFixture(t *testing.T, opts ...RouterOption) *fixture {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	l := loop.New(loop.WithClock(loop.NewManualClock(time.Unix(0, 0))), loop.WithLogger(log))
	f := &fixture{
		doc:       dom.NewDocument(dom.WithScheduler(l), dom.WithLogger(log)),
		loop:      l,
		boxes:     NewBoxTree(),
		focus:     &focusStub{},
		selection: &selectionStub{},
		defaults:  &defaultStub{types: map[string]bool{}},
	}
	d := f.doc
	html := d.Root().AppendChild(d.CreateElement("html"))
	f.body = html.AppendChild(d.CreateElement("body"))
	f.container = f.body.AppendChild(d.CreateElement("container"))
	f.a = f.container.AppendChild(d.CreateElement("a"))
	f.b = f.container.AppendChild(d.CreateElement("b"))
	f.text = f.b.AppendChild(d.CreateTextNode("text"))
	f.overlay = f.container.AppendChild(d.CreateElement("overlay"))
	f.far = d.CreateElement("far")

	bodyBox := f.boxes.Add(nil, f.body, Rect{X: 0, Y: 0, Width: 200, Height: 200})
	containerBox := f.boxes.Add(bodyBox, f.container, Rect{X: 10, Y: 10, Width: 180, Height: 180})
	f.boxes.Add(containerBox, f.a, Rect{X: 10, Y: 10, Width: 20, Height: 20})
	bBox := f.boxes.Add(containerBox, f.b, Rect{X: 20, Y: 20, Width: 20, Height: 20})
	f.boxes.Add(bBox, f.text, Rect{X: 20, Y: 20, Width: 10, Height: 10})
	f.boxes.Add(containerBox, f.overlay, Rect{X: 25, Y: 12, Width: 20, Height: 6})
	f.boxes.Add(nil, f.far, Rect{X: 300, Y: 300, Width: 20, Height: 20})

	base := []RouterOption{
		WithLogger(log),
		WithFocusController(f.focus),
		WithSelectionController(f.selection),
		WithDefaultActionHandler(f.defaults),
	}
	f.router = NewRouter(d, f.boxes, append(base, opts...)...)
	f.selection.router = f.router
	return f
}

// record logs "type@node" for every at-target delivery of types.
func (f *fixture) record(types ...string) {
	nodes := []*dom.Node{f.doc.Root(), f.body, f.container, f.a, f.b, f.overlay, f.far}
	if html := f.body.ParentNode(); html != nil {
		nodes = append(nodes, html)
	}
	l := dom.NewListener(func(ev *dom.Event) {
		if ev.EventPhase() == dom.AtTargetPhase {
			f.events = append(f.events, ev.Type()+"@"+ev.CurrentTarget().(*dom.Node).NodeName)
		}
	})
	for _, n := range nodes {
		for _, typ := range types {
			n.AddEventListener(typ, l, false)
		}
	}
}

func down(id int, x, y float64) PointerRecord {
	return PointerRecord{Type: dom.EventPointerDown, PointerID: id, Kind: "mouse", X: x, Y: y}
}

func move(id int, x, y float64) PointerRecord {
	return PointerRecord{Type: dom.EventPointerMove, PointerID: id, Kind: "mouse", X: x, Y: y}
}

func up(id int, x, y float64) PointerRecord {
	return PointerRecord{Type: dom.EventPointerUp, PointerID: id, Kind: "mouse", X: x, Y: y}
}

func cancelRec(id int) PointerRecord {
	return PointerRecord{Type: dom.EventPointerCancel, PointerID: id, Kind: "mouse"}
}

package input

import (
	"github.com/alphadose/haxmap"
	"github.com/heathj/domevents/dom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrPointerActive     = errors.New("pointer is already active")
	ErrPointerNotActive  = errors.New("pointer is not active")
	ErrUnknownRecordType = errors.New("unknown input record type")
)

// SelectionController decides whether a pointer-down starts a text selection.
// Implementations typically call Router.DispatchSelectStart first.
type SelectionController interface {
	SelectStart(target *dom.Node, pt Point)
}

type FocusController interface {
	FocusedElement() *dom.Node
}

// DefaultActionHandler runs the default action of an event nobody prevented.
// It reports whether it acted.
type DefaultActionHandler interface {
	HandleDefault(ev *dom.Event) bool
}

type RouterOption func(*Router)

func WithFocusController(f FocusController) RouterOption {
	return func(r *Router) {
		r.focus = f
	}
}

func WithSelectionController(s SelectionController) RouterOption {
	return func(r *Router) {
		r.selection = s
	}
}

func WithDefaultActionHandler(h DefaultActionHandler) RouterOption {
	return func(r *Router) {
		r.defaults = h
	}
}

// WithStrict makes protocol violations return errors instead of being
// repaired.
func WithStrict(strict bool) RouterOption {
	return func(r *Router) {
		r.strict = strict
	}
}

// WithClickSlop bounds the distance between pointer down and up for which a
// click is still synthesised. Zero means unbounded.
func WithClickSlop(px float64) RouterOption {
	return func(r *Router) {
		r.clickSlop = px
	}
}

func WithLogger(log logrus.FieldLogger) RouterOption {
	return func(r *Router) {
		r.log = log
	}
}

// Router turns input records into events on a document. It keeps one
// PointerState per active pointer and the keyboard char suppression flag;
// gestures and wheel input are stateless.
type Router struct {
	doc      *dom.Document
	hit      *HitTester
	pointers *haxmap.Map[int, *PointerState]

	suppressNextChar bool

	focus     FocusController
	selection SelectionController
	defaults  DefaultActionHandler

	strict    bool
	clickSlop float64
	log       logrus.FieldLogger
}

func NewRouter(doc *dom.Document, tree RenderTree, opts ...RouterOption) *Router {
	r := &Router{
		doc:      doc,
		hit:      NewHitTester(doc, tree),
		pointers: haxmap.New[int, *PointerState](),
		log:      doc.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) HitTester() *HitTester { return r.hit }

// dispatch delivers ev to target and runs the default action when it was not
// prevented. It reports whether the event was consumed.
func (r *Router) dispatch(ev *dom.Event, target *dom.Node) bool {
	if target == nil || target.Released() {
		target = r.doc.Root()
	}
	if target.DispatchEvent(ev) && r.defaults != nil && r.defaults.HandleDefault(ev) {
		ev.SetDefaultHandled()
	}
	return ev.DefaultPrevented() || ev.DefaultHandled()
}

// DispatchSelectStart fires a cancelable selectstart at target and reports
// whether the selection may begin.
func (r *Router) DispatchSelectStart(target *dom.Node) bool {
	if target == nil || target.Released() {
		target = r.doc.Root()
	}
	return target.DispatchEvent(dom.NewSelectStartEvent())
}

// Gesture routes a synthesised gesture to the node under it.
func (r *Router) Gesture(rec GestureRecord) (bool, error) {
	switch rec.Type {
	case dom.EventGestureTap, dom.EventGestureLongPress,
		dom.EventGestureScrollBegin, dom.EventGestureScrollMove,
		dom.EventGestureScrollEnd, dom.EventGestureFling:
	default:
		return false, errors.Wrapf(ErrUnknownRecordType, "gesture %q", rec.Type)
	}
	target := r.hit.HitTest(rec.Point())
	r.log.WithFields(logrus.Fields{
		"method": "Gesture",
		"type":   rec.Type,
		"target": target.String(),
	}).Debug("route gesture")
	ev := dom.NewBubblingCancelableEvent(rec.Type,
		dom.WithTimeStamp(rec.TimeStamp()),
		dom.WithPayload(rec.data()),
		dom.WithComposed(true))
	return r.dispatch(ev, target), nil
}

func (r *Router) Wheel(rec WheelRecord) (bool, error) {
	target := r.hit.HitTest(rec.Point())
	r.log.WithFields(logrus.Fields{
		"method": "Wheel",
		"target": target.String(),
	}).Debug("route wheel")
	ev := dom.NewBubblingCancelableEvent(dom.EventWheel,
		dom.WithTimeStamp(rec.TimeStamp()),
		dom.WithPayload(rec.data()),
		dom.WithComposed(true))
	return r.dispatch(ev, target), nil
}

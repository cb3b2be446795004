package dom

import (
	"github.com/google/uuid"
	"github.com/heathj/domevents/webidl"
)

type EventPhase uint8

const (
	NoneEventPhase EventPhase = iota
	CapturingPhase
	AtTargetPhase
	BubblingPhase
)

func (p EventPhase) String() string {
	switch p {
	case CapturingPhase:
		return "capturing"
	case AtTargetPhase:
		return "at-target"
	case BubblingPhase:
		return "bubbling"
	default:
		return "none"
	}
}

// Event is a single notification travelling along a composed path. Header
// fields are fixed at construction; dispatch state is owned by the Dispatcher.
// https://dom.spec.whatwg.org/#interface-event
type Event struct {
	id         uuid.UUID
	eventType  string
	bubbles    bool
	cancelable bool
	composed   bool
	isTrusted  bool
	timeStamp  webidl.DOMHighResTimeStamp
	payload    Payload

	target        EventTarget
	currentTarget EventTarget
	eventPhase    EventPhase
	path          []PathEntry
	dispatching   bool

	propagationStopped          bool
	immediatePropagationStopped bool
	defaultPrevented            bool
	defaultHandled              bool
}

// EventOption configures an Event at construction.
type EventOption func(*Event)

func WithTimeStamp(ts webidl.DOMHighResTimeStamp) EventOption {
	return func(e *Event) {
		e.timeStamp = ts
	}
}

func WithPayload(p Payload) EventOption {
	return func(e *Event) {
		e.payload = p
	}
}

func WithComposed(composed bool) EventOption {
	return func(e *Event) {
		e.composed = composed
	}
}

// Trusted marks the event as produced by the host rather than by script.
func Trusted() EventOption {
	return func(e *Event) {
		e.isTrusted = true
	}
}

func NewEvent(eventType string, bubbles, cancelable bool, opts ...EventOption) *Event {
	e := &Event{
		id:         uuid.New(),
		eventType:  eventType,
		bubbles:    bubbles,
		cancelable: cancelable,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Event) ID() uuid.UUID                         { return e.id }
func (e *Event) Type() string                          { return e.eventType }
func (e *Event) Bubbles() bool                         { return e.bubbles }
func (e *Event) Cancelable() bool                      { return e.cancelable }
func (e *Event) Composed() bool                        { return e.composed }
func (e *Event) IsTrusted() bool                       { return e.isTrusted }
func (e *Event) TimeStamp() webidl.DOMHighResTimeStamp { return e.timeStamp }
func (e *Event) Target() EventTarget                   { return e.target }
func (e *Event) CurrentTarget() EventTarget            { return e.currentTarget }
func (e *Event) EventPhase() EventPhase                { return e.eventPhase }
func (e *Event) DefaultPrevented() bool                { return e.defaultPrevented }
func (e *Event) DefaultHandled() bool                  { return e.defaultHandled }
func (e *Event) PropagationStopped() bool              { return e.propagationStopped }
func (e *Event) ImmediatePropagationStopped() bool     { return e.immediatePropagationStopped }
func (e *Event) Dispatching() bool                     { return e.dispatching }

// ComposedPath returns the targets the event is travelling through, target
// first. It is empty outside of dispatch.
// https://dom.spec.whatwg.org/#dom-event-composedpath
func (e *Event) ComposedPath() []EventTarget {
	if !e.dispatching {
		return nil
	}
	targets := make([]EventTarget, 0, len(e.path)+1)
	targets = append(targets, e.target)
	for _, entry := range e.path {
		targets = append(targets, entry.Target)
	}
	return targets
}

// StopPropagation lets the remaining listeners of the current target run and
// then ends the dispatch.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation ends the dispatch after the running listener.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

// PreventDefault has no effect on non-cancelable events.
func (e *Event) PreventDefault() {
	if e.cancelable {
		e.defaultPrevented = true
	}
}

// SetDefaultHandled records that a default action consumed the event.
func (e *Event) SetDefaultHandled() {
	e.defaultHandled = true
}

// InitEvent re-initialises the header of an event that is not being dispatched.
// https://dom.spec.whatwg.org/#dom-event-initevent
func (e *Event) InitEvent(eventType string, bubbles, cancelable bool) {
	if e.dispatching {
		return
	}
	e.eventType = eventType
	e.bubbles = bubbles
	e.cancelable = cancelable
	e.propagationStopped = false
	e.immediatePropagationStopped = false
	e.defaultPrevented = false
	e.defaultHandled = false
	e.target = nil
}

func (e *Event) String() string {
	return e.eventType + "(" + e.Kind().String() + ")"
}

package dom

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNilTarget       = errors.New("dispatch target is nil or released")
	ErrEventInDispatch = errors.New("event is already being dispatched")
)

// Dispatcher delivers events along the composed path of their target.
// https://dom.spec.whatwg.org/#concept-event-dispatch
type Dispatcher struct {
	log    logrus.FieldLogger
	strict bool
	queue  *EventQueue
}

// NewDispatcher returns a dispatcher. In strict mode a nil target panics;
// otherwise it is logged and the dispatch is dropped.
func NewDispatcher(log logrus.FieldLogger, strict bool) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{log: log, strict: strict}
}

// Dispatch runs the capturing, at-target and bubbling phases for ev at target
// and reports whether the default action should proceed.
func (d *Dispatcher) Dispatch(ev *Event, target EventTarget) bool {
	if ev == nil {
		return false
	}
	if isNilTarget(target) {
		err := errors.Wrapf(ErrNilTarget, "dispatch %s", ev.Type())
		if d.strict {
			panic(err)
		}
		d.log.WithField("method", "Dispatch").Warn(err)
		return false
	}
	if ev.dispatching {
		d.log.WithFields(logrus.Fields{
			"method": "Dispatch",
			"event":  ev.ID(),
		}).Warn(errors.Wrapf(ErrEventInDispatch, "dispatch %s to %v", ev.Type(), target))
		return false
	}

	ev.target = target
	ev.path = BuildPath(target)
	ev.dispatching = true
	defer d.finish(ev)

	log := d.log.WithFields(logrus.Fields{
		"method": "Dispatch",
		"event":  ev.String(),
		"id":     ev.ID(),
	})
	log.WithField("path", len(ev.path)).Debugf("dispatch to %v", target)

	// Entries detached from the tree after the path was built are skipped.
	var root *Node
	if len(ev.path) > 0 {
		root = ev.path[len(ev.path)-1].Node()
	}
	stale := func(e PathEntry) bool {
		n := e.Node()
		if n == nil {
			return false
		}
		return n.Released() || root == nil || !root.composedContains(n)
	}

	ev.eventPhase = CapturingPhase
	for i := len(ev.path) - 1; i >= 0; i-- {
		if ev.propagationStopped {
			break
		}
		if stale(ev.path[i]) {
			continue
		}
		d.invoke(log, ev, ev.path[i].Target, CapturingPhase)
	}

	if !ev.propagationStopped && !isNilTarget(target) {
		ev.eventPhase = AtTargetPhase
		d.invoke(log, ev, target, AtTargetPhase)
	}

	if ev.bubbles {
		ev.eventPhase = BubblingPhase
		for _, e := range ev.path {
			if ev.propagationStopped {
				break
			}
			if stale(e) {
				continue
			}
			d.invoke(log, ev, e.Target, BubblingPhase)
		}
	}

	return !ev.defaultPrevented
}

func (d *Dispatcher) finish(ev *Event) {
	ev.eventPhase = NoneEventPhase
	ev.currentTarget = nil
	ev.path = nil
	ev.dispatching = false
	ev.propagationStopped = false
	ev.immediatePropagationStopped = false
}

// invoke runs the listeners of t that match the phase. The listener slice is
// captured once: removals during the loop do not skip already captured
// entries, and additions wait for the next dispatch.
func (d *Dispatcher) invoke(log logrus.FieldLogger, ev *Event, t EventTarget, phase EventPhase) {
	ev.currentTarget = t
	entries := t.EventListeners().snapshot(ev.eventType)
	for _, e := range entries {
		if phase == CapturingPhase && !e.Capture {
			continue
		}
		if phase == BubblingPhase && e.Capture {
			continue
		}
		log.WithFields(logrus.Fields{
			"phase":   phase,
			"current": t,
		}).Trace("invoke listener")
		d.call(log, ev, e.Listener)
		if ev.immediatePropagationStopped {
			return
		}
	}
}

func (d *Dispatcher) call(log logrus.FieldLogger, ev *Event, l Listener) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("listener panicked")
		}
	}()
	l.HandleEvent(ev)
}

// DispatchScoped defers delivery of ev to target through the document's event
// queue. It reports false if the queue is closed or no queue is attached.
func (d *Dispatcher) DispatchScoped(ev *Event, target EventTarget) bool {
	if ev == nil {
		return false
	}
	if d.queue == nil {
		d.log.WithField("method", "DispatchScoped").Warn("no event queue attached")
		return false
	}
	if isNilTarget(target) {
		err := errors.Wrapf(ErrNilTarget, "dispatch scoped %s", ev.Type())
		if d.strict {
			panic(err)
		}
		d.log.WithField("method", "DispatchScoped").Warn(err)
		return false
	}
	return d.queue.EnqueueTo(ev, target)
}

func isNilTarget(t EventTarget) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *Node:
		return v == nil || v.Released()
	case *GlobalTarget:
		return v == nil
	}
	return false
}

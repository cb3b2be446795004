package dom

import (
	"time"

	"github.com/heathj/domevents/loop"
	"github.com/sirupsen/logrus"
)

// Scheduler runs callbacks on a later turn of the same thread.
type Scheduler interface {
	PostDelayedTask(delay time.Duration, fn func()) *loop.Task
}

type queuedEvent struct {
	ev     *Event
	target EventTarget
}

// EventQueue delivers events asynchronously. A one-shot timer is armed when
// the first event arrives on an empty queue; on firing, the whole pending list
// is swapped out and delivered in order. Events queued during that delivery
// wait for the next firing.
type EventQueue struct {
	owner      EventTarget
	dispatcher *Dispatcher
	scheduler  Scheduler
	delay      time.Duration
	log        logrus.FieldLogger

	pending  []queuedEvent
	inflight []queuedEvent
	timer    *loop.Task
	closed   bool
}

// NewEventQueue returns a queue whose events default to owner as target.
func NewEventQueue(owner EventTarget, d *Dispatcher, s Scheduler, delay time.Duration) *EventQueue {
	return &EventQueue{
		owner:      owner,
		dispatcher: d,
		scheduler:  s,
		delay:      delay,
		log:        d.log,
	}
}

// Enqueue schedules ev for delivery to the queue's owner.
func (q *EventQueue) Enqueue(ev *Event) bool {
	return q.EnqueueTo(ev, nil)
}

// EnqueueTo schedules ev for delivery to target, or to the owner when target
// is nil. It reports false if the queue is closed or ev is already queued.
func (q *EventQueue) EnqueueTo(ev *Event, target EventTarget) bool {
	if ev == nil || q.closed {
		return false
	}
	if q.find(ev) != nil {
		q.log.WithFields(logrus.Fields{
			"method": "EnqueueTo",
			"event":  ev.ID(),
		}).Debug("event already queued")
		return false
	}
	q.pending = append(q.pending, queuedEvent{ev: ev, target: target})
	if q.timer == nil {
		q.timer = q.scheduler.PostDelayedTask(q.delay, q.fire)
	}
	return true
}

// Cancel drops ev if it has not been delivered yet.
func (q *EventQueue) Cancel(ev *Event) bool {
	if ev == nil {
		return false
	}
	for i, e := range q.pending {
		if e.ev == ev {
			q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
			if len(q.pending) == 0 && q.timer != nil {
				q.timer.Cancel()
				q.timer = nil
			}
			return true
		}
	}
	if e := q.find(ev); e != nil {
		e.ev = nil
		return true
	}
	return false
}

// Close discards every undelivered event, including the rest of a delivery in
// progress, and makes later enqueues fail.
func (q *EventQueue) Close() {
	if q.closed {
		return
	}
	q.closed = true
	if q.timer != nil {
		q.timer.Cancel()
		q.timer = nil
	}
	q.pending = nil
	for i := range q.inflight {
		q.inflight[i].ev = nil
	}
}

func (q *EventQueue) Closed() bool { return q.closed }

// Pending returns the number of undelivered events.
func (q *EventQueue) Pending() int {
	n := len(q.pending)
	for _, e := range q.inflight {
		if e.ev != nil {
			n++
		}
	}
	return n
}

func (q *EventQueue) find(ev *Event) *queuedEvent {
	for i := range q.pending {
		if q.pending[i].ev == ev {
			return &q.pending[i]
		}
	}
	for i := range q.inflight {
		if q.inflight[i].ev == ev {
			return &q.inflight[i]
		}
	}
	return nil
}

func (q *EventQueue) fire() {
	q.timer = nil
	q.inflight, q.pending = q.pending, nil
	defer func() { q.inflight = nil }()

	for i := range q.inflight {
		e := q.inflight[i]
		if e.ev == nil {
			continue
		}
		q.inflight[i].ev = nil
		target := e.target
		if target == nil {
			target = q.owner
		}
		if isNilTarget(target) {
			q.log.WithFields(logrus.Fields{
				"method": "fire",
				"event":  e.ev.ID(),
			}).Warn("target released before delivery")
			continue
		}
		q.dispatcher.Dispatch(e.ev, target)
	}
}

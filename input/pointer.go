package input

import (
	"math"

	"github.com/heathj/domevents/dom"
	"github.com/heathj/domevents/webidl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PointerState follows one pointer from down to up or cancel.
type PointerState struct {
	Target   *dom.Node
	X, Y     float64
	Kind     dom.PointerType
	DownX    float64
	DownY    float64
	DownTime webidl.DOMHighResTimeStamp
}

// Pointer routes rec by its Type.
func (r *Router) Pointer(rec PointerRecord) (bool, error) {
	switch rec.Type {
	case dom.EventPointerDown:
		return r.PointerDown(rec)
	case dom.EventPointerMove:
		return r.PointerMove(rec)
	case dom.EventPointerUp:
		return r.PointerUp(rec)
	case dom.EventPointerCancel:
		return r.PointerCancel(rec)
	}
	return false, errors.Wrapf(ErrUnknownRecordType, "pointer %q", rec.Type)
}

// PointerDown starts tracking rec.PointerID at the node under the pointer.
// A second down for a live pointer is an error in strict mode; otherwise the
// old pointer is cancelled first.
func (r *Router) PointerDown(rec PointerRecord) (bool, error) {
	log := r.log.WithFields(logrus.Fields{
		"method":  "PointerDown",
		"pointer": rec.PointerID,
	})
	if old, ok := r.pointers.Get(rec.PointerID); ok {
		if r.strict {
			return false, errors.Wrapf(ErrPointerActive, "pointer %d", rec.PointerID)
		}
		log.Warn("pointer already down, cancelling previous sequence")
		r.cancel(rec.PointerID, old, rec)
	}

	pt := rec.Point()
	target := r.hit.HitTest(pt)
	r.pointers.Set(rec.PointerID, &PointerState{
		Target:   target,
		X:        rec.X,
		Y:        rec.Y,
		Kind:     dom.ParsePointerType(rec.Kind),
		DownX:    rec.X,
		DownY:    rec.Y,
		DownTime: rec.TimeStamp(),
	})
	log.WithField("target", target.String()).Debug("pointer down")

	handled := r.dispatch(r.pointerEvent(dom.EventPointerDown, rec, 0, 0), target)
	if r.selection != nil {
		r.selection.SelectStart(target, pt)
	}
	return handled, nil
}

// PointerMove reports the movement since the last sample to the down target.
func (r *Router) PointerMove(rec PointerRecord) (bool, error) {
	state, err := r.active("PointerMove", rec.PointerID)
	if state == nil {
		return false, err
	}
	dx, dy := rec.X-state.X, rec.Y-state.Y
	state.X, state.Y = rec.X, rec.Y
	return r.dispatch(r.pointerEvent(dom.EventPointerMove, rec, dx, dy), state.Target), nil
}

// PointerUp ends the sequence. A click goes to the nearest composed ancestor
// shared by the down target and the node under the release point.
func (r *Router) PointerUp(rec PointerRecord) (bool, error) {
	state, err := r.active("PointerUp", rec.PointerID)
	if state == nil {
		return false, err
	}
	dx, dy := rec.X-state.X, rec.Y-state.Y
	handled := r.dispatch(r.pointerEvent(dom.EventPointerUp, rec, dx, dy), state.Target)
	r.pointers.Del(rec.PointerID)

	log := r.log.WithFields(logrus.Fields{
		"method":  "PointerUp",
		"pointer": rec.PointerID,
	})
	if r.clickSlop > 0 && math.Hypot(rec.X-state.DownX, rec.Y-state.DownY) > r.clickSlop {
		log.Debug("moved past click slop")
		return handled, nil
	}
	release := r.hit.HitTest(rec.Point())
	ancestor := dom.CommonAncestor(state.Target, release)
	if ancestor == nil {
		log.WithFields(logrus.Fields{
			"down":    state.Target.String(),
			"release": release.String(),
		}).Debug("no common ancestor, no click")
		return handled, nil
	}
	r.dispatch(r.pointerEvent(dom.EventClick, rec, 0, 0), ancestor)
	return handled, nil
}

func (r *Router) PointerCancel(rec PointerRecord) (bool, error) {
	state, err := r.active("PointerCancel", rec.PointerID)
	if state == nil {
		return false, err
	}
	return r.cancel(rec.PointerID, state, rec), nil
}

// CancelAll cancels every active pointer, for example when the view loses
// focus.
func (r *Router) CancelAll(timeStampMs int64) {
	var ids []int
	r.pointers.ForEach(func(id int, _ *PointerState) bool {
		ids = append(ids, id)
		return true
	})
	for _, id := range ids {
		if state, ok := r.pointers.Get(id); ok {
			r.cancel(id, state, PointerRecord{
				Type:        dom.EventPointerCancel,
				TimeStampMs: timeStampMs,
				PointerID:   id,
				Kind:        state.Kind.String(),
				X:           state.X,
				Y:           state.Y,
			})
		}
	}
}

// ActivePointer returns the state of a pointer between down and up.
func (r *Router) ActivePointer(id int) (*PointerState, bool) {
	return r.pointers.Get(id)
}

func (r *Router) ActivePointers() int { return int(r.pointers.Len()) }

func (r *Router) cancel(id int, state *PointerState, rec PointerRecord) bool {
	r.pointers.Del(id)
	return r.dispatch(r.pointerEvent(dom.EventPointerCancel, rec, 0, 0), state.Target)
}

// active returns the state of a live pointer. For an inactive pointer it
// returns an error in strict mode and nil, nil otherwise.
func (r *Router) active(method string, id int) (*PointerState, error) {
	if state, ok := r.pointers.Get(id); ok {
		return state, nil
	}
	if r.strict {
		return nil, errors.Wrapf(ErrPointerNotActive, "%s pointer %d", method, id)
	}
	r.log.WithFields(logrus.Fields{
		"method":  method,
		"pointer": id,
	}).Warn("dropping event for inactive pointer")
	return nil, nil
}

func (r *Router) pointerEvent(eventType string, rec PointerRecord, dx, dy float64) *dom.Event {
	return dom.NewBubblingCancelableEvent(eventType,
		dom.WithTimeStamp(rec.TimeStamp()),
		dom.WithPayload(rec.data(dx, dy)),
		dom.WithComposed(true))
}

package input

import (
	"github.com/heathj/domevents/dom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Key routes rec by its Type. "char" is accepted as an alias of keypress.
func (r *Router) Key(rec KeyboardRecord) (bool, error) {
	switch rec.Type {
	case dom.EventKeyDown:
		return r.KeyDown(rec)
	case dom.EventKeyUp:
		return r.KeyUp(rec)
	case dom.EventChar, "char":
		return r.Char(rec)
	}
	return false, errors.Wrapf(ErrUnknownRecordType, "keyboard %q", rec.Type)
}

// KeyDown dispatches to the focused element. When the event is consumed the
// char event that follows for the same keystroke is swallowed.
func (r *Router) KeyDown(rec KeyboardRecord) (bool, error) {
	handled := r.dispatch(r.keyEvent(dom.EventKeyDown, rec), r.keyTarget())
	r.suppressNextChar = handled
	return handled, nil
}

func (r *Router) KeyUp(rec KeyboardRecord) (bool, error) {
	return r.dispatch(r.keyEvent(dom.EventKeyUp, rec), r.keyTarget()), nil
}

// Char dispatches a character event unless the preceding keydown was consumed.
// The suppression applies to one char event only.
func (r *Router) Char(rec KeyboardRecord) (bool, error) {
	suppress := r.suppressNextChar
	r.suppressNextChar = false
	if suppress {
		r.log.WithFields(logrus.Fields{
			"method": "Char",
			"key":    rec.VirtualKey,
		}).Debug("suppressed char after handled keydown")
		return true, nil
	}
	return r.dispatch(r.keyEvent(dom.EventChar, rec), r.keyTarget()), nil
}

// SuppressingNextChar reports whether the next char event will be swallowed.
func (r *Router) SuppressingNextChar() bool { return r.suppressNextChar }

func (r *Router) keyTarget() *dom.Node {
	if r.focus != nil {
		if n := r.focus.FocusedElement(); n != nil && !n.Released() && n.OwnerDocument() == r.doc {
			return n
		}
	}
	return r.doc.Root()
}

func (r *Router) keyEvent(eventType string, rec KeyboardRecord) *dom.Event {
	return dom.NewBubblingCancelableEvent(eventType,
		dom.WithTimeStamp(rec.TimeStamp()),
		dom.WithPayload(rec.data()),
		dom.WithComposed(true))
}

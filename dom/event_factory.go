package dom

// Event type names produced by the host.
const (
	EventPointerDown   = "pointerdown"
	EventPointerMove   = "pointermove"
	EventPointerUp     = "pointerup"
	EventPointerCancel = "pointercancel"
	EventClick         = "click"

	EventKeyDown = "keydown"
	EventKeyUp   = "keyup"
	EventChar    = "keypress"

	EventWheel = "wheel"

	EventGestureTap         = "gesturetap"
	EventGestureLongPress   = "gesturelongpress"
	EventGestureScrollBegin = "gesturescrollstart"
	EventGestureScrollMove  = "gesturescrollupdate"
	EventGestureScrollEnd   = "gesturescrollend"
	EventGestureFling       = "gestureflingstart"

	EventSelectStart            = "selectstart"
	EventEditableContentChanged = "editablecontentchanged"
	EventLoad                   = "load"
	EventError                  = "error"
)

// NewCancelableEvent returns a trusted, cancelable, non-bubbling event.
func NewCancelableEvent(eventType string, opts ...EventOption) *Event {
	return NewEvent(eventType, false, true, append([]EventOption{Trusted()}, opts...)...)
}

// NewBubblingCancelableEvent returns a trusted, cancelable, bubbling event.
func NewBubblingCancelableEvent(eventType string, opts ...EventOption) *Event {
	return NewEvent(eventType, true, true, append([]EventOption{Trusted()}, opts...)...)
}

// NewCustomEvent returns an untrusted event carrying detail.
// https://dom.spec.whatwg.org/#interface-customevent
func NewCustomEvent(eventType string, detail interface{}, bubbles, cancelable bool) *Event {
	return NewEvent(eventType, bubbles, cancelable, WithPayload(CustomData{Detail: detail}))
}

// NewSelectStartEvent is fired before a selection begins; cancel to veto it.
func NewSelectStartEvent() *Event {
	return NewBubblingCancelableEvent(EventSelectStart)
}

// NewEditableContentChangedEvent notifies editing hosts after content mutation.
func NewEditableContentChangedEvent() *Event {
	return NewBubblingCancelableEvent(EventEditableContentChanged)
}

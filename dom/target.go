package dom

// EventTarget is anything listeners can be registered on: every Node, plus
// global objects such as a window.
// https://dom.spec.whatwg.org/#interface-eventtarget
type EventTarget interface {
	AddEventListener(eventType string, l Listener, capture bool) bool
	RemoveEventListener(eventType string, l Listener, capture bool) bool
	DispatchEvent(ev *Event) bool
	// EventListeners returns the target's store, or nil if nothing was ever registered.
	EventListeners() *ListenerStore
}

func (n *Node) EventListeners() *ListenerStore {
	if n.rare == nil {
		return nil
	}
	return n.rare.listeners
}

func (n *Node) AddEventListener(eventType string, l Listener, capture bool) bool {
	if n.released {
		return false
	}
	r := n.ensureRareData()
	if r.listeners == nil {
		r.listeners = NewListenerStore()
	}
	if !r.listeners.Add(eventType, l, capture) {
		return false
	}
	n.setFlag(hasListenersFlag, true)
	return true
}

func (n *Node) RemoveEventListener(eventType string, l Listener, capture bool) bool {
	store := n.EventListeners()
	if store == nil || !store.Remove(eventType, l, capture) {
		return false
	}
	n.setFlag(hasListenersFlag, store.Len() > 0)
	return true
}

// HasEventListeners reports whether any listener is registered for eventType.
func (n *Node) HasEventListeners(eventType string) bool {
	store := n.EventListeners()
	return store != nil && store.HasType(eventType)
}

func (n *Node) DispatchEvent(ev *Event) bool {
	return n.doc.dispatcher.Dispatch(ev, n)
}

// DispatchScopedEvent delivers ev to n on a later turn of the scheduler.
func (n *Node) DispatchScopedEvent(ev *Event) bool {
	return n.doc.dispatcher.DispatchScoped(ev, n)
}

// GlobalTarget is a non-node event target. It has no ancestors, so events
// dispatched to it only run the at-target phase.
type GlobalTarget struct {
	name       string
	dispatcher *Dispatcher
	listeners  *ListenerStore
}

func NewGlobalTarget(name string, d *Dispatcher) *GlobalTarget {
	return &GlobalTarget{
		name:       name,
		dispatcher: d,
		listeners:  NewListenerStore(),
	}
}

func (g *GlobalTarget) EventListeners() *ListenerStore { return g.listeners }

func (g *GlobalTarget) AddEventListener(eventType string, l Listener, capture bool) bool {
	return g.listeners.Add(eventType, l, capture)
}

func (g *GlobalTarget) RemoveEventListener(eventType string, l Listener, capture bool) bool {
	return g.listeners.Remove(eventType, l, capture)
}

func (g *GlobalTarget) DispatchEvent(ev *Event) bool {
	return g.dispatcher.Dispatch(ev, g)
}

func (g *GlobalTarget) DispatchScopedEvent(ev *Event) bool {
	return g.dispatcher.DispatchScoped(ev, g)
}

func (g *GlobalTarget) String() string { return "#" + g.name }

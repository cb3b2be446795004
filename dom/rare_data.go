package dom

// RareData holds per-node state that most nodes never need. It is allocated on
// first use and freed when the node is released.
type RareData struct {
	listeners *ListenerStore
	observers []MutationObserverRegistration
}

// MutationObserverRegistration is stored on behalf of the mutation observer
// implementation; the event core only keeps it alive with the node.
// https://dom.spec.whatwg.org/#registered-observer
type MutationObserverRegistration struct {
	Observer        interface{}
	Subtree         bool
	AttributeFilter []string
}

func (r *RareData) clear() {
	if r.listeners != nil {
		r.listeners.Clear()
	}
	r.listeners = nil
	r.observers = nil
}

func (n *Node) ensureRareData() *RareData {
	if n.rare == nil {
		n.rare = &RareData{}
	}
	return n.rare
}

// HasRareData reports whether the out-of-line record has been allocated.
func (n *Node) HasRareData() bool { return n.rare != nil }

func (n *Node) RegisterMutationObserver(reg MutationObserverRegistration) {
	if n.released {
		return
	}
	r := n.ensureRareData()
	for i := range r.observers {
		if r.observers[i].Observer == reg.Observer {
			r.observers[i] = reg
			return
		}
	}
	r.observers = append(r.observers, reg)
}

func (n *Node) UnregisterMutationObserver(observer interface{}) bool {
	if n.rare == nil {
		return false
	}
	for i := range n.rare.observers {
		if n.rare.observers[i].Observer == observer {
			n.rare.observers = append(n.rare.observers[:i], n.rare.observers[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Node) MutationObserverRegistrations() []MutationObserverRegistration {
	if n.rare == nil {
		return nil
	}
	regs := make([]MutationObserverRegistration, len(n.rare.observers))
	copy(regs, n.rare.observers)
	return regs
}

package dom

// AttachShadow creates the shadow root hosted by element n. It returns nil if
// n is not an element or already hosts a shadow tree.
// https://dom.spec.whatwg.org/#dom-element-attachshadow
func (n *Node) AttachShadow() *Node {
	if !n.IsElement() || n.released || n.shadowRoot != 0 {
		return nil
	}
	sr := n.doc.newNode(ShadowRootNode, "#shadow-root")
	sr.host = n.id
	n.shadowRoot = sr.id
	return sr
}

func (n *Node) ShadowRoot() *Node { return n.doc.node(n.shadowRoot) }

// Host returns the element hosting shadow root n.
func (n *Node) Host() *Node {
	if !n.IsShadowRoot() {
		return nil
	}
	return n.doc.node(n.host)
}

// AssignSlot distributes light child n to insertion point slot, which must
// live in the shadow tree of n's parent. A nil slot clears the assignment.
func (n *Node) AssignSlot(slot *Node) bool {
	if slot == nil {
		n.assignedSlot = 0
		return true
	}
	if !slot.IsElement() || !slotServes(slot, n.ParentNode()) {
		return false
	}
	n.assignedSlot = slot.id
	return true
}

// AssignedSlot returns the insertion point n is currently distributed to.
// An assignment whose slot was moved out of the host's shadow tree, or whose
// node was moved to another parent, is inactive.
func (n *Node) AssignedSlot() *Node {
	slot := n.doc.node(n.assignedSlot)
	if slot == nil || !slotServes(slot, n.ParentNode()) {
		return nil
	}
	return slot
}

// AssignedNodes lists the light children distributed to slot n.
func (n *Node) AssignedNodes() NodeList {
	root := n.GetRootNode(false)
	host := root.Host()
	if host == nil {
		return nil
	}
	var nodes NodeList
	for c := host.FirstChild(); c != nil; c = c.NextSibling() {
		if c.assignedSlot == n.id {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

func slotServes(slot, host *Node) bool {
	if host == nil {
		return false
	}
	sr := host.ShadowRoot()
	return sr != nil && slot.GetRootNode(false) == sr
}

package dom

// BoundaryKind tells how a path step reached its entry.
type BoundaryKind uint8

const (
	BoundaryNone BoundaryKind = iota
	// BoundaryInsertionPoint: a distributed node continued at its slot.
	BoundaryInsertionPoint
	// BoundaryShadowHost: a shadow root continued at its host.
	BoundaryShadowHost
)

func (b BoundaryKind) String() string {
	switch b {
	case BoundaryInsertionPoint:
		return "insertion-point"
	case BoundaryShadowHost:
		return "shadow-host"
	default:
		return "none"
	}
}

type PathEntry struct {
	Target   EventTarget
	Boundary BoundaryKind
}

func (e PathEntry) CrossedBoundary() bool { return e.Boundary != BoundaryNone }

// Node returns the entry's target as a node, or nil for global targets.
func (e PathEntry) Node() *Node {
	n, _ := e.Target.(*Node)
	return n
}

// ComposedParent returns the next node on n's composed ancestor chain and the
// boundary crossed to reach it: the assigned slot of a distributed node, the
// host of a shadow root, otherwise the parent.
func ComposedParent(n *Node) (*Node, BoundaryKind) {
	if n == nil || n.released {
		return nil, BoundaryNone
	}
	if slot := n.AssignedSlot(); slot != nil {
		return slot, BoundaryInsertionPoint
	}
	if n.IsShadowRoot() {
		if h := n.Host(); h != nil {
			return h, BoundaryShadowHost
		}
		return nil, BoundaryNone
	}
	return n.ParentNode(), BoundaryNone
}

// BuildPath returns target's composed ancestors, nearest first, root last.
// The target itself is excluded. Detached nodes and non-node targets get an
// empty path. The result is not cached because the tree may change between
// dispatches.
func BuildPath(target EventTarget) []PathEntry {
	n, ok := target.(*Node)
	if !ok || n == nil {
		return nil
	}
	var path []PathEntry
	for p, b := ComposedParent(n); p != nil; p, b = ComposedParent(p) {
		path = append(path, PathEntry{Target: p, Boundary: b})
	}
	return path
}

// CommonAncestor returns the nearest inclusive ancestor shared by a and b in
// the composed tree, or nil when they live in unrelated trees.
func CommonAncestor(a, b *Node) *Node {
	if a == nil || b == nil {
		return nil
	}
	seen := make(map[*Node]struct{})
	for c := a; c != nil; c, _ = ComposedParent(c) {
		seen[c] = struct{}{}
	}
	for c := b; c != nil; c, _ = ComposedParent(c) {
		if _, ok := seen[c]; ok {
			return c
		}
	}
	return nil
}

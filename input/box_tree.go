package input

import (
	"github.com/heathj/domevents/dom"
)

// Rect is an axis-aligned rectangle in document coordinates. The right and
// bottom edges are exclusive.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X < r.X+r.Width &&
		pt.Y >= r.Y && pt.Y < r.Y+r.Height
}

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Box is one node's laid out rectangle. Children paint over their parent and
// later siblings paint over earlier ones.
type Box struct {
	node     *dom.Node
	rect     Rect
	parent   *Box
	children []*Box
}

func (b *Box) Node() *dom.Node  { return b.node }
func (b *Box) Rect() Rect       { return b.rect }
func (b *Box) Parent() *Box     { return b.parent }
func (b *Box) Children() []*Box { return b.children }

func (b *Box) deepestAt(pt Point) *Box {
	if b.rect.Empty() || !b.rect.Contains(pt) {
		return nil
	}
	for i := len(b.children) - 1; i >= 0; i-- {
		if hit := b.children[i].deepestAt(pt); hit != nil {
			return hit
		}
	}
	return b
}

// BoxTree is a minimal RenderTree built by hand rather than by layout.
type BoxTree struct {
	roots  []*Box
	byNode map[dom.NodeID]*Box
}

func NewBoxTree() *BoxTree {
	return &BoxTree{byNode: make(map[dom.NodeID]*Box)}
}

// Add creates the box of node inside parent, or a top-level box when parent
// is nil. A node has at most one box; adding it again replaces the rectangle.
func (t *BoxTree) Add(parent *Box, node *dom.Node, rect Rect) *Box {
	if b, ok := t.byNode[node.ID()]; ok {
		b.rect = rect
		return b
	}
	b := &Box{node: node, rect: rect, parent: parent}
	if parent == nil {
		t.roots = append(t.roots, b)
	} else {
		parent.children = append(parent.children, b)
	}
	t.byNode[node.ID()] = b
	return b
}

// BoxFor returns the box of node, or nil.
func (t *BoxTree) BoxFor(node *dom.Node) *Box {
	if node == nil {
		return nil
	}
	return t.byNode[node.ID()]
}

func (t *BoxTree) Len() int { return len(t.byNode) }

func (t *BoxTree) DeepestAt(pt Point) RenderObject {
	for i := len(t.roots) - 1; i >= 0; i-- {
		if hit := t.roots[i].deepestAt(pt); hit != nil {
			return hit
		}
	}
	return nil
}

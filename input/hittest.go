// Package input turns platform input records into DOM events: spatial input
// is hit tested against render geometry, keyboard input goes to the focused
// element.
package input

import (
	"github.com/heathj/domevents/dom"
)

type Point struct {
	X, Y float64
}

// RenderObject is a laid out box that belongs to a node.
type RenderObject interface {
	Node() *dom.Node
}

// RenderTree answers geometry queries for the hit tester.
type RenderTree interface {
	// DeepestAt returns the innermost, topmost object containing pt, or nil.
	DeepestAt(pt Point) RenderObject
}

// HitTester maps points to event targets. It never returns nil: when no box
// matches the document node is the target.
type HitTester struct {
	doc  *dom.Document
	tree RenderTree
}

func NewHitTester(doc *dom.Document, tree RenderTree) *HitTester {
	return &HitTester{doc: doc, tree: tree}
}

func (h *HitTester) HitTest(pt Point) *dom.Node {
	if h.tree == nil {
		return h.doc.Root()
	}
	obj := h.tree.DeepestAt(pt)
	if obj == nil {
		return h.doc.Root()
	}
	n := obj.Node()
	if n == nil || n.Released() || n.OwnerDocument() != h.doc {
		return h.doc.Root()
	}
	// Text runs are never targets.
	if n.IsText() {
		return h.textTarget(n)
	}
	return n
}

// textTarget returns the nearest element above text. A shadow root stands in
// for its host.
func (h *HitTester) textTarget(text *dom.Node) *dom.Node {
	for p := text.ParentNode(); p != nil; p = p.ParentNode() {
		switch {
		case p.IsElement():
			return p
		case p.IsShadowRoot():
			if host := p.Host(); host != nil {
				return host
			}
			return h.doc.Root()
		}
	}
	return h.doc.Root()
}

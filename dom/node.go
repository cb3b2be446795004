package dom

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	AttrNode
	TextNode
	CDATASectionNode
	ProcessingInstructionNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
	ShadowRootNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case AttrNode:
		return "attr"
	case TextNode:
		return "text"
	case CDATASectionNode:
		return "cdata"
	case ProcessingInstructionNode:
		return "processing-instruction"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	case DocumentTypeNode:
		return "doctype"
	case DocumentFragmentNode:
		return "document-fragment"
	case ShadowRootNode:
		return "shadow-root"
	default:
		return "unknown"
	}
}

// NodeID is the stable arena index of a node inside its Document. Zero means no node.
type NodeID uint32

type nodeFlags uint8

const (
	hasListenersFlag nodeFlags = 1 << iota
	isUserActionTargetFlag
	needsStyleRecalcFlag
)

// Node is an entry in a Document's arena. Tree links are NodeIDs resolved
// through the owning document, so a released node is never reachable.
// https://dom.spec.whatwg.org/#node
type Node struct {
	NodeType NodeType
	NodeName string
	Data     string

	id  NodeID
	doc *Document

	parent, firstChild, lastChild, previousSibling, nextSibling NodeID

	// shadow tree links: host is set on shadow roots, shadowRoot on hosts,
	// assignedSlot on light children distributed to an insertion point.
	host, shadowRoot, assignedSlot NodeID

	flags    nodeFlags
	released bool
	rare     *RareData
}

func (n *Node) ID() NodeID                 { return n.id }
func (n *Node) OwnerDocument() *Document   { return n.doc }
func (n *Node) Released() bool             { return n.released }
func (n *Node) ParentNode() *Node          { return n.doc.node(n.parent) }
func (n *Node) FirstChild() *Node          { return n.doc.node(n.firstChild) }
func (n *Node) LastChild() *Node           { return n.doc.node(n.lastChild) }
func (n *Node) PreviousSibling() *Node     { return n.doc.node(n.previousSibling) }
func (n *Node) NextSibling() *Node         { return n.doc.node(n.nextSibling) }
func (n *Node) HasChildNodes() bool        { return n.firstChild != 0 }
func (n *Node) IsElement() bool            { return n.NodeType == ElementNode }
func (n *Node) IsText() bool               { return n.NodeType == TextNode || n.NodeType == CDATASectionNode }
func (n *Node) IsShadowRoot() bool         { return n.NodeType == ShadowRootNode }
func (n *Node) HasListeners() bool         { return n.flags&hasListenersFlag != 0 }
func (n *Node) IsUserActionTarget() bool   { return n.flags&isUserActionTargetFlag != 0 }
func (n *Node) NeedsStyleRecalc() bool     { return n.flags&needsStyleRecalcFlag != 0 }
func (n *Node) SetUserActionTarget(v bool) { n.setFlag(isUserActionTargetFlag, v) }
func (n *Node) SetNeedsStyleRecalc(v bool) { n.setFlag(needsStyleRecalcFlag, v) }

func (n *Node) setFlag(f nodeFlags, v bool) {
	if v {
		n.flags |= f
	} else {
		n.flags &^= f
	}
}

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Node {
	p := n.ParentNode()
	if p == nil || !p.IsElement() {
		return nil
	}
	return p
}

func (n *Node) ChildNodes() NodeList {
	var children NodeList
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}
	return children
}

// GetRootNode returns the root of n's tree. With composed set, shadow roots
// are crossed through their hosts.
// https://dom.spec.whatwg.org/#dom-node-getrootnode
func (n *Node) GetRootNode(composed bool) *Node {
	root := n
	for {
		if p := root.ParentNode(); p != nil {
			root = p
			continue
		}
		if composed && root.IsShadowRoot() {
			if h := root.Host(); h != nil {
				root = h
				continue
			}
		}
		return root
	}
}

// IsConnected reports whether the composed root of n is its document node.
func (n *Node) IsConnected() bool {
	if n.released {
		return false
	}
	return n.GetRootNode(true).NodeType == DocumentNode
}

// TreeScope returns the shadow root n lives in, or the document node.
func (n *Node) TreeScope() *Node {
	root := n.GetRootNode(false)
	if root.IsShadowRoot() {
		return root
	}
	return n.doc.Root()
}

// Contains reports whether other is an inclusive descendant of n.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.ParentNode() {
		if c == n {
			return true
		}
	}
	return false
}

// composedContains is Contains across shadow and slot boundaries.
func (n *Node) composedContains(other *Node) bool {
	for c := other; c != nil; c, _ = ComposedParent(c) {
		if c == n {
			return true
		}
	}
	return false
}

func (n *Node) canAdopt(on *Node) bool {
	if on == nil || on.released || n.released || on.doc != n.doc {
		return false
	}
	switch on.NodeType {
	case DocumentNode, ShadowRootNode:
		return false
	}
	switch n.NodeType {
	case TextNode, CommentNode, CDATASectionNode, ProcessingInstructionNode:
		return false
	}
	return !on.composedContains(n)
}

// AppendChild inserts on as the last child of n, detaching it from any previous
// parent first. It returns nil if the insertion would create a cycle or cross documents.
// https://dom.spec.whatwg.org/#concept-node-append
func (n *Node) AppendChild(on *Node) *Node {
	return n.InsertBefore(on, nil)
}

// InsertBefore inserts on before child, or at the end when child is nil.
// https://dom.spec.whatwg.org/#concept-node-insert
func (n *Node) InsertBefore(on, child *Node) *Node {
	if !n.canAdopt(on) || (child != nil && child.parent != n.id) {
		n.doc.log.WithFields(logrus.Fields{
			"method": "InsertBefore",
			"parent": n.String(),
		}).Warn("rejected hierarchy request")
		return nil
	}
	if on == child {
		return on
	}
	if p := on.ParentNode(); p != nil {
		p.RemoveChild(on)
	}

	on.parent = n.id
	if child == nil {
		on.previousSibling = n.lastChild
		on.nextSibling = 0
		if last := n.LastChild(); last != nil {
			last.nextSibling = on.id
		} else {
			n.firstChild = on.id
		}
		n.lastChild = on.id
		return on
	}

	on.nextSibling = child.id
	on.previousSibling = child.previousSibling
	if prev := child.PreviousSibling(); prev != nil {
		prev.nextSibling = on.id
	} else {
		n.firstChild = on.id
	}
	child.previousSibling = on.id
	return on
}

// RemoveChild unlinks child from n. The node stays alive in the arena until
// the document releases it.
// https://dom.spec.whatwg.org/#concept-node-remove
func (n *Node) RemoveChild(child *Node) *Node {
	if child == nil || child.parent != n.id {
		return nil
	}
	if prev := child.PreviousSibling(); prev != nil {
		prev.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if next := child.NextSibling(); next != nil {
		next.previousSibling = child.previousSibling
	} else {
		n.lastChild = child.previousSibling
	}
	child.parent, child.previousSibling, child.nextSibling = 0, 0, 0
	child.assignedSlot = 0
	return child
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if p := n.ParentNode(); p != nil {
		p.RemoveChild(n)
	}
}

func serializeNodeType(node *Node) string {
	switch node.NodeType {
	case ElementNode:
		return "<" + node.NodeName + ">"
	case TextNode, CDATASectionNode:
		return "\"" + node.Data + "\""
	case CommentNode:
		return "<!-- " + node.Data + " -->"
	case DocumentNode:
		return "#document"
	case DocumentFragmentNode:
		return "#document-fragment"
	case ShadowRootNode:
		return "#shadow-root"
	default:
		return fmt.Sprintf("#%s", node.NodeType)
	}
}

func (n *Node) serialize(b *strings.Builder, ident int) {
	if ident > 0 {
		b.WriteString("| ")
		b.WriteString(strings.Repeat("  ", ident-1))
	}
	b.WriteString(serializeNodeType(n))
	b.WriteByte('\n')
	if sr := n.ShadowRoot(); sr != nil {
		sr.serialize(b, ident+1)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		c.serialize(b, ident+1)
	}
}

// Tree renders n and its descendants, shadow roots included, one node per line.
func (n *Node) Tree() string {
	var b strings.Builder
	n.serialize(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", serializeNodeType(n), n.id)
}

package dom

import (
	"time"

	"github.com/heathj/domevents/loop"
	"github.com/sirupsen/logrus"
)

// Document owns the node arena, the dispatcher, and the deferred event queue
// whose owner is the document node.
// https://dom.spec.whatwg.org/#interface-document
type Document struct {
	// nodes[0] is always nil so that NodeID 0 means "no node". Slots are
	// never reused; a released NodeID keeps resolving to nil.
	nodes []*Node
	live  int

	root       *Node
	dispatcher *Dispatcher
	queue      *EventQueue
	scheduler  Scheduler
	log        logrus.FieldLogger

	strict     bool
	queueDelay time.Duration
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithScheduler sets the scheduler used for deferred event delivery.
func WithScheduler(s Scheduler) DocumentOption {
	return func(d *Document) {
		d.scheduler = s
	}
}

// WithLogger sets the logger shared by the document's dispatcher and queue.
func WithLogger(l logrus.FieldLogger) DocumentOption {
	return func(d *Document) {
		d.log = l
	}
}

// WithStrict turns protocol violations into panics instead of logged no-ops.
func WithStrict(strict bool) DocumentOption {
	return func(d *Document) {
		d.strict = strict
	}
}

// WithQueueDelay sets the delay of the deferred queue timer. Zero by default.
func WithQueueDelay(delay time.Duration) DocumentOption {
	return func(d *Document) {
		d.queueDelay = delay
	}
}

func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		nodes: []*Node{nil},
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.scheduler == nil {
		d.scheduler = loop.New()
	}

	d.root = d.newNode(DocumentNode, "#document")
	d.dispatcher = NewDispatcher(d.log, d.strict)
	d.queue = NewEventQueue(d.root, d.dispatcher, d.scheduler, d.queueDelay)
	d.dispatcher.queue = d.queue
	return d
}

func (d *Document) newNode(t NodeType, name string) *Node {
	n := &Node{
		NodeType: t,
		NodeName: name,
		id:       NodeID(len(d.nodes)),
		doc:      d,
	}
	d.nodes = append(d.nodes, n)
	d.live++
	return n
}

func (d *Document) node(id NodeID) *Node {
	if d == nil || id == 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Node resolves id, returning nil for unknown or released nodes.
func (d *Document) Node(id NodeID) *Node { return d.node(id) }

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

func (d *Document) Dispatcher() *Dispatcher { return d.dispatcher }
func (d *Document) Queue() *EventQueue      { return d.queue }
func (d *Document) Scheduler() Scheduler    { return d.scheduler }
func (d *Document) Logger() logrus.FieldLogger {
	return d.log
}

// Len returns the number of live nodes, the document node included.
func (d *Document) Len() int { return d.live }

// DocumentElement returns the first element child of the document node.
func (d *Document) DocumentElement() *Node {
	for c := d.root.FirstChild(); c != nil; c = c.NextSibling() {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

func (d *Document) CreateElement(localName string) *Node {
	return d.newNode(ElementNode, localName)
}

func (d *Document) CreateTextNode(data string) *Node {
	n := d.newNode(TextNode, "#text")
	n.Data = data
	return n
}

func (d *Document) CreateComment(data string) *Node {
	n := d.newNode(CommentNode, "#comment")
	n.Data = data
	return n
}

func (d *Document) CreateDocumentFragment() *Node {
	return d.newNode(DocumentFragmentNode, "#document-fragment")
}

// Release detaches n and frees it together with its subtree and shadow tree.
// Listener storage and other rare data go with it. The document node itself
// cannot be released.
func (d *Document) Release(n *Node) {
	if n == nil || n.released || n.doc != d || n == d.root {
		return
	}
	n.Remove()
	if h := n.Host(); h != nil && h.shadowRoot == n.id {
		h.shadowRoot = 0
	}
	d.release(n)
}

func (d *Document) release(n *Node) {
	if sr := n.ShadowRoot(); sr != nil {
		d.release(sr)
	}
	for c := n.FirstChild(); c != nil; {
		next := c.NextSibling()
		d.release(c)
		c = next
	}
	d.log.WithFields(logrus.Fields{
		"method": "Release",
		"node":   n.String(),
	}).Trace("released node")
	if n.rare != nil {
		n.rare.clear()
		n.rare = nil
	}
	n.parent, n.firstChild, n.lastChild, n.previousSibling, n.nextSibling = 0, 0, 0, 0, 0
	n.host, n.shadowRoot, n.assignedSlot = 0, 0, 0
	n.flags = 0
	n.released = true
	d.nodes[n.id] = nil
	d.live--
}

package dom

// https://dom.spec.whatwg.org/#nodelist
type NodeList []*Node

func (h NodeList) Contains(n *Node) int {
	for i := range h {
		if n == h[i] {
			return i
		}
	}
	return -1
}

func (h NodeList) Item(i int) *Node {
	if i < 0 || i >= len(h) {
		return nil
	}
	return h[i]
}

func (h NodeList) Names() []string {
	names := make([]string, len(h))
	for i, n := range h {
		names[i] = n.NodeName
	}
	return names
}

package tree

// Walk calls fn for n and every descendant in pre-order. If fn returns false
// the node's children are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Find returns the node under n with the given ID, or nil.
func Find(n *Node, id string) *Node {
	var found *Node
	Walk(n, func(m *Node) bool {
		if found != nil {
			return false
		}
		if m.id == id {
			found = m
			return false
		}
		return true
	})
	return found
}

// Root returns the topmost ancestor of n.
func Root(n *Node) *Node {
	for n != nil && n.parent != nil {
		n = n.parent
	}
	return n
}

// Depth returns the number of edges between n and its root.
func Depth(n *Node) int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Leaves returns the leaves under n in layout order.
func Leaves(n *Node) []*Node {
	var out []*Node
	Walk(n, func(m *Node) bool {
		if m.IsLeaf() {
			out = append(out, m)
		}
		return true
	})
	return out
}

// Count returns the number of nodes under n, n included.
func Count(n *Node) int {
	c := 0
	Walk(n, func(*Node) bool { c++; return true })
	return c
}

// IsDisplayed reports whether n is drawn as a rectangle: every ancestor is
// expanded and n itself is not.
func IsDisplayed(n *Node) bool {
	if n == nil || n.IsEmpty() || n.expanded {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if !p.expanded {
			return false
		}
	}
	return true
}

// ExpandToDepth expands every internal node under n whose depth relative to n
// is less than depth, through [Expand], and collapses the rest. Depth 0
// collapses n's subtree.
func ExpandToDepth(n *Node, depth int) {
	if n == nil {
		return
	}
	if depth <= 0 || n.IsLeaf() {
		collapseSubtree(n)
		return
	}
	Expand(n)
	for _, c := range n.children {
		ExpandToDepth(c, depth-1)
	}
}

package tree

// Expand displays n's children in place of n. It also expands n's parent, and
// any collapsed ancestors above it, so n stays reachable from the root.
// Returns false without changes if n is a leaf.
func Expand(n *Node) bool {
	if n == nil || n.IsLeaf() {
		return false
	}
	n.expanded = true
	for p := n.parent; p != nil && !p.expanded; p = p.parent {
		p.expanded = true
	}
	return true
}

// ExpandAll expands n and every internal node below it.
// Returns false without changes if n is a leaf.
func ExpandAll(n *Node) bool {
	if !Expand(n) {
		return false
	}
	for _, c := range n.children {
		ExpandAll(c)
	}
	return true
}

// Collapse closes n's parent so that the parent is displayed as a single
// rectangle, and collapses every sibling subtree, n's own included.
// Returns false without changes if n is a root.
func Collapse(n *Node) bool {
	if n == nil || n.parent == nil {
		return false
	}
	p := n.parent
	p.expanded = false
	for _, c := range p.children {
		collapseSubtree(c)
	}
	return true
}

// CollapseAll collapses every ancestor level of n up to the root, and every
// sibling subtree at each level. Returns false without changes if n is a root.
func CollapseAll(n *Node) bool {
	if n == nil || n.parent == nil {
		return false
	}
	p := n.parent
	p.expanded = false
	CollapseAll(p)
	for _, c := range p.children {
		collapseSubtree(c)
	}
	return true
}

func collapseSubtree(n *Node) {
	n.expanded = false
	for _, c := range n.children {
		collapseSubtree(c)
	}
}

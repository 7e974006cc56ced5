package tree

import (
	"math"
	"slices"
)

// Move re-parents leaf as the last child of destination.
//
// Move applies only when leaf has no children, has a parent, and destination
// has at least one child; otherwise it does nothing and returns false. The
// leaf's weight is subtracted from every ancestor on the old side and added to
// every ancestor on the new side, so a common ancestor's weight is unchanged.
// A former parent left without children is collapsed, since leaves are never
// expanded.
func Move(leaf, destination *Node) bool {
	if leaf == nil || destination == nil {
		return false
	}
	if !leaf.IsLeaf() || leaf.parent == nil || destination.IsLeaf() {
		return false
	}

	old := leaf.parent
	i := slices.Index(old.children, leaf)
	if i < 0 {
		return false
	}
	old.children = slices.Delete(old.children, i, i+1)
	for p := old; p != nil; p = p.parent {
		p.weight -= leaf.weight
	}
	if old.IsLeaf() {
		old.expanded = false
	}

	destination.children = append(destination.children, leaf)
	leaf.parent = destination
	for p := destination; p != nil; p = p.parent {
		p.weight += leaf.weight
	}
	return true
}

// ChangeSize grows (factor >= 0) or shrinks (factor < 0) a leaf's weight by
// ceil(|factor| * weight). A shrink never takes the weight below 1; a zero
// weight never grows. Ancestors are not updated; call [UpdateDataSizes].
//
// ChangeSize returns false and does nothing for internal nodes, the empty
// tree, and non-finite factors.
func ChangeSize(leaf *Node, factor float64) bool {
	if leaf == nil || !leaf.IsLeaf() || leaf.IsEmpty() {
		return false
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}

	delta := int64(math.Ceil(math.Abs(factor) * float64(leaf.weight)))
	if factor < 0 {
		leaf.weight = max(leaf.weight-delta, 1)
		return true
	}
	if w := leaf.weight + delta; w >= 1 {
		leaf.weight = w
	}
	return true
}

package tree

// UpdateDataSizes recomputes the weight of every internal node under n from
// the leaves upward and returns n's new weight. A leaf's weight is returned
// unchanged.
//
// Call it after [ChangeSize], which does not propagate to ancestors.
func UpdateDataSizes(n *Node) int64 {
	if n.IsLeaf() {
		return n.weight
	}
	var sum int64
	for _, c := range n.children {
		sum += UpdateDataSizes(c)
	}
	n.weight = sum
	return sum
}

package treemap

import "github.com/guptarut/treemap/pkg/tree"

// Locate returns the displayed node under n whose rectangle contains p, or nil
// if p is outside n or n is empty or has zero weight.
//
// Edges are inclusive. When p lies on an edge shared by several children the
// child whose top-left corner is closest to the origin wins, with earlier
// children winning ties. Zero-weight children are never candidates. If an
// expanded node contains p but none of its children do, Locate returns the
// node itself.
func Locate(n *tree.Node, p tree.Point) *tree.Node {
	if n == nil || n.IsEmpty() || n.Weight() == 0 {
		return nil
	}
	if !n.Expanded() {
		if n.Rect.Contains(p) {
			return n
		}
		return nil
	}

	var best *tree.Node
	for _, c := range n.Children() {
		if c.Weight() == 0 || !c.Rect.Contains(p) {
			continue
		}
		if best == nil || c.Rect.CloserToOrigin(best.Rect) {
			best = c
		}
	}
	if best == nil {
		return n
	}
	return Locate(best, p)
}

package treemap

import "github.com/guptarut/treemap/pkg/tree"

// Tile is one displayed rectangle.
type Tile struct {
	Rect tree.Rect
	Node *tree.Node
}

// Rectangles returns the rectangle of every displayed node under root in
// layout order. A displayed node is one whose ancestors are all expanded and
// which is not expanded itself. Zero-weight subtrees are omitted.
//
// The rectangles are those of the most recent [Layout].
func Rectangles(root *tree.Node) []Tile {
	var tiles []Tile
	collect(root, &tiles)
	return tiles
}

func collect(n *tree.Node, tiles *[]Tile) {
	if n == nil || n.Weight() == 0 {
		return
	}
	if !n.Expanded() {
		*tiles = append(*tiles, Tile{Rect: n.Rect, Node: n})
		return
	}
	for _, c := range n.Children() {
		collect(c, tiles)
	}
}

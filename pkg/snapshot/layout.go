package snapshot

import (
	"github.com/guptarut/treemap/pkg/tree"
	"github.com/guptarut/treemap/pkg/treemap"
)

// =============================================================================
// Layout - Displayed Tiles
// =============================================================================

// Layout is the flattened result of one layout pass: every displayed node
// with its rectangle, in layout order.
type Layout struct {
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`
	Total  int64  `json:"total" bson:"total"`
	Tiles  []Tile `json:"tiles" bson:"tiles"`
}

// Tile is a displayed rectangle.
type Tile struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Path   string `json:"path" bson:"path"`
	Size   int64  `json:"size" bson:"size"`
	Colour string `json:"colour" bson:"colour"`
	Leaf   bool   `json:"leaf" bson:"leaf"`
	Depth  int    `json:"depth" bson:"depth"`
	X      int    `json:"x" bson:"x"`
	Y      int    `json:"y" bson:"y"`
	W      int    `json:"w" bson:"w"`
	H      int    `json:"h" bson:"h"`
}

// Rect returns the tile's rectangle.
func (t Tile) Rect() tree.Rect { return tree.Rect{X: t.X, Y: t.Y, W: t.W, H: t.H} }

// Contains reports whether p lies on or inside the tile.
func (t Tile) Contains(p tree.Point) bool { return t.Rect().Contains(p) }

// FromTiles flattens the result of [treemap.Rectangles].
func FromTiles(root *tree.Node, width, height int) Layout {
	tiles := treemap.Rectangles(root)
	out := Layout{Width: width, Height: height, Tiles: make([]Tile, 0, len(tiles))}
	if root != nil {
		out.Total = root.Weight()
	}
	for _, t := range tiles {
		out.Tiles = append(out.Tiles, NewTile(t.Node))
	}
	return out
}

// NewTile describes n with its current rectangle.
func NewTile(n *tree.Node) Tile {
	return Tile{
		ID:     n.ID(),
		Name:   n.Name(),
		Path:   tree.PathString(n, true),
		Size:   n.Weight(),
		Colour: tree.FormatColour(n.Colour()),
		Leaf:   n.IsLeaf(),
		Depth:  tree.Depth(n),
		X:      n.Rect.X,
		Y:      n.Rect.Y,
		W:      n.Rect.W,
		H:      n.Rect.H,
	}
}

// Compute lays root out in a width x height frame and flattens the result.
func Compute(root *tree.Node, width, height int) Layout {
	treemap.Layout(root, tree.Rect{W: width, H: height})
	return FromTiles(root, width, height)
}

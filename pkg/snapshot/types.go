package snapshot

import (
	"fmt"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/tree"
)

// Version is written into every serialized tree.
const Version = 1

// =============================================================================
// Tree - Hierarchy Serialization
// =============================================================================

// Tree is the canonical serialization format for a weighted tree.
type Tree struct {
	Version int  `json:"version" bson:"version"`
	Root    Node `json:"root" bson:"root"`
}

// Node is one serialized tree node.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Kind     string `json:"kind,omitempty" bson:"kind,omitempty"` // "generic" or "filesystem"
	Size     int64  `json:"size" bson:"size"`
	Expanded bool   `json:"expanded,omitempty" bson:"expanded,omitempty"`
	Colour   string `json:"colour,omitempty" bson:"colour,omitempty"` // "#rrggbb"
	Rect     *Rect  `json:"rect,omitempty" bson:"rect,omitempty"`
	Children []Node `json:"children,omitempty" bson:"children,omitempty"`
}

// Rect mirrors [tree.Rect].
type Rect struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
	W int `json:"w" bson:"w"`
	H int `json:"h" bson:"h"`
}

func rectOf(r tree.Rect) *Rect {
	if r == (tree.Rect{}) {
		return nil
	}
	return &Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func (r *Rect) toTree() tree.Rect {
	if r == nil {
		return tree.Rect{}
	}
	return tree.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// Count returns the number of nodes in the serialized tree.
func (t Tree) Count() int { return t.Root.count() }

func (n Node) count() int {
	c := 1
	for _, ch := range n.Children {
		c += ch.count()
	}
	return c
}

// =============================================================================
// tree.Node <-> Tree Conversion
// =============================================================================

// FromTree converts root and everything below it to its serialization format.
func FromTree(root *tree.Node) Tree {
	return Tree{Version: Version, Root: fromNode(root)}
}

func fromNode(n *tree.Node) Node {
	out := Node{
		ID:       n.ID(),
		Name:     n.Name(),
		Kind:     tree.KindName(n.Kind()),
		Size:     n.Weight(),
		Expanded: n.Expanded(),
		Colour:   tree.FormatColour(n.Colour()),
		Rect:     rectOf(n.Rect),
	}
	if len(n.Children()) > 0 {
		out.Children = make([]Node, len(n.Children()))
		for i, c := range n.Children() {
			out.Children[i] = fromNode(c)
		}
	}
	return out
}

// ToTree rebuilds a tree from its serialized form. Internal node sizes are
// recomputed from the leaves; expansion flags are re-applied top-down.
func ToTree(t Tree) (*tree.Node, error) {
	if t.Version > Version {
		return nil, errors.New(errors.ErrCodeUnsupported, "snapshot version %d is newer than supported version %d", t.Version, Version)
	}
	root, err := toNode(t.Root, "root")
	if err != nil {
		return nil, err
	}
	restoreState(root, t.Root)
	return root, nil
}

func toNode(n Node, at string) (*tree.Node, error) {
	if n.Name == "" && n.Size == 0 && len(n.Children) == 0 {
		return tree.NewEmpty(), nil
	}

	opts := []tree.Option{tree.WithKind(tree.KindByName(n.Kind))}
	if n.ID != "" {
		opts = append(opts, tree.WithID(n.ID))
	}
	if n.Colour != "" {
		c, err := tree.ParseColour(n.Colour)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", at)
		}
		opts = append(opts, tree.WithColour(c))
	}

	children := make([]*tree.Node, 0, len(n.Children))
	for i, c := range n.Children {
		child, err := toNode(c, fmt.Sprintf("%s/%d", at, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	out, err := tree.New(n.Name, children, n.Size, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", at)
	}
	return out, nil
}

// restoreState re-applies rectangles and expansion. tree.Expand also opens
// ancestors, so a snapshot with a gap in its expanded chain loads closed-up.
func restoreState(n *tree.Node, s Node) {
	n.Rect = s.Rect.toTree()
	if s.Expanded {
		tree.Expand(n)
	}
	for i, c := range n.Children() {
		restoreState(c, s.Children[i])
	}
}

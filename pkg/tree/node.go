package tree

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/guptarut/treemap/pkg/errors"
)

// Node is one item of a weighted tree.
//
// The zero value is not usable; build nodes with [New] or [NewEmpty].
type Node struct {
	// Rect is the rectangle assigned by the most recent layout. It is written
	// only by the layout engine (pkg/treemap) and is stale for nodes inside a
	// zero-weight subtree.
	Rect Rect

	id       string
	name     string
	weight   int64
	children []*Node
	parent   *Node
	expanded bool
	colour   color.RGBA
	kind     Kind
}

type options struct {
	id      string
	colour  *color.RGBA
	colours ColourSource
	kind    Kind
}

// Option configures a node at construction.
type Option func(*options)

// WithColours draws the node colour from src instead of the global generator.
func WithColours(src ColourSource) Option { return func(o *options) { o.colours = src } }

// WithColour fixes the node colour.
func WithColour(c color.RGBA) Option { return func(o *options) { o.colour = &c } }

// WithKind sets the path-formatting kind. The default is [Generic].
func WithKind(k Kind) Option { return func(o *options) { o.kind = k } }

// WithID sets the node identifier instead of generating a random UUID.
// Used when restoring snapshots so identifiers survive a round trip.
func WithID(id string) Option { return func(o *options) { o.id = id } }

// New builds a node named name that owns children.
//
// If children is empty, weight becomes the node's weight. Otherwise weight is
// ignored and the node's weight is the sum of its children's weights. Every
// child's parent is set to the new node and every child subtree starts
// collapsed.
//
// New returns an INVALID_ARGUMENT error when:
//   - name is empty but children or weight are not (only the empty-tree sentinel may be unnamed)
//   - a leaf weight is negative
//   - a child is nil, is the empty sentinel, already has a parent, or appears twice
func New(name string, children []*Node, weight int64, opts ...Option) (*Node, error) {
	if name == "" && (len(children) > 0 || weight != 0) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"unnamed node must have no children and zero weight (got %d children, weight %d)", len(children), weight)
	}
	if len(children) == 0 && weight < 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "node %q: negative weight %d", name, weight)
	}

	seen := make(map[*Node]struct{}, len(children))
	for i, c := range children {
		switch {
		case c == nil:
			return nil, errors.New(errors.ErrCodeInvalidArgument, "node %q: child %d is nil", name, i)
		case c.IsEmpty():
			return nil, errors.New(errors.ErrCodeInvalidArgument, "node %q: child %d is an empty tree", name, i)
		case c.parent != nil:
			return nil, errors.New(errors.ErrCodeInvalidArgument, "node %q: child %q already has a parent", name, c.name)
		}
		if _, dup := seen[c]; dup {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "node %q: child %q listed twice", name, c.name)
		}
		seen[c] = struct{}{}
	}

	o := options{colours: defaultColours, kind: Generic{}}
	for _, opt := range opts {
		opt(&o)
	}

	n := &Node{
		id:       o.id,
		name:     name,
		children: append([]*Node(nil), children...),
		kind:     o.kind,
	}
	if n.id == "" {
		n.id = uuid.NewString()
	}
	if o.colour != nil {
		n.colour = *o.colour
	} else {
		n.colour = o.colours()
	}

	if len(n.children) == 0 {
		n.weight = weight
	}
	for _, c := range n.children {
		collapseSubtree(c)
		c.parent = n
		n.weight += c.weight
	}
	return n, nil
}

// NewEmpty returns the empty-tree sentinel: no name, no children, no parent,
// zero weight.
func NewEmpty() *Node {
	return &Node{id: uuid.NewString(), kind: Generic{}}
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return n.id }

// Name returns the node's name, or "" for the empty tree.
func (n *Node) Name() string { return n.name }

// Weight returns the node's data size.
func (n *Node) Weight() int64 { return n.weight }

// Children returns the node's children in layout order.
// The returned slice is owned by the node and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Expanded reports whether the node's children are displayed in its place.
func (n *Node) Expanded() bool { return n.expanded }

// Colour returns the render colour assigned at construction.
func (n *Node) Colour() color.RGBA { return n.colour }

// Kind returns the path-formatting kind.
func (n *Node) Kind() Kind { return n.kind }

// IsEmpty reports whether n is the empty-tree sentinel.
func (n *Node) IsEmpty() bool { return n.name == "" }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// String returns the node's name.
func (n *Node) String() string { return n.name }

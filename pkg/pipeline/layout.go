package pipeline

import (
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// =============================================================================
// Visibility Policy
// =============================================================================

// ApplyVisibility sets the expansion state of the tree under root according
// to policy: ExpandNone collapses everything, ExpandAll expands every internal
// node, ExpandDepth expands internal nodes shallower than depth.
// Unknown policies leave the tree unchanged.
func ApplyVisibility(root *tree.Node, policy string, depth int) {
	switch policy {
	case ExpandNone:
		tree.ExpandToDepth(root, 0)
	case ExpandAll:
		tree.ExpandAll(root)
	case ExpandDepth:
		tree.ExpandToDepth(root, depth)
	}
}

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout applies the visibility policy from opts, lays root out in
// a Width x Height frame and returns the displayed tiles. Every node's Rect
// is updated as a side effect.
func GenerateLayout(root *tree.Node, opts Options) snapshot.Layout {
	ApplyVisibility(root, opts.Expand, opts.Depth)
	return snapshot.Compute(root, opts.Width, opts.Height)
}

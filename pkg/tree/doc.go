// Package tree provides the weighted tree that backs a treemap.
//
// # Overview
//
// A [Node] represents one item of a hierarchical dataset (a folder or file, or
// any weighted grouping). Leaves carry a weight set directly; internal nodes
// carry the sum of their children's weights. Every node owns its children
// exclusively and keeps a non-owning pointer back to its parent.
//
// # Construction
//
// Trees are built bottom-up with [New]:
//
//	a, _ := tree.New("a.txt", nil, 30)
//	b, _ := tree.New("b.txt", nil, 70)
//	root, _ := tree.New("docs", []*tree.Node{a, b}, 0) // weight = 100
//
// A node with an empty name is the empty-tree sentinel ([NewEmpty]). Passing an
// empty name together with children or a weight is a programming error and is
// rejected with an INVALID_ARGUMENT error from pkg/errors.
//
// # Mutation
//
//   - [Move] re-parents a leaf under another internal node
//   - [ChangeSize] grows or shrinks a leaf's weight by a factor
//   - [UpdateDataSizes] recomputes internal weights from the leaves
//
// Mutations that receive structurally invalid arguments do nothing and report
// false; they never return errors.
//
// # Visibility
//
// "Expanded" marks a node whose children are drawn in place of the node itself.
// [Expand], [ExpandAll], [Collapse] and [CollapseAll] keep the expansion flags
// closed downward: an expanded node always has an expanded parent, and a
// collapsed node never has expanded descendants. A leaf is never expanded.
//
// # Concurrency
//
// A tree is not safe for concurrent use. Callers serialize mutations and
// layouts against each other; read-only traversals are safe only while no
// mutation is in flight.
package tree

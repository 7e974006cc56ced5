// Package treemap computes slice-and-dice treemap layouts for [tree.Node]
// hierarchies and answers hit-test queries against them.
//
// # Layout
//
// [Layout] assigns every node under the root a rectangle. Each rectangle is
// split among its children along its longer axis: a rectangle wider than it
// is tall is cut into vertical strips, anything else into horizontal strips.
// Every child but the last receives floor(weight/total * extent); the last
// non-zero child receives whatever remains, so the strips always tile the
// parent exactly. Zero-weight children get zero-extent strips and subtrees of
// zero weight are not laid out at all.
//
//	root := ... // *tree.Node
//	treemap.Layout(root, tree.Rect{W: 1024, H: 768})
//	for _, t := range treemap.Rectangles(root) {
//	    draw(t.Rect, t.Node.Colour())
//	}
//
// # Hit testing
//
// [Locate] descends the expanded part of the tree and returns the displayed
// node whose rectangle contains a point. Rectangle edges are inclusive, so a
// point on a shared edge is claimed by the rectangle whose top-left corner is
// closest to the origin.
//
// # Concurrency
//
// Layout writes [tree.Node.Rect] in place. Callers must not run Layout
// concurrently with [Rectangles], [Locate], or any tree mutation.
package treemap

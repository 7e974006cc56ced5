// Package snapshot provides serialization types for trees and layouts.
//
// This package defines the wire format for treemap data, used for JSON
// files, API responses, caching, and the snapshot stores.
//
// # Core Types
//
//   - [Tree]: a full tree with weights, expansion state, colours and the
//     rectangles of the last layout
//   - [Layout]: the displayed tiles of one layout pass, flattened
//   - [Node], [Tile], [Rect]: shared structural types
//
// # Round Trips
//
// [FromTree] and [ToTree] convert between [tree.Node] and [Tree]. The
// conversion preserves node IDs, colours, kinds and expansion state, so
// export then import yields a tree that lays out and hit-tests identically:
//
//	data, _ := snapshot.MarshalTree(root)
//	restored, _ := snapshot.UnmarshalTree(data)
//
// Internal node sizes are informational; [ToTree] recomputes them from the
// leaves.
package snapshot

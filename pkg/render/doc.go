// Package render turns treemap layouts into images.
//
// # Treemap SVG
//
// [RenderSVG] draws one filled rectangle per displayed tile of a
// [snapshot.Layout], in layout order, with optional name labels on tiles
// large enough to hold them:
//
//	l := snapshot.Compute(root, 1200, 800)
//	svg := render.RenderSVG(l, render.WithLabels())
//
// # Hierarchy Diagrams
//
// [ToDOT] writes the expanded part of a tree (or all of it) as a Graphviz
// digraph, and [RenderDOT] lays it out to SVG with the embedded Graphviz
// engine from github.com/goccy/go-graphviz. No system Graphviz install is
// needed.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// from librsvg:
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render

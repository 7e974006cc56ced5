package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/guptarut/treemap/pkg/tree"
)

// DOTOptions configures hierarchy diagram output.
type DOTOptions struct {
	// All includes every node. By default only the children of expanded
	// nodes are drawn, matching what the treemap currently displays.
	All bool

	// MaxNodes stops emitting nodes once the limit is reached. Zero means no limit.
	MaxNodes int
}

// ToDOT converts the tree under root to Graphviz DOT format. Each node is a
// box filled with its colour and labelled with its name and size; edges run
// from parent to child in layout order.
func ToDOT(root *tree.Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, fontname=\"sans-serif\"];\n")
	buf.WriteString("\n")

	if root != nil && !root.IsEmpty() {
		count := 0
		writeDOTNode(&buf, root, opts, &count)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *tree.Node, opts DOTOptions, count *int) bool {
	if opts.MaxNodes > 0 && *count >= opts.MaxNodes {
		return false
	}
	*count++

	fill := tree.FormatColour(n.Colour())
	label := fmt.Sprintf("%s\n%s", n.Name(), FormatSize(n.Weight()))
	attrs := fmt.Sprintf("label=%q, fillcolor=%q, fontcolor=%q", label, fill, TextColour(fill))
	if !n.IsLeaf() && !n.Expanded() {
		attrs += ", peripheries=2"
	}
	fmt.Fprintf(buf, "  %q [%s];\n", n.ID(), attrs)

	if !opts.All && !n.Expanded() {
		return true
	}
	for _, c := range n.Children() {
		if !writeDOTNode(buf, c, opts, count) {
			return false
		}
		fmt.Fprintf(buf, "  %q -> %q;\n", n.ID(), c.ID())
	}
	return true
}

// RenderDOT lays out a DOT graph and returns SVG.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the diagram scales like the treemap SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

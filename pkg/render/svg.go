package render

import (
	"bytes"
	"fmt"
	"html"
	"image/color"

	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// Label thresholds in user units.
const (
	minLabelWidth  = 40
	minLabelHeight = 14
	labelFontSize  = 11
	charWidth      = 6.5
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	stroke string
	title  string
}

// WithLabels writes the tile name (and size if it fits) on large tiles.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithStroke sets the tile border colour. An empty string disables borders.
func WithStroke(c string) SVGOption { return func(r *svgRenderer) { r.stroke = c } }

// WithTitle adds a <title> element, shown by most viewers as a tooltip.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{stroke: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws every tile of l. Zero-area tiles are skipped.
func RenderSVG(l snapshot.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}

	stroke := ""
	if r.stroke != "" {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="1"`, html.EscapeString(r.stroke))
	}
	for _, t := range l.Tiles {
		if t.W <= 0 || t.H <= 0 {
			continue
		}
		fmt.Fprintf(&buf, `  <g id="tile-%s">`+"\n", html.EscapeString(t.ID))
		fmt.Fprintf(&buf, "    <title>%s (%s)</title>\n", html.EscapeString(t.Path), FormatSize(t.Size))
		fmt.Fprintf(&buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="%s"%s/>`+"\n",
			t.X, t.Y, t.W, t.H, html.EscapeString(t.Colour), stroke)
		if r.labels {
			renderLabel(&buf, t)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLabel(buf *bytes.Buffer, t snapshot.Tile) {
	if t.W < minLabelWidth || t.H < minLabelHeight {
		return
	}
	maxChars := int(float64(t.W-6) / charWidth)
	name := truncate(t.Name, maxChars)
	if name == "" {
		return
	}
	fill := TextColour(t.Colour)
	fmt.Fprintf(buf, `    <text x="%d" y="%d" font-family="sans-serif" font-size="%d" fill="%s">%s</text>`+"\n",
		t.X+3, t.Y+labelFontSize+1, labelFontSize, fill, html.EscapeString(name))
	if t.H >= 2*minLabelHeight+2 {
		fmt.Fprintf(buf, `    <text x="%d" y="%d" font-family="sans-serif" font-size="%d" fill="%s" opacity="0.8">%s</text>`+"\n",
			t.X+3, t.Y+2*labelFontSize+4, labelFontSize-1, fill, FormatSize(t.Size))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return ""
	}
	return string(r[:n-1]) + "…"
}

// TextColour picks black or white for contrast with a "#rrggbb" fill.
func TextColour(fill string) string {
	c, err := tree.ParseColour(fill)
	if err != nil {
		return "#000000"
	}
	if luminance(c) > 0.55 {
		return "#000000"
	}
	return "#ffffff"
}

func luminance(c color.RGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/guptarut/treemap/pkg/render"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// pngScale is the rasterization factor for PNG output.
const pngScale = 2.0

// Render generates output artifacts in the requested formats. root is only
// consulted for DOT output; the other formats are drawn from the layout.
func Render(ctx context.Context, l snapshot.Layout, root *tree.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	if opts.NeedsSVG() {
		svg = render.RenderSVG(l, buildSVGOptions(root, opts)...)
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, pngScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		case FormatJSON:
			data, err = snapshot.MarshalLayout(l)
		case FormatDOT:
			data, err = render.RenderDOT(ctx, render.ToDOT(root, render.DOTOptions{All: opts.All}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(root *tree.Node, opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	if root != nil && !root.IsEmpty() {
		svgOpts = append(svgOpts, render.WithTitle(root.Name()))
	}
	return svgOpts
}

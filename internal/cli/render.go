package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/pipeline"
)

// renderCommand creates the render command for generating output files.
// It runs the full load → layout → render pipeline in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		labels     bool
		all        bool
		scan       scanFlags
		frame      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [dir|tree.json]",
		Short: "Render a treemap to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a treemap to SVG, PNG, PDF, JSON or DOT.

The render command scans a directory (or reads a tree.json snapshot), lays it
out and writes one file per requested format:

  svg   one rectangle per displayed tile, filled with the node colour
  png   rasterized SVG (requires rsvg-convert)
  pdf   converted SVG (requires rsvg-convert)
  json  layout.json, the displayed tiles
  dot   the tree structure as a Graphviz graph

Each stage is cached independently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			frame.apply(cmd, &opts)
			if cmd.Flags().Changed("labels") {
				opts.Labels = labels
			}
			opts.All = all
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := setInput(&opts, args[0]); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <input>.<format>, <input>.layout.json for json)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output formats: svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw node names on tiles that fit them")
	cmd.Flags().BoolVar(&all, "all", false, "include collapsed subtrees in DOT output")
	scan.register(cmd)
	frame.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes the resulting artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering treemap...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = baseName(input)
	} else if ext := filepath.Ext(base); len(opts.Formats) == 1 && ext != "" {
		base = base[:len(base)-len(ext)]
	}

	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	cached := result.CacheInfo.LoadHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(result.Stats.NodeCount, result.Stats.TileCount, result.Stats.TotalSize, cached)

	return nil
}

// artifactPath returns the output file for format. JSON layouts get the
// .layout.json suffix so that they never replace a tree.json input.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// writeArtifacts writes each artifact next to base in format order and
// returns the written paths.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := artifactPath(base, f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

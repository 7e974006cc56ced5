package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// layoutCommand creates the layout command for computing tile rectangles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		scan   scanFlags
		frame  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dir|tree.json]",
		Short: "Compute the treemap layout of a tree",
		Long: `Compute the treemap layout of a tree.

The layout command takes a directory or a tree.json file (produced by 'scan'),
applies the visibility policy and writes the displayed tiles as layout.json
(same format as 'render -f json').

Visibility policies:
  none   only the root tile is shown
  all    every file is shown (default)
  depth  directories shallower than --depth are opened

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			frame.apply(cmd, &opts)
			if err := setInput(&opts, args[0]); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	scan.register(cmd)
	frame.register(cmd)

	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading tree...")
	spinner.Start()

	root, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}

	spinner.SetMessage(fmt.Sprintf("Computing %dx%d layout...", opts.Width, opts.Height))
	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = baseName(input) + ".layout.json"
	}
	if err := snapshot.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(tree.Count(root), len(layout.Tiles), layout.Total, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render -f svg,png "+input)

	return nil
}

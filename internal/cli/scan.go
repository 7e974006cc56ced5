package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// scanCommand creates the scan command for building a tree snapshot from a directory.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		scan    scanFlags
	)

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a directory into a tree snapshot",
		Long: `Scan a directory into a tree snapshot.

Every regular file becomes a leaf weighted by its size in bytes and every
directory an internal node weighted by the sum of its children. The result is
written as tree.json, which every other command accepts in place of a directory.

Scans are cached until the directory's modification time changes; use
--refresh to rescan anyway.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			opts.Root = args[0]
			opts.Refresh = refresh
			return c.runScan(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dir>.json)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore a cached scan")
	scan.register(cmd)

	return cmd
}

// runScan scans opts.Root and writes the snapshot.
func (c *CLI) runScan(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scanning %s...", opts.Root))
	spinner.Start()

	root, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = baseName(opts.Root) + ".json"
	}
	if err := snapshot.WriteTreeFile(root, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done(fmt.Sprintf("Scanned %d files", len(tree.Leaves(root))))

	printSuccess("Scan complete")
	printFile(outputPath)
	printStats(tree.Count(root), 0, root.Weight(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/render"
	"github.com/guptarut/treemap/pkg/tree"
)

const defaultStatsTop = 10

// statsCommand creates the stats command for summarizing where the weight of a tree sits.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		top   int
		files bool
		scan  scanFlags
	)

	cmd := &cobra.Command{
		Use:   "stats [dir|tree.json]",
		Short: "Show the largest children and files of a tree",
		Long: `Show the largest children and files of a tree.

Prints the root's children ordered by size with their share of the total,
or with --files the largest leaves anywhere in the tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			if err := setInput(&opts, args[0]); err != nil {
				return err
			}
			return c.runStats(cmd.Context(), opts, top, files)
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", defaultStatsTop, "number of rows to show (0 = all)")
	cmd.Flags().BoolVar(&files, "files", false, "list the largest files instead of the root's children")
	scan.register(cmd)

	return cmd
}

func (c *CLI) runStats(ctx context.Context, opts pipeline.Options, top int, files bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading tree...")
	spinner.Start()
	root, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	fmt.Println(StyleTitle.Render(root.Name()))
	printKeyValue("Size", StyleNumber.Render(render.FormatSize(root.Weight())))
	printKeyValue("Files", fmt.Sprintf("%d", len(tree.Leaves(root))))
	printKeyValue("Nodes", fmt.Sprintf("%d", tree.Count(root)))
	printNewline()

	var rows []statsRow
	if files {
		rows = largestFiles(root, top)
	} else {
		rows = childRows(root, top)
	}
	if len(rows) == 0 {
		printInfo("Nothing to show")
		return nil
	}
	fmt.Println(statsTable(rows).Render())
	printStats(tree.Count(root), 0, root.Weight(), cacheHit)
	return nil
}

// =============================================================================
// Rows
// =============================================================================

// statsRow is one line of the stats table.
type statsRow struct {
	Name  string
	Size  int64
	Share float64 // fraction of the root's weight
	Files int
}

// childRows returns root's children ordered by weight, largest first.
func childRows(root *tree.Node, top int) []statsRow {
	rows := make([]statsRow, 0, len(root.Children()))
	for _, ch := range root.Children() {
		rows = append(rows, newStatsRow(root, ch, ch.Name()))
	}
	return limitRows(rows, top)
}

// largestFiles returns the leaves under root ordered by weight, largest first.
func largestFiles(root *tree.Node, top int) []statsRow {
	if root.IsLeaf() {
		return nil
	}
	leaves := tree.Leaves(root)
	rows := make([]statsRow, 0, len(leaves))
	for _, leaf := range leaves {
		if leaf.IsEmpty() {
			continue
		}
		rows = append(rows, newStatsRow(root, leaf, tree.PathString(leaf, true)))
	}
	return limitRows(rows, top)
}

func newStatsRow(root, n *tree.Node, name string) statsRow {
	r := statsRow{Name: name, Size: n.Weight(), Files: len(tree.Leaves(n))}
	if root.Weight() > 0 {
		r.Share = float64(n.Weight()) / float64(root.Weight())
	}
	return r
}

// limitRows sorts rows by size, largest first with ties by name, and keeps
// the first top (all when top <= 0).
func limitRows(rows []statsRow, top int) []statsRow {
	slices.SortStableFunc(rows, func(a, b statsRow) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return rows
}

// =============================================================================
// Table
// =============================================================================

func statsTable(rows []statsRow) *table.Table {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Name,
			render.FormatSize(r.Size),
			fmt.Sprintf("%5.1f%%", r.Share*100),
			fmt.Sprintf("%d", r.Files),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Size", "Share", "Files").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 1, 2, 3:
				base = base.Align(lipgloss.Right)
			}
			if col == 2 && row < len(rows) && rows[row].Share >= 0.5 {
				return base.Foreground(colorYellow)
			}
			if col == 0 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		})
}

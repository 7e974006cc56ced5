package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/render"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/store"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Manage stored tree snapshots",
		Long: `Manage stored tree snapshots.

Snapshots are kept in the configured store ([store] in config.toml): one JSON
file per snapshot under ~/.local/share/treemap/snapshots by default, or a
MongoDB collection. The server's /api/snapshots endpoints use the same store.`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotRemoveCommand())

	return cmd
}

// snapshotSaveCommand creates the "snapshot save" subcommand.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var scan scanFlags

	cmd := &cobra.Command{
		Use:   "save [name] [dir|tree.json]",
		Short: "Store a tree under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, input := args[0], args[1]
			if err := errors.ValidateSnapshotName(name); err != nil {
				return err
			}

			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			if err := setInput(&opts, input); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			root, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer st.Close()

			t := snapshot.FromTree(root)
			if err := st.Save(ctx, name, t); err != nil {
				return err
			}
			printSuccess("Saved snapshot %s", StyleHighlight.Render(name))
			printStats(t.Count(), 0, t.Root.Size, false)
			return nil
		},
	}
	scan.register(cmd)
	return cmd
}

// snapshotLoadCommand creates the "snapshot load" subcommand.
func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "load [name]",
		Short:             "Write a stored snapshot to a tree.json file",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSnapshotNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer st.Close()

			t, err := st.Load(ctx, name)
			if err != nil {
				return err
			}
			root, err := snapshot.ToTree(t)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = name + ".json"
			}
			if err := snapshot.WriteTreeFile(root, path); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printSuccess("Loaded snapshot %s", StyleHighlight.Render(name))
			printFile(path)
			printNewline()
			printNextStep("Browse", appName+" browse "+path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored snapshots",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer st.Close()

			infos, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No snapshots")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), snapshotTable(infos).Render())
			return nil
		},
	}
}

// snapshotRemoveCommand creates the "snapshot rm" subcommand.
func (c *CLI) snapshotRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm [name...]",
		Aliases:           []string{"remove", "delete"},
		Short:             "Remove stored snapshots",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeSnapshotNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer st.Close()

			for _, name := range args {
				if err := st.Delete(ctx, name); err != nil {
					return err
				}
				printSuccess("Removed %s", name)
			}
			return nil
		},
	}
}

func snapshotTable(infos []store.Info) *table.Table {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			info.Name,
			fmt.Sprintf("%d", info.Nodes),
			render.FormatSize(info.Size),
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Nodes", "Size", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		})
}

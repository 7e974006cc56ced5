package cli

import (
	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent --config flag names a TOML file (default
// ~/.config/treemap/config.toml) that is loaded before any subcommand runs.
// --no-cache disables the scan, layout and artifact caches.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treemap visualizes directory trees as nested rectangles",
		Long: `Treemap scans a directory into a weighted tree and lays it out as a slice-and-dice
treemap: every file is a rectangle whose area is proportional to its size.

Layouts can be rendered to SVG, PNG, PDF, JSON or DOT, browsed interactively in
the terminal, or served over HTTP for a front end.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/treemap/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

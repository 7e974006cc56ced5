package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/internal/server"
	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/store"
	"github.com/guptarut/treemap/pkg/tree"
)

// serveCommand creates the serve command for exposing a treemap over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		allowAll bool
		noStore  bool
		scan     scanFlags
		frame    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [dir|tree.json]",
		Short: "Serve a live treemap over HTTP",
		Long: `Serve a live treemap over HTTP.

The server holds one tree in memory. Clients read it and change it through
a JSON API:

  GET    /api/tree                    the tree with its expansion state
  GET    /api/tiles?width=&height=    displayed tiles, optionally in a new frame
  GET    /api/locate?x=&y=            the tile under a point
  POST   /api/nodes/{id}/{op}         expand, expand-all, collapse, collapse-all,
                                      move?to={id}, resize?factor={f}
  GET    /api/snapshots               stored snapshots
  PUT    /api/snapshots/{name}        store the current tree
  POST   /api/snapshots/{name}/load   replace the tree with a stored one
  DELETE /api/snapshots/{name}        remove a stored snapshot

Without an argument the server starts with the empty tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			frame.apply(cmd, &opts)
			cfg := server.Config{
				Addr:     c.Config.Serve.Addr,
				AllowAll: c.Config.Serve.AllowAllOrigins,
				Logger:   c.Logger,
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("allow-all-origins") {
				cfg.AllowAll = allowAll
			}
			var input string
			if len(args) == 1 {
				input = args[0]
				if err := setInput(&opts, input); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), input, opts, cfg, !noStore)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow cross-origin requests from any origin")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the snapshot endpoints")
	scan.register(cmd)
	frame.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts pipeline.Options, cfg server.Config, withStore bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	cfg.Width, cfg.Height = opts.Width, opts.Height

	var root *tree.Node
	if input != "" {
		runner, err := c.newRunner(ctx)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		spinner := newSpinnerWithContext(ctx, "Loading tree...")
		spinner.Start()
		root, err = runner.Load(ctx, opts)
		runner.Close()
		if err != nil {
			spinner.StopWithError("Load failed")
			return err
		}
		spinner.Stop()
		pipeline.ApplyVisibility(root, opts.Expand, opts.Depth)
	}

	if withStore {
		st, err := c.openStore(ctx)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer st.Close()
		cfg.Store = st
		printDetail("Snapshots: %s", storeLocation(st))
	}

	srv := server.New(cfg, root)
	name := "the empty tree"
	if root != nil {
		name = root.Name()
	}
	printSuccess("Serving %s on %s", name, StyleLink.Render("http://"+cfg.Addr))
	printDetail("Press Ctrl+C to stop")
	return srv.Run(ctx)
}

// storeLocation describes where st keeps its snapshots.
func storeLocation(st store.Store) string {
	switch s := st.(type) {
	case *store.FileStore:
		return s.Dir()
	case *store.MongoStore:
		return "mongodb"
	}
	return fmt.Sprintf("%T", st)
}

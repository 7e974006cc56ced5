// Package cli implements the treemap command-line interface.
//
// Commands scan directories into trees, compute layouts, render them to
// SVG, PNG, PDF, JSON or DOT, browse them interactively in the terminal and
// serve them over HTTP. The CLI is built using cobra and logs through
// charmbracelet/log; --verbose (-v) switches to debug level and also turns
// on the pipeline's debug hooks.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/cache"
	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treemap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded in the root command's PersistentPreRunE.
	Config *Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured cache. An unavailable Redis degrades to no
// caching with a warning rather than failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.Config.CacheBackend()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, cfg)
	if stderrors.Is(err, cache.ErrUnavailable) {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return cc, err
}

// openStore opens the configured snapshot store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.Config.StoreBackend()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treemap/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir returns the data directory using XDG standard (~/.local/share/treemap/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// configPath returns the default config file (~/.config/treemap/config.toml).
func configPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setInput points opts at arg: a directory is scanned, a .json file is read
// as a snapshot.
func setInput(opts *pipeline.Options, arg string) error {
	info, err := os.Stat(arg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot open %s", arg)
	}
	if !info.IsDir() && strings.EqualFold(filepath.Ext(arg), ".json") {
		opts.Input = arg
	} else {
		opts.Root = arg
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// baseName returns the output base path for input: the directory's own name
// or the snapshot file without its extension.
func baseName(input string) string {
	clean := filepath.Clean(input)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		abs, err := filepath.Abs(clean)
		if err == nil {
			return filepath.Base(abs)
		}
		return filepath.Base(clean)
	}
	return strings.TrimSuffix(clean, filepath.Ext(clean))
}

// =============================================================================
// Shared Flags
// =============================================================================

// scanFlags are the flags of every command that loads a tree. Values only
// replace the config file's when the flag was given.
type scanFlags struct {
	exclude       []string
	includeHidden bool
	maxDepth      int
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "x", nil, "glob patterns to skip (default: .git, node_modules, ...)")
	cmd.Flags().BoolVar(&f.includeHidden, "hidden", false, "include hidden files and directories")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "treat directories below this depth as single files (0 = unlimited)")
}

func (f *scanFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("exclude") {
		opts.Exclude = f.exclude
	}
	if cmd.Flags().Changed("hidden") {
		opts.IncludeHidden = f.includeHidden
	}
	if cmd.Flags().Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
}

// layoutFlags are the flags of every command that computes a layout.
type layoutFlags struct {
	width  int
	height int
	expand string
	depth  int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().IntVar(&f.height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().StringVarP(&f.expand, "expand", "e", pipeline.DefaultExpand, "visibility: none, all, depth")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", pipeline.DefaultDepth, "expansion depth for --expand depth")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("width") {
		opts.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = f.height
	}
	if cmd.Flags().Changed("expand") {
		opts.Expand = f.expand
	}
	if cmd.Flags().Changed("depth") {
		opts.Depth = f.depth
	}
}

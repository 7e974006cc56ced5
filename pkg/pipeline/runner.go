package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/guptarut/treemap/pkg/cache"
	"github.com/guptarut/treemap/pkg/observability"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the server both use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, as long as they do not share a tree.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	root, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = root
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = tree.Count(root)
	result.Stats.TotalSize = root.Weight()
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded tree",
		"source", opts.String(),
		"nodes", result.Stats.NodeCount,
		"size", result.Stats.TotalSize,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.TileCount = len(layout.Tiles)
	result.CacheInfo.LayoutHit = layoutHit
	if data, err := snapshot.MarshalTree(root); err == nil {
		result.TreeHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"tiles", len(layout.Tiles),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, root, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the tree and returns cache hit info. Directory
// scans are cached under a key that includes the root's modification time;
// snapshot files are always read directly.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*tree.Node, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Input != "" {
		root, err := Load(ctx, opts)
		return root, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnScanStart(ctx, opts.Root)

	abs, modTime, err := rootModTime(opts.Root)
	if err != nil {
		hooks.OnScanComplete(ctx, opts.Root, 0, 0, err)
		return nil, false, err
	}
	cacheKey := r.Keyer.ScanKey(abs, opts.ScanKeyOpts(modTime))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if root, err := snapshot.UnmarshalTree(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scan")
				hooks.OnScanComplete(ctx, opts.Root, tree.Count(root), 0, nil)
				return root, true, nil // Cache hit
			}
		} else if err != nil {
			r.Logger.Debug("scan cache unavailable", "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "scan")

	start := time.Now()
	root, err := Load(ctx, opts)
	if err != nil {
		hooks.OnScanComplete(ctx, opts.Root, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnScanComplete(ctx, opts.Root, tree.Count(root), time.Since(start), nil)

	// A refreshed scan replaces the cached one.
	if data, err := snapshot.MarshalTree(root); err == nil {
		r.set(ctx, "scan", cacheKey, data, cache.TTLScan)
	}

	return root, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*tree.Node, error) {
	root, _, err := r.LoadWithCacheInfo(ctx, opts)
	return root, err
}

// ComputeLayoutWithCacheInfo applies the visibility policy, lays the tree
// out and returns the tiles with cache hit info. On a cache hit the node
// rectangles are not recomputed; callers that hit-test against the tree
// itself should use [GenerateLayout] instead.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, root *tree.Node, opts Options) (snapshot.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return snapshot.Layout{}, false, err
	}
	r.applyLogger(&opts)

	ApplyVisibility(root, opts.Expand, opts.Depth)

	// Compute cache key from the tree with its expansion state
	treeData, err := snapshot.MarshalTree(root)
	if err != nil {
		return snapshot.Layout{}, false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(treeData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := snapshot.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Width, opts.Height, tree.Count(root))
	start := time.Now()
	layout := snapshot.Compute(root, opts.Width, opts.Height)
	hooks.OnLayoutComplete(ctx, len(layout.Tiles), time.Since(start), nil)

	if data, err := snapshot.MarshalLayout(layout); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}

	return layout, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, root *tree.Node, opts Options) (snapshot.Layout, error) {
	layout, _, err := r.ComputeLayoutWithCacheInfo(ctx, root, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout snapshot.Layout, root *tree.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := snapshot.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, layout, root, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout snapshot.Layout, root *tree.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, root, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// set writes to the cache, retrying transient backend errors. Failures are
// logged at debug level and otherwise ignored.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

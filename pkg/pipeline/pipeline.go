// Package pipeline provides the scan → layout → render pipeline for treemap.
//
// The CLI, the HTTP server and the interactive browser all go through this
// package to turn a directory (or a saved snapshot) into a laid-out treemap,
// so caching, visibility policy and output formats behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: scan a directory into a tree, or read a snapshot file
//  2. Layout: apply a visibility policy and compute the tiling
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:    "./src",
//	    Expand:  pipeline.ExpandAll,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/guptarut/treemap/pkg/cache"
	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/source/filesystem"
	"github.com/guptarut/treemap/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1024

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 768

	// DefaultDepth is the expansion depth used by ExpandDepth when none is given.
	DefaultDepth = 2
)

// Visibility policies applied before layout.
const (
	ExpandNone  = "none"  // only the root is displayed
	ExpandAll   = "all"   // every leaf is displayed
	ExpandDepth = "depth" // internal nodes shallower than Depth are expanded
)

// DefaultExpand is the default visibility policy.
const DefaultExpand = ExpandAll

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidExpand is the set of supported visibility policies.
var ValidExpand = map[string]bool{
	ExpandNone:  true,
	ExpandAll:   true,
	ExpandDepth: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization so it can be stored in config files
// and passed over the API.
type Options struct {
	// Load options. Exactly one of Root and Input is set.
	Root          string   `json:"root,omitempty"`  // directory to scan
	Input         string   `json:"input,omitempty"` // snapshot file to read
	Exclude       []string `json:"exclude,omitempty"`
	IncludeHidden bool     `json:"include_hidden,omitempty"`
	MaxDepth      int      `json:"max_depth,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"`

	// Layout options
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Expand string `json:"expand,omitempty"`
	Depth  int    `json:"depth,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	All     bool     `json:"all,omitempty"` // DOT output includes collapsed subtrees

	// Runtime options (not serialized)
	Logger  *log.Logger       `json:"-"`
	Colours tree.ColourSource `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded tree, with the visibility policy applied and
	// rectangles assigned by the last layout pass.
	Tree *tree.Node

	// TreeHash is the content hash of the tree snapshot.
	TreeHash string

	// Layout contains the displayed tiles.
	Layout snapshot.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	TileCount  int
	TotalSize  int64
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the scan came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateExpand checks that a visibility policy is valid.
func ValidateExpand(expand string) error {
	if !ValidExpand[expand] {
		return errors.New(errors.ErrCodeInvalidArgument,
			"invalid expand: %q (must be one of: none, all, depth)", expand)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one input is given and that the
// exclude patterns parse.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Root == "" && o.Input == "":
		return errors.New(errors.ErrCodeInvalidInput, "root or input is required")
	case o.Root != "" && o.Input != "":
		return errors.New(errors.ErrCodeInvalidInput, "root and input are mutually exclusive")
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "max_depth must not be negative, got %d", o.MaxDepth)
	}
	if err := filesystem.ValidatePatterns(o.Exclude); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "exclude")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Expand == "" {
		o.Expand = DefaultExpand
	}
	if o.Expand == ExpandDepth && o.Depth == 0 {
		o.Depth = DefaultDepth
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateExtent("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateExtent("height", o.Height); err != nil {
		return err
	}
	if o.Depth < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "depth must not be negative, got %d", o.Depth)
	}
	return ValidateExpand(o.Expand)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// NeedsSVG reports whether any requested format is derived from the SVG.
func (o *Options) NeedsSVG() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool {
		return f == FormatSVG || f == FormatPNG || f == FormatPDF
	})
}

// ScanOptions returns the filesystem builder options.
func (o *Options) ScanOptions() filesystem.Options {
	return filesystem.Options{
		Exclude:       o.Exclude,
		IncludeHidden: o.IncludeHidden,
		MaxDepth:      o.MaxDepth,
		Colours:       o.Colours,
	}
}

// ScanKeyOpts returns cache key options for a scan. modTime is the root's
// modification time in unix nanoseconds.
func (o *Options) ScanKeyOpts(modTime int64) cache.ScanKeyOpts {
	return cache.ScanKeyOpts{
		Exclude:       o.Exclude,
		IncludeHidden: o.IncludeHidden,
		MaxDepth:      o.MaxDepth,
		ModTime:       modTime,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Expand: o.Expand,
		Depth:  o.Depth,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.Labels,
		All:    o.All,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// String summarizes the input for log lines.
func (o *Options) String() string {
	if o.Input != "" {
		return fmt.Sprintf("snapshot %s", o.Input)
	}
	return o.Root
}

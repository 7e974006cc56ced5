package cache

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// ScanKey identifies a directory scan.
	ScanKey(root string, opts ScanKeyOpts) string

	// LayoutKey identifies a layout of the tree whose serialized form hashes to treeHash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of the layout hashing to layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ScanKeyOpts are the scan parameters that change the resulting tree.
type ScanKeyOpts struct {
	Exclude       []string `json:"exclude,omitempty"`
	IncludeHidden bool     `json:"include_hidden,omitempty"`
	MaxDepth      int      `json:"max_depth,omitempty"`
	ModTime       int64    `json:"mod_time,omitempty"` // root mtime, unix nanoseconds
}

// LayoutKeyOpts are the layout parameters that change the tile set.
type LayoutKeyOpts struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Expand string `json:"expand,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

// ArtifactKeyOpts are the render parameters that change the output bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels,omitempty"`
	All    bool   `json:"all,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ScanKey hashes the root path and scan options.
func (DefaultKeyer) ScanKey(root string, opts ScanKeyOpts) string {
	return hashKey("scan", root, opts)
}

// LayoutKey hashes the tree hash and layout options.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey hashes the layout hash and render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Package filesystem builds weighted trees from directory hierarchies.
//
// Regular files become leaves weighted by their size in bytes. Directories
// become internal nodes whose weight is the total of their entries; a
// directory with no remaining entries becomes a leaf weighted by the size the
// filesystem reports for the directory itself.
//
// Entries are visited in lexical order, so the resulting children order (and
// therefore the layout) is stable across runs. Entries that cannot be read
// are skipped rather than failing the whole scan.
//
//	root, err := filesystem.BuildDir(ctx, "/var/log", filesystem.Options{
//	    Exclude: []string{"**/*.gz"},
//	})
package filesystem

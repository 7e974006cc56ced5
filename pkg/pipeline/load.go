package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/source/filesystem"
	"github.com/guptarut/treemap/pkg/tree"
)

// Load builds the tree named by opts: a snapshot file when Input is set,
// otherwise a scan of Root.
func Load(ctx context.Context, opts Options) (*tree.Node, error) {
	if opts.Input != "" {
		root, err := snapshot.ReadTreeFile(opts.Input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read snapshot %s", opts.Input)
		}
		return root, nil
	}
	return filesystem.BuildDir(ctx, opts.Root, opts.ScanOptions())
}

// rootModTime returns the absolute root path and its modification time in
// unix nanoseconds. Changes deep inside the tree do not touch the root's
// mtime, so scan cache entries also expire with cache.TTLScan.
func rootModTime(root string) (string, int64, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot scan %s", root)
	}
	return abs, info.ModTime().UnixNano(), nil
}

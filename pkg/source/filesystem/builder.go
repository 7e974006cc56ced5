package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/tree"
)

// Options configures a scan.
type Options struct {
	// Name overrides the root node's name. Defaults to the base name of the
	// scanned path.
	Name string

	// Exclude lists doublestar patterns matched against slash-separated paths
	// relative to the scan root and against base names. Nil means
	// DefaultExcludes; an empty non-nil slice excludes nothing.
	Exclude []string

	// IncludeHidden keeps entries whose name starts with a dot.
	IncludeHidden bool

	// MaxDepth, when positive, turns directories at that depth into leaves
	// weighted by the total size below them.
	MaxDepth int

	// Colours assigns node colours. Defaults to the tree package's global source.
	Colours tree.ColourSource
}

func (o Options) excludes() []string {
	if o.Exclude == nil {
		return DefaultExcludes
	}
	return o.Exclude
}

func (o Options) nodeOptions() []tree.Option {
	opts := []tree.Option{tree.WithKind(tree.FileSystem{})}
	if o.Colours != nil {
		opts = append(opts, tree.WithColours(o.Colours))
	}
	return opts
}

// BuildDir scans the directory (or single file) at dir on the local disk.
func BuildDir(ctx context.Context, dir string, opts Options) (*tree.Node, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(abs)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot scan %s", dir)
	}
	if !info.IsDir() {
		return tree.New(opts.Name, nil, info.Size(), opts.nodeOptions()...)
	}
	return Build(ctx, os.DirFS(abs), ".", opts)
}

// Build scans root inside fsys and returns the resulting tree.
func Build(ctx context.Context, fsys fs.FS, root string, opts Options) (*tree.Node, error) {
	if err := ValidatePatterns(opts.Exclude); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "scan %s", root)
	}
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot scan %s", root)
	}
	name := opts.Name
	if name == "" {
		name = path.Base(root)
	}
	b := &builder{fsys: fsys, root: root, opts: opts, excludes: opts.excludes(), nodeOpts: opts.nodeOptions()}
	if !info.IsDir() {
		return tree.New(name, nil, info.Size(), b.nodeOpts...)
	}
	return b.dir(ctx, name, root, info, 0)
}

type builder struct {
	fsys     fs.FS
	root     string
	opts     Options
	excludes []string
	nodeOpts []tree.Option
}

func (b *builder) dir(ctx context.Context, name, p string, info fs.FileInfo, depth int) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		return tree.New(name, nil, b.total(p), b.nodeOpts...)
	}

	entries, err := fs.ReadDir(b.fsys, p)
	if err != nil && len(entries) == 0 {
		return tree.New(name, nil, info.Size(), b.nodeOpts...)
	}

	var children []*tree.Node
	for _, e := range entries {
		child := path.Join(p, e.Name())
		if b.skip(child, e) {
			continue
		}
		ci, err := e.Info()
		if err != nil {
			continue
		}
		if e.IsDir() {
			n, err := b.dir(ctx, e.Name(), child, ci, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, n)
			continue
		}
		n, err := tree.New(e.Name(), nil, ci.Size(), b.nodeOpts...)
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	return tree.New(name, children, info.Size(), b.nodeOpts...)
}

func (b *builder) skip(p string, e fs.DirEntry) bool {
	if !b.opts.IncludeHidden && hidden(e.Name()) {
		return true
	}
	if !e.IsDir() && !e.Type().IsRegular() {
		return true
	}
	return excluded(b.rel(p), b.excludes)
}

func (b *builder) rel(p string) string {
	if b.root == "." {
		return p
	}
	return strings.TrimPrefix(p, b.root+"/")
}

// total sums regular file sizes below p with the same filters as a full scan.
func (b *builder) total(p string) int64 {
	var sum int64
	_ = fs.WalkDir(b.fsys, p, func(child string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if child == p {
			return nil
		}
		if b.skip(child, d) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			sum += info.Size()
		}
		return nil
	})
	return sum
}

package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/tree"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"a.txt":             {Data: make([]byte, 10)},
		"docs/readme.md":    {Data: make([]byte, 20)},
		"docs/guide.md":     {Data: make([]byte, 5)},
		"src/main.go":       {Data: make([]byte, 30)},
		"src/lib/util.go":   {Data: make([]byte, 7)},
		"src/lib/util.gz":   {Data: make([]byte, 100)},
		".git/HEAD":         {Data: make([]byte, 40)},
		".env":              {Data: make([]byte, 3)},
		"node_modules/x.js": {Data: make([]byte, 1000)},
		"empty":             {Mode: os.ModeDir},
	}
}

func names(n *tree.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Name())
	}
	return out
}

func TestBuild(t *testing.T) {
	root, err := Build(context.Background(), testFS(), ".", Options{Name: "project"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if root.Name() != "project" {
		t.Errorf("Name() = %q, want project", root.Name())
	}
	if got, want := root.Weight(), int64(10+20+5+30+7+100); got != want {
		t.Errorf("Weight() = %d, want %d", got, want)
	}
	got := names(root)
	want := []string{"a.txt", "docs", "empty", "src"}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	docs := root.Children()[1]
	if docs.Weight() != 25 || docs.IsLeaf() {
		t.Errorf("docs: weight=%d leaf=%v, want 25 and internal", docs.Weight(), docs.IsLeaf())
	}
	guide := docs.Children()[0]
	if got := tree.PathString(guide, true); got != "project/docs/guide.md (file)" {
		t.Errorf("PathString() = %q", got)
	}
	empty := root.Children()[2]
	if !empty.IsLeaf() || empty.Weight() != 0 {
		t.Errorf("empty dir: leaf=%v weight=%d, want leaf of weight 0", empty.IsLeaf(), empty.Weight())
	}
}

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantWeight int64
	}{
		{"Defaults", Options{}, 172},
		{"Hidden", Options{IncludeHidden: true}, 175},
		{"ExcludeGlob", Options{Exclude: []string{"**/*.gz"}}, 1072},
		{"ExcludeBase", Options{Exclude: []string{"*.md", "node_modules", "*.gz"}}, 47},
		{"ExcludeDir", Options{Exclude: []string{"src/lib"}}, 1065},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(context.Background(), testFS(), ".", tt.opts)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if root.Weight() != tt.wantWeight {
				t.Errorf("Weight() = %d, want %d", root.Weight(), tt.wantWeight)
			}
		})
	}
}

func TestBuildMaxDepth(t *testing.T) {
	root, err := Build(context.Background(), testFS(), ".", Options{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	src := root.Children()[3]
	if !src.IsLeaf() {
		t.Fatalf("src should be truncated to a leaf, has %v", names(src))
	}
	if src.Weight() != 137 {
		t.Errorf("src.Weight() = %d, want 137", src.Weight())
	}
	if root.Weight() != 172 {
		t.Errorf("root.Weight() = %d, want 172", root.Weight())
	}
}

func TestBuildSubdirectory(t *testing.T) {
	root, err := Build(context.Background(), testFS(), "src", Options{Exclude: []string{"lib/*.gz"}})
	if err != nil {
		t.Fatal(err)
	}
	if root.Name() != "src" || root.Weight() != 37 {
		t.Errorf("root = %s/%d, want src/37", root.Name(), root.Weight())
	}
}

func TestBuildSingleFile(t *testing.T) {
	root, err := Build(context.Background(), testFS(), "a.txt", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !root.IsLeaf() || root.Weight() != 10 {
		t.Errorf("root: leaf=%v weight=%d", root.IsLeaf(), root.Weight())
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(context.Background(), testFS(), "missing", Options{}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing root: err = %v, want INVALID_PATH", err)
	}
	if _, err := Build(context.Background(), testFS(), ".", Options{Exclude: []string{"[a-"}}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("bad pattern: err = %v, want INVALID_ARGUMENT", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, testFS(), ".", Options{}); err != context.Canceled {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}

func TestBuildDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "f.bin"), make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "g.bin"), make([]byte, 36), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := BuildDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("BuildDir() error: %v", err)
	}
	if root.Name() != filepath.Base(dir) {
		t.Errorf("Name() = %q, want %q", root.Name(), filepath.Base(dir))
	}
	if root.Weight() != 100 {
		t.Errorf("Weight() = %d, want 100", root.Weight())
	}
	if _, ok := root.Kind().(tree.FileSystem); !ok {
		t.Errorf("Kind() = %T, want tree.FileSystem", root.Kind())
	}
}

package store

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
)

func sampleTree(t *testing.T) snapshot.Tree {
	t.Helper()
	a, _ := tree.New("a", nil, 3)
	b, _ := tree.New("b", nil, 4)
	root, err := tree.New("root", []*tree.Node{a, b}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return snapshot.FromTree(root)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	want := sampleTree(t)
	if err := s.Save(ctx, "home", want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := s.Load(ctx, "home")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Root.ID != want.Root.ID || got.Count() != 3 {
		t.Errorf("Load() = %s with %d nodes, want %s with 3", got.Root.ID, got.Count(), want.Root.ID)
	}

	if err := s.Save(ctx, "alpha", want); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "home" {
		t.Fatalf("List() = %+v, want [alpha home]", list)
	}
	if list[1].Nodes != 3 || list[1].Size != 7 || list[1].UpdatedAt.IsZero() {
		t.Errorf("List()[1] = %+v", list[1])
	}

	if err := s.Delete(ctx, "home"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "home"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "home"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestFileStoreNotFoundCode(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeSnapshotNotFound) || !errors.IsNotFound(err) {
		t.Errorf("err = %v, want SNAPSHOT_NOT_FOUND", err)
	}
}

func TestFileStoreInvalidNames(t *testing.T) {
	ctx := context.Background()
	s, _ := NewFileStore(t.TempDir())
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Save(ctx, name, sampleTree(t)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Save(%q) error = %v, want INVALID_INPUT", name, err)
		}
		if _, err := s.Load(ctx, name); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Load(%q) error = %v, want INVALID_INPUT", name, err)
		}
	}
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644)
	if err := s.Save(context.Background(), "ok", sampleTree(t)); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "ok" {
		t.Errorf("List() = %+v, want [ok]", list)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open() = %T, want *FileStore", s)
	}
	if _, err := Open(context.Background(), Config{Backend: "sqlite"}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Open(unknown) error = %v", err)
	}
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/observability"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/store"
	"github.com/guptarut/treemap/pkg/tree"
)

// sampleTree builds root(docs(a 10, b 20), f 70) with fixed IDs.
func sampleTree(t *testing.T) *tree.Node {
	t.Helper()
	mk := func(name string, children []*tree.Node, w int64) *tree.Node {
		n, err := tree.New(name, children, w, tree.WithID(name))
		if err != nil {
			t.Fatalf("tree.New(%q) error = %v", name, err)
		}
		return n
	}
	docs := mk("docs", []*tree.Node{mk("a", nil, 10), mk("b", nil, 20)}, 0)
	return mk("root", []*tree.Node{docs, mk("f", nil, 70)}, 0)
}

func setupServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	cfg := Config{
		Width:  100,
		Height: 10,
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	if withStore {
		st, err := store.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore: %v", err)
		}
		cfg.Store = st
	}
	return New(cfg, sampleTree(t))
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func tileNames(l snapshot.Layout) []string {
	names := make([]string, len(l.Tiles))
	for i, tile := range l.Tiles {
		names[i] = tile.Name
	}
	return names
}

func TestHealthz(t *testing.T) {
	s := setupServer(t, false)
	rec := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decode[map[string]string](t, rec)["status"]; got != "ok" {
		t.Errorf("status = %q, want %q", got, "ok")
	}
}

func TestTilesFollowOperations(t *testing.T) {
	s := setupServer(t, false)

	steps := []struct {
		op      string
		changed bool
		tiles   []string
	}{
		{"/api/nodes/root/expand", true, []string{"docs", "f"}},
		{"/api/nodes/a/expand", false, []string{"docs", "f"}},
		{"/api/nodes/docs/expand", true, []string{"a", "b", "f"}},
		{"/api/nodes/b/collapse", true, []string{"docs", "f"}},
		{"/api/nodes/root/expand-all", true, []string{"a", "b", "f"}},
		{"/api/nodes/a/collapse-all", true, []string{"root"}},
		{"/api/nodes/root/collapse", false, []string{"root"}},
	}

	for _, step := range steps {
		rec := do(t, s, http.MethodPost, step.op)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST %s status = %d, want %d", step.op, rec.Code, http.StatusOK)
		}
		if got := decode[opResult](t, rec).Changed; got != step.changed {
			t.Errorf("POST %s changed = %v, want %v", step.op, got, step.changed)
		}

		l := decode[snapshot.Layout](t, do(t, s, http.MethodGet, "/api/tiles"))
		if got := tileNames(l); !slices.Equal(got, step.tiles) {
			t.Errorf("after %s tiles = %v, want %v", step.op, got, step.tiles)
		}
	}
}

func TestTilesFrame(t *testing.T) {
	s := setupServer(t, false)
	do(t, s, http.MethodPost, "/api/nodes/root/expand")

	l := decode[snapshot.Layout](t, do(t, s, http.MethodGet, "/api/tiles?width=10&height=200"))
	if l.Width != 10 || l.Height != 200 {
		t.Fatalf("frame = %dx%d, want 10x200", l.Width, l.Height)
	}
	// Taller than wide: children stack vertically.
	want := []tree.Rect{{X: 0, Y: 0, W: 10, H: 60}, {X: 0, Y: 60, W: 10, H: 140}}
	for i, tile := range l.Tiles {
		if tile.Rect() != want[i] {
			t.Errorf("tile %s = %v, want %v", tile.Name, tile.Rect(), want[i])
		}
	}

	rec := do(t, s, http.MethodGet, "/api/tiles?width=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad width status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	rec = do(t, s, http.MethodGet, "/api/tiles?height=-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative height status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLocate(t *testing.T) {
	s := setupServer(t, false)
	do(t, s, http.MethodPost, "/api/nodes/root/expand-all")

	tests := []struct {
		query  string
		status int
		want   string
	}{
		{"x=5&y=5", http.StatusOK, "a"},
		{"x=20&y=5", http.StatusOK, "b"},
		{"x=50&y=9", http.StatusOK, "f"},
		{"x=10&y=0", http.StatusOK, "a"}, // shared edge: closer to origin wins
		{"x=500&y=5", http.StatusNotFound, ""},
		{"x=a&y=5", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/locate?"+tt.query)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			tile := decode[snapshot.Tile](t, rec)
			if tile.Name != tt.want {
				t.Errorf("Locate(%s) = %q, want %q", tt.query, tile.Name, tt.want)
			}
		})
	}
}

func TestResizeAndMove(t *testing.T) {
	s := setupServer(t, false)
	do(t, s, http.MethodPost, "/api/nodes/root/expand-all")

	rec := do(t, s, http.MethodPost, "/api/nodes/b/resize?factor=0.5")
	if got := decode[opResult](t, rec).Changed; !got {
		t.Fatal("resize changed = false, want true")
	}
	root := s.Root()
	if root.Weight() != 110 {
		t.Errorf("root weight = %d, want 110", root.Weight())
	}

	l := decode[snapshot.Layout](t, do(t, s, http.MethodGet, "/api/tiles"))
	wantW := map[string]int{"a": 9, "b": 27, "f": 64}
	for _, tile := range l.Tiles {
		if tile.W != wantW[tile.Name] {
			t.Errorf("tile %s width = %d, want %d", tile.Name, tile.W, wantW[tile.Name])
		}
	}

	// f is a leaf and cannot receive children.
	rec = do(t, s, http.MethodPost, "/api/nodes/a/move?to=f")
	if got := decode[opResult](t, rec).Changed; got {
		t.Error("move onto a leaf changed = true, want false")
	}

	rec = do(t, s, http.MethodPost, "/api/nodes/a/move?to=root")
	if got := decode[opResult](t, rec).Changed; !got {
		t.Error("move to root changed = false, want true")
	}
	if docs := tree.Find(root, "docs"); docs.Weight() != 30 {
		t.Errorf("docs weight = %d, want 30", docs.Weight())
	}

	tests := []struct {
		target string
		status int
	}{
		{"/api/nodes/missing/expand", http.StatusNotFound},
		{"/api/nodes/a/move?to=missing", http.StatusNotFound},
		{"/api/nodes/a/resize?factor=x", http.StatusBadRequest},
		{"/api/nodes/a/resize?factor=NaN", http.StatusBadRequest},
		{"/api/nodes/a/explode", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodPost, tt.target); rec.Code != tt.status {
			t.Errorf("POST %s status = %d, want %d", tt.target, rec.Code, tt.status)
		}
	}
}

func TestErrorBody(t *testing.T) {
	s := setupServer(t, false)
	rec := do(t, s, http.MethodPost, "/api/nodes/missing/expand")
	body := decode[errorBody](t, rec)
	if body.Error.Code != errors.ErrCodeNodeNotFound {
		t.Errorf("code = %s, want %s", body.Error.Code, errors.ErrCodeNodeNotFound)
	}
	if body.Error.Message == "" {
		t.Error("message is empty")
	}
}

func TestSnapshots(t *testing.T) {
	s := setupServer(t, true)
	do(t, s, http.MethodPost, "/api/nodes/root/expand-all")

	if rec := do(t, s, http.MethodPut, "/api/snapshots/first"); rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	do(t, s, http.MethodPost, "/api/nodes/b/resize?factor=1")
	do(t, s, http.MethodPost, "/api/nodes/a/collapse-all")

	rec := do(t, s, http.MethodPost, "/api/snapshots/first/load")
	if rec.Code != http.StatusOK {
		t.Fatalf("load status = %d, want %d", rec.Code, http.StatusOK)
	}
	l := decode[snapshot.Layout](t, rec)
	if l.Total != 100 {
		t.Errorf("restored total = %d, want 100", l.Total)
	}
	if got := tileNames(l); len(got) != 3 {
		t.Errorf("restored tiles = %v, want expanded a, b, f", got)
	}

	infos := decode[[]store.Info](t, do(t, s, http.MethodGet, "/api/snapshots"))
	if len(infos) != 1 || infos[0].Name != "first" || infos[0].Nodes != 5 {
		t.Errorf("list = %+v, want [first with 5 nodes]", infos)
	}

	tests := []struct {
		method, target string
		status         int
	}{
		{http.MethodPost, "/api/snapshots/missing/load", http.StatusNotFound},
		{http.MethodPut, "/api/snapshots/.hidden", http.StatusBadRequest},
		{http.MethodDelete, "/api/snapshots/first", http.StatusNoContent},
		{http.MethodDelete, "/api/snapshots/first", http.StatusNoContent}, // idempotent
		{http.MethodDelete, "/api/snapshots/a..b", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, s, tt.method, tt.target); rec.Code != tt.status {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.target, rec.Code, tt.status)
		}
	}
}

func TestSnapshotsWithoutStore(t *testing.T) {
	s := setupServer(t, false)
	if rec := do(t, s, http.MethodGet, "/api/snapshots"); rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotImplemented)
	}
}

type recordingHooks struct {
	observability.NoopTreeHooks
	ops []string
}

func (h *recordingHooks) OnMutation(_ context.Context, op, nodeID string, changed bool) {
	h.ops = append(h.ops, op+":"+nodeID)
}

func TestMutationHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetTreeHooks(h)
	t.Cleanup(observability.Reset)

	s := setupServer(t, false)
	do(t, s, http.MethodPost, "/api/nodes/root/expand")
	do(t, s, http.MethodPost, "/api/nodes/f/resize?factor=1")

	want := []string{"expand:root", "resize:f"}
	if !slices.Equal(h.ops, want) {
		t.Errorf("hooks = %v, want %v", h.ops, want)
	}
}

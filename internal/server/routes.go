package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/guptarut/treemap/pkg/errors"
	"github.com/guptarut/treemap/pkg/observability"
	"github.com/guptarut/treemap/pkg/snapshot"
	"github.com/guptarut/treemap/pkg/tree"
	"github.com/guptarut/treemap/pkg/treemap"
)

// Node operations accepted by POST /api/nodes/{id}/{op}.
const (
	OpExpand      = "expand"
	OpExpandAll   = "expand-all"
	OpCollapse    = "collapse"
	OpCollapseAll = "collapse-all"
	OpMove        = "move"
	OpResize      = "resize"
)

// opResult is the response body of a node operation.
type opResult struct {
	Changed bool `json:"changed"`
}

// =============================================================================
// Tree and Tiles
// =============================================================================

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := snapshot.FromTree(s.root)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, t)
}

// handleTiles re-lays the tree out, in a new frame when width and height
// are given, and returns the displayed tiles.
func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := queryInt(q.Get("width"), "width")
	if err != nil {
		writeError(w, err)
		return
	}
	height, err := queryInt(q.Get("height"), "height")
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
	s.relayout()
	writeJSON(w, http.StatusOK, s.layout)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	if errX != nil || errY != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidArgument, "x and y must be integers"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := tree.Point{X: x, Y: y}
	var n *tree.Node
	if s.root.Rect.Contains(p) {
		n = treemap.Locate(s.root, p)
	}
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "no tile at (%d, %d)", x, y))
		return
	}
	writeJSON(w, http.StatusOK, snapshot.NewTile(n))
}

// =============================================================================
// Node Operations
// =============================================================================

func (s *Server) handleNodeOp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	op := chi.URLParam(r, "op")

	s.mu.Lock()
	defer s.mu.Unlock()

	n := tree.Find(s.root, id)
	if n == nil {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}

	var changed bool
	switch op {
	case OpExpand:
		changed = tree.Expand(n)
	case OpExpandAll:
		changed = tree.ExpandAll(n)
	case OpCollapse:
		changed = tree.Collapse(n)
	case OpCollapseAll:
		changed = tree.CollapseAll(n)
	case OpMove:
		to := r.URL.Query().Get("to")
		dest := tree.Find(s.root, to)
		if dest == nil {
			writeError(w, errors.New(errors.ErrCodeNodeNotFound, "destination %q not found", to))
			return
		}
		changed = tree.Move(n, dest)
	case OpResize:
		factor, err := strconv.ParseFloat(r.URL.Query().Get("factor"), 64)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidArgument, "factor must be a number"))
			return
		}
		if err := errors.ValidateFactor(factor); err != nil {
			writeError(w, err)
			return
		}
		if changed = tree.ChangeSize(n, factor); changed {
			tree.UpdateDataSizes(s.root)
		}
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidArgument, "unknown operation %q", op))
		return
	}

	observability.Tree().OnMutation(r.Context(), op, id, changed)
	if changed {
		s.relayout()
	}
	writeJSON(w, http.StatusOK, opResult{Changed: changed})
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	infos, err := s.cfg.Store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	t := snapshot.FromTree(s.root)
	s.mu.Unlock()

	if err := s.cfg.Store.Save(r.Context(), name, t); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("saved snapshot", "name", name, "nodes", t.Count())
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "nodes": t.Count()})
}

// handleLoadSnapshot replaces the served tree with a stored one.
func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name := chi.URLParam(r, "name")

	t, err := s.cfg.Store.Load(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	root, err := snapshot.ToTree(t)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	s.relayout()
	s.logger.Info("loaded snapshot", "name", name, "nodes", t.Count())
	writeJSON(w, http.StatusOK, s.layout)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.cfg.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "snapshot store is not configured"))
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "%s must be an integer", name)
	}
	if err := errors.ValidateExtent(name, n); err != nil {
		return 0, err
	}
	return n, nil
}

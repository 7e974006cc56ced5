package treemap

import (
	"math/rand/v2"
	"testing"

	"github.com/guptarut/treemap/pkg/tree"
)

func TestRectangles(t *testing.T) {
	a, z := mustNode(t, "A", 30), mustNode(t, "Z", 0)
	c, d := mustNode(t, "C", 20), mustNode(t, "D", 50)
	inner := mustNode(t, "inner", 0, c, d)
	root := mustNode(t, "root", 0, a, z, inner)
	Layout(root, tree.Rect{W: 100, H: 50})

	if got := Rectangles(root); len(got) != 1 || got[0].Node != root {
		t.Errorf("collapsed root: Rectangles() = %v, want only root", got)
	}

	tree.Expand(root)
	got := Rectangles(root)
	if len(got) != 2 || got[0].Node != a || got[1].Node != inner {
		t.Fatalf("Rectangles() = %v, want [A inner]", got)
	}
	if got[1].Rect != inner.Rect {
		t.Errorf("tile rect = %+v, want %+v", got[1].Rect, inner.Rect)
	}

	tree.Expand(inner)
	if got := Rectangles(root); len(got) != 3 {
		t.Errorf("len(Rectangles()) = %d, want 3", len(got))
	}
	if got := Rectangles(tree.NewEmpty()); len(got) != 0 {
		t.Errorf("Rectangles(empty) = %v, want none", got)
	}
}

func TestLocate(t *testing.T) {
	a, b, c := mustNode(t, "A", 30), mustNode(t, "B", 0), mustNode(t, "C", 70)
	root := mustNode(t, "root", 0, a, b, c)
	Layout(root, tree.Rect{W: 100, H: 50})

	if got := Locate(root, tree.Point{X: 10, Y: 10}); got != root {
		t.Errorf("collapsed: Locate() = %v, want root", got)
	}
	if got := Locate(root, tree.Point{X: 101, Y: 10}); got != nil {
		t.Errorf("outside collapsed root: Locate() = %v, want nil", got)
	}

	tree.Expand(root)
	tests := []struct {
		p    tree.Point
		want *tree.Node
	}{
		{tree.Point{X: 10, Y: 10}, a},
		{tree.Point{X: 30, Y: 10}, a},
		{tree.Point{X: 31, Y: 10}, c},
		{tree.Point{X: 100, Y: 50}, c},
		{tree.Point{X: 0, Y: 0}, a},
		{tree.Point{X: 150, Y: 10}, root},
	}
	for _, tt := range tests {
		if got := Locate(root, tt.p); got != tt.want {
			t.Errorf("Locate(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestLocateSkipsZeroWeightChildren(t *testing.T) {
	z, c := mustNode(t, "Z", 0), mustNode(t, "C", 10)
	root := mustNode(t, "root", 0, z, c)
	Layout(root, tree.Rect{W: 100, H: 50})
	tree.Expand(root)

	if got := Locate(root, tree.Point{X: 0, Y: 20}); got != c {
		t.Errorf("Locate() = %v, want C", got)
	}
}

func TestLocateEmpty(t *testing.T) {
	if got := Locate(tree.NewEmpty(), tree.Point{}); got != nil {
		t.Errorf("Locate(empty) = %v, want nil", got)
	}
	zero := mustNode(t, "zero", 0)
	Layout(zero, tree.Rect{W: 10, H: 10})
	if got := Locate(zero, tree.Point{X: 1, Y: 1}); got != nil {
		t.Errorf("Locate(zero weight) = %v, want nil", got)
	}
}

func TestLocateMatchesRectangles(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5^0xdeadbeef))
	for run := 0; run < 50; run++ {
		root := randomTree(t, rng, "r", 4)
		var internal []*tree.Node
		tree.Walk(root, func(n *tree.Node) bool {
			if !n.IsLeaf() {
				internal = append(internal, n)
			}
			return true
		})
		for range len(internal) / 2 {
			tree.Expand(internal[rng.IntN(len(internal))])
		}
		Layout(root, tree.Rect{W: 400 + rng.IntN(400), H: 300 + rng.IntN(300)})

		for _, tile := range Rectangles(root) {
			r := tile.Rect
			if r.W < 2 || r.H < 2 {
				continue
			}
			for _, p := range []tree.Point{
				{X: r.X + 1, Y: r.Y + 1},
				{X: r.X + r.W/2, Y: r.Y + r.H/2},
				{X: r.Right() - 1, Y: r.Bottom() - 1},
			} {
				if got := Locate(root, p); got != tile.Node {
					t.Errorf("Locate(%+v) = %v, want %v (%+v)", p, got, tile.Node, r)
				}
			}
		}
	}
}

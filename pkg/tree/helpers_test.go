package tree

import (
	"testing"
)

func leaf(t *testing.T, name string, w int64) *Node {
	t.Helper()
	n, err := New(name, nil, w, WithColours(RandomColours(1)))
	if err != nil {
		t.Fatalf("New(%q) error: %v", name, err)
	}
	return n
}

func dir(t *testing.T, name string, children ...*Node) *Node {
	t.Helper()
	n, err := New(name, children, 0, WithColours(RandomColours(1)))
	if err != nil {
		t.Fatalf("New(%q) error: %v", name, err)
	}
	return n
}

// sample builds:
//
//	root
//	├── docs (a 10, b 20)
//	├── src
//	│   ├── pkg (c 5, d 0)
//	│   └── e 15
//	└── f 50
func sample(t *testing.T) (root *Node, byName map[string]*Node) {
	t.Helper()
	byName = map[string]*Node{}
	mk := func(name string, w int64) *Node {
		n := leaf(t, name, w)
		byName[name] = n
		return n
	}
	docs := dir(t, "docs", mk("a", 10), mk("b", 20))
	pkg := dir(t, "pkg", mk("c", 5), mk("d", 0))
	src := dir(t, "src", pkg, mk("e", 15))
	root = dir(t, "root", docs, src, mk("f", 50))
	for _, n := range []*Node{docs, pkg, src, root} {
		byName[n.Name()] = n
	}
	return root, byName
}

// checkInvariants verifies weight consistency, parent/child symmetry and
// visibility closure for every node under root.
func checkInvariants(t *testing.T, root *Node) {
	t.Helper()
	Walk(root, func(n *Node) bool {
		if !n.IsLeaf() {
			var sum int64
			for _, c := range n.children {
				sum += c.weight
				if c.parent != n {
					t.Errorf("%s: child %s has parent %v", n.name, c.name, c.parent)
				}
			}
			if n.weight != sum {
				t.Errorf("%s: weight = %d, want %d", n.name, n.weight, sum)
			}
		}
		if n.parent != nil {
			found := 0
			for _, s := range n.parent.children {
				if s == n {
					found++
				}
			}
			if found != 1 {
				t.Errorf("%s: appears %d times in parent's children", n.name, found)
			}
		}
		if n.expanded && n.IsLeaf() {
			t.Errorf("%s: leaf is expanded", n.name)
		}
		if n.expanded && n.parent != nil && !n.parent.expanded {
			t.Errorf("%s: expanded under collapsed parent %s", n.name, n.parent.name)
		}
		return true
	})
}

package tree

import "testing"

func TestWalkHelpers(t *testing.T) {
	root, byName := sample(t)

	if got := Count(root); got != 10 {
		t.Errorf("Count() = %d, want 10", got)
	}
	var names []string
	for _, l := range Leaves(root) {
		names = append(names, l.Name())
	}
	if got, want := len(names), 6; got != want {
		t.Fatalf("len(Leaves()) = %d, want %d", got, want)
	}
	if names[0] != "a" || names[5] != "f" {
		t.Errorf("Leaves() = %v, want layout order", names)
	}
	if got := Depth(byName["c"]); got != 3 {
		t.Errorf("Depth(c) = %d, want 3", got)
	}
	if got := Root(byName["c"]); got != root {
		t.Errorf("Root(c) = %v, want root", got)
	}
	if got := Find(root, byName["d"].ID()); got != byName["d"] {
		t.Errorf("Find() = %v, want d", got)
	}
	if got := Find(root, "missing"); got != nil {
		t.Errorf("Find(missing) = %v, want nil", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	root, _ := sample(t)
	visited := 0
	Walk(root, func(n *Node) bool {
		visited++
		return n == root
	})
	if visited != 4 {
		t.Errorf("visited = %d, want 4", visited)
	}
}

func TestExpandToDepth(t *testing.T) {
	root, byName := sample(t)
	ExpandToDepth(root, 2)
	want := map[string]bool{"root": true, "docs": true, "src": true, "pkg": false}
	for name, exp := range want {
		if byName[name].Expanded() != exp {
			t.Errorf("%s.Expanded() = %v, want %v", name, byName[name].Expanded(), exp)
		}
	}
	checkInvariants(t, root)

	ExpandToDepth(root, 0)
	if root.Expanded() || byName["src"].Expanded() {
		t.Error("depth 0 should collapse everything")
	}
}

func TestIsDisplayed(t *testing.T) {
	root, byName := sample(t)
	if !IsDisplayed(root) {
		t.Error("collapsed root should be displayed")
	}
	Expand(byName["docs"])
	tests := map[string]bool{"root": false, "docs": false, "a": true, "src": true, "f": true, "c": false}
	for name, want := range tests {
		if got := IsDisplayed(byName[name]); got != want {
			t.Errorf("IsDisplayed(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestPathString(t *testing.T) {
	root, byName := sample(t)
	tests := []struct {
		node  *Node
		final bool
		want  string
	}{
		{root, true, "root"},
		{byName["c"], true, "root > src > pkg > c"},
		{byName["src"], false, "root > src"},
	}
	for _, tt := range tests {
		if got := PathString(tt.node, tt.final); got != tt.want {
			t.Errorf("PathString(%s, %v) = %q, want %q", tt.node.Name(), tt.final, got, tt.want)
		}
	}
	if got := PathString(NewEmpty(), true); got != "" {
		t.Errorf("PathString(empty) = %q, want empty", got)
	}
}

func TestPathStringFileSystem(t *testing.T) {
	fs := WithKind(FileSystem{})
	f, _ := New("main.go", nil, 10, fs)
	inner, _ := New("cmd", []*Node{f}, 0, fs)
	root, _ := New("repo", []*Node{inner}, 0, fs)

	tests := []struct {
		node  *Node
		final bool
		want  string
	}{
		{f, false, "repo/cmd/main.go (file)"},
		{inner, true, "repo/cmd (folder)"},
		{inner, false, "repo/cmd"},
		{root, true, "repo (folder)"},
	}
	for _, tt := range tests {
		if got := PathString(tt.node, tt.final); got != tt.want {
			t.Errorf("PathString(%s, %v) = %q, want %q", tt.node.Name(), tt.final, got, tt.want)
		}
	}
	if KindByName(KindName(FileSystem{})) != (FileSystem{}) {
		t.Error("KindByName(KindName(FileSystem)) should round-trip")
	}
}

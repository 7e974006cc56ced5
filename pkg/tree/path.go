package tree

// Kind controls how a node's path string is formatted.
type Kind interface {
	// Separator is placed between ancestor names.
	Separator() string
	// Suffix is appended to the final name. leaf reports whether the node
	// has no children.
	Suffix(leaf bool) string
}

// Generic formats paths as "root > child > leaf" with no suffix.
type Generic struct{}

func (Generic) Separator() string  { return " > " }
func (Generic) Suffix(bool) string { return "" }
func (Generic) String() string     { return "generic" }

// FileSystem formats paths as "root/dir/file (file)" or "root/dir (folder)".
type FileSystem struct{}

func (FileSystem) Separator() string { return "/" }
func (FileSystem) Suffix(leaf bool) string {
	if leaf {
		return " (file)"
	}
	return " (folder)"
}
func (FileSystem) String() string { return "filesystem" }

// KindByName resolves the name written by a Kind's String method.
// Unknown names resolve to Generic.
func KindByName(name string) Kind {
	if name == "filesystem" {
		return FileSystem{}
	}
	return Generic{}
}

// KindName returns the stable name of k used in snapshots.
func KindName(k Kind) string {
	if _, ok := k.(FileSystem); ok {
		return "filesystem"
	}
	return "generic"
}

// PathString returns the names from the root down to n, each joined to its
// parent's path with its own separator. The suffix is added to n when final is
// set, and always to a leaf. The empty tree returns "".
func PathString(n *Node, final bool) string {
	if n == nil || n.IsEmpty() {
		return ""
	}
	var s string
	if n.parent == nil {
		s = n.name
	} else {
		s = PathString(n.parent, false) + n.kind.Separator() + n.name
	}
	if final || (n.parent != nil && n.IsLeaf()) {
		s += n.kind.Suffix(n.IsLeaf())
	}
	return s
}

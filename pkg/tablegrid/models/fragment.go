package models

import "slices"

// Fragment is an immutable ordered list of child nodes.
type Fragment struct {
	nodes []*Node
	size  int
}

// EmptyFragment is the fragment with no children.
var EmptyFragment = Fragment{}

// NewFragment builds a fragment from the given nodes. Nil entries are skipped.
func NewFragment(nodes ...*Node) Fragment {
	f := Fragment{nodes: make([]*Node, 0, len(nodes))}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		f.nodes = append(f.nodes, n)
		f.size += n.NodeSize()
	}
	return f
}

// Size is the total size of the fragment's children.
func (f Fragment) Size() int { return f.size }

// ChildCount returns the number of children.
func (f Fragment) ChildCount() int { return len(f.nodes) }

// Child returns the i-th child. It panics when i is out of range.
func (f Fragment) Child(i int) *Node { return f.nodes[i] }

// MaybeChild returns the i-th child or nil.
func (f Fragment) MaybeChild(i int) *Node {
	if i < 0 || i >= len(f.nodes) {
		return nil
	}
	return f.nodes[i]
}

// FirstChild returns the first child or nil.
func (f Fragment) FirstChild() *Node { return f.MaybeChild(0) }

// LastChild returns the last child or nil.
func (f Fragment) LastChild() *Node { return f.MaybeChild(len(f.nodes) - 1) }

// Nodes returns a copy of the children.
func (f Fragment) Nodes() []*Node { return slices.Clone(f.nodes) }

// Append returns a fragment holding f's children followed by other's.
func (f Fragment) Append(other Fragment) Fragment {
	if other.ChildCount() == 0 {
		return f
	}
	if f.ChildCount() == 0 {
		return other
	}
	nodes := make([]*Node, 0, len(f.nodes)+len(other.nodes))
	nodes = append(nodes, f.nodes...)
	nodes = append(nodes, other.nodes...)
	return Fragment{nodes: nodes, size: f.size + other.size}
}

// Splice returns a fragment where children [from, to) are replaced by nodes.
func (f Fragment) Splice(from, to int, nodes ...*Node) Fragment {
	out := make([]*Node, 0, len(f.nodes)-(to-from)+len(nodes))
	out = append(out, f.nodes[:from]...)
	out = append(out, nodes...)
	out = append(out, f.nodes[to:]...)
	return NewFragment(out...)
}

// ReplaceChild returns a fragment with the i-th child replaced.
func (f Fragment) ReplaceChild(i int, n *Node) Fragment {
	return f.Splice(i, i+1, n)
}

// FindIndex returns the index of the child at offset pos and the offset at
// which that child starts. A position on a boundary resolves to the child
// after it; pos == Size() yields (ChildCount(), Size()).
func (f Fragment) FindIndex(pos int) (index, offset int) {
	if pos == 0 {
		return 0, 0
	}
	if pos == f.size {
		return len(f.nodes), f.size
	}
	cur := 0
	for i, child := range f.nodes {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

// Equal reports whether both fragments hold structurally equal children.
func (f Fragment) Equal(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Equal(other.nodes[i]) {
			return false
		}
	}
	return true
}

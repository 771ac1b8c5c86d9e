package models

import "fmt"

type pathEntry struct {
	node  *Node
	index int
	// offset is the absolute position where child index starts.
	offset int
}

// ResolvedPos is a document position together with the chain of ancestor
// nodes that contain it. Depth 0 is the document itself.
//
// Depth arguments may be negative, in which case they count up from the
// innermost parent: Node(-1) is the parent's parent.
type ResolvedPos struct {
	Pos          int
	ParentOffset int

	path  []pathEntry
	depth int
}

// Resolve resolves pos, a position inside doc's content.
func Resolve(doc *Node, pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > doc.Content.Size() {
		return nil, fmt.Errorf("%w: %d (document size %d)", ErrPositionOutOfRange, pos, doc.Content.Size())
	}
	var path []pathEntry
	start, parentOffset := 0, pos
	for node := doc; ; {
		index, offset := node.Content.FindIndex(parentOffset)
		rem := parentOffset - offset
		path = append(path, pathEntry{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, ParentOffset: parentOffset, path: path, depth: len(path) - 1}, nil
}

// Depth is the number of ancestors between the position and the document.
func (r *ResolvedPos) Depth() int { return r.depth }

func (r *ResolvedPos) resolveDepth(d int) int {
	if d < 0 {
		return r.depth + d
	}
	return d
}

// Doc returns the root node.
func (r *ResolvedPos) Doc() *Node { return r.path[0].node }

// Node returns the ancestor at depth d.
func (r *ResolvedPos) Node(d int) *Node { return r.path[r.resolveDepth(d)].node }

// Parent returns the innermost node containing the position.
func (r *ResolvedPos) Parent() *Node { return r.path[r.depth].node }

// Index returns the child index into the ancestor at depth d.
func (r *ResolvedPos) Index(d int) int { return r.path[r.resolveDepth(d)].index }

// IndexAfter returns the index pointing after the position in the
// ancestor at depth d.
func (r *ResolvedPos) IndexAfter(d int) int {
	d = r.resolveDepth(d)
	if d == r.depth && r.TextOffset() == 0 {
		return r.Index(d)
	}
	return r.Index(d) + 1
}

// TextOffset is the offset into the text node the position points into, or 0.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.path[len(r.path)-1].offset
}

// Start returns the position at the start of the ancestor at depth d.
func (r *ResolvedPos) Start(d int) int {
	d = r.resolveDepth(d)
	if d == 0 {
		return 0
	}
	return r.path[d-1].offset + 1
}

// End returns the position at the end of the ancestor at depth d.
func (r *ResolvedPos) End(d int) int {
	d = r.resolveDepth(d)
	return r.Start(d) + r.Node(d).Content.Size()
}

// Before returns the position directly before the ancestor at depth d.
// It must not be called with depth 0.
func (r *ResolvedPos) Before(d int) int {
	d = r.resolveDepth(d)
	if d == r.depth+1 {
		return r.Pos
	}
	return r.path[d-1].offset
}

// After returns the position directly after the ancestor at depth d.
func (r *ResolvedPos) After(d int) int {
	d = r.resolveDepth(d)
	if d == r.depth+1 {
		return r.Pos
	}
	return r.path[d-1].offset + r.Node(d).NodeSize()
}

// NodeAfter returns the node directly after the position, or nil.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.depth)
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.TextOffset(); off > 0 {
		return child.Cut(off, child.NodeSize())
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil.
func (r *ResolvedPos) NodeBefore() *Node {
	parent := r.Parent()
	index := r.Index(r.depth)
	if off := r.TextOffset(); off > 0 {
		return parent.Child(index).Cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return parent.Child(index - 1)
}

// Resolve resolves another position in the same document.
func (r *ResolvedPos) Resolve(pos int) (*ResolvedPos, error) {
	return Resolve(r.Doc(), pos)
}

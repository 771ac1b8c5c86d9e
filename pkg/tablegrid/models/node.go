package models

import (
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

var nextHandle atomic.Uint64

// Handle identifies one node version. A node built by any edit gets a new
// handle, so derived data keyed by handle never goes stale.
type Handle uint64

// Node is an immutable document node.
type Node struct {
	Type    *NodeType
	Attrs   Attrs
	Content Fragment
	// Text holds the characters of a text node.
	Text string

	handle Handle
}

func newNode(t *NodeType, attrs Attrs, content Fragment, text string) *Node {
	return &Node{
		Type:    t,
		Attrs:   attrs.normalizeFor(t),
		Content: content,
		Text:    text,
		handle:  Handle(nextHandle.Add(1)),
	}
}

// Create builds a node of type t with the given attributes and children.
func (t *NodeType) Create(attrs Attrs, content ...*Node) *Node {
	return newNode(t, attrs, NewFragment(content...), "")
}

// CreateWith builds a node of type t holding an existing fragment.
func (t *NodeType) CreateWith(attrs Attrs, content Fragment) *Node {
	return newNode(t, attrs, content, "")
}

// CreateAndFill builds a minimally valid node of type t: cells get one
// empty paragraph, tables one empty row, documents one empty paragraph.
func (t *NodeType) CreateAndFill(attrs Attrs) *Node {
	s := t.schema
	switch {
	case t.IsCell(), t == s.Doc:
		return t.Create(attrs, s.Paragraph.Create(Attrs{}))
	case t.Role == RoleTable:
		return t.Create(attrs, s.RowType().Create(Attrs{}))
	}
	return t.Create(attrs)
}

// NewText builds a text node.
func (s *Schema) NewText(text string) *Node {
	return newNode(s.Text, Attrs{}, EmptyFragment, text)
}

// Handle returns the node's identity handle.
func (n *Node) Handle() Handle { return n.handle }

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool { return n.Type.Text }

// IsTextblock reports whether n holds inline content.
func (n *Node) IsTextblock() bool { return n.Type.Textblock }

// Role returns the table role of n's type.
func (n *Node) Role() Role { return n.Type.Role }

// NodeSize is the size of n in position units: the text length for text
// nodes, otherwise the content size plus the opening and closing token.
func (n *Node) NodeSize() int {
	if n.Type.Text {
		return utf8.RuneCountInString(n.Text)
	}
	return n.Content.Size() + 2
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return n.Content.ChildCount() }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.Content.Child(i) }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node { return n.Content.FirstChild() }

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node { return n.Content.LastChild() }

// NodeAt returns the node starting at pos, relative to the start of n's
// content, or nil when no node starts there.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.Content.FindIndex(pos)
		node = node.Content.MaybeChild(index)
		if node == nil {
			return nil
		}
		if offset == pos || node.IsText() {
			return node
		}
		pos -= offset + 1
	}
}

// Copy returns a node with n's type and attributes and the given content.
func (n *Node) Copy(content Fragment) *Node {
	return newNode(n.Type, n.Attrs, content, n.Text)
}

// Mark returns a node with the same content and a new type and attributes.
func (n *Node) Mark(t *NodeType, attrs Attrs) *Node {
	return newNode(t, attrs, n.Content, n.Text)
}

// Cut returns the part of a text node between rune offsets from and to.
func (n *Node) Cut(from, to int) *Node {
	if !n.IsText() {
		return n
	}
	runes := []rune(n.Text)
	to = min(to, len(runes))
	if from == 0 && to == len(runes) {
		return n
	}
	return n.Type.schema.NewText(string(runes[from:to]))
}

// SameMarkup reports whether n and other share type and attributes.
func (n *Node) SameMarkup(other *Node) bool {
	return n.Type == other.Type && n.Attrs.Equal(other.Attrs)
}

// Equal reports whether n and other are structurally equal.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.SameMarkup(other) && n.Text == other.Text && n.Content.Equal(other.Content)
}

// Descendants calls f for every descendant of n with its position relative
// to the start of n's content. Returning false skips the node's children.
func (n *Node) Descendants(f func(node *Node, pos int) bool) {
	n.descendantsFrom(0, f)
}

func (n *Node) descendantsFrom(base int, f func(node *Node, pos int) bool) {
	pos := base
	for _, child := range n.Content.nodes {
		if f(child, pos) && child.ChildCount() > 0 {
			child.descendantsFrom(pos+1, f)
		}
		pos += child.NodeSize()
	}
}

// DescendantsFrom is Descendants with positions offset by base.
func (n *Node) DescendantsFrom(base int, f func(node *Node, pos int) bool) {
	n.descendantsFrom(base, f)
}

// TextContent concatenates the text of all descendant text nodes,
// separating textblocks with newlines.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	first := true
	n.Descendants(func(child *Node, _ int) bool {
		switch {
		case child.IsTextblock():
			if !first {
				b.WriteByte('\n')
			}
			first = false
		case child.IsText():
			b.WriteString(child.Text)
		}
		return true
	})
	return b.String()
}

// String renders n in a compact debugging form, e.g.
// table(table_row(table_cell[2x1](paragraph("x")))).
func (n *Node) String() string {
	var b strings.Builder
	n.writeString(&b)
	return b.String()
}

func (n *Node) writeString(b *strings.Builder) {
	if n.IsText() {
		b.WriteString(`"` + n.Text + `"`)
		return
	}
	b.WriteString(n.Type.Name)
	if n.Type.IsCell() && (n.Attrs.Colspan != 1 || n.Attrs.Rowspan != 1) {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(n.Attrs.Colspan))
		b.WriteString("x")
		b.WriteString(strconv.Itoa(n.Attrs.Rowspan))
		b.WriteString("]")
	}
	if n.ChildCount() == 0 {
		return
	}
	b.WriteString("(")
	for i, child := range n.Content.nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		child.writeString(b)
	}
	b.WriteString(")")
}

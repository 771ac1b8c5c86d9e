package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// twoCellDoc is doc(table(row(cell "a", cell "b"))). The table sits at 0,
// the cells at 2 and 7.
func twoCellDoc(s *Schema) *Node {
	return s.DocNode(s.TableNode(s.RowNode(s.TextCell("a"), s.TextCell("b"))))
}

func TestNodeSize(t *testing.T) {
	s := NewSchema()
	if got := s.NewText("héllo").NodeSize(); got != 5 {
		t.Errorf("text size got %d, expected 5", got)
	}
	if got := s.TextCell("a").NodeSize(); got != 5 {
		t.Errorf("cell size got %d, expected 5", got)
	}
	if got := s.CellNode(Attrs{}).NodeSize(); got != 4 {
		t.Errorf("empty cell size got %d, expected 4", got)
	}
	if got := twoCellDoc(s).Content.Size(); got != 14 {
		t.Errorf("doc content size got %d, expected 14", got)
	}
}

func TestCellDefaults(t *testing.T) {
	s := NewSchema()
	cell := s.CellNode(Attrs{})
	if cell.Attrs.Colspan != 1 || cell.Attrs.Rowspan != 1 {
		t.Errorf("spans got %dx%d, expected 1x1", cell.Attrs.Colspan, cell.Attrs.Rowspan)
	}
	if !IsEmptyCell(cell) {
		t.Errorf("a freshly filled cell should be empty")
	}
	if IsEmptyCell(s.TextCell("x")) {
		t.Errorf("a cell with text should not be empty")
	}
	if para := s.Paragraph.Create(Attrs{}); para.Attrs.Colspan != 0 {
		t.Errorf("non-cell nodes should keep zero spans, got %d", para.Attrs.Colspan)
	}
}

func TestResolve(t *testing.T) {
	s := NewSchema()
	doc := twoCellDoc(s)

	r, err := Resolve(doc, 4)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if r.Depth() != 4 {
		t.Fatalf("depth got %d, expected 4", r.Depth())
	}
	if r.Parent().Type != s.Paragraph {
		t.Errorf("parent got %s, expected paragraph", r.Parent().Type)
	}
	if r.Node(-1).Role() != RoleCell {
		t.Errorf("Node(-1) got %s, expected a cell", r.Node(-1).Type)
	}
	if got := r.Start(1); got != 1 {
		t.Errorf("Start(1) got %d, expected 1", got)
	}
	if got := r.Before(3); got != 2 {
		t.Errorf("Before(3) got %d, expected 2", got)
	}
	if got := r.After(3); got != 7 {
		t.Errorf("After(3) got %d, expected 7", got)
	}
	if got := r.End(2); got != 12 {
		t.Errorf("End(2) got %d, expected 12", got)
	}
	if r.NodeAfter() == nil || r.NodeAfter().Text != "a" {
		t.Errorf("NodeAfter got %v, expected the text node", r.NodeAfter())
	}

	second, err := r.Resolve(9)
	if err != nil {
		t.Fatalf("Resolve(9) failed: %v", err)
	}
	if second.Index(2) != 1 {
		t.Errorf("Index(2) got %d, expected 1", second.Index(2))
	}
	if second.Node(3).TextContent() != "b" {
		t.Errorf("Node(3) got %q, expected the second cell", second.Node(3).TextContent())
	}

	between, err := Resolve(doc, 7)
	if err != nil {
		t.Fatalf("Resolve(7) failed: %v", err)
	}
	if between.Depth() != 2 || between.Index(2) != 1 || between.NodeBefore() == nil {
		t.Errorf("position between cells resolved to depth %d index %d", between.Depth(), between.Index(2))
	}

	if _, err := Resolve(doc, 100); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Resolve(100) got %v, expected ErrPositionOutOfRange", err)
	}
}

func TestTextOffset(t *testing.T) {
	s := NewSchema()
	doc := s.DocNode(s.Para("abc"))
	r, err := Resolve(doc, 2)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if r.TextOffset() != 1 {
		t.Errorf("TextOffset got %d, expected 1", r.TextOffset())
	}
	if got := r.NodeBefore().Text; got != "a" {
		t.Errorf("NodeBefore got %q, expected %q", got, "a")
	}
	if got := r.NodeAfter().Text; got != "bc" {
		t.Errorf("NodeAfter got %q, expected %q", got, "bc")
	}
}

func TestNodeAt(t *testing.T) {
	s := NewSchema()
	table := twoCellDoc(s).FirstChild()
	tests := []struct {
		pos      int
		expected string
	}{
		{0, TypeTableRow},
		{1, TypeTableCell},
		{6, TypeTableCell},
		{2, TypeParagraph},
	}
	for _, tt := range tests {
		node := table.NodeAt(tt.pos)
		if node == nil || node.Type.Name != tt.expected {
			t.Errorf("NodeAt(%d) got %v, expected %s", tt.pos, node, tt.expected)
		}
	}
	if got := table.NodeAt(6).TextContent(); got != "b" {
		t.Errorf("NodeAt(6) got %q, expected the second cell", got)
	}
	if node := table.NodeAt(50); node != nil {
		t.Errorf("NodeAt(50) got %v, expected nil", node)
	}
}

func TestDescendants(t *testing.T) {
	s := NewSchema()
	doc := twoCellDoc(s)
	var cells []int
	doc.Descendants(func(node *Node, pos int) bool {
		if node.Type.IsCell() {
			cells = append(cells, pos)
			return false
		}
		return true
	})
	if !reflect.DeepEqual(cells, []int{2, 7}) {
		t.Errorf("cell positions got %v, expected [2 7]", cells)
	}
}

func TestTextContent(t *testing.T) {
	s := NewSchema()
	cell := s.CellNode(Attrs{}, s.Para("a"), s.Para("b"))
	if got := cell.TextContent(); got != "a\nb" {
		t.Errorf("TextContent got %q, expected %q", got, "a\nb")
	}
}

func TestAttrsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		got      Attrs
		expected Attrs
	}{
		{
			name:     "remove middle column",
			got:      RemoveColSpan(Attrs{Colspan: 3, Rowspan: 1, Colwidth: []int{10, 20, 30}}, 1, 1),
			expected: Attrs{Colspan: 2, Rowspan: 1, Colwidth: []int{10, 30}},
		},
		{
			name:     "remove the only set width",
			got:      RemoveColSpan(Attrs{Colspan: 2, Rowspan: 1, Colwidth: []int{0, 20}}, 1, 1),
			expected: Attrs{Colspan: 1, Rowspan: 1},
		},
		{
			name:     "add column with widths",
			got:      AddColSpan(Attrs{Colspan: 2, Rowspan: 1, Colwidth: []int{10, 20}}, 1, 1),
			expected: Attrs{Colspan: 3, Rowspan: 1, Colwidth: []int{10, 0, 20}},
		},
		{
			name:     "add column without widths",
			got:      AddColSpan(Attrs{Colspan: 1, Rowspan: 2}, 1, 2),
			expected: Attrs{Colspan: 3, Rowspan: 2},
		},
		{
			name:     "set rowspan",
			got:      CellAttrs(2, 1).WithRowspan(3),
			expected: Attrs{Colspan: 2, Rowspan: 3},
		},
		{
			name:     "set domain attribute",
			got:      CellAttrs(1, 1).With("background", "red"),
			expected: Attrs{Colspan: 1, Rowspan: 1, Extra: map[string]any{"background": "red"}},
		},
		{
			name:     "clear colwidth",
			got:      CellAttrs(1, 1).WithColwidth([]int{5}).With(AttrColwidth, nil),
			expected: Attrs{Colspan: 1, Rowspan: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.expected) {
				t.Errorf("got %+v, expected %+v", tt.got, tt.expected)
			}
		})
	}
}

func TestAttrsCloneIsIndependent(t *testing.T) {
	orig := Attrs{Colspan: 2, Rowspan: 1, Colwidth: []int{10, 20}, Extra: map[string]any{"k": "v"}}
	clone := orig.Clone()
	clone.Colwidth[0] = 99
	clone.Extra["k"] = "changed"
	if orig.Colwidth[0] != 10 {
		t.Errorf("clone shares colwidth with the original")
	}
	if orig.Extra["k"] != "v" {
		t.Errorf("clone shares extra attributes with the original")
	}
	if !orig.Has(AttrColspan, 2) {
		t.Errorf("Has(colspan, 2) should be true")
	}
	if orig.Get(AttrColwidth) == nil || (Attrs{}).Get(AttrColwidth) != nil {
		t.Errorf("Get(colwidth) should be nil only when unset")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewSchema()
	doc := s.DocNode(
		s.TableType().Create(Attrs{Extra: map[string]any{"sheet": "Sheet1"}},
			s.RowNode(
				s.HeaderNode(CellAttrs(2, 1).WithColwidth([]int{100, 0}), s.Para("head")),
			),
			s.RowNode(s.TextCell("a"), s.CellNode(Attrs{})),
		),
	)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := s.NodeFromJSON(data)
	if err != nil {
		t.Fatalf("NodeFromJSON failed: %v", err)
	}
	if !decoded.Equal(doc) {
		t.Errorf("round trip got %s, expected %s", decoded, doc)
	}
}

func TestNodeFromJSONErrors(t *testing.T) {
	s := NewSchema()
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"malformed", `{"type":`, ErrInvalidJSON},
		{"unknown type", `{"type":"figure"}`, ErrUnknownNodeType},
		{"missing type", `{"content":[]}`, ErrInvalidJSON},
		{"bad span", `{"type":"table_cell","attrs":{"colspan":"wide"}}`, ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.NodeFromJSON([]byte(tt.input)); !errors.Is(err, tt.err) {
				t.Errorf("got %v, expected %v", err, tt.err)
			}
		})
	}
}

func TestHandlesAreUnique(t *testing.T) {
	s := NewSchema()
	a, b := s.TextCell("a"), s.TextCell("a")
	if a.Handle() == b.Handle() {
		t.Errorf("two nodes share handle %d", a.Handle())
	}
	if !a.Equal(b) {
		t.Errorf("structurally equal nodes should compare equal")
	}
}

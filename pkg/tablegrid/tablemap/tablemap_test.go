package tablemap

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

var schema = models.NewSchema()

func cell(text string) *models.Node { return schema.TextCell(text) }

func span(text string, colspan, rowspan int) *models.Node {
	return schema.CellNode(models.CellAttrs(colspan, rowspan), schema.Para(text))
}

func widthCell(text string, colwidth ...int) *models.Node {
	return schema.CellNode(models.CellAttrs(1, 1).WithColwidth(colwidth), schema.Para(text))
}

func table(rows ...[]*models.Node) *models.Node {
	nodes := make([]*models.Node, len(rows))
	for i, r := range rows {
		nodes[i] = schema.RowNode(r...)
	}
	return schema.TableNode(nodes...)
}

func row(cells ...*models.Node) []*models.Node { return cells }

// simple3x3 has cells a..i; offsets are 1, 6, 11 / 18, 23, 28 / 35, 40, 45.
func simple3x3() *models.Node {
	return table(
		row(cell("a"), cell("b"), cell("c")),
		row(cell("d"), cell("e"), cell("f")),
		row(cell("g"), cell("h"), cell("i")),
	)
}

// spanned3x3 has a 2x2 cell in the top left corner; offsets are
// 1, 6 / 13 / 20, 25, 30.
func spanned3x3() *models.Node {
	return table(
		row(span("a", 2, 2), cell("b")),
		row(cell("c")),
		row(cell("d"), cell("e"), cell("f")),
	)
}

func mustCompute(t *testing.T, tbl *models.Node) *TableMap {
	t.Helper()
	m, err := Compute(tbl)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return m
}

func TestComputeSimple(t *testing.T) {
	m := mustCompute(t, simple3x3())
	if m.Width != 3 || m.Height != 3 {
		t.Errorf("size got %dx%d, expected 3x3", m.Width, m.Height)
	}
	expected := []int{1, 6, 11, 18, 23, 28, 35, 40, 45}
	if !reflect.DeepEqual(m.Map, expected) {
		t.Errorf("map got %v, expected %v", m.Map, expected)
	}
	if m.Problems != nil {
		t.Errorf("expected no problems, got %v", m.Problems)
	}
}

func TestComputeSpans(t *testing.T) {
	m := mustCompute(t, spanned3x3())
	expected := []int{1, 1, 6, 1, 1, 13, 20, 25, 30}
	if !reflect.DeepEqual(m.Map, expected) {
		t.Errorf("map got %v, expected %v", m.Map, expected)
	}
	if m.Problems != nil {
		t.Errorf("expected no problems, got %v", m.Problems)
	}

	r, err := m.FindCell(1)
	if err != nil {
		t.Fatalf("FindCell failed: %v", err)
	}
	if r != (Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}) {
		t.Errorf("FindCell(1) got %v, expected 2x2 at origin", r)
	}

	cells := m.CellsInRect(Rect{Right: m.Width, Bottom: m.Height})
	if !reflect.DeepEqual(cells, []int{1, 6, 13, 20, 25, 30}) {
		t.Errorf("CellsInRect got %v", cells)
	}
}

func TestComputeProblems(t *testing.T) {
	tests := []struct {
		name     string
		table    *models.Node
		expected []Problem
	}{
		{
			name: "short row",
			table: table(
				row(cell("a"), cell("b"), cell("c"), cell("d")),
				row(cell("e"), cell("f"), cell("g")),
				row(cell("h"), cell("i"), cell("j"), cell("k")),
			),
			expected: []Problem{Missing(1, 1)},
		},
		{
			name:     "overlong rowspan",
			table:    table(row(span("a", 1, 3), cell("b"))),
			expected: []Problem{OverlongRowspan(1, 2)},
		},
		{
			name: "colspan over a rowspan",
			table: table(
				row(cell("a"), span("b", 1, 2)),
				row(span("c", 2, 1)),
			),
			expected: []Problem{Missing(0, 1), Collision(1, 13, 1), Missing(1, 1)},
		},
		{
			name: "disagreeing column widths",
			table: table(
				row(widthCell("a", 100)),
				row(widthCell("b", 200)),
			),
			expected: []Problem{ColwidthMismatch(1, []int{200})},
		},
		{
			name: "column width on one row only",
			table: table(
				row(widthCell("a", 100)),
				row(cell("b")),
			),
			expected: []Problem{ColwidthMismatch(8, []int{100})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustCompute(t, tt.table)
			if !reflect.DeepEqual(m.Problems, tt.expected) {
				t.Errorf("problems got %v, expected %v", m.Problems, tt.expected)
			}
			if len(m.Map) != m.Width*m.Height {
				t.Errorf("len(Map) = %d, expected %d", len(m.Map), m.Width*m.Height)
			}
		})
	}
}

func TestComputeNotTable(t *testing.T) {
	_, err := Compute(schema.Para("x"))
	if !errors.Is(err, ErrNotTable) {
		t.Errorf("got %v, expected ErrNotTable", err)
	}
}

func TestFindCellUnknownOffset(t *testing.T) {
	m := mustCompute(t, simple3x3())
	if _, err := m.FindCell(2); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("FindCell(2) got %v, expected ErrCellNotFound", err)
	}
	if _, err := m.ColCount(99); !errors.Is(err, ErrCellNotFound) {
		t.Errorf("ColCount(99) got %v, expected ErrCellNotFound", err)
	}
}

func TestColCount(t *testing.T) {
	m := mustCompute(t, spanned3x3())
	tests := []struct {
		pos      int
		expected int
	}{
		{1, 0}, {6, 2}, {13, 2}, {20, 0}, {25, 1}, {30, 2},
	}
	for _, tt := range tests {
		got, err := m.ColCount(tt.pos)
		if err != nil {
			t.Fatalf("ColCount(%d) failed: %v", tt.pos, err)
		}
		if got != tt.expected {
			t.Errorf("ColCount(%d) got %d, expected %d", tt.pos, got, tt.expected)
		}
	}
}

func TestNextCell(t *testing.T) {
	m := mustCompute(t, spanned3x3())
	tests := []struct {
		pos      int
		axis     Axis
		dir      int
		expected int
		ok       bool
	}{
		{1, Horizontal, 1, 6, true},
		{1, Horizontal, -1, 0, false},
		{1, Vertical, 1, 20, true},
		{6, Vertical, 1, 13, true},
		{13, Horizontal, -1, 1, true},
		{30, Vertical, 1, 0, false},
		{25, Vertical, -1, 1, true},
	}
	for _, tt := range tests {
		got, ok, err := m.NextCell(tt.pos, tt.axis, tt.dir)
		if err != nil {
			t.Fatalf("NextCell(%d) failed: %v", tt.pos, err)
		}
		if ok != tt.ok || got != tt.expected {
			t.Errorf("NextCell(%d, %s, %d) got (%d, %v), expected (%d, %v)",
				tt.pos, tt.axis, tt.dir, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestRectBetweenSymmetric(t *testing.T) {
	for _, tbl := range []*models.Node{simple3x3(), spanned3x3()} {
		m := mustCompute(t, tbl)
		cells := m.CellsInRect(Rect{Right: m.Width, Bottom: m.Height})
		for _, a := range cells {
			for _, b := range cells {
				ab, err := m.RectBetween(a, b)
				if err != nil {
					t.Fatalf("RectBetween(%d, %d) failed: %v", a, b, err)
				}
				ba, _ := m.RectBetween(b, a)
				if ab != ba {
					t.Errorf("RectBetween(%d, %d) = %v but RectBetween(%d, %d) = %v", a, b, ab, b, a, ba)
				}
			}
		}
	}
}

func TestCellsInRect(t *testing.T) {
	m := mustCompute(t, spanned3x3())
	tests := []struct {
		rect     Rect
		expected []int
	}{
		{Rect{Left: 0, Top: 0, Right: 3, Bottom: 1}, []int{1, 6}},
		// The 2x2 cell reaches in from the row above and is left out.
		{Rect{Left: 0, Top: 1, Right: 3, Bottom: 3}, []int{13, 20, 25, 30}},
		// The 2x2 cell reaches in from the left.
		{Rect{Left: 1, Top: 0, Right: 3, Bottom: 2}, []int{6, 13}},
	}
	for _, tt := range tests {
		got := m.CellsInRect(tt.rect)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("CellsInRect(%v) got %v, expected %v", tt.rect, got, tt.expected)
		}
		seen := make(map[int]bool)
		for _, pos := range got {
			if seen[pos] {
				t.Errorf("CellsInRect(%v) returned %d twice", tt.rect, pos)
			}
			seen[pos] = true
			r, _ := m.FindCell(pos)
			if r.Left < tt.rect.Left || r.Top < tt.rect.Top {
				t.Errorf("CellsInRect(%v) returned %d anchored at %v", tt.rect, pos, r)
			}
		}
	}
}

func TestPositionAt(t *testing.T) {
	tbl := spanned3x3()
	m := mustCompute(t, tbl)
	tests := []struct {
		row, col int
		expected int
	}{
		{0, 0, 1},
		{0, 2, 6},
		{0, 3, 11},
		{1, 0, 13},
		{1, 2, 13},
		{1, 3, 18},
		{2, 1, 25},
		{5, 0, tbl.Content.Size()},
	}
	for _, tt := range tests {
		if got := m.PositionAt(tt.row, tt.col, tbl); got != tt.expected {
			t.Errorf("PositionAt(%d, %d) got %d, expected %d", tt.row, tt.col, got, tt.expected)
		}
	}
}

func TestCellsOverlapRectangle(t *testing.T) {
	tbl := table(
		row(cell("a"), cell("b"), cell("c")),
		row(cell("d"), span("e", 2, 1)),
	)
	m := mustCompute(t, tbl)
	tests := []struct {
		rect     Rect
		expected bool
	}{
		{Rect{Left: 0, Top: 0, Right: 2, Bottom: 2}, true},
		{Rect{Left: 0, Top: 0, Right: 3, Bottom: 2}, false},
		{Rect{Left: 1, Top: 1, Right: 3, Bottom: 2}, false},
		{Rect{Left: 0, Top: 0, Right: 2, Bottom: 1}, false},
	}
	for _, tt := range tests {
		if got := m.CellsOverlapRectangle(tt.rect); got != tt.expected {
			t.Errorf("CellsOverlapRectangle(%v) got %v, expected %v", tt.rect, got, tt.expected)
		}
	}
}

func TestHeaderQueries(t *testing.T) {
	tbl := table(
		row(schema.TextHeader("a"), schema.TextHeader("b")),
		row(schema.TextHeader("c"), cell("d")),
	)
	m := mustCompute(t, tbl)
	if !m.IsRowHeader(tbl, 0) {
		t.Errorf("row 0 should be a header row")
	}
	if m.IsRowHeader(tbl, 1) {
		t.Errorf("row 1 should not be a header row")
	}
	if !m.IsColumnHeader(tbl, 0) {
		t.Errorf("column 0 should be a header column")
	}
	if m.IsColumnHeader(tbl, 1) {
		t.Errorf("column 1 should not be a header column")
	}
}

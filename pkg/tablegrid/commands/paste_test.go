package commands

import (
	"reflect"
	"testing"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

func tableSlice(rows ...*models.Node) Slice {
	return Slice{Content: models.NewFragment(schema.TableNode(rows...))}
}

func paste(t *testing.T, state State, slice Slice) State {
	t.Helper()
	var result *Transaction
	if !HandlePaste(state, func(tr *Transaction) { result = tr }, slice) {
		t.Fatalf("paste was not handled")
	}
	if result == nil {
		t.Fatalf("paste did not dispatch")
	}
	return result.Apply()
}

func TestPastedCells(t *testing.T) {
	tests := []struct {
		name          string
		slice         Slice
		width, height int
		ok            bool
	}{
		{
			name:  "whole table",
			slice: tableSlice(row(cell("x"), cell("y")), row(cell("z"), cell("w"))),
			width: 2, height: 2, ok: true,
		},
		{
			name:  "bare cells",
			slice: Slice{Content: models.NewFragment(cell("x"), cell("y")), OpenStart: 1, OpenEnd: 1},
			width: 2, height: 1, ok: true,
		},
		{
			name:  "rows cut out of a table",
			slice: Slice{Content: models.NewFragment(row(cell("x")), row(cell("y"))), OpenStart: 0, OpenEnd: 0},
			width: 1, height: 2, ok: true,
		},
		{
			name:  "rowspan reaching past the last row",
			slice: tableSlice(row(span("x", 1, 2))),
			width: 1, height: 2, ok: true,
		},
		{
			name:  "paragraph",
			slice: Slice{Content: models.NewFragment(schema.Para("text"))},
			ok:    false,
		},
		{
			name: "empty",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, ok := PastedCells(tt.slice)
			if ok != tt.ok {
				t.Fatalf("ok got %v, expected %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if cells.Width != tt.width || cells.Height != tt.height || len(cells.Rows) != tt.height {
				t.Errorf("got %dx%d with %d rows, expected %dx%d", cells.Width, cells.Height, len(cells.Rows), tt.width, tt.height)
			}
		})
	}
}

func TestPastedCellsPadsShortRows(t *testing.T) {
	cells, ok := PastedCells(tableSlice(row(cell("a"), cell("b")), row(cell("c"))))
	if !ok {
		t.Fatalf("expected cells")
	}
	if cells.Width != 2 {
		t.Errorf("width got %d, expected 2", cells.Width)
	}
	if got := cells.Rows[1].ChildCount(); got != 2 {
		t.Errorf("second row has %d cells, expected 2", got)
	}
	if !models.IsEmptyCell(cells.Rows[1].Child(1)) {
		t.Errorf("padding cell should be empty")
	}
}

func TestClipCells(t *testing.T) {
	wide := schema.CellNode(models.CellAttrs(3, 1).WithColwidth([]int{10, 20, 30}), schema.Para("w"))
	clipped := ClipCells(Cells{Width: 3, Height: 1, Rows: []models.Fragment{models.NewFragment(wide)}}, 2, 1)
	got := clipped.Rows[0].Child(0).Attrs
	if got.Colspan != 2 || !reflect.DeepEqual(got.Colwidth, []int{10, 20}) {
		t.Errorf("clipped cell got colspan %d colwidth %v, expected 2 [10 20]", got.Colspan, got.Colwidth)
	}

	tall := Cells{Width: 1, Height: 3, Rows: []models.Fragment{
		models.NewFragment(span("t", 1, 3)), models.EmptyFragment, models.EmptyFragment,
	}}
	clipped = ClipCells(tall, 1, 2)
	if clipped.Height != 2 || clipped.Rows[0].Child(0).Attrs.Rowspan != 2 {
		t.Errorf("clipped height %d rowspan %d, expected 2 and 2", clipped.Height, clipped.Rows[0].Child(0).Attrs.Rowspan)
	}

	single := Cells{Width: 1, Height: 1, Rows: []models.Fragment{models.NewFragment(cell("z"))}}
	repeated := ClipCells(single, 2, 3)
	if repeated.Width != 2 || repeated.Height != 3 {
		t.Fatalf("repeated got %dx%d, expected 2x3", repeated.Width, repeated.Height)
	}
	for i, r := range repeated.Rows {
		if r.ChildCount() != 2 || r.Child(1).TextContent() != "z" {
			t.Errorf("row %d got %d cells, expected two copies of z", i, r.ChildCount())
		}
	}
}

func TestPasteAtCursor(t *testing.T) {
	state := paste(t, inCell(grid3x3(), 24), tableSlice(row(cell("x"), cell("y"))))
	expected := [][]string{{"a", "b", "c"}, {"d", "x", "y"}, {"g", "h", "i"}}
	if got := texts(state.Doc); !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, expected %q", got, expected)
	}
	sel, ok := state.Selection.(CellSelection)
	if !ok || sel.Anchor() != 24 || sel.Head() != 29 {
		t.Errorf("selection got %#v, expected cells 24 to 29", state.Selection)
	}
}

func TestPasteGrowsTable(t *testing.T) {
	state := paste(t, inCell(grid3x3(), 46), tableSlice(
		row(cell("p"), cell("q")),
		row(cell("r"), cell("s")),
	))
	expected := [][]string{
		{"a", "b", "c", ""},
		{"d", "e", "f", ""},
		{"g", "h", "p", "q"},
		{"", "", "r", "s"},
	}
	if got := texts(state.Doc); !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, expected %q", got, expected)
	}
	cleanMap(t, state.Doc)
}

func TestPasteIntoCellSelectionRepeats(t *testing.T) {
	state := paste(t, cellSel(grid3x3(), 2, 24), tableSlice(row(cell("z"))))
	expected := [][]string{{"z", "z", "c"}, {"z", "z", "f"}, {"g", "h", "i"}}
	if got := texts(state.Doc); !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, expected %q", got, expected)
	}
}

func TestPasteTextIntoCellSelection(t *testing.T) {
	slice := Slice{Content: models.NewFragment(schema.Para("t"))}
	state := paste(t, cellSel(grid3x3(), 36, 41), slice)
	if got := texts(state.Doc)[2]; !reflect.DeepEqual(got, []string{"t", "t", "i"}) {
		t.Errorf("last row got %q, expected t t i", got)
	}
}

func TestPasteSplitsSpanningCells(t *testing.T) {
	doc := docWith(
		row(cell("a"), span("b", 2, 2)),
		row(cell("c")),
		row(cell("d"), cell("e"), cell("f")),
	)
	// A 2x1 block pasted at c covers the left half of the lower part of b.
	state := paste(t, inCell(doc, 14), tableSlice(row(cell("x"), cell("y"))))
	expected := [][]string{{"a", "b"}, {"x", "y", ""}, {"d", "e", "f"}}
	if got := texts(state.Doc); !reflect.DeepEqual(got, expected) {
		t.Errorf("got %q, expected %q", got, expected)
	}
	b := state.Doc.FirstChild().Child(0).Child(1)
	if b.Attrs.Colspan != 2 || b.Attrs.Rowspan != 1 {
		t.Errorf("b got %dx%d, expected 2x1", b.Attrs.Colspan, b.Attrs.Rowspan)
	}
	m := cleanMap(t, state.Doc)
	if m.Width != 3 || m.Height != 3 {
		t.Errorf("size got %dx%d, expected 3x3", m.Width, m.Height)
	}
}

func TestPasteOutsideTable(t *testing.T) {
	state := State{Doc: schema.DocNode(schema.Para("x")), Selection: Cursor(1)}
	if HandlePaste(state, nil, tableSlice(row(cell("x")))) {
		t.Errorf("paste handled outside a table")
	}
	if HandlePaste(inCell(grid3x3(), 2), nil, Slice{Content: models.NewFragment(schema.Para("p"))}) {
		t.Errorf("plain text pasted at a cursor should not be handled")
	}
}

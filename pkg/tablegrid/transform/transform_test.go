package transform

import (
	"errors"
	"testing"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

var schema = models.NewSchema()

// rowDoc is doc(table(row(cell "a", cell "b"))); the cells sit at 2 and 7
// and the row's content ends at 12.
func rowDoc() *models.Node {
	return schema.DocNode(schema.TableNode(schema.RowNode(schema.TextCell("a"), schema.TextCell("b"))))
}

func TestStepMap(t *testing.T) {
	// 2 positions deleted at 5, 4 inserted in their place.
	m := NewStepMap(5, 2, 4)
	tests := []struct {
		pos, assoc int
		expected   int
		deleted    bool
	}{
		{3, 1, 3, false},
		{5, 1, 5, true},
		{6, 1, 9, true},
		{7, 1, 9, false},
		{10, 1, 12, false},
	}
	for _, tt := range tests {
		r := m.MapResult(tt.pos, tt.assoc)
		if r.Pos != tt.expected || r.Deleted != tt.deleted {
			t.Errorf("MapResult(%d, %d) got %+v, expected {Pos:%d Deleted:%v}",
				tt.pos, tt.assoc, r, tt.expected, tt.deleted)
		}
	}
}

func TestStepMapInsertion(t *testing.T) {
	m := NewStepMap(5, 0, 3)
	if got := m.Map(5, 1); got != 8 {
		t.Errorf("Map(5, 1) got %d, expected 8", got)
	}
	if got := m.Map(5, -1); got != 5 {
		t.Errorf("Map(5, -1) got %d, expected 5", got)
	}
	if IdentityMap.Map(42, 1) != 42 {
		t.Errorf("identity map moved a position")
	}
}

func TestMappingSlice(t *testing.T) {
	var m Mapping
	m.AppendMap(NewStepMap(0, 0, 5))
	marker := m.Len()
	m.AppendMap(NewStepMap(10, 0, 5))

	if got := m.Map(12, 1); got != 22 {
		t.Errorf("Map(12) through both steps got %d, expected 22", got)
	}
	if got := m.Slice(marker).Map(12, 1); got != 17 {
		t.Errorf("Map(12) through the second step got %d, expected 17", got)
	}
	if got := len(m.Slice(marker).Maps()); got != 1 {
		t.Errorf("slice holds %d maps, expected 1", got)
	}
}

func TestInsertAndDelete(t *testing.T) {
	tr := New(rowDoc())
	tr.Insert(12, schema.TextCell("c"))
	if err := tr.Err(); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	row := tr.Doc().FirstChild().FirstChild()
	if row.ChildCount() != 3 || row.Child(2).TextContent() != "c" {
		t.Fatalf("row got %s, expected three cells ending with c", row)
	}

	tr.Delete(2, 7)
	if err := tr.Err(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	row = tr.Doc().FirstChild().FirstChild()
	if row.ChildCount() != 2 || row.Child(0).TextContent() != "b" {
		t.Errorf("row got %s, expected b and c", row)
	}
	if len(tr.Steps()) != 2 || !tr.DocChanged() {
		t.Errorf("got %d steps, expected 2", len(tr.Steps()))
	}
	// The original second cell moved from 7 to 2.
	if got := tr.Mapping().Map(7, 1); got != 2 {
		t.Errorf("Map(7) got %d, expected 2", got)
	}
	if tr.Before().Equal(tr.Doc()) {
		t.Errorf("Before should still hold the original document")
	}
}

func TestSetNodeMarkup(t *testing.T) {
	tr := New(rowDoc())
	tr.SetNodeMarkup(7, schema.HeaderType(), models.CellAttrs(1, 1).With("align", "left"))
	if err := tr.Err(); err != nil {
		t.Fatalf("SetNodeMarkup failed: %v", err)
	}
	cell := tr.Doc().NodeAt(7)
	if cell.Role() != models.RoleHeaderCell {
		t.Errorf("cell role got %s, expected header", cell.Role())
	}
	if !cell.Attrs.Has("align", "left") {
		t.Errorf("attribute not applied: %+v", cell.Attrs)
	}
	if cell.TextContent() != "b" {
		t.Errorf("content got %q, expected b", cell.TextContent())
	}
	if got := tr.Mapping().Map(9, 1); got != 9 {
		t.Errorf("markup change moved position 9 to %d", got)
	}
}

func TestInvalidSteps(t *testing.T) {
	tests := []struct {
		name string
		step Step
		err  error
	}{
		{"backwards range", ReplaceStep{From: 7, To: 2}, ErrInvalidReplace},
		{"out of range", ReplaceStep{From: 2, To: 99}, ErrInvalidPosition},
		{"different parents", ReplaceStep{From: 2, To: 4}, ErrInvalidReplace},
		{"insert at text end", ReplaceStep{From: 5, To: 5, Content: models.NewFragment(schema.NewText("x"))}, nil},
		{"no node", SetMarkupStep{Pos: 50}, ErrInvalidPosition},
		{"text node", SetMarkupStep{Pos: 4}, ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Apply(rowDoc())
			if tt.err == nil {
				if err != nil {
					t.Errorf("got %v, expected success", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("got %v, expected %v", err, tt.err)
			}
		})
	}
}

func TestSplitTextRejected(t *testing.T) {
	doc := schema.DocNode(schema.Para("abc"))
	_, err := ReplaceStep{From: 2, To: 3}.Apply(doc)
	if !errors.Is(err, ErrInvalidReplace) {
		t.Errorf("got %v, expected ErrInvalidReplace", err)
	}
}

func TestErrorIsSticky(t *testing.T) {
	tr := New(rowDoc())
	tr.Delete(7, 2)
	first := tr.Err()
	if first == nil {
		t.Fatalf("expected an error from a backwards delete")
	}
	tr.Insert(12, schema.TextCell("c"))
	if tr.Err() != first {
		t.Errorf("error got %v, expected the first error %v", tr.Err(), first)
	}
	if tr.DocChanged() {
		t.Errorf("no step should have been recorded")
	}
}

func TestEmptyReplaceIsNoop(t *testing.T) {
	tr := New(rowDoc())
	tr.Replace(3, 3, models.EmptyFragment)
	if tr.DocChanged() || tr.Err() != nil {
		t.Errorf("empty replace recorded a step or failed: %v", tr.Err())
	}
}

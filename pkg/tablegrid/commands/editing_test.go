package commands

import (
	"testing"
)

func TestApplyEditingState(t *testing.T) {
	doc := grid3x3()

	start := State{Doc: doc, Selection: Cursor(4)}.Tr().SetMeta(MetaSelectingCells, 7)
	st := ApplyEditingState(EditingState{}, start)
	if !st.Active || st.Anchor != 7 {
		t.Fatalf("got %+v, expected an active state anchored at 7", st)
	}

	// An insertion before the anchor moves it.
	tr := State{Doc: doc, Selection: Cursor(4)}.Tr()
	tr.Insert(2, cell("n"))
	if moved := ApplyEditingState(st, tr); !moved.Active || moved.Anchor != 12 {
		t.Errorf("got %+v, expected the anchor moved to 12", moved)
	}

	// Deleting the anchor cell ends the drag.
	tr = State{Doc: doc, Selection: Cursor(4)}.Tr()
	tr.Delete(2, 12)
	if cleared := ApplyEditingState(st, tr); cleared.Active {
		t.Errorf("got %+v, expected the state cleared", cleared)
	}

	stop := State{Doc: doc, Selection: Cursor(4)}.Tr().SetMeta(MetaSelectingCells, -1)
	if stopped := ApplyEditingState(st, stop); stopped.Active {
		t.Errorf("got %+v, expected the state cleared", stopped)
	}

	// Transactions without changes keep the state.
	idle := State{Doc: doc, Selection: Cursor(4)}.Tr()
	if kept := ApplyEditingState(st, idle); kept != st {
		t.Errorf("got %+v, expected %+v", kept, st)
	}
}

func TestNormalizeRepairsChangedTables(t *testing.T) {
	broken := docWith(row(cell("a"), cell("b")), row(cell("c")))
	cur := State{Doc: broken, Selection: Cursor(4)}

	tr, err := Normalize(State{}, cur)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if tr == nil || !tr.DocChanged() {
		t.Fatalf("expected a repair transaction")
	}
	cleanMap(t, tr.Doc())

	// The same document compared with itself is left alone.
	if tr, err := Normalize(cur, cur); err != nil || tr != nil {
		t.Errorf("got %v, %v, expected nothing to do", tr, err)
	}
}

func TestNormalizeSelection(t *testing.T) {
	doc := grid3x3()
	nodeSel := func(pos int) Selection {
		sel, err := NewNodeSelection(doc, pos)
		if err != nil {
			t.Fatalf("NewNodeSelection(%d) failed: %v", pos, err)
		}
		return sel
	}
	tests := []struct {
		name         string
		sel          Selection
		anchor, head int
		cellSel      bool
	}{
		{"selected cell", nodeSel(7), 7, 7, true},
		{"selected row", nodeSel(1), 2, 12, true},
		{"selected table", nodeSel(0), 2, 46, true},
		{"text across cells", NewTextSelection(4, 9), 4, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := State{Doc: doc, Selection: tt.sel}
			tr, err := Normalize(cur, cur)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if tr == nil {
				t.Fatalf("expected a selection change")
			}
			sel := tr.Selection()
			if _, ok := sel.(CellSelection); ok != tt.cellSel {
				t.Errorf("selection type got %T", sel)
			}
			if sel.Anchor() != tt.anchor || sel.Head() != tt.head {
				t.Errorf("selection got %d-%d, expected %d-%d", sel.Anchor(), sel.Head(), tt.anchor, tt.head)
			}
		})
	}

	// A cursor inside one cell needs nothing.
	cur := State{Doc: doc, Selection: Cursor(4)}
	if tr, _ := Normalize(cur, cur); tr != nil {
		t.Errorf("a cursor should not be normalized")
	}
}

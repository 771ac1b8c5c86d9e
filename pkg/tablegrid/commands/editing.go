package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/fix"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

// MetaSelectingCells is the transaction metadata key that starts (with the
// anchor cell position as an int) or ends (with -1) a drag selection of
// cells.
const MetaSelectingCells = "tablegrid.selecting_cells"

// EditingState remembers the anchor cell of a drag selection while
// transactions move it around.
type EditingState struct {
	Anchor int
	Active bool
}

// ApplyEditingState returns cur updated for tr.
func ApplyEditingState(cur EditingState, tr *Transaction) EditingState {
	if v, ok := tr.Meta(MetaSelectingCells); ok {
		if pos, ok := v.(int); ok && pos >= 0 {
			return EditingState{Anchor: pos, Active: true}
		}
		return EditingState{}
	}
	if !cur.Active || !tr.DocChanged() {
		return cur
	}
	r := tr.Mapping().MapResult(cur.Anchor, 1)
	if r.Deleted {
		return EditingState{}
	}
	return EditingState{Anchor: r.Pos, Active: true}
}

// Normalize runs after a document change from old to cur. It repairs the
// tables that changed and turns selections of whole cells, rows or tables
// into cell selections. It returns nil when nothing needed doing.
func Normalize(old, cur State) (*Transaction, error) {
	tr := cur.Tr()
	if _, err := fix.Tables(tr.Transform, old.Doc); err != nil {
		return nil, err
	}
	if sel := normalizeSelection(tr.Doc(), tr.Selection()); sel != nil {
		tr.SetSelection(sel)
	}
	if !tr.DocChanged() && tr.selection == nil {
		return nil, nil
	}
	return tr, nil
}

func normalizeSelection(doc *models.Node, sel Selection) Selection {
	switch s := sel.(type) {
	case NodeSelection:
		switch s.node.Role() {
		case models.RoleCell, models.RoleHeaderCell:
			return NewCellSelection(s.pos, s.pos)
		case models.RoleRow:
			if s.node.ChildCount() == 0 {
				return nil
			}
			last := s.pos + 1 + s.node.Content.Size() - s.node.LastChild().NodeSize()
			return NewCellSelection(s.pos+1, last)
		case models.RoleTable:
			m, err := tablemap.Get(s.node)
			if err != nil || len(m.Map) == 0 {
				return nil
			}
			start := s.pos + 1
			return NewCellSelection(start+m.Map[0], start+m.Map[len(m.Map)-1])
		}
	case TextSelection:
		from, err := models.Resolve(doc, From(s))
		if err != nil {
			return nil
		}
		to, err := models.Resolve(doc, To(s))
		if err != nil {
			return nil
		}
		a, b := CellAround(from), CellAround(to)
		if a != nil && b != nil && a.Pos != b.Pos {
			return NewTextSelection(from.Start(from.Depth()), from.End(from.Depth()))
		}
	}
	return nil
}

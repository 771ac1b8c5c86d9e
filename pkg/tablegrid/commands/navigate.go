package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// findNextCell returns the position before the cell that follows (dir > 0)
// or precedes (dir < 0) the cell pos points at in document order, crossing
// rows and skipping empty ones.
func findNextCell(pos *models.ResolvedPos, dir int) (int, bool) {
	table := pos.Node(-1)
	if dir < 0 {
		if before := pos.NodeBefore(); before != nil {
			return pos.Pos - before.NodeSize(), true
		}
		for row, rowEnd := pos.Index(-1)-1, pos.Before(pos.Depth()); row >= 0; row-- {
			rowNode := table.Child(row)
			if last := rowNode.LastChild(); last != nil {
				return rowEnd - 1 - last.NodeSize(), true
			}
			rowEnd -= rowNode.NodeSize()
		}
		return 0, false
	}
	if pos.Index(pos.Depth()) < pos.Parent().ChildCount()-1 {
		return pos.Pos + pos.NodeAfter().NodeSize(), true
	}
	for row, rowStart := pos.IndexAfter(-1), pos.After(pos.Depth()); row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		if rowNode.ChildCount() > 0 {
			return rowStart + 1, true
		}
		rowStart += rowNode.NodeSize()
	}
	return 0, false
}

// GoToNextCell returns a command that selects the content of the next
// (dir > 0) or previous (dir < 0) cell. It does not apply in the last or
// first cell of the table.
func GoToNextCell(dir int) Command {
	return func(state State, dispatch Dispatch) bool {
		if !IsInTable(state) {
			return false
		}
		cell, err := SelectionCell(state)
		if err != nil {
			return reject("go_to_next_cell", err)
		}
		next, ok := findNextCell(cell, dir)
		if !ok {
			return false
		}
		if dispatch != nil {
			node := state.Doc.NodeAt(next)
			if node == nil {
				return false
			}
			from, to := textRangeIn(node, next)
			dispatch(state.Tr().SetSelection(NewTextSelection(from, to)))
		}
		return true
	}
}

// DeleteTable removes the table the selection is in.
func DeleteTable(state State, dispatch Dispatch) bool {
	pos, err := models.Resolve(state.Doc, state.Selection.Anchor())
	if err != nil {
		return false
	}
	for d := pos.Depth(); d > 0; d-- {
		if pos.Node(d).Role() != models.RoleTable {
			continue
		}
		if dispatch != nil {
			tr := state.Tr()
			tr.Delete(pos.Before(d), pos.After(d))
			return finish("delete_table", tr, dispatch)
		}
		return true
	}
	return false
}

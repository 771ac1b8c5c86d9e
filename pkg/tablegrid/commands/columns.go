package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

// AddColumn inserts a column at index col of the table rect describes.
// Cells spanning across col are widened instead of split. New cells copy
// the type of the neighbouring column, except that an edge column next to
// a header column gets plain cells.
func AddColumn(tr *transform.Transform, rect tablemap.TableRect, col int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	schema := table.Type.Schema()
	refColumn, hasRef := 0, true
	if col > 0 {
		refColumn = -1
	}
	if col+refColumn < m.Width && m.IsColumnHeader(table, col+refColumn) {
		if col == 0 || col == m.Width {
			hasRef = false
		} else {
			refColumn = 0
		}
	}

	for row := 0; row < m.Height; row++ {
		index := row*m.Width + col
		if col > 0 && col < m.Width && m.Map[index-1] == m.Map[index] {
			pos := m.Map[index]
			cell := table.NodeAt(pos)
			left, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			tr.SetNodeMarkup(tr.Mapping().Map(tableStart+pos, 1), nil,
				models.AddColSpan(cell.Attrs, col-left, 1))
			row += cell.Attrs.Rowspan - 1
			continue
		}
		cellType := schema.CellType()
		if hasRef && m.Width > 0 {
			if ref := table.NodeAt(m.Map[index+refColumn]); ref != nil && ref.Type.IsCell() {
				cellType = ref.Type
			}
		}
		pos := m.PositionAt(row, col, table)
		tr.Insert(tr.Mapping().Map(tableStart+pos, 1), cellType.CreateAndFill(models.Attrs{}))
	}
	return tr.Err()
}

// RemoveColumn removes column col of the table rect describes. Cells
// spanning col lose one column instead of being deleted.
func RemoveColumn(tr *transform.Transform, rect tablemap.TableRect, col int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	mapStart := tr.Mapping().Len()
	for row := 0; row < m.Height; {
		index := row*m.Width + col
		pos := m.Map[index]
		cell := table.NodeAt(pos)
		if pos == 0 || cell == nil {
			row++
			continue
		}
		if (col > 0 && m.Map[index-1] == pos) || (col < m.Width-1 && m.Map[index+1] == pos) {
			left, err := m.ColCount(pos)
			if err != nil {
				return err
			}
			tr.SetNodeMarkup(tr.Mapping().Slice(mapStart).Map(tableStart+pos, 1), nil,
				models.RemoveColSpan(cell.Attrs, col-left, 1))
		} else {
			start := tr.Mapping().Slice(mapStart).Map(tableStart+pos, 1)
			tr.Delete(start, start+cell.NodeSize())
		}
		row += cell.Attrs.Rowspan
	}
	return tr.Err()
}

func addColumnAt(name string, before bool) Command {
	return func(state State, dispatch Dispatch) bool {
		if !IsInTable(state) {
			return false
		}
		if dispatch == nil {
			return true
		}
		rect, err := SelectedRect(state)
		if err != nil {
			return reject(name, err)
		}
		col := rect.Right
		if before {
			col = rect.Left
		}
		tr := state.Tr()
		if err := AddColumn(tr.Transform, rect, col); err != nil {
			return reject(name, err)
		}
		return finish(name, tr, dispatch)
	}
}

// AddColumnBefore adds a column before the selected columns.
func AddColumnBefore(state State, dispatch Dispatch) bool {
	return addColumnAt("add_column_before", true)(state, dispatch)
}

// AddColumnAfter adds a column after the selected columns.
func AddColumnAfter(state State, dispatch Dispatch) bool {
	return addColumnAt("add_column_after", false)(state, dispatch)
}

// DeleteColumn removes the selected columns. It does not apply when the
// selection covers every column.
func DeleteColumn(state State, dispatch Dispatch) bool {
	if !IsInTable(state) {
		return false
	}
	rect, err := SelectedRect(state)
	if err != nil {
		return reject("delete_column", err)
	}
	if rect.Left == 0 && rect.Right == rect.Map.Width {
		return false
	}
	if dispatch == nil {
		return true
	}
	tr := state.Tr()
	for i := rect.Right - 1; ; i-- {
		if err := RemoveColumn(tr.Transform, rect, i); err != nil {
			return reject("delete_column", err)
		}
		if i == rect.Left {
			break
		}
		if err := refreshRect(&rect, tr.Doc()); err != nil {
			return reject("delete_column", err)
		}
	}
	return finish("delete_column", tr, dispatch)
}

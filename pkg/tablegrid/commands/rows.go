package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

// AddRow inserts a row at index row of the table rect describes. Cells
// with a rowspan crossing the insertion line grow by one row instead of
// getting a new cell.
func AddRow(tr *transform.Transform, rect tablemap.TableRect, row int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	schema := table.Type.Schema()
	rowPos := tableStart
	for i := 0; i < row; i++ {
		rowPos += table.Child(i).NodeSize()
	}
	refRow, hasRef := 0, true
	if row > 0 {
		refRow = -1
	}
	if row+refRow < m.Height && m.IsRowHeader(table, row+refRow) {
		if row == 0 || row == m.Height {
			hasRef = false
		} else {
			refRow = 0
		}
	}

	var cells []*models.Node
	for col, index := 0, m.Width*row; col < m.Width; col, index = col+1, index+1 {
		if row > 0 && row < m.Height && m.Map[index] == m.Map[index-m.Width] {
			pos := m.Map[index]
			attrs := table.NodeAt(pos).Attrs
			tr.SetNodeMarkup(tr.Mapping().Map(tableStart+pos, 1), nil, attrs.WithRowspan(attrs.Rowspan+1))
			col += attrs.Colspan - 1
			index += attrs.Colspan - 1
			continue
		}
		cellType := schema.CellType()
		if hasRef && m.Height > 0 {
			if ref := table.NodeAt(m.Map[index+refRow*m.Width]); ref != nil && ref.Type.IsCell() {
				cellType = ref.Type
			}
		}
		cells = append(cells, cellType.CreateAndFill(models.Attrs{}))
	}
	tr.Insert(tr.Mapping().Map(rowPos, 1), schema.RowType().Create(models.Attrs{}, cells...))
	return tr.Err()
}

// RemoveRow removes row of the table rect describes. Cells reaching into
// the row from above lose a row; cells starting in it that reach below are
// moved down into the next row.
func RemoveRow(tr *transform.Transform, rect tablemap.TableRect, row int) error {
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	rowPos := 0
	for i := 0; i < row; i++ {
		rowPos += table.Child(i).NodeSize()
	}
	nextRow := rowPos + table.Child(row).NodeSize()

	mapFrom := tr.Mapping().Len()
	tr.Delete(rowPos+tableStart, nextRow+tableStart)

	for col, index := 0, row*m.Width; col < m.Width; col, index = col+1, index+1 {
		pos := m.Map[index]
		if pos == 0 {
			continue
		}
		if row > 0 && pos == m.Map[index-m.Width] {
			// Starts above this row.
			attrs := table.NodeAt(pos).Attrs
			tr.SetNodeMarkup(tr.Mapping().Slice(mapFrom).Map(pos+tableStart, 1), nil,
				attrs.WithRowspan(attrs.Rowspan-1))
			col += attrs.Colspan - 1
			index += attrs.Colspan - 1
		} else if row+1 < m.Height && pos == m.Map[index+m.Width] {
			// Starts in this row and continues below.
			cell := table.NodeAt(pos)
			moved := cell.Type.CreateWith(cell.Attrs.WithRowspan(cell.Attrs.Rowspan-1), cell.Content)
			newPos := m.PositionAt(row+1, col, table)
			tr.Insert(tr.Mapping().Slice(mapFrom).Map(tableStart+newPos, 1), moved)
			col += cell.Attrs.Colspan - 1
			index += cell.Attrs.Colspan - 1
		}
	}
	return tr.Err()
}

// RowIsHeader reports whether every cell in row is a header cell.
func RowIsHeader(m *tablemap.TableMap, table *models.Node, row int) bool {
	return m.IsRowHeader(table, row)
}

// ColumnIsHeader reports whether every cell in col is a header cell.
func ColumnIsHeader(m *tablemap.TableMap, table *models.Node, col int) bool {
	return m.IsColumnHeader(table, col)
}

func addRowAt(name string, before bool) Command {
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
		row := rect.Bottom
		if before {
			row = rect.Top
		}
		tr := state.Tr()
		if err := AddRow(tr.Transform, rect, row); err != nil {
			return reject(name, err)
		}
		return finish(name, tr, dispatch)
	}
}

// AddRowBefore adds a row above the selection.
func AddRowBefore(state State, dispatch Dispatch) bool {
	return addRowAt("add_row_before", true)(state, dispatch)
}

// AddRowAfter adds a row below the selection.
func AddRowAfter(state State, dispatch Dispatch) bool {
	return addRowAt("add_row_after", false)(state, dispatch)
}

// DeleteRow removes the selected rows. It does not apply when the
// selection covers every row.
func DeleteRow(state State, dispatch Dispatch) bool {
	if !IsInTable(state) {
		return false
	}
	rect, err := SelectedRect(state)
	if err != nil {
		return reject("delete_row", err)
	}
	if rect.Top == 0 && rect.Bottom == rect.Map.Height {
		return false
	}
	if dispatch == nil {
		return true
	}
	tr := state.Tr()
	for i := rect.Bottom - 1; ; i-- {
		if err := RemoveRow(tr.Transform, rect, i); err != nil {
			return reject("delete_row", err)
		}
		if i == rect.Top {
			break
		}
		if err := refreshRect(&rect, tr.Doc()); err != nil {
			return reject("delete_row", err)
		}
	}
	return finish("delete_row", tr, dispatch)
}

package tablemap

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// Axis selects the direction NextCell moves along.
type Axis string

const (
	Horizontal Axis = "horiz"
	Vertical   Axis = "vert"
)

// FindCell returns the rectangle covered by the cell starting at pos.
func (m *TableMap) FindCell(pos int) (Rect, error) {
	for i, cur := range m.Map {
		if cur != pos {
			continue
		}
		left, top := i%m.Width, i/m.Width
		right, bottom := left+1, top+1
		for j := 1; right < m.Width && m.Map[i+j] == cur; j++ {
			right++
		}
		for j := 1; bottom < m.Height && m.Map[i+m.Width*j] == cur; j++ {
			bottom++
		}
		return Rect{Left: left, Top: top, Right: right, Bottom: bottom}, nil
	}
	return Rect{}, fmt.Errorf("%w: %d", ErrCellNotFound, pos)
}

// ColCount returns the left column of the cell starting at pos.
func (m *TableMap) ColCount(pos int) (int, error) {
	for i, cur := range m.Map {
		if cur == pos {
			return i % m.Width, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrCellNotFound, pos)
}

// NextCell returns the cell adjoining the cell at pos one step along axis,
// backwards when dir < 0. ok is false at the table edge.
func (m *TableMap) NextCell(pos int, axis Axis, dir int) (next int, ok bool, err error) {
	r, err := m.FindCell(pos)
	if err != nil {
		return 0, false, err
	}
	if axis == Horizontal {
		if (dir < 0 && r.Left == 0) || (dir >= 0 && r.Right == m.Width) {
			return 0, false, nil
		}
		col := r.Right
		if dir < 0 {
			col = r.Left - 1
		}
		return m.Map[r.Top*m.Width+col], true, nil
	}
	if (dir < 0 && r.Top == 0) || (dir >= 0 && r.Bottom == m.Height) {
		return 0, false, nil
	}
	row := r.Bottom
	if dir < 0 {
		row = r.Top - 1
	}
	return m.Map[r.Left+m.Width*row], true, nil
}

// RectBetween returns the smallest rectangle covering the cells at a and b.
func (m *TableMap) RectBetween(a, b int) (Rect, error) {
	ra, err := m.FindCell(a)
	if err != nil {
		return Rect{}, err
	}
	rb, err := m.FindCell(b)
	if err != nil {
		return Rect{}, err
	}
	return ra.Union(rb), nil
}

// CellsInRect returns the offsets of all cells whose top left corner lies
// inside rect, each once, in row-major order. Unfilled slots are skipped.
func (m *TableMap) CellsInRect(rect Rect) []int {
	var result []int
	seen := make(map[int]bool)
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			index := row*m.Width + col
			pos := m.Map[index]
			if pos == 0 || seen[pos] {
				continue
			}
			seen[pos] = true
			if col == rect.Left && col > 0 && m.Map[index-1] == pos {
				continue
			}
			if row == rect.Top && row > 0 && m.Map[index-m.Width] == pos {
				continue
			}
			result = append(result, pos)
		}
	}
	return result
}

// PositionAt returns the offset at which a cell at (row, col) starts, or
// would start if one started there. Cells reaching into the row from a
// rowspan above are skipped.
func (m *TableMap) PositionAt(row, col int, table *models.Node) int {
	rowStart := 0
	for i := 0; i < table.ChildCount(); i++ {
		rowEnd := rowStart + table.Child(i).NodeSize()
		if i == row {
			index := col + row*m.Width
			rowEndIndex := (row + 1) * m.Width
			for index < rowEndIndex && m.Map[index] < rowStart {
				index++
			}
			if index == rowEndIndex {
				return rowEnd - 1
			}
			return m.Map[index]
		}
		rowStart = rowEnd
	}
	return table.Content.Size()
}

// CellsOverlapRectangle reports whether any cell crosses the boundary of
// rect.
func (m *TableMap) CellsOverlapRectangle(rect Rect) bool {
	width, height := m.Width, m.Height
	indexTop := rect.Top*width + rect.Left
	indexLeft := indexTop
	indexBottom := (rect.Bottom-1)*width + rect.Left
	indexRight := indexTop + (rect.Right - rect.Left - 1)
	for i := rect.Top; i < rect.Bottom; i++ {
		if (rect.Left > 0 && m.Map[indexLeft] == m.Map[indexLeft-1]) ||
			(rect.Right < width && m.Map[indexRight] == m.Map[indexRight+1]) {
			return true
		}
		indexLeft += width
		indexRight += width
	}
	for i := rect.Left; i < rect.Right; i++ {
		if (rect.Top > 0 && m.Map[indexTop] == m.Map[indexTop-width]) ||
			(rect.Bottom < height && m.Map[indexBottom] == m.Map[indexBottom+width]) {
			return true
		}
		indexTop++
		indexBottom++
	}
	return false
}

// IsRowHeader reports whether every slot in row is covered by a header
// cell.
func (m *TableMap) IsRowHeader(table *models.Node, row int) bool {
	for col := 0; col < m.Width; col++ {
		if !isHeaderAt(table, m.Map[col+row*m.Width]) {
			return false
		}
	}
	return true
}

// IsColumnHeader reports whether every slot in col is covered by a header
// cell.
func (m *TableMap) IsColumnHeader(table *models.Node, col int) bool {
	for row := 0; row < m.Height; row++ {
		if !isHeaderAt(table, m.Map[col+row*m.Width]) {
			return false
		}
	}
	return true
}

func isHeaderAt(table *models.Node, pos int) bool {
	n := table.NodeAt(pos)
	return n != nil && n.Role() == models.RoleHeaderCell
}

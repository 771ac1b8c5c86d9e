// Package tablemap projects a table's row/cell tree onto a rectangular grid.
//
// Cells with rowspan and colspan make "row r, column c" ambiguous in the
// tree, so this package builds a TableMap: a width*height slice holding, for
// every grid slot, the start offset of the cell covering it. Offsets are
// relative to the start of the table's content, not the document, so a map
// stays valid wherever the table moves; callers add the table start
// themselves.
package tablemap

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// TableMap describes the grid structure of one table node version.
// It is never modified after it is built.
type TableMap struct {
	// Width is the number of grid columns.
	Width int
	// Height is the number of rows.
	Height int
	// Map holds Width*Height slots, each the offset of the cell covering
	// that slot. 0 marks a slot no cell covers.
	Map []int
	// Problems lists structural anomalies, nil for a well-formed table.
	Problems []Problem
}

// colWidthVote tracks the most recently declared width of one column and
// how many rows agreed with it.
type colWidthVote struct {
	width int
	count int
}

// Compute builds the map for table. Malformed tables never fail: their
// anomalies are reported in Problems.
func Compute(table *models.Node) (*TableMap, error) {
	if table.Role() != models.RoleTable {
		return nil, fmt.Errorf("%w: %s", ErrNotTable, table.Type.Name)
	}
	width := findWidth(table)
	height := table.ChildCount()
	slots := make([]int, width*height)
	colWidths := make([]colWidthVote, width)
	var problems []Problem

	mapPos := 0
	pos := 0
	for row := 0; row < height; row++ {
		rowNode := table.Child(row)
		pos++
		for i := 0; ; i++ {
			for mapPos < len(slots) && slots[mapPos] != 0 {
				mapPos++
			}
			if i == rowNode.ChildCount() {
				break
			}
			cell := rowNode.Child(i)
			colspan, rowspan := cell.Attrs.Colspan, cell.Attrs.Rowspan
			colwidth := cell.Attrs.Colwidth
			for h := 0; h < rowspan; h++ {
				if h+row >= height {
					problems = append(problems, OverlongRowspan(pos, rowspan-h))
					break
				}
				start := mapPos + h*width
				for w := 0; w < colspan; w++ {
					slot := start + w
					if slot < len(slots) && slots[slot] == 0 {
						slots[slot] = pos
					} else {
						problems = append(problems, Collision(row, pos, colspan-w))
					}
					if w < len(colwidth) && colwidth[w] != 0 && width > 0 {
						vote := &colWidths[slot%width]
						switch {
						case vote.width == 0 || (vote.width != colwidth[w] && vote.count == 1):
							vote.width, vote.count = colwidth[w], 1
						case vote.width == colwidth[w]:
							vote.count++
						}
					}
				}
			}
			mapPos += colspan
			pos += cell.NodeSize()
		}
		expected := (row + 1) * width
		missing := 0
		for mapPos < expected {
			if slots[mapPos] == 0 {
				missing++
			}
			mapPos++
		}
		if missing > 0 {
			problems = append(problems, Missing(row, missing))
		}
		pos++
	}

	m := &TableMap{Width: width, Height: height, Map: slots, Problems: problems}
	for _, vote := range colWidths {
		if vote.width != 0 && vote.count < height {
			m.findBadColWidths(colWidths, table)
			break
		}
	}
	return m, nil
}

// findWidth returns the widest row, counting columns that rowspan cells
// from earlier rows occupy.
func findWidth(table *models.Node) int {
	width := 0
	hasRowSpan := false
	for row := 0; row < table.ChildCount(); row++ {
		rowNode := table.Child(row)
		rowWidth := 0
		if hasRowSpan {
			for j := 0; j < row; j++ {
				prev := table.Child(j)
				for i := 0; i < prev.ChildCount(); i++ {
					cell := prev.Child(i)
					if j+cell.Attrs.Rowspan > row {
						rowWidth += cell.Attrs.Colspan
					}
				}
			}
		}
		for i := 0; i < rowNode.ChildCount(); i++ {
			cell := rowNode.Child(i)
			rowWidth += cell.Attrs.Colspan
			if cell.Attrs.Rowspan > 1 {
				hasRowSpan = true
			}
		}
		width = max(width, rowWidth)
	}
	return width
}

// findBadColWidths records a colwidth mismatch for every cell whose
// declared widths differ from the widths its columns settled on.
func (m *TableMap) findBadColWidths(colWidths []colWidthVote, table *models.Node) {
	seen := make(map[int]bool)
	for i, pos := range m.Map {
		if pos == 0 || seen[pos] {
			continue
		}
		seen[pos] = true
		node := table.NodeAt(pos)
		if node == nil {
			continue
		}
		var updated []int
		cw := node.Attrs.Colwidth
		for j := 0; j < node.Attrs.Colspan; j++ {
			colWidth := colWidths[(i+j)%m.Width].width
			if colWidth == 0 {
				continue
			}
			if cw == nil || j >= len(cw) || cw[j] != colWidth {
				if updated == nil {
					updated = freshColWidth(node.Attrs)
				}
				updated[j] = colWidth
			}
		}
		if updated != nil {
			m.Problems = append([]Problem{ColwidthMismatch(pos, updated)}, m.Problems...)
		}
	}
}

func freshColWidth(attrs models.Attrs) []int {
	out := make([]int, max(attrs.Colspan, len(attrs.Colwidth)))
	copy(out, attrs.Colwidth)
	return out
}

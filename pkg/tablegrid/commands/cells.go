package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// MergeCells merges the cells of a cell selection into its top left cell.
// The content of non-empty cells is appended to it in reading order. It
// does not apply to a single cell or when a cell crosses the selection
// boundary.
func MergeCells(state State, dispatch Dispatch) bool {
	sel, ok := state.Selection.(CellSelection)
	if !ok || sel.anchorCell == sel.headCell {
		return false
	}
	rect, err := SelectedRect(state)
	if err != nil {
		return reject("merge_cells", err)
	}
	m, table, tableStart := rect.Map, rect.Table, rect.TableStart
	if m.CellsOverlapRectangle(rect.Rect) {
		return false
	}
	if dispatch == nil {
		return true
	}

	tr := state.Tr()
	seen := make(map[int]bool)
	content := models.EmptyFragment
	mergedPos := -1
	var merged *models.Node
	for row := rect.Top; row < rect.Bottom; row++ {
		for col := rect.Left; col < rect.Right; col++ {
			cellPos := m.Map[row*m.Width+col]
			if seen[cellPos] {
				continue
			}
			seen[cellPos] = true
			cell := table.NodeAt(cellPos)
			if cell == nil {
				continue
			}
			if mergedPos < 0 {
				mergedPos, merged = cellPos, cell
				continue
			}
			if !models.IsEmptyCell(cell) {
				content = content.Append(cell.Content)
			}
			mapped := tr.Mapping().Map(cellPos+tableStart, 1)
			tr.Delete(mapped, mapped+cell.NodeSize())
		}
	}
	if merged == nil {
		return false
	}

	attrs := models.AddColSpan(merged.Attrs, merged.Attrs.Colspan, rect.Width()-merged.Attrs.Colspan).
		WithRowspan(rect.Height())
	tr.SetNodeMarkup(mergedPos+tableStart, nil, attrs)
	if content.Size() > 0 {
		end := mergedPos + 1 + merged.Content.Size()
		start := end
		if models.IsEmptyCell(merged) {
			start = mergedPos + 1
		}
		tr.Replace(start+tableStart, end+tableStart, content)
	}
	tr.SetSelection(NewCellSelection(mergedPos+tableStart, mergedPos+tableStart))
	return finish("merge_cells", tr, dispatch)
}

// SplitCell splits a cell with a rowspan or colspan above one into 1x1
// cells. New cells have the type of the split cell.
func SplitCell(state State, dispatch Dispatch) bool {
	return SplitCellWithType(func(cell *models.Node, _, _ int) *models.NodeType {
		return cell.Type
	})(state, dispatch)
}

// SplitCellWithType is SplitCell with the type of every resulting cell
// chosen by cellType, which receives the original cell and the grid slot.
func SplitCellWithType(cellType func(cell *models.Node, row, col int) *models.NodeType) Command {
	return func(state State, dispatch Dispatch) bool {
		sel := state.Selection
		var (
			cellNode *models.Node
			cellPos  int
		)
		cs, isCellSel := sel.(CellSelection)
		if isCellSel {
			if cs.anchorCell != cs.headCell {
				return false
			}
			cellNode, cellPos = state.Doc.NodeAt(cs.anchorCell), cs.anchorCell
		} else {
			from, err := models.Resolve(state.Doc, From(sel))
			if err != nil {
				return false
			}
			cellNode = CellWrapping(from)
			if cellNode == nil {
				return false
			}
			around := CellAround(from)
			if around == nil {
				return false
			}
			cellPos = around.Pos
		}
		if cellNode == nil || (cellNode.Attrs.Colspan == 1 && cellNode.Attrs.Rowspan == 1) {
			return false
		}
		if dispatch == nil {
			return true
		}

		baseAttrs := cellNode.Attrs
		colwidth := baseAttrs.Colwidth
		if baseAttrs.Rowspan > 1 {
			baseAttrs = baseAttrs.WithRowspan(1)
		}
		if baseAttrs.Colspan > 1 {
			baseAttrs = baseAttrs.WithColspan(1)
		}
		rect, err := SelectedRect(state)
		if err != nil {
			return reject("split_cell", err)
		}
		attrs := make([]models.Attrs, rect.Width())
		for i := range attrs {
			switch {
			case colwidth == nil:
				attrs[i] = baseAttrs
			case i < len(colwidth) && colwidth[i] != 0:
				attrs[i] = baseAttrs.WithColwidth([]int{colwidth[i]})
			default:
				attrs[i] = baseAttrs.WithColwidth(nil)
			}
		}

		tr := state.Tr()
		lastCell := -1
		for row := rect.Top; row < rect.Bottom; row++ {
			pos := rect.Map.PositionAt(row, rect.Left, rect.Table)
			if row == rect.Top {
				pos += cellNode.NodeSize()
			}
			for col, i := rect.Left, 0; col < rect.Right; col, i = col+1, i+1 {
				if col == rect.Left && row == rect.Top {
					continue
				}
				lastCell = tr.Mapping().Map(pos+rect.TableStart, 1)
				tr.Insert(lastCell, cellType(cellNode, row, col).CreateAndFill(attrs[i]))
			}
		}
		tr.SetNodeMarkup(cellPos, cellType(cellNode, rect.Top, rect.Left), attrs[0])
		if isCellSel && lastCell >= 0 {
			tr.SetSelection(NewCellSelection(cs.anchorCell, lastCell))
		}
		return finish("split_cell", tr, dispatch)
	}
}

// SetCellAttr sets attribute name to value on every selected cell. It does
// not apply when the selection cell already has that value.
func SetCellAttr(name string, value any) Command {
	return func(state State, dispatch Dispatch) bool {
		if !IsInTable(state) {
			return false
		}
		cellPos, err := SelectionCell(state)
		if err != nil {
			return reject("set_cell_attr", err)
		}
		cell := cellPos.NodeAfter()
		if cell == nil || cell.Attrs.Has(name, value) {
			return false
		}
		if dispatch == nil {
			return true
		}
		tr := state.Tr()
		if cs, ok := state.Selection.(CellSelection); ok {
			err := cs.ForEachCell(state.Doc, func(node *models.Node, pos int) {
				if !node.Attrs.Has(name, value) {
					tr.SetNodeMarkup(pos, nil, node.Attrs.With(name, value))
				}
			})
			if err != nil {
				return reject("set_cell_attr", err)
			}
		} else {
			tr.SetNodeMarkup(cellPos.Pos, nil, cell.Attrs.With(name, value))
		}
		return finish("set_cell_attr", tr, dispatch)
	}
}

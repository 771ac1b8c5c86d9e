package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

// Slice is a piece of document content, as produced by copying. OpenStart
// and OpenEnd count the nodes cut open on each side.
type Slice struct {
	Content   models.Fragment
	OpenStart int
	OpenEnd   int
}

// Cells is a rectangular block of cells: Height rows, each covering Width
// columns once spans are counted.
type Cells struct {
	Width  int
	Height int
	Rows   []models.Fragment
}

// PastedCells extracts a rectangular block of cells from slice. It reports
// false when the outer nodes of the slice are not rows or cells. Cells cut
// open at the slice edges are taken whole.
func PastedCells(slice Slice) (Cells, bool) {
	content := slice.Content
	if content.Size() == 0 {
		return Cells{}, false
	}
	openStart, openEnd := slice.OpenStart, slice.OpenEnd
	for content.ChildCount() == 1 &&
		((openStart > 0 && openEnd > 0) || content.FirstChild().Role() == models.RoleTable) {
		openStart--
		openEnd--
		content = content.FirstChild().Content
	}
	first := content.FirstChild()
	if first == nil {
		return Cells{}, false
	}
	var rows []models.Fragment
	switch first.Role() {
	case models.RoleRow:
		for i := 0; i < content.ChildCount(); i++ {
			rows = append(rows, content.Child(i).Content)
		}
	case models.RoleCell, models.RoleHeaderCell:
		rows = append(rows, content)
	default:
		return Cells{}, false
	}
	return ensureRectangular(first.Type.Schema(), rows), true
}

// ensureRectangular measures rows and pads short ones with empty cells so
// every row covers the same width.
func ensureRectangular(schema *models.Schema, rows []models.Fragment) Cells {
	var widths []int
	for i, row := range rows {
		for j := row.ChildCount() - 1; j >= 0; j-- {
			attrs := row.Child(j).Attrs
			for r := i; r < i+attrs.Rowspan; r++ {
				for len(widths) <= r {
					widths = append(widths, 0)
				}
				widths[r] += attrs.Colspan
			}
		}
	}
	width := 0
	for _, w := range widths {
		width = max(width, w)
	}
	for r, w := range widths {
		if r >= len(rows) {
			rows = append(rows, models.EmptyFragment)
		}
		if w < width {
			empty := schema.CellType().CreateAndFill(models.Attrs{})
			pad := make([]*models.Node, width-w)
			for i := range pad {
				pad[i] = empty
			}
			rows[r] = rows[r].Append(models.NewFragment(pad...))
		}
	}
	return Cells{Width: width, Height: len(rows), Rows: rows}
}

// ClipCells clips or repeats cells to cover exactly newWidth x newHeight.
// Spanning cells that stick out past the new edges are cut down.
func ClipCells(cells Cells, newWidth, newHeight int) Cells {
	width, height, rows := cells.Width, cells.Height, cells.Rows
	if width != newWidth {
		added := make([]int, len(rows))
		newRows := make([]models.Fragment, 0, len(rows))
		for row, frag := range rows {
			var out []*models.Node
			if frag.ChildCount() > 0 {
				for col, i := added[row], 0; col < newWidth; i++ {
					cell := frag.Child(i % frag.ChildCount())
					colspan := cell.Attrs.Colspan
					if excess := col + colspan - newWidth; excess > 0 {
						cell = cell.Type.CreateWith(models.RemoveColSpan(cell.Attrs, colspan-excess, excess), cell.Content)
					}
					out = append(out, cell)
					col += cell.Attrs.Colspan
					for j := 1; j < cell.Attrs.Rowspan && row+j < len(added); j++ {
						added[row+j] += cell.Attrs.Colspan
					}
				}
			}
			newRows = append(newRows, models.NewFragment(out...))
		}
		rows, width = newRows, newWidth
	}

	if height != newHeight && height > 0 {
		newRows := make([]models.Fragment, 0, newHeight)
		for row := 0; row < newHeight; row++ {
			source := rows[row%height]
			out := make([]*models.Node, 0, source.ChildCount())
			for j := 0; j < source.ChildCount(); j++ {
				cell := source.Child(j)
				if row+cell.Attrs.Rowspan > newHeight {
					cell = cell.Type.CreateWith(cell.Attrs.WithRowspan(max(1, newHeight-row)), cell.Content)
				}
				out = append(out, cell)
			}
			newRows = append(newRows, models.NewFragment(out...))
		}
		rows, height = newRows, newHeight
	}
	return Cells{Width: width, Height: height, Rows: rows}
}

// growTable makes the table at least width x height, padding rows on the
// right and appending rows at the bottom. It reports whether it changed
// anything.
func growTable(tr *transform.Transform, m *tablemap.TableMap, table *models.Node, start, width, height, mapFrom int) bool {
	schema := table.Type.Schema()
	var empty, emptyHead *models.Node
	plain := func() *models.Node {
		if empty == nil {
			empty = schema.CellType().CreateAndFill(models.Attrs{})
		}
		return empty
	}
	header := func() *models.Node {
		if emptyHead == nil {
			emptyHead = schema.HeaderType().CreateAndFill(models.Attrs{})
		}
		return emptyHead
	}

	if width > m.Width {
		rowEnd := 0
		for row := 0; row < m.Height; row++ {
			rowNode := table.Child(row)
			rowEnd += rowNode.NodeSize()
			add := plain
			if last := rowNode.LastChild(); last != nil && last.Role() == models.RoleHeaderCell {
				add = header
			}
			cells := make([]*models.Node, width-m.Width)
			for i := range cells {
				cells[i] = add()
			}
			tr.Insert(tr.Mapping().Slice(mapFrom).Map(rowEnd-1+start, 1), cells...)
		}
	}
	if height > m.Height {
		cells := make([]*models.Node, max(m.Width, width))
		last := (m.Height - 1) * m.Width
		for i := range cells {
			cells[i] = plain()
			if i < m.Width && m.Height > 0 {
				if n := table.NodeAt(m.Map[last+i]); n != nil && n.Role() == models.RoleHeaderCell {
					cells[i] = header()
				}
			}
		}
		emptyRow := schema.RowType().Create(models.Attrs{}, cells...)
		rows := make([]*models.Node, height-m.Height)
		for i := range rows {
			rows[i] = emptyRow
		}
		tr.Insert(tr.Mapping().Slice(mapFrom).Map(start+table.NodeSize()-2, 1), rows...)
	}
	return empty != nil || emptyHead != nil
}

// isolateHorizontal splits every cell crossing the line at row top between
// columns left and right, so no rowspan crosses it. It reports whether it
// split anything.
func isolateHorizontal(tr *transform.Transform, m *tablemap.TableMap, table *models.Node, start, left, right, top, mapFrom int) (bool, error) {
	if top == 0 || top == m.Height {
		return false, nil
	}
	found := false
	for col := left; col < right; col++ {
		index := top*m.Width + col
		pos := m.Map[index]
		if m.Map[index-m.Width] != pos {
			continue
		}
		found = true
		cell := table.NodeAt(pos)
		r, err := m.FindCell(pos)
		if err != nil {
			return found, err
		}
		tr.SetNodeMarkup(tr.Mapping().Slice(mapFrom).Map(pos+start, 1), nil, cell.Attrs.WithRowspan(top-r.Top))
		tr.Insert(tr.Mapping().Slice(mapFrom).Map(m.PositionAt(top, r.Left, table)+start, 1),
			cell.Type.CreateAndFill(cell.Attrs.WithRowspan(r.Top+cell.Attrs.Rowspan-top)))
		col += cell.Attrs.Colspan - 1
	}
	return found, nil
}

// isolateVertical splits every cell crossing the line at column left
// between rows top and bottom, so no colspan crosses it. It reports
// whether it split anything.
func isolateVertical(tr *transform.Transform, m *tablemap.TableMap, table *models.Node, start, top, bottom, left, mapFrom int) (bool, error) {
	if left == 0 || left == m.Width {
		return false, nil
	}
	found := false
	for row := top; row < bottom; row++ {
		index := row*m.Width + left
		pos := m.Map[index]
		if m.Map[index-1] != pos {
			continue
		}
		found = true
		cell := table.NodeAt(pos)
		cellLeft, err := m.ColCount(pos)
		if err != nil {
			return found, err
		}
		updatePos := tr.Mapping().Slice(mapFrom).Map(pos+start, 1)
		tr.SetNodeMarkup(updatePos, nil,
			models.RemoveColSpan(cell.Attrs, left-cellLeft, cell.Attrs.Colspan-(left-cellLeft)))
		tr.Insert(updatePos+cell.NodeSize(),
			cell.Type.CreateAndFill(models.RemoveColSpan(cell.Attrs, 0, left-cellLeft)))
		row += cell.Attrs.Rowspan - 1
	}
	return found, nil
}

// InsertCells pastes cells into the table whose content starts at
// tableStart, with the block's top left corner at the corner of rect. The
// table is grown as needed and spanning cells crossing the block's edges
// are split first. The result selects the pasted block.
func InsertCells(state State, dispatch Dispatch, tableStart int, rect tablemap.Rect, cells Cells) error {
	table, err := tableAt(state.Doc, tableStart)
	if err != nil {
		return err
	}
	m, err := tablemap.Get(table)
	if err != nil {
		return err
	}
	top, left := rect.Top, rect.Left
	right, bottom := left+cells.Width, top+cells.Height
	tr := state.Tr()
	mapFrom := 0

	recomp := func() error {
		if table, err = tableAt(tr.Doc(), tableStart); err != nil {
			return err
		}
		if m, err = tablemap.Get(table); err != nil {
			return err
		}
		mapFrom = tr.Mapping().Len()
		return nil
	}

	if growTable(tr.Transform, m, table, tableStart, right, bottom, mapFrom) {
		if err := recomp(); err != nil {
			return err
		}
	}
	isolate := []func() (bool, error){
		func() (bool, error) {
			return isolateHorizontal(tr.Transform, m, table, tableStart, left, right, top, mapFrom)
		},
		func() (bool, error) {
			return isolateHorizontal(tr.Transform, m, table, tableStart, left, right, bottom, mapFrom)
		},
		func() (bool, error) {
			return isolateVertical(tr.Transform, m, table, tableStart, top, bottom, left, mapFrom)
		},
		func() (bool, error) {
			return isolateVertical(tr.Transform, m, table, tableStart, top, bottom, right, mapFrom)
		},
	}
	for _, step := range isolate {
		changed, err := step()
		if err != nil {
			return err
		}
		if changed {
			if err := recomp(); err != nil {
				return err
			}
		}
	}

	for row := top; row < bottom; row++ {
		from := m.PositionAt(row, left, table)
		to := m.PositionAt(row, right, table)
		slice := tr.Mapping().Slice(mapFrom)
		tr.Replace(slice.Map(from+tableStart, 1), slice.Map(to+tableStart, 1), cells.Rows[row-top])
	}
	if err := recomp(); err != nil {
		return err
	}
	if err := tr.Err(); err != nil {
		return err
	}
	tr.SetSelection(NewCellSelection(
		tableStart+m.PositionAt(top, left, table),
		tableStart+m.PositionAt(bottom-1, right-1, table)))
	if dispatch != nil {
		dispatch(tr)
	}
	return nil
}

// HandlePaste pastes slice into the table the selection is in. A cell
// selection receives the pasted cells clipped or repeated to its size;
// other content pasted over a cell selection fills each selected cell.
// Otherwise the pasted cells are placed with their top left corner at the
// selection cell. It reports false when it does not handle the paste.
func HandlePaste(state State, dispatch Dispatch, slice Slice) bool {
	if !IsInTable(state) {
		return false
	}
	cells, ok := PastedCells(slice)
	if cs, isCellSel := state.Selection.(CellSelection); isCellSel {
		if !ok {
			cells = Cells{Width: 1, Height: 1, Rows: []models.Fragment{
				models.NewFragment(wrapInCell(state.Schema(), slice.Content)),
			}}
		}
		r, m, err := cs.tableOf(state.Doc)
		if err != nil {
			return reject("paste", err)
		}
		start := r.Start(-1)
		rect, err := m.RectBetween(cs.anchorCell-start, cs.headCell-start)
		if err != nil {
			return reject("paste", err)
		}
		cells = ClipCells(cells, rect.Width(), rect.Height())
		if err := InsertCells(state, dispatch, start, rect, cells); err != nil {
			return reject("paste", err)
		}
		return true
	}
	if !ok {
		return false
	}
	cell, err := SelectionCell(state)
	if err != nil {
		return reject("paste", err)
	}
	start := cell.Start(-1)
	m, err := tablemap.Get(cell.Node(-1))
	if err != nil {
		return reject("paste", err)
	}
	rect, err := m.FindCell(cell.Pos - start)
	if err != nil {
		return reject("paste", err)
	}
	if err := InsertCells(state, dispatch, start, rect, cells); err != nil {
		return reject("paste", err)
	}
	return true
}

// wrapInCell builds a plain cell holding content. Inline content is
// wrapped in a paragraph first.
func wrapInCell(schema *models.Schema, content models.Fragment) *models.Node {
	first := content.FirstChild()
	if first == nil {
		return schema.CellType().CreateAndFill(models.Attrs{})
	}
	if first.IsText() {
		content = models.NewFragment(schema.Paragraph.CreateWith(models.Attrs{}, content))
	}
	return schema.CellType().CreateWith(models.Attrs{}, content)
}

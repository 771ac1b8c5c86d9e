package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

// HeaderKind selects what a header toggle applies to.
type HeaderKind string

const (
	HeaderRow    HeaderKind = "row"
	HeaderColumn HeaderKind = "column"
	HeaderCell   HeaderKind = "cell"
)

// HeaderToggle selects how a header toggle decides which cells to change.
type HeaderToggle string

const (
	// HeaderToggleRect toggles the first row or column of the table as a
	// whole, leaving the cell where the other header line crosses it
	// alone.
	HeaderToggleRect HeaderToggle = "rect"
	// HeaderToggleLegacy turns the header cells among the affected cells
	// into plain cells, or makes all of them headers when there are none.
	HeaderToggleLegacy HeaderToggle = "legacy"
)

// ToggleHeader returns a command toggling header cells of the given kind
// using strategy. Unknown strategies fall back to HeaderToggleLegacy.
func ToggleHeader(kind HeaderKind, strategy HeaderToggle) Command {
	if strategy == HeaderToggleRect {
		return toggleHeaderRect(kind)
	}
	return toggleHeaderLegacy(kind)
}

// ToggleHeaderRow toggles the header state of the selected rows.
func ToggleHeaderRow(state State, dispatch Dispatch) bool {
	return toggleHeaderLegacy(HeaderRow)(state, dispatch)
}

// ToggleHeaderColumn toggles the header state of the selected columns.
func ToggleHeaderColumn(state State, dispatch Dispatch) bool {
	return toggleHeaderLegacy(HeaderColumn)(state, dispatch)
}

// ToggleHeaderCell toggles the header state of the selected cells.
func ToggleHeaderCell(state State, dispatch Dispatch) bool {
	return toggleHeaderLegacy(HeaderCell)(state, dispatch)
}

func toggleHeaderLegacy(kind HeaderKind) Command {
	return func(state State, dispatch Dispatch) bool {
		if !IsInTable(state) {
			return false
		}
		if dispatch == nil {
			return true
		}
		rect, err := SelectedRect(state)
		if err != nil {
			return reject("toggle_header", err)
		}
		m := rect.Map
		area := rect.Rect
		switch kind {
		case HeaderColumn:
			area = tablemap.Rect{Left: rect.Left, Top: 0, Right: rect.Right, Bottom: m.Height}
		case HeaderRow:
			area = tablemap.Rect{Left: 0, Top: rect.Top, Right: m.Width, Bottom: rect.Bottom}
		}
		cells := m.CellsInRect(area)
		nodes := make([]*models.Node, len(cells))
		for i, pos := range cells {
			nodes[i] = rect.Table.NodeAt(pos)
		}
		schema := state.Schema()
		tr := state.Tr()
		for i, node := range nodes {
			if node.Role() == models.RoleHeaderCell {
				tr.SetNodeMarkup(rect.TableStart+cells[i], schema.CellType(), node.Attrs)
			}
		}
		if !tr.DocChanged() {
			for i, node := range nodes {
				tr.SetNodeMarkup(rect.TableStart+cells[i], schema.HeaderType(), node.Attrs)
			}
		}
		return finish("toggle_header", tr, dispatch)
	}
}

// allHeaders reports whether every cell in area is a header cell.
func allHeaders(m *tablemap.TableMap, table *models.Node, area tablemap.Rect) bool {
	for _, pos := range m.CellsInRect(area) {
		if n := table.NodeAt(pos); n == nil || n.Role() != models.RoleHeaderCell {
			return false
		}
	}
	return true
}

func toggleHeaderRect(kind HeaderKind) Command {
	return func(state State, dispatch Dispatch) bool {
		if !IsInTable(state) {
			return false
		}
		if dispatch == nil {
			return true
		}
		rect, err := SelectedRect(state)
		if err != nil {
			return reject("toggle_header", err)
		}
		m, table := rect.Map, rect.Table
		rowEnabled := allHeaders(m, table, tablemap.Rect{Right: m.Width, Bottom: 1})
		colEnabled := allHeaders(m, table, tablemap.Rect{Right: 1, Bottom: m.Height})

		// The first row and first column share the corner cell. When the
		// other header line is on, the corner stays with it.
		startsAt := 0
		switch kind {
		case HeaderColumn:
			if rowEnabled {
				startsAt = 1
			}
		case HeaderRow:
			if colEnabled {
				startsAt = 1
			}
		}

		schema := state.Schema()
		var area tablemap.Rect
		var newType *models.NodeType
		switch kind {
		case HeaderColumn:
			area = tablemap.Rect{Left: 0, Top: startsAt, Right: 1, Bottom: m.Height}
			newType = schema.HeaderType()
			if colEnabled {
				newType = schema.CellType()
			}
		case HeaderRow:
			area = tablemap.Rect{Left: startsAt, Top: 0, Right: m.Width, Bottom: 1}
			newType = schema.HeaderType()
			if rowEnabled {
				newType = schema.CellType()
			}
		default:
			area = rect.Rect
			newType = schema.CellType()
		}

		tr := state.Tr()
		for _, rel := range m.CellsInRect(area) {
			pos := rel + rect.TableStart
			if cell := tr.Doc().NodeAt(pos); cell != nil {
				tr.SetNodeMarkup(pos, newType, cell.Attrs)
			}
		}
		return finish("toggle_header", tr, dispatch)
	}
}

package commands

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

// CellAround returns the position before the cell that contains pos, or
// nil when pos is not inside a cell.
func CellAround(pos *models.ResolvedPos) *models.ResolvedPos {
	for d := pos.Depth() - 1; d > 0; d-- {
		if pos.Node(d).Role() == models.RoleRow {
			r, err := pos.Resolve(pos.Before(d + 1))
			if err != nil {
				return nil
			}
			return r
		}
	}
	return nil
}

// CellWrapping returns the innermost cell containing pos, or nil.
func CellWrapping(pos *models.ResolvedPos) *models.Node {
	for d := pos.Depth(); d > 0; d-- {
		if n := pos.Node(d); n.Type.IsCell() {
			return n
		}
	}
	return nil
}

// IsInTable reports whether the selection head is inside a table cell.
func IsInTable(state State) bool {
	r, err := models.Resolve(state.Doc, state.Selection.Head())
	if err != nil {
		return false
	}
	for d := r.Depth(); d > 0; d-- {
		if r.Node(d).Role() == models.RoleRow {
			return true
		}
	}
	return false
}

// SelectionCell returns the position before the cell the selection is in
// or points at.
func SelectionCell(state State) (*models.ResolvedPos, error) {
	sel := state.Selection
	if cs, ok := sel.(CellSelection); ok {
		pos := cs.anchorCell
		if cs.headCell > pos {
			pos = cs.headCell
		}
		return models.Resolve(state.Doc, pos)
	}
	if ns, ok := sel.(NodeSelection); ok && ns.node.Type.IsCell() {
		return models.Resolve(state.Doc, ns.pos)
	}
	head, err := models.Resolve(state.Doc, sel.Head())
	if err != nil {
		return nil, err
	}
	if cell := CellAround(head); cell != nil {
		return cell, nil
	}
	if cell := cellNear(head); cell != nil {
		return cell, nil
	}
	return nil, fmt.Errorf("%w: no cell at %d", tablemap.ErrCellNotFound, sel.Head())
}

// cellNear looks for a cell directly after, then directly before, pos.
func cellNear(pos *models.ResolvedPos) *models.ResolvedPos {
	for after, p := pos.NodeAfter(), pos.Pos; after != nil; after, p = after.FirstChild(), p+1 {
		if after.Type.IsCell() {
			r, _ := pos.Resolve(p)
			return r
		}
	}
	for before, p := pos.NodeBefore(), pos.Pos; before != nil; before, p = before.LastChild(), p-1 {
		if before.Type.IsCell() {
			r, _ := pos.Resolve(p - before.NodeSize())
			return r
		}
	}
	return nil
}

// PointsAtCell reports whether pos sits directly before a cell.
func PointsAtCell(pos *models.ResolvedPos) bool {
	return pos.Parent().Role() == models.RoleRow && pos.NodeAfter() != nil
}

// MoveCellForward returns the position after the cell pos points at.
func MoveCellForward(pos *models.ResolvedPos) (*models.ResolvedPos, error) {
	return pos.Resolve(pos.Pos + pos.NodeAfter().NodeSize())
}

// InSameTable reports whether two cell positions belong to one table.
func InSameTable(a, b *models.ResolvedPos) bool {
	return a.Depth() == b.Depth() && a.Pos >= b.Start(-1) && a.Pos <= b.End(-1)
}

// FindCell returns the grid rectangle of the cell pos points at.
func FindCell(pos *models.ResolvedPos) (tablemap.Rect, error) {
	m, err := tablemap.Get(pos.Node(-1))
	if err != nil {
		return tablemap.Rect{}, err
	}
	return m.FindCell(pos.Pos - pos.Start(-1))
}

// ColCount returns the left column of the cell pos points at.
func ColCount(pos *models.ResolvedPos) (int, error) {
	m, err := tablemap.Get(pos.Node(-1))
	if err != nil {
		return 0, err
	}
	return m.ColCount(pos.Pos - pos.Start(-1))
}

// NextCell returns the position before the cell adjoining the one pos
// points at, or nil at the table edge.
func NextCell(pos *models.ResolvedPos, axis tablemap.Axis, dir int) (*models.ResolvedPos, error) {
	m, err := tablemap.Get(pos.Node(-1))
	if err != nil {
		return nil, err
	}
	start := pos.Start(-1)
	next, ok, err := m.NextCell(pos.Pos-start, axis, dir)
	if err != nil || !ok {
		return nil, err
	}
	return pos.Resolve(start + next)
}

// SelectedRect returns the rectangle the selection covers, together with
// its table and map. A selection inside a single cell covers that cell.
func SelectedRect(state State) (tablemap.TableRect, error) {
	var (
		rect  tablemap.Rect
		table *models.Node
		start int
		m     *tablemap.TableMap
	)
	if cs, ok := state.Selection.(CellSelection); ok {
		r, tm, err := cs.tableOf(state.Doc)
		if err != nil {
			return tablemap.TableRect{}, err
		}
		table, start, m = r.Node(-1), r.Start(-1), tm
		if rect, err = m.RectBetween(cs.anchorCell-start, cs.headCell-start); err != nil {
			return tablemap.TableRect{}, err
		}
	} else {
		pos, err := SelectionCell(state)
		if err != nil {
			return tablemap.TableRect{}, err
		}
		table, start = pos.Node(-1), pos.Start(-1)
		if m, err = tablemap.Get(table); err != nil {
			return tablemap.TableRect{}, err
		}
		if rect, err = m.FindCell(pos.Pos - start); err != nil {
			return tablemap.TableRect{}, err
		}
	}
	return tablemap.TableRect{Rect: rect, TableStart: start, Map: m, Table: table}, nil
}

// tableAt returns the table whose content starts at tableStart in doc.
func tableAt(doc *models.Node, tableStart int) (*models.Node, error) {
	table := doc.NodeAt(tableStart - 1)
	if table == nil || table.Role() != models.RoleTable {
		return nil, fmt.Errorf("%w: at %d", tablemap.ErrNotTable, tableStart-1)
	}
	return table, nil
}

// refreshRect reloads the table and map of rect from doc after edits.
func refreshRect(rect *tablemap.TableRect, doc *models.Node) error {
	table, err := tableAt(doc, rect.TableStart)
	if err != nil {
		return err
	}
	m, err := tablemap.Get(table)
	if err != nil {
		return err
	}
	rect.Table, rect.Map = table, m
	return nil
}

// textRangeIn returns the first and last text positions inside the node
// starting at pos.
func textRangeIn(node *models.Node, pos int) (from, to int) {
	from, to = pos, pos+node.NodeSize()
	for n := node; n != nil && !n.IsText(); n = n.FirstChild() {
		from++
		if n.IsTextblock() {
			break
		}
	}
	for n := node; n != nil && !n.IsText(); n = n.LastChild() {
		to--
		if n.IsTextblock() {
			break
		}
	}
	return from, to
}

package commands

import (
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

// Selection is an editor selection.
type Selection interface {
	// Anchor is the side of the selection that stays put when it is
	// extended.
	Anchor() int
	// Head is the moving side of the selection.
	Head() int
	// Map returns the selection mapped into doc, the result of applying
	// the steps behind m.
	Map(doc *models.Node, m transform.Mappable) Selection
}

// From returns the lower of a selection's two ends.
func From(sel Selection) int { return min(sel.Anchor(), sel.Head()) }

// To returns the higher of a selection's two ends.
func To(sel Selection) int { return max(sel.Anchor(), sel.Head()) }

// TextSelection is a plain selection between two positions.
type TextSelection struct {
	anchor, head int
}

// NewTextSelection returns a selection from anchor to head.
func NewTextSelection(anchor, head int) TextSelection {
	return TextSelection{anchor: anchor, head: head}
}

// Cursor returns an empty selection at pos.
func Cursor(pos int) TextSelection { return TextSelection{anchor: pos, head: pos} }

func (s TextSelection) Anchor() int { return s.anchor }
func (s TextSelection) Head() int   { return s.head }

func (s TextSelection) Map(doc *models.Node, m transform.Mappable) Selection {
	return TextSelection{anchor: m.Map(s.anchor, 1), head: m.Map(s.head, 1)}
}

// NodeSelection selects the single node starting at a position.
type NodeSelection struct {
	pos  int
	node *models.Node
}

// NewNodeSelection selects the node after pos in doc.
func NewNodeSelection(doc *models.Node, pos int) (NodeSelection, error) {
	r, err := models.Resolve(doc, pos)
	if err != nil {
		return NodeSelection{}, err
	}
	node := r.NodeAfter()
	if node == nil {
		return NodeSelection{}, models.ErrPositionOutOfRange
	}
	return NodeSelection{pos: pos, node: node}, nil
}

func (s NodeSelection) Anchor() int { return s.pos }
func (s NodeSelection) Head() int   { return s.pos + s.node.NodeSize() }

// Node returns the selected node.
func (s NodeSelection) Node() *models.Node { return s.node }

func (s NodeSelection) Map(doc *models.Node, m transform.Mappable) Selection {
	r := m.MapResult(s.pos, 1)
	if !r.Deleted {
		if sel, err := NewNodeSelection(doc, r.Pos); err == nil {
			return sel
		}
	}
	return Cursor(r.Pos)
}

// CellSelection selects a rectangle of cells in one table. It is
// described by the positions directly before its anchor and head cells.
type CellSelection struct {
	anchorCell, headCell int
}

// NewCellSelection selects the rectangle spanned by the cells starting at
// anchorCell and headCell. Both must point at cells of the same table.
func NewCellSelection(anchorCell, headCell int) CellSelection {
	return CellSelection{anchorCell: anchorCell, headCell: headCell}
}

// Anchor returns the position before the anchor cell.
func (s CellSelection) Anchor() int { return s.anchorCell }

// Head returns the position before the head cell.
func (s CellSelection) Head() int { return s.headCell }

// Map keeps the selection while both cells survive in one table and falls
// back to a text selection otherwise.
func (s CellSelection) Map(doc *models.Node, m transform.Mappable) Selection {
	anchor, head := m.Map(s.anchorCell, 1), m.Map(s.headCell, 1)
	ra, errA := models.Resolve(doc, anchor)
	rh, errH := models.Resolve(doc, head)
	if errA == nil && errH == nil && PointsAtCell(ra) && PointsAtCell(rh) && InSameTable(ra, rh) {
		return CellSelection{anchorCell: anchor, headCell: head}
	}
	return NewTextSelection(anchor, head)
}

// tableOf returns the table, its content start and its map for the
// selection in doc.
func (s CellSelection) tableOf(doc *models.Node) (*models.ResolvedPos, *tablemap.TableMap, error) {
	r, err := models.Resolve(doc, s.anchorCell)
	if err != nil {
		return nil, nil, err
	}
	m, err := tablemap.Get(r.Node(-1))
	if err != nil {
		return nil, nil, err
	}
	return r, m, nil
}

// Rect returns the grid rectangle the selection covers.
func (s CellSelection) Rect(doc *models.Node) (tablemap.Rect, error) {
	r, m, err := s.tableOf(doc)
	if err != nil {
		return tablemap.Rect{}, err
	}
	start := r.Start(-1)
	return m.RectBetween(s.anchorCell-start, s.headCell-start)
}

// ForEachCell calls f with every selected cell and the document position
// before it.
func (s CellSelection) ForEachCell(doc *models.Node, f func(cell *models.Node, pos int)) error {
	r, m, err := s.tableOf(doc)
	if err != nil {
		return err
	}
	table, start := r.Node(-1), r.Start(-1)
	rect, err := m.RectBetween(s.anchorCell-start, s.headCell-start)
	if err != nil {
		return err
	}
	for _, pos := range m.CellsInRect(rect) {
		f(table.NodeAt(pos), start+pos)
	}
	return nil
}

// IsRowSelection reports whether the selection spans whole rows.
func (s CellSelection) IsRowSelection(doc *models.Node) bool {
	_, m, err := s.tableOf(doc)
	if err != nil {
		return false
	}
	rect, err := s.Rect(doc)
	if err != nil {
		return false
	}
	return rect.Left == 0 && rect.Right == m.Width
}

// IsColSelection reports whether the selection spans whole columns.
func (s CellSelection) IsColSelection(doc *models.Node) bool {
	_, m, err := s.tableOf(doc)
	if err != nil {
		return false
	}
	rect, err := s.Rect(doc)
	if err != nil {
		return false
	}
	return rect.Top == 0 && rect.Bottom == m.Height
}

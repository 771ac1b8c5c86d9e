// Package fix repairs tables whose cells overlap or whose rows have
// different widths, using the problems a TableMap reports.
package fix

import (
	"log/slog"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "fix"))
}

// Tables inspects every table in the document tr started from and appends
// the steps that repair them to tr. When old is non-nil it is taken to be a
// previous known-good document and only subtrees that changed since are
// scanned. It reports whether anything was repaired.
func Tables(tr *transform.Transform, old *models.Node) (bool, error) {
	doc := tr.Before()
	type found struct {
		table *models.Node
		pos   int
	}
	var tables []found
	check := func(node *models.Node, pos int) bool {
		if node.Role() == models.RoleTable {
			tables = append(tables, found{node, pos})
		}
		return true
	}
	switch {
	case old == nil:
		doc.Descendants(check)
	case old != doc:
		changedDescendants(old, doc, 0, check)
	}
	changed := false
	for _, t := range tables {
		fixed, err := Table(tr, t.table, t.pos)
		if err != nil {
			return changed, err
		}
		changed = changed || fixed
	}
	return changed, nil
}

// changedDescendants calls f for every node in cur that is not shared with
// old, descending only into subtrees that differ.
func changedDescendants(old, cur *models.Node, offset int, f func(*models.Node, int) bool) {
	oldSize, curSize := old.ChildCount(), cur.ChildCount()
	j := 0
outer:
	for i := 0; i < curSize; i++ {
		child := cur.Child(i)
		for scan, e := j, min(oldSize, i+3); scan < e; scan++ {
			if old.Child(scan) == child {
				j = scan + 1
				offset += child.NodeSize()
				continue outer
			}
		}
		f(child, offset)
		if j < oldSize && old.Child(j).SameMarkup(child) {
			changedDescendants(old.Child(j), child, offset+1, f)
		} else {
			child.DescendantsFrom(offset+1, f)
		}
		offset += child.NodeSize()
	}
}

// Table appends to tr the steps that repair table, which starts at
// document position tablePos in tr's starting document. Positions are
// mapped through the steps tr already holds. It reports whether the table
// needed repair.
func Table(tr *transform.Transform, table *models.Node, tablePos int) (bool, error) {
	m, err := tablemap.Get(table)
	if err != nil {
		return false, err
	}
	if len(m.Problems) == 0 {
		return false, nil
	}
	schema := table.Type.Schema()
	mapping := tr.Mapping()

	// Rows that need new cells; collisions add to this as well.
	mustAdd := make([]int, m.Height)
	for _, prob := range m.Problems {
		switch prob.Kind {
		case tablemap.ProblemCollision:
			cell := table.NodeAt(prob.Pos)
			for j := 0; j < cell.Attrs.Rowspan && prob.Row+j < m.Height; j++ {
				mustAdd[prob.Row+j] += prob.N
			}
			tr.SetNodeMarkup(mapping.Map(tablePos+1+prob.Pos, 1), nil,
				models.RemoveColSpan(cell.Attrs, cell.Attrs.Colspan-prob.N, prob.N))
		case tablemap.ProblemMissing:
			mustAdd[prob.Row] += prob.N
		case tablemap.ProblemOverlongRowspan:
			cell := table.NodeAt(prob.Pos)
			tr.SetNodeMarkup(mapping.Map(tablePos+1+prob.Pos, 1), nil,
				cell.Attrs.WithRowspan(cell.Attrs.Rowspan-prob.N))
		case tablemap.ProblemColwidthMismatch:
			cell := table.NodeAt(prob.Pos)
			tr.SetNodeMarkup(mapping.Map(tablePos+1+prob.Pos, 1), nil,
				cell.Attrs.WithColwidth(prob.Colwidth))
		}
	}

	first, last := -1, -1
	for i, n := range mustAdd {
		if n > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	// Add the missing cells. When it looks like a bite was taken out of the
	// table, fill the row after the bite at its start; otherwise pad rows at
	// their end.
	inserted := 0
	for i, pos := 0, tablePos+1; i < m.Height; i++ {
		row := table.Child(i)
		end := pos + row.NodeSize()
		if add := mustAdd[i]; add > 0 {
			cellType := schema.CellType()
			if fc := row.FirstChild(); fc != nil && fc.Type.IsCell() {
				cellType = fc.Type
			}
			nodes := make([]*models.Node, add)
			for j := range nodes {
				nodes[j] = cellType.CreateAndFill(models.Attrs{})
			}
			side := end - 1
			if (i == 0 || first == i-1) && last == i {
				side = pos + 1
			}
			tr.Insert(mapping.Map(side, 1), nodes...)
			inserted += add
		}
		pos = end
	}
	if err := tr.Err(); err != nil {
		return false, err
	}
	logger().Debug("repaired table",
		slog.Int("pos", tablePos),
		slog.Int("problems", len(m.Problems)),
		slog.Int("inserted_cells", inserted))
	return true, nil
}

package output

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

// Slot markers used by RenderGrid.
const (
	MarkColspan  = "<"
	MarkRowspan  = "^"
	MarkUnfilled = "?"
)

// DefaultMaxCellWidth bounds the display width of a rendered slot.
const DefaultMaxCellWidth = 16

// RenderGrid draws the grid of table as text. Each slot shows the text of
// the cell starting there, MarkColspan or MarkRowspan when the slot
// continues a cell from the left or from above, and MarkUnfilled when no
// cell covers it. Header cells are wrapped in asterisks.
func RenderGrid(w io.Writer, table *models.Node, m *tablemap.TableMap, maxCellWidth int) error {
	if maxCellWidth <= 0 {
		maxCellWidth = DefaultMaxCellWidth
	}
	labels := make([]string, len(m.Map))
	for i, pos := range m.Map {
		col, row := i%m.Width, i/m.Width
		switch {
		case pos == 0:
			labels[i] = MarkUnfilled
		case col > 0 && m.Map[i-1] == pos:
			labels[i] = MarkColspan
		case row > 0 && m.Map[i-m.Width] == pos:
			labels[i] = MarkRowspan
		default:
			labels[i] = cellLabel(table.NodeAt(pos), maxCellWidth)
		}
	}

	widths := make([]int, m.Width)
	for i, l := range labels {
		widths[i%m.Width] = max(widths[i%m.Width], runewidth.StringWidth(l))
	}

	var b strings.Builder
	sep := func() {
		b.WriteByte('+')
		for _, cw := range widths {
			b.WriteString(strings.Repeat("-", cw+2))
			b.WriteByte('+')
		}
		b.WriteByte('\n')
	}
	sep()
	for row := 0; row < m.Height; row++ {
		b.WriteByte('|')
		for col := 0; col < m.Width; col++ {
			b.WriteByte(' ')
			b.WriteString(runewidth.FillRight(labels[row*m.Width+col], widths[col]))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
		sep()
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func cellLabel(cell *models.Node, maxWidth int) string {
	if cell == nil {
		return MarkUnfilled
	}
	text := strings.ReplaceAll(cell.TextContent(), "\n", " ")
	if cell.Role() == models.RoleHeaderCell {
		text = "*" + text + "*"
	}
	return runewidth.Truncate(text, maxWidth, "…")
}

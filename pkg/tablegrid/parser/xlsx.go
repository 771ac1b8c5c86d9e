package parser

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
	"github.com/xuri/excelize/v2"
)

// AttrSheet is the table attribute carrying the worksheet name a table
// was imported from or is exported to.
const AttrSheet = "sheet"

// ImportOptions configures worksheet import.
type ImportOptions struct {
	// HeaderRows is the number of leading rows imported as header cells.
	HeaderRows int
	// HeaderCols is the number of leading columns imported as header cells.
	HeaderCols int
}

// DefaultImportOptions returns default import options: one header row.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{HeaderRows: 1}
}

// mergeArea is a merged range in 0-based grid coordinates.
type mergeArea struct {
	left, top, right, bottom int
}

// ImportSheet reads a worksheet into a table node. Merged ranges become
// cells with colspan and rowspan; explicit column widths become colwidth.
// Overlapping merged ranges are imported as they are and show up as
// collisions in the table's map. It returns nil for an empty sheet.
func ImportSheet(f *excelize.File, sheetName string, schema *models.Schema, opts ImportOptions) (*models.Node, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	merges, err := readMerges(f, sheetName)
	if err != nil {
		return nil, err
	}

	width, height := 0, len(rows)
	for _, row := range rows {
		width = max(width, len(row))
	}
	for _, m := range merges {
		width = max(width, m.right)
		height = max(height, m.bottom)
	}
	if width == 0 || height == 0 {
		return nil, nil
	}

	colWidths, err := readColWidths(f, sheetName, width)
	if err != nil {
		return nil, err
	}

	// anchors maps a merge's top left slot to the merge; covered marks the
	// other slots of every merge.
	anchors := make(map[int]mergeArea)
	covered := make([]bool, width*height)
	for _, m := range merges {
		anchors[m.top*width+m.left] = m
		for r := m.top; r < m.bottom; r++ {
			for c := m.left; c < m.right; c++ {
				if r != m.top || c != m.left {
					covered[r*width+c] = true
				}
			}
		}
	}

	tableRows := make([]*models.Node, 0, height)
	for r := 0; r < height; r++ {
		var cells []*models.Node
		for c := 0; c < width; c++ {
			slot := r*width + c
			area, isAnchor := anchors[slot]
			if covered[slot] && !isAnchor {
				continue
			}
			attrs := models.CellAttrs(1, 1)
			if isAnchor {
				attrs = models.CellAttrs(area.right-area.left, area.bottom-area.top)
			}
			if w := colWidths[c : c+attrs.Colspan]; hasWidth(w) {
				attrs = attrs.WithColwidth(w)
			}
			text := ""
			if r < len(rows) && c < len(rows[r]) {
				text = NormalizeText(rows[r][c])
			}
			cellType := schema.CellType()
			if r < opts.HeaderRows || c < opts.HeaderCols {
				cellType = schema.HeaderType()
			}
			cells = append(cells, cellType.Create(attrs, schema.Para(text)))
		}
		tableRows = append(tableRows, schema.RowNode(cells...))
	}
	return schema.TableType().Create(models.Attrs{Extra: map[string]any{AttrSheet: sheetName}}, tableRows...), nil
}

// readMerges returns the sheet's merged ranges in grid coordinates.
func readMerges(f *excelize.File, sheetName string) ([]mergeArea, error) {
	mcs, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	var out []mergeArea
	for _, mc := range mcs {
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		c2, r2, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		out = append(out, mergeArea{
			left: min(c1, c2) - 1, top: min(r1, r2) - 1,
			right: max(c1, c2), bottom: max(r1, r2),
		})
	}
	return out, nil
}

// readColWidths returns the pixel width of each of the first width
// columns, 0 for columns using the default width.
func readColWidths(f *excelize.File, sheetName string, width int) ([]int, error) {
	out := make([]int, width)
	for c := range out {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(sheetName, name)
		if err != nil {
			return nil, err
		}
		if w != defaultColWidth {
			out[c] = ColWidthToPixels(w)
		}
	}
	return out, nil
}

func hasWidth(w []int) bool {
	for _, px := range w {
		if px > 0 {
			return true
		}
	}
	return false
}

// ImportWorkbook reads every non-empty worksheet of f into a document
// holding one table per sheet, in sheet order.
func ImportWorkbook(f *excelize.File, schema *models.Schema, opts ImportOptions) (*models.Node, error) {
	var tables []*models.Node
	for _, name := range f.GetSheetList() {
		table, err := ImportSheet(f, name, schema, opts)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if table != nil {
			tables = append(tables, table)
		}
	}
	if len(tables) == 0 {
		return schema.Doc.CreateAndFill(models.Attrs{}), nil
	}
	return schema.DocNode(tables...), nil
}

// ExportTable writes table to a worksheet, starting at A1. Spanning cells
// are written as merged ranges and header cells are set in bold. Column
// widths are taken from the first cell declaring one for each column.
func ExportTable(f *excelize.File, sheetName string, table *models.Node) error {
	m, err := tablemap.Get(table)
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	widths := make([]int, m.Width)
	seen := make(map[int]bool)
	for i, pos := range m.Map {
		if pos == 0 || seen[pos] {
			continue
		}
		seen[pos] = true
		cell := table.NodeAt(pos)
		if cell == nil {
			continue
		}
		rect, err := m.FindCell(pos)
		if err != nil {
			return err
		}
		col, row := i%m.Width, i/m.Width
		tl, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, tl, cell.TextContent()); err != nil {
			return err
		}
		br, err := excelize.CoordinatesToCellName(rect.Right, rect.Bottom)
		if err != nil {
			return err
		}
		if rect.Width() > 1 || rect.Height() > 1 {
			if err := f.MergeCell(sheetName, tl, br); err != nil {
				return err
			}
		}
		if cell.Role() == models.RoleHeaderCell {
			if err := f.SetCellStyle(sheetName, tl, br, headerStyle); err != nil {
				return err
			}
		}
		for j, px := range cell.Attrs.Colwidth {
			if c := col + j; c < len(widths) && widths[c] == 0 && px > 0 {
				widths[c] = px
			}
		}
	}

	for c, px := range widths {
		if px == 0 {
			continue
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, PixelsToColWidth(px)); err != nil {
			return err
		}
	}
	return nil
}

// ExportWorkbook writes every table of doc to its own worksheet of a new
// workbook. Sheets are named after the table's sheet attribute, or
// "Table<n>" when it has none.
func ExportWorkbook(doc *models.Node) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetList()[0]
	n := 0
	var err error
	doc.Descendants(func(node *models.Node, _ int) bool {
		if err != nil || node.Role() != models.RoleTable {
			return err == nil
		}
		n++
		name, _ := node.Attrs.Get(AttrSheet).(string)
		if name == "" {
			name = fmt.Sprintf("Table%d", n)
		}
		if n == 1 {
			if name != first {
				err = f.SetSheetName(first, name)
			}
		} else {
			_, err = f.NewSheet(name)
		}
		if err == nil {
			err = ExportTable(f, name, node)
		}
		return false
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

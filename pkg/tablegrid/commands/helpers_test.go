package commands

import (
	"testing"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/tablemap"
)

var schema = models.NewSchema()

func cell(text string) *models.Node   { return schema.TextCell(text) }
func header(text string) *models.Node { return schema.TextHeader(text) }
func empty() *models.Node             { return schema.CellNode(models.Attrs{}) }

func span(text string, colspan, rowspan int) *models.Node {
	return schema.CellNode(models.CellAttrs(colspan, rowspan), schema.Para(text))
}

func row(cells ...*models.Node) *models.Node { return schema.RowNode(cells...) }

// docWith wraps a table in a document. The table sits at 0, so its content
// starts at 1 and its first cell at 2.
func docWith(rows ...*models.Node) *models.Node {
	return schema.DocNode(schema.TableNode(rows...))
}

// grid3x3 holds cells a..i. The cells start at 2, 7, 12 / 19, 24, 29 /
// 36, 41, 46.
func grid3x3() *models.Node {
	return docWith(
		row(cell("a"), cell("b"), cell("c")),
		row(cell("d"), cell("e"), cell("f")),
		row(cell("g"), cell("h"), cell("i")),
	)
}

// inCell returns a state with the cursor inside the text of the cell
// starting at cellPos.
func inCell(doc *models.Node, cellPos int) State {
	return State{Doc: doc, Selection: Cursor(cellPos + 2)}
}

func cellSel(doc *models.Node, anchor, head int) State {
	return State{Doc: doc, Selection: NewCellSelection(anchor, head)}
}

// run applies cmd and returns the resulting state, failing the test when
// the command does not apply.
func run(t *testing.T, cmd Command, state State) State {
	t.Helper()
	var result *Transaction
	if !cmd(state, func(tr *Transaction) { result = tr }) {
		t.Fatalf("command did not apply")
	}
	if result == nil {
		t.Fatalf("command applied without dispatching")
	}
	return result.Apply()
}

// texts returns the text of every cell of the first table, row by row.
func texts(doc *models.Node) [][]string {
	table := doc.FirstChild()
	out := make([][]string, table.ChildCount())
	for i := range out {
		r := table.Child(i)
		out[i] = []string{}
		for j := 0; j < r.ChildCount(); j++ {
			out[i] = append(out[i], r.Child(j).TextContent())
		}
	}
	return out
}

// cleanMap returns the first table's map, failing the test when it reports
// problems.
func cleanMap(t *testing.T, doc *models.Node) *tablemap.TableMap {
	t.Helper()
	m, err := tablemap.Compute(doc.FirstChild())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(m.Problems) != 0 {
		t.Errorf("table has problems: %v", m.Problems)
	}
	return m
}

package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attrDataColwidth is the HTML attribute holding a cell's column widths
// as a comma separated list of pixels.
const attrDataColwidth = "data-colwidth"

// ParseHTML reads every outermost <table> of an HTML document into a
// document node. colspan, rowspan and data-colwidth attributes are kept as
// they are, so malformed tables stay malformed. Tables nested in cells are
// flattened into the cell's text.
func ParseHTML(r io.Reader, schema *models.Schema) (*models.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var tables []*models.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			tables = append(tables, parseTable(n, schema))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if len(tables) == 0 {
		return schema.Doc.CreateAndFill(models.Attrs{}), nil
	}
	return schema.DocNode(tables...), nil
}

func parseTable(n *html.Node, schema *models.Schema) *models.Node {
	var rows []*models.Node
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				collect(c)
			case atom.Tr:
				rows = append(rows, parseRow(c, schema))
			}
		}
	}
	collect(n)
	return schema.TableNode(rows...)
}

func parseRow(n *html.Node, schema *models.Schema) *models.Node {
	var cells []*models.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		var cellType *models.NodeType
		switch c.DataAtom {
		case atom.Td:
			cellType = schema.CellType()
		case atom.Th:
			cellType = schema.HeaderType()
		default:
			continue
		}
		cells = append(cells, cellType.Create(cellAttrs(c), cellContent(c, schema)...))
	}
	return schema.RowNode(cells...)
}

func cellAttrs(n *html.Node) models.Attrs {
	attrs := models.CellAttrs(1, 1)
	for _, a := range n.Attr {
		switch a.Key {
		case models.AttrColspan:
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				attrs.Colspan = v
			}
		case models.AttrRowspan:
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				attrs.Rowspan = v
			}
		case attrDataColwidth:
			attrs.Colwidth = parseColwidth(a.Val)
		}
	}
	return attrs
}

// parseColwidth parses "100,,200" into [100 0 200]. It returns nil when
// no entry is a positive number.
func parseColwidth(s string) []int {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	set := false
	for i, p := range parts {
		if v, err := strconv.Atoi(strings.TrimSpace(p)); err == nil && v > 0 {
			out[i] = v
			set = true
		}
	}
	if !set {
		return nil
	}
	return out
}

// cellContent returns one paragraph per <p> in the cell, or a single
// paragraph holding all of the cell's text.
func cellContent(n *html.Node, schema *models.Schema) []*models.Node {
	var paras []*models.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.P {
			paras = append(paras, schema.Para(NormalizeText(collapseSpace(textOf(c)))))
		}
	}
	if len(paras) > 0 {
		return paras
	}
	return []*models.Node{schema.Para(NormalizeText(collapseSpace(textOf(n))))}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// RenderHTML writes every table in doc as an HTML <table>. Cells carry
// colspan and rowspan when above 1 and data-colwidth when widths are set.
func RenderHTML(w io.Writer, doc *models.Node) error {
	var err error
	doc.Descendants(func(node *models.Node, _ int) bool {
		if err != nil || node.Role() != models.RoleTable {
			return err == nil
		}
		if err = html.Render(w, renderTable(node)); err == nil {
			_, err = io.WriteString(w, "\n")
		}
		return false
	})
	return err
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func renderTable(table *models.Node) *html.Node {
	t := element(atom.Table)
	body := element(atom.Tbody)
	t.AppendChild(body)
	for i := 0; i < table.ChildCount(); i++ {
		row := table.Child(i)
		tr := element(atom.Tr)
		for j := 0; j < row.ChildCount(); j++ {
			tr.AppendChild(renderCell(row.Child(j)))
		}
		body.AppendChild(tr)
	}
	return t
}

func renderCell(cell *models.Node) *html.Node {
	a := atom.Td
	if cell.Role() == models.RoleHeaderCell {
		a = atom.Th
	}
	var attrs []html.Attribute
	if cell.Attrs.Colspan > 1 {
		attrs = append(attrs, html.Attribute{Key: models.AttrColspan, Val: strconv.Itoa(cell.Attrs.Colspan)})
	}
	if cell.Attrs.Rowspan > 1 {
		attrs = append(attrs, html.Attribute{Key: models.AttrRowspan, Val: strconv.Itoa(cell.Attrs.Rowspan)})
	}
	if cw := cell.Attrs.Colwidth; cw != nil {
		parts := make([]string, len(cw))
		for i, px := range cw {
			if px > 0 {
				parts[i] = strconv.Itoa(px)
			}
		}
		attrs = append(attrs, html.Attribute{Key: attrDataColwidth, Val: strings.Join(parts, ",")})
	}
	td := element(a, attrs...)
	for i := 0; i < cell.ChildCount(); i++ {
		block := cell.Child(i)
		if cell.ChildCount() == 1 {
			if text := block.TextContent(); text != "" {
				td.AppendChild(&html.Node{Type: html.TextNode, Data: text})
			}
			break
		}
		p := element(atom.P)
		if text := block.TextContent(); text != "" {
			p.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		}
		td.AppendChild(p)
	}
	return td
}

package models

// Tree builders used by importers and tests.

// DocNode builds a document node.
func (s *Schema) DocNode(content ...*Node) *Node {
	return s.Doc.Create(Attrs{}, content...)
}

// Para builds a paragraph holding text. An empty string yields an empty
// paragraph.
func (s *Schema) Para(text string) *Node {
	if text == "" {
		return s.Paragraph.Create(Attrs{})
	}
	return s.Paragraph.Create(Attrs{}, s.NewText(text))
}

// TableNode builds a table from rows.
func (s *Schema) TableNode(rows ...*Node) *Node {
	return s.TableType().Create(Attrs{}, rows...)
}

// RowNode builds a row from cells.
func (s *Schema) RowNode(cells ...*Node) *Node {
	return s.RowType().Create(Attrs{}, cells...)
}

// CellNode builds a plain cell. Without content it holds one empty paragraph.
func (s *Schema) CellNode(attrs Attrs, content ...*Node) *Node {
	return s.cell(s.CellType(), attrs, content)
}

// HeaderNode builds a header cell. Without content it holds one empty
// paragraph.
func (s *Schema) HeaderNode(attrs Attrs, content ...*Node) *Node {
	return s.cell(s.HeaderType(), attrs, content)
}

func (s *Schema) cell(t *NodeType, attrs Attrs, content []*Node) *Node {
	if len(content) == 0 {
		return t.CreateAndFill(attrs)
	}
	return t.Create(attrs, content...)
}

// TextCell builds a 1x1 plain cell holding a paragraph with text.
func (s *Schema) TextCell(text string) *Node {
	return s.CellNode(Attrs{}, s.Para(text))
}

// TextHeader builds a 1x1 header cell holding a paragraph with text.
func (s *Schema) TextHeader(text string) *Node {
	return s.HeaderNode(Attrs{}, s.Para(text))
}

// IsEmptyCell reports whether a cell holds nothing but a single empty
// textblock.
func IsEmptyCell(cell *Node) bool {
	c := cell.Content
	return c.ChildCount() == 1 && c.FirstChild().IsTextblock() && c.FirstChild().ChildCount() == 0
}

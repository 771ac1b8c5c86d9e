// Package models defines the document tree the table engine operates on.
//
// Nodes are immutable. Every edit produces new nodes and shares the
// unchanged subtrees with the previous version, so a node's identity
// (its handle) is a valid cache key for anything derived from it.
package models

import (
	"fmt"
)

// Role identifies how a node type takes part in a table.
type Role string

const (
	RoleNone       Role = ""
	RoleTable      Role = "table"
	RoleRow        Role = "row"
	RoleCell       Role = "cell"
	RoleHeaderCell Role = "header_cell"
)

// Default node type names.
const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeText        = "text"
	TypeTable       = "table"
	TypeTableRow    = "table_row"
	TypeTableCell   = "table_cell"
	TypeTableHeader = "table_header"
)

// NodeType describes a kind of node.
type NodeType struct {
	Name string
	Role Role
	// Textblock types hold inline (text) content.
	Textblock bool
	// Text is set only for the text leaf type.
	Text bool

	schema *Schema
}

// IsCell reports whether nodes of this type are table cells of either kind.
func (t *NodeType) IsCell() bool {
	return t.Role == RoleCell || t.Role == RoleHeaderCell
}

// Schema returns the schema the type belongs to.
func (t *NodeType) Schema() *Schema {
	return t.schema
}

func (t *NodeType) String() string {
	return t.Name
}

// Schema is the set of node types a document may contain.
type Schema struct {
	nodes map[string]*NodeType
	roles map[Role]*NodeType

	Doc       *NodeType
	Paragraph *NodeType
	Text      *NodeType
}

// NewSchema returns a schema with a document, paragraph and text type plus
// the four table types.
func NewSchema() *Schema {
	s := &Schema{
		nodes: make(map[string]*NodeType),
		roles: make(map[Role]*NodeType),
	}
	s.Doc = s.add(&NodeType{Name: TypeDoc})
	s.Paragraph = s.add(&NodeType{Name: TypeParagraph, Textblock: true})
	s.Text = s.add(&NodeType{Name: TypeText, Text: true})
	s.add(&NodeType{Name: TypeTable, Role: RoleTable})
	s.add(&NodeType{Name: TypeTableRow, Role: RoleRow})
	s.add(&NodeType{Name: TypeTableCell, Role: RoleCell})
	s.add(&NodeType{Name: TypeTableHeader, Role: RoleHeaderCell})
	return s
}

func (s *Schema) add(t *NodeType) *NodeType {
	t.schema = s
	s.nodes[t.Name] = t
	if t.Role != RoleNone {
		s.roles[t.Role] = t
	}
	return t
}

// NodeType looks up a type by name.
func (s *Schema) NodeType(name string) (*NodeType, error) {
	t, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, name)
	}
	return t, nil
}

// Role returns the node type that plays the given table role.
func (s *Schema) Role(r Role) *NodeType {
	return s.roles[r]
}

// TableType, RowType, CellType and HeaderType are shortcuts for Role.
func (s *Schema) TableType() *NodeType  { return s.roles[RoleTable] }
func (s *Schema) RowType() *NodeType    { return s.roles[RoleRow] }
func (s *Schema) CellType() *NodeType   { return s.roles[RoleCell] }
func (s *Schema) HeaderType() *NodeType { return s.roles[RoleHeaderCell] }

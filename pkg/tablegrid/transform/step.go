package transform

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// Step is one atomic document edit.
type Step interface {
	// Apply returns the document with the step applied.
	Apply(doc *models.Node) (*models.Node, error)
	// Map describes how the step moves positions.
	Map() StepMap
}

// ReplaceStep replaces the children between From and To, two positions in
// the same parent, with Content.
type ReplaceStep struct {
	From, To int
	Content  models.Fragment
}

// Apply implements Step.
func (s ReplaceStep) Apply(doc *models.Node) (*models.Node, error) {
	if s.From > s.To {
		return nil, fmt.Errorf("%w: from %d after to %d", ErrInvalidReplace, s.From, s.To)
	}
	from, err := models.Resolve(doc, s.From)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	to, err := models.Resolve(doc, s.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	d := from.Depth()
	if to.Depth() != d || from.Start(d) != to.Start(d) {
		return nil, fmt.Errorf("%w: %d and %d are not in the same parent", ErrInvalidReplace, s.From, s.To)
	}
	if from.TextOffset() != 0 || to.TextOffset() != 0 {
		return nil, fmt.Errorf("%w: %d-%d splits a text node", ErrInvalidReplace, s.From, s.To)
	}
	parent := from.Parent()
	content := parent.Content.Splice(from.Index(d), to.Index(d), s.Content.Nodes()...)
	return rebuild(from, d, parent.Copy(content)), nil
}

// Map implements Step.
func (s ReplaceStep) Map() StepMap {
	return NewStepMap(s.From, s.To-s.From, s.Content.Size())
}

// SetMarkupStep changes the type and attributes of the node at Pos while
// keeping its content.
type SetMarkupStep struct {
	Pos   int
	Type  *models.NodeType
	Attrs models.Attrs
}

// Apply implements Step.
func (s SetMarkupStep) Apply(doc *models.Node) (*models.Node, error) {
	node := doc.NodeAt(s.Pos)
	if node == nil || node.IsText() {
		return nil, fmt.Errorf("%w: no node at %d", ErrInvalidPosition, s.Pos)
	}
	r, err := models.Resolve(doc, s.Pos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	t := s.Type
	if t == nil {
		t = node.Type
	}
	d := r.Depth()
	parent := r.Parent()
	content := parent.Content.ReplaceChild(r.Index(d), node.Mark(t, s.Attrs))
	return rebuild(r, d, parent.Copy(content)), nil
}

// Map implements Step. Markup changes keep every position in place.
func (s SetMarkupStep) Map() StepMap {
	return IdentityMap
}

// rebuild replaces the ancestor at depth d with node and copies every
// ancestor above it.
func rebuild(r *models.ResolvedPos, d int, node *models.Node) *models.Node {
	for ; d > 0; d-- {
		up := r.Node(d - 1)
		node = up.Copy(up.Content.ReplaceChild(r.Index(d-1), node))
	}
	return node
}

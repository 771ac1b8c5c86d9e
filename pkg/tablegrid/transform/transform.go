package transform

import (
	"errors"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

var (
	// ErrInvalidPosition indicates a step addressed a position that does not
	// exist in the document it was applied to.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidReplace indicates a replace range that does not cover whole
	// children of a single parent.
	ErrInvalidReplace = errors.New("invalid replace range")
)

// Transform accumulates steps against a document. The first failing step
// is kept as the transform's error and every later step is ignored, so a
// caller can record a sequence of edits and check Err once.
type Transform struct {
	before  *models.Node
	doc     *models.Node
	steps   []Step
	mapping Mapping
	err     error
}

// New starts a transform on doc.
func New(doc *models.Node) *Transform {
	return &Transform{before: doc, doc: doc}
}

// Before returns the document the transform started from.
func (t *Transform) Before() *models.Node { return t.before }

// Doc returns the current document.
func (t *Transform) Doc() *models.Node { return t.doc }

// Steps returns the recorded steps.
func (t *Transform) Steps() []Step { return t.steps }

// Mapping returns the position mapping through every recorded step.
func (t *Transform) Mapping() *Mapping { return &t.mapping }

// DocChanged reports whether any step was recorded.
func (t *Transform) DocChanged() bool { return len(t.steps) > 0 }

// Err returns the first step error, if any.
func (t *Transform) Err() error { return t.err }

// Step applies s and records it.
func (t *Transform) Step(s Step) error {
	if t.err != nil {
		return t.err
	}
	doc, err := s.Apply(t.doc)
	if err != nil {
		t.err = err
		return err
	}
	t.steps = append(t.steps, s)
	t.mapping.AppendMap(s.Map())
	t.doc = doc
	return nil
}

// Replace replaces the range from-to with content.
func (t *Transform) Replace(from, to int, content models.Fragment) *Transform {
	if from == to && content.Size() == 0 {
		return t
	}
	_ = t.Step(ReplaceStep{From: from, To: to, Content: content})
	return t
}

// ReplaceWith replaces the range from-to with nodes.
func (t *Transform) ReplaceWith(from, to int, nodes ...*models.Node) *Transform {
	return t.Replace(from, to, models.NewFragment(nodes...))
}

// Insert inserts nodes at pos.
func (t *Transform) Insert(pos int, nodes ...*models.Node) *Transform {
	return t.ReplaceWith(pos, pos, nodes...)
}

// Delete removes the range from-to.
func (t *Transform) Delete(from, to int) *Transform {
	return t.Replace(from, to, models.EmptyFragment)
}

// SetNodeMarkup changes the type (when typ is non-nil) and attributes of
// the node at pos.
func (t *Transform) SetNodeMarkup(pos int, typ *models.NodeType, attrs models.Attrs) *Transform {
	_ = t.Step(SetMarkupStep{Pos: pos, Type: typ, Attrs: attrs})
	return t
}

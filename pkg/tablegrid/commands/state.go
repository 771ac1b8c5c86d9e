// Package commands implements the table editing commands: inserting and
// deleting rows and columns, merging and splitting cells, toggling headers,
// pasting blocks of cells and moving between cells.
//
// A Command looks at a State and reports whether it applies. When it does
// and a Dispatch is given, it builds a Transaction and passes it on. A
// command that does not apply leaves the document untouched.
package commands

import (
	"log/slog"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/transform"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "commands"))
}

// State is the editor state commands read: a document and a selection.
type State struct {
	Doc       *models.Node
	Selection Selection
}

// Schema returns the document's schema.
func (s State) Schema() *models.Schema {
	return s.Doc.Type.Schema()
}

// Tr starts a transaction on the state.
func (s State) Tr() *Transaction {
	return &Transaction{Transform: transform.New(s.Doc), startSel: s.Selection}
}

// Transaction is a transform plus the selection and metadata that travel
// with it.
type Transaction struct {
	*transform.Transform

	startSel  Selection
	selection Selection
	meta      map[string]any
}

// SetSelection sets the selection the transaction ends with.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.selection = sel
	return tr
}

// Selection returns the selection set on the transaction, or the starting
// selection mapped through the transaction's steps.
func (tr *Transaction) Selection() Selection {
	if tr.selection != nil {
		return tr.selection
	}
	if tr.startSel == nil {
		return nil
	}
	return tr.startSel.Map(tr.Doc(), tr.Mapping())
}

// SetMeta attaches a metadata value.
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns a metadata value.
func (tr *Transaction) Meta(key string) (any, bool) {
	v, ok := tr.meta[key]
	return v, ok
}

// Apply returns the state the transaction produces.
func (tr *Transaction) Apply() State {
	return State{Doc: tr.Doc(), Selection: tr.Selection()}
}

// Dispatch receives the transaction a command built.
type Dispatch func(tr *Transaction)

// Command is a table editing command. It reports whether it applies to the
// state; when dispatch is non-nil it also performs the edit.
type Command func(state State, dispatch Dispatch) bool

// finish hands tr to dispatch unless recording a step failed, in which
// case the command reports that it did not apply.
func finish(name string, tr *Transaction, dispatch Dispatch) bool {
	if err := tr.Err(); err != nil {
		logger().Warn("table command failed", slog.String("command", name), slog.Any("error", err))
		return false
	}
	dispatch(tr)
	return true
}

// reject logs an unexpected lookup failure and reports that the command
// did not apply.
func reject(name string, err error) bool {
	logger().Warn("table command rejected", slog.String("command", name), slog.Any("error", err))
	return false
}

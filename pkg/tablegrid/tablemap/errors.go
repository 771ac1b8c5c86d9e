package tablemap

import "errors"

var (
	// ErrNotTable indicates a map was requested for a node that is not a table.
	ErrNotTable = errors.New("not a table node")

	// ErrCellNotFound indicates an offset that no grid slot holds.
	ErrCellNotFound = errors.New("no cell with offset found")
)

package models

import "errors"

var (
	// ErrUnknownNodeType indicates a node type name the schema does not define.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrPositionOutOfRange indicates a document position outside the document.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrInvalidJSON indicates a JSON document that does not describe a node tree.
	ErrInvalidJSON = errors.New("invalid node JSON")
)

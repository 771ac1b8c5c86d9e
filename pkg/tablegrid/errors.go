package tablegrid

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates a file extension no importer handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrNotStable indicates tables still had problems after the maximum
// number of repair passes.
var ErrNotStable = errors.New("tables not stable after repair")

// LoadError represents an error while loading or saving a document.
type LoadError struct {
	Path      string
	Component string // "xlsx", "html", "json", "repair"
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error in %q (%s): %v", e.Path, e.Component, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path, component string, err error) *LoadError {
	return &LoadError{
		Path:      path,
		Component: component,
		Err:       err,
	}
}

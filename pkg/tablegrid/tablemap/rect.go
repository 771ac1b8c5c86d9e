package tablemap

import (
	"fmt"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// Rect is a half-open rectangle in grid coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the number of columns covered.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the number of rows covered.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d)-[%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// TableRect is a rectangle of a specific table, carrying what commands
// need to turn grid coordinates into document positions.
type TableRect struct {
	Rect
	// TableStart is the document position of the table's first row.
	TableStart int
	Map        *TableMap
	Table      *models.Node
}

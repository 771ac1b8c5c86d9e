package tablemap

import "fmt"

// ProblemKind classifies a structural anomaly found while building a map.
type ProblemKind string

const (
	// ProblemCollision: N sub-columns of the cell at Pos were already
	// claimed by another cell in Row.
	ProblemCollision ProblemKind = "collision"
	// ProblemMissing: N grid slots at the end of Row were left unfilled.
	ProblemMissing ProblemKind = "missing"
	// ProblemOverlongRowspan: the cell at Pos reaches N rows past the
	// table's last row.
	ProblemOverlongRowspan ProblemKind = "overlong_rowspan"
	// ProblemColwidthMismatch: the cell at Pos declares column widths that
	// disagree with its columns; Colwidth holds the reconciled value.
	ProblemColwidthMismatch ProblemKind = "colwidth mismatch"
)

// Problem is one anomaly. Which fields are meaningful depends on Kind.
type Problem struct {
	Kind     ProblemKind `json:"type"`
	Row      int         `json:"row"`
	Pos      int         `json:"pos"`
	N        int         `json:"n,omitempty"`
	Colwidth []int       `json:"colwidth,omitempty"`
}

// Collision returns a collision problem.
func Collision(row, pos, n int) Problem {
	return Problem{Kind: ProblemCollision, Row: row, Pos: pos, N: n}
}

// Missing returns a missing-cells problem.
func Missing(row, n int) Problem {
	return Problem{Kind: ProblemMissing, Row: row, N: n}
}

// OverlongRowspan returns an overlong-rowspan problem.
func OverlongRowspan(pos, n int) Problem {
	return Problem{Kind: ProblemOverlongRowspan, Pos: pos, N: n}
}

// ColwidthMismatch returns a column width problem.
func ColwidthMismatch(pos int, colwidth []int) Problem {
	return Problem{Kind: ProblemColwidthMismatch, Pos: pos, Colwidth: colwidth}
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemCollision:
		return fmt.Sprintf("collision in row %d: cell at %d overlaps %d column(s)", p.Row, p.Pos, p.N)
	case ProblemMissing:
		return fmt.Sprintf("row %d is missing %d cell(s)", p.Row, p.N)
	case ProblemOverlongRowspan:
		return fmt.Sprintf("cell at %d spans %d row(s) past the table end", p.Pos, p.N)
	case ProblemColwidthMismatch:
		return fmt.Sprintf("cell at %d has mismatched column widths, expected %v", p.Pos, p.Colwidth)
	}
	return string(p.Kind)
}

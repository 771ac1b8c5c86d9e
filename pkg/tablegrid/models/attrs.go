package models

import (
	"maps"
	"reflect"
	"slices"

	"github.com/tiendc/go-deepcopy"
)

// Attribute names with dedicated fields in Attrs.
const (
	AttrColspan  = "colspan"
	AttrRowspan  = "rowspan"
	AttrColwidth = "colwidth"
)

// Attrs is a node's attribute record. Only cells use the span fields.
//
// Attrs values are never modified once they are attached to a node. The
// helpers below all return a fresh record.
type Attrs struct {
	// Colspan is the number of grid columns a cell covers (>= 1).
	Colspan int
	// Rowspan is the number of grid rows a cell covers (>= 1).
	Rowspan int
	// Colwidth holds one width per covered column, 0 meaning unset.
	// Nil when no width is known for any column.
	Colwidth []int
	// Extra carries domain attributes through unchanged.
	Extra map[string]any
}

// CellAttrs returns attributes for a cell covering colspan x rowspan slots.
func CellAttrs(colspan, rowspan int) Attrs {
	return Attrs{Colspan: colspan, Rowspan: rowspan}
}

// Clone returns a deep copy of a.
func (a Attrs) Clone() Attrs {
	out := Attrs{Colspan: a.Colspan, Rowspan: a.Rowspan}
	if a.Colwidth != nil {
		out.Colwidth = slices.Clone(a.Colwidth)
	}
	if a.Extra != nil {
		if err := deepcopy.Copy(&out.Extra, a.Extra); err != nil {
			out.Extra = maps.Clone(a.Extra)
		}
	}
	return out
}

// Get returns the named attribute, or nil when unset.
func (a Attrs) Get(name string) any {
	switch name {
	case AttrColspan:
		return a.Colspan
	case AttrRowspan:
		return a.Rowspan
	case AttrColwidth:
		if a.Colwidth == nil {
			return nil
		}
		return a.Colwidth
	}
	return a.Extra[name]
}

// Has reports whether the named attribute currently equals value.
func (a Attrs) Has(name string, value any) bool {
	return reflect.DeepEqual(a.Get(name), value)
}

// With returns a copy of a with the named attribute set to value.
// Span attributes accept int values; colwidth accepts []int or nil.
func (a Attrs) With(name string, value any) Attrs {
	out := a.Clone()
	switch name {
	case AttrColspan:
		if n, ok := value.(int); ok {
			out.Colspan = n
		}
	case AttrRowspan:
		if n, ok := value.(int); ok {
			out.Rowspan = n
		}
	case AttrColwidth:
		w, _ := value.([]int)
		out.Colwidth = slices.Clone(w)
	default:
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[name] = value
	}
	return out
}

// WithRowspan returns a copy of a with the given rowspan.
func (a Attrs) WithRowspan(n int) Attrs {
	out := a.Clone()
	out.Rowspan = n
	return out
}

// WithColspan returns a copy of a with the given colspan. Colwidth is left
// alone; use AddColSpan or RemoveColSpan to keep it in step.
func (a Attrs) WithColspan(n int) Attrs {
	out := a.Clone()
	out.Colspan = n
	return out
}

// WithColwidth returns a copy of a with the given colwidth.
func (a Attrs) WithColwidth(w []int) Attrs {
	out := a.Clone()
	out.Colwidth = slices.Clone(w)
	return out
}

// RemoveColSpan returns a copy of a with n columns removed starting at
// sub-column pos. Colwidth loses the matching entries and is dropped
// entirely when no remaining entry is set.
func RemoveColSpan(a Attrs, pos, n int) Attrs {
	out := a.Clone()
	out.Colspan -= n
	if out.Colwidth != nil {
		end := min(pos+n, len(out.Colwidth))
		if pos < end {
			out.Colwidth = slices.Delete(out.Colwidth, pos, end)
		}
		if !slices.ContainsFunc(out.Colwidth, func(w int) bool { return w > 0 }) {
			out.Colwidth = nil
		}
	}
	return out
}

// AddColSpan returns a copy of a with n columns added at sub-column pos.
// New colwidth entries are unset.
func AddColSpan(a Attrs, pos, n int) Attrs {
	out := a.Clone()
	out.Colspan += n
	if out.Colwidth != nil {
		pos = min(max(pos, 0), len(out.Colwidth))
		out.Colwidth = slices.Insert(out.Colwidth, pos, make([]int, n)...)
	}
	return out
}

// Equal reports whether two attribute records hold the same values.
func (a Attrs) Equal(b Attrs) bool {
	if a.Colspan != b.Colspan || a.Rowspan != b.Rowspan {
		return false
	}
	if !slices.Equal(a.Colwidth, b.Colwidth) {
		return false
	}
	if len(a.Extra) == 0 && len(b.Extra) == 0 {
		return true
	}
	return reflect.DeepEqual(a.Extra, b.Extra)
}

// normalizeFor fills in span defaults for cell types.
func (a Attrs) normalizeFor(t *NodeType) Attrs {
	if !t.IsCell() {
		return a
	}
	if a.Colspan < 1 {
		a.Colspan = 1
	}
	if a.Rowspan < 1 {
		a.Rowspan = 1
	}
	return a
}

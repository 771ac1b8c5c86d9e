// Package transform records document edits as steps and remaps positions
// through them.
package transform

// StepMap describes how one step moved positions. Each replaced range is
// stored as (start, oldSize, newSize).
type StepMap struct {
	ranges []int
}

// IdentityMap leaves every position where it is.
var IdentityMap = StepMap{}

// NewStepMap returns a map for a single replaced range.
func NewStepMap(start, oldSize, newSize int) StepMap {
	if oldSize == 0 && newSize == 0 {
		return IdentityMap
	}
	return StepMap{ranges: []int{start, oldSize, newSize}}
}

// MapResult is the outcome of mapping a position.
type MapResult struct {
	Pos int
	// Deleted is set when the content on the assoc side of the position
	// was removed.
	Deleted bool
}

// Map maps pos. With assoc < 0 a position at an insertion point stays
// before the inserted content, otherwise it moves after it.
func (m StepMap) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps pos and reports whether it was deleted.
func (m StepMap) MapResult(pos, assoc int) MapResult {
	diff := 0
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+1], m.ranges[i+2]
		end := start + oldSize
		if pos <= end {
			side := assoc
			if oldSize > 0 {
				switch pos {
				case start:
					side = -1
				case end:
					side = 1
				}
			}
			result := start + diff
			if side >= 0 {
				result += newSize
			}
			deleted := pos != end
			if assoc < 0 {
				deleted = pos != start
			}
			return MapResult{Pos: result, Deleted: deleted}
		}
		diff += newSize - oldSize
	}
	return MapResult{Pos: pos + diff}
}

// Mappable is anything that can remap positions.
type Mappable interface {
	Map(pos, assoc int) int
	MapResult(pos, assoc int) MapResult
}

// Mapping is a sequence of step maps applied in order.
type Mapping struct {
	maps     []StepMap
	from, to int
}

// Maps returns the step maps in the mapping's window.
func (m *Mapping) Maps() []StepMap {
	return m.maps[m.from:m.to]
}

// Len returns the total number of step maps recorded, which callers use as
// a marker for Slice.
func (m *Mapping) Len() int {
	return len(m.maps)
}

// AppendMap records another step map.
func (m *Mapping) AppendMap(sm StepMap) {
	m.maps = append(m.maps, sm)
	m.to = len(m.maps)
}

// Slice returns a mapping over the maps recorded from index from on. It
// maps positions that were valid after the first from steps.
func (m *Mapping) Slice(from int) *Mapping {
	return &Mapping{maps: m.maps, from: from, to: len(m.maps)}
}

// Map maps pos through all maps in the window.
func (m *Mapping) Map(pos, assoc int) int {
	for _, sm := range m.maps[m.from:m.to] {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// MapResult maps pos and reports whether any step deleted it.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for _, sm := range m.maps[m.from:m.to] {
		r := sm.MapResult(pos, assoc)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return MapResult{Pos: pos, Deleted: deleted}
}

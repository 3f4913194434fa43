package types

import "sort"

// PositionMapper translates positions of a document taken before a batch of
// edits into positions of the document after the batch. Edits are expressed
// in pre-edit coordinates and must not overlap.
type PositionMapper struct {
	edits []mappedEdit // sorted by Range.Start
}

type mappedEdit struct {
	old      Range
	newStart Position // post-edit coordinates
	newEnd   Position // end of inserted text in post-edit coordinates
}

// NewPositionMapper prepares a mapper for the given edits. The edits may be
// supplied in any order.
func NewPositionMapper(edits []TextEdit) *PositionMapper {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Before(sorted[j].Range.Start)
	})

	m := &PositionMapper{edits: make([]mappedEdit, 0, len(sorted))}
	lineDelta := 0
	// colDelta applies to positions on the line where the previous edit ended.
	colLine, colDelta := -1, 0
	for _, e := range sorted {
		start := e.Range.Start
		newStart := Position{Line: start.Line + lineDelta, Col: start.Col}
		if start.Line == colLine {
			newStart.Col += colDelta
		}
		newEnd := EndOfText(newStart, e.Text)
		m.edits = append(m.edits, mappedEdit{old: e.Range, newStart: newStart, newEnd: newEnd})

		lineDelta = newEnd.Line - e.Range.End.Line
		colLine = e.Range.End.Line
		colDelta = newEnd.Col - e.Range.End.Col
	}
	return m
}

// Map returns the post-edit location of p. A position at or after the end of
// an edit shifts with it; a position strictly inside a replaced range moves to
// the end of the inserted text. An insertion exactly at p pushes p forward.
func (m *PositionMapper) Map(p Position) Position {
	if len(m.edits) == 0 {
		return p
	}
	// Index of the last edit starting at or before p.
	i := sort.Search(len(m.edits), func(i int) bool {
		return m.edits[i].old.Start.After(p)
	}) - 1
	if i < 0 {
		return p
	}
	e := m.edits[i]
	if p.Before(e.old.End) {
		// Strictly inside the replaced span, or at its start.
		if p == e.old.Start && !e.old.IsEmpty() {
			return m.shiftBefore(i, p)
		}
		return e.newEnd
	}
	// At or after the edit's end.
	if p.Line == e.old.End.Line {
		return Position{Line: e.newEnd.Line, Col: e.newEnd.Col + p.Col - e.old.End.Col}
	}
	return Position{Line: p.Line + e.newEnd.Line - e.old.End.Line, Col: p.Col}
}

// shiftBefore maps a position that sits at the start of edit i, which is
// unaffected by edit i itself but shifted by everything before it.
func (m *PositionMapper) shiftBefore(i int, p Position) Position {
	if i == 0 {
		return p
	}
	prev := m.edits[i-1]
	if p.Line == prev.old.End.Line {
		return Position{Line: prev.newEnd.Line, Col: prev.newEnd.Col + p.Col - prev.old.End.Col}
	}
	return Position{Line: p.Line + prev.newEnd.Line - prev.old.End.Line, Col: p.Col}
}

// MapRange maps both ends of r.
func (m *PositionMapper) MapRange(r Range) Range {
	return Range{Start: m.Map(r.Start), End: m.Map(r.End)}
}

// InsertedRanges returns, in ascending order, the post-edit range occupied by
// the text each edit inserted.
func (m *PositionMapper) InsertedRanges() []Range {
	out := make([]Range, len(m.edits))
	for i, e := range m.edits {
		out[i] = Range{Start: e.newStart, End: e.newEnd}
	}
	return out
}

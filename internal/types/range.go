package types

import "fmt"

// Range is a half-open span of text [Start, End). A Range is normalized when
// Start does not come after End. An empty range is a caret.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewRange builds a normalized range from two positions given in any order.
func NewRange(a, b Position) Range {
	return Range{Start: a, End: b}.Normalize()
}

// Caret returns the empty range located at p.
func Caret(p Position) Range {
	return Range{Start: p, End: p}
}

// Normalize swaps Start and End when they are out of order.
func (r Range) Normalize() Range {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsNormalized reports whether Start <= End.
func (r Range) IsNormalized() bool {
	return !r.End.Before(r.Start)
}

// Contains reports whether p lies in [Start, End). A caret contains only its
// own position.
func (r Range) Contains(p Position) bool {
	if r.IsEmpty() {
		return p == r.Start
	}
	return !p.Before(r.Start) && p.Before(r.End)
}

// Overlaps reports whether the two ranges share at least one character, or
// whether a caret lies strictly inside the other range.
func (r Range) Overlaps(other Range) bool {
	r, other = r.Normalize(), other.Normalize()
	if r.IsEmpty() || other.IsEmpty() {
		return r.Start.After(other.Start) && r.Start.Before(other.End) ||
			other.Start.After(r.Start) && other.Start.Before(r.End) ||
			r == other
	}
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Touches reports whether the ranges overlap or share a boundary.
func (r Range) Touches(other Range) bool {
	r, other = r.Normalize(), other.Normalize()
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

// Union returns the smallest range covering both ranges.
func (r Range) Union(other Range) Range {
	return Range{
		Start: MinPosition(r.Start, other.Start),
		End:   MaxPosition(r.End, other.End),
	}.Normalize()
}

// SingleLine reports whether the range starts and ends on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

package cursor

import "github.com/bethropolis/textcore/internal/types"

// Direction of a cursor movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Home
	End
	DocumentStart
	DocumentEnd
)

var directionNames = [...]string{"up", "down", "left", "right", "home", "end", "document-start", "document-end"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// ParseDirection accepts the names produced by Direction.String.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return Up, false
}

// Unit is the granularity of a movement.
type Unit int

const (
	Character Unit = iota
	Word
	Line
	Page
)

var unitNames = [...]string{"character", "word", "line", "page"}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unknown"
	}
	return unitNames[u]
}

// ParseUnit accepts the names produced by Unit.String.
func ParseUnit(name string) (Unit, bool) {
	for i, n := range unitNames {
		if n == name {
			return Unit(i), true
		}
	}
	return Character, false
}

// Cursor is a caret with an optional selection. The selection spans from
// Anchor to Position; it is empty when both are equal.
type Cursor struct {
	ID       int            `json:"id"`
	Position types.Position `json:"position"`
	Anchor   types.Position `json:"anchor"`

	// preferredCol is the column vertical moves try to return to; -1 when
	// unset.
	preferredCol int
	// moved orders cursors by their last movement, for merge survivorship.
	moved uint64
}

// HasSelection reports whether the cursor selects any text.
func (c Cursor) HasSelection() bool {
	return c.Anchor != c.Position
}

// Selection returns the normalized selected range, a caret when nothing is
// selected.
func (c Cursor) Selection() types.Range {
	return types.NewRange(c.Anchor, c.Position)
}

// Forward reports whether the selection was made left to right.
func (c Cursor) Forward() bool {
	return !c.Position.Before(c.Anchor)
}

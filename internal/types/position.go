// internal/types/position.go
package types

import "fmt"

// Position represents a cursor or text position within the buffer.
// Line is the 0-based line index.
// Col is the 0-based column (rune) index within the line.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"column"` // Rune index
}

// Pos is shorthand for Position{Line: line, Col: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Col: col}
}

// Compare returns -1, 0 or 1 depending on whether p is before, equal to or
// after other in document order.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Col < other.Col:
		return -1
	case p.Col > other.Col:
		return 1
	}
	return 0
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool { return p.Compare(other) < 0 }

// After reports whether p comes strictly after other.
func (p Position) After(other Position) bool { return p.Compare(other) > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// MinPosition returns the earlier of two positions.
func MinPosition(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPosition returns the later of two positions.
func MaxPosition(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}

package cursor

import (
	"fmt"

	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// Move moves one cursor. With extend the anchor stays put and the selection
// grows or shrinks; otherwise the selection collapses onto the new caret.
func (m *Manager) Move(id int, dir Direction, unit Unit, extend bool) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("cursor %d: %w", id, types.ErrInvalidPosition)
	}
	m.moveOne(c, dir, unit, extend)
	m.merge()
	return nil
}

// MoveAll moves every cursor the same way.
func (m *Manager) MoveAll(dir Direction, unit Unit, extend bool) {
	for _, c := range m.cursors {
		m.moveOne(c, dir, unit, extend)
	}
	m.merge()
}

func (m *Manager) moveOne(c *Cursor, dir Direction, unit Unit, extend bool) {
	vertical := dir == Up || dir == Down
	if !vertical {
		c.preferredCol = -1
	}
	c.Position = m.target(c, dir, unit)
	if !extend {
		c.Anchor = c.Position
	}
	m.touch(c)
}

func (m *Manager) line(n int) string {
	s, _ := m.doc.Line(n)
	return s
}

// target computes where a cursor lands after one movement.
func (m *Manager) target(c *Cursor, dir Direction, unit Unit) types.Position {
	pos := c.Position
	last := m.doc.LineCount() - 1

	switch dir {
	case DocumentStart:
		return types.Pos(0, 0)
	case DocumentEnd:
		return m.doc.EndPosition()
	case Home:
		return types.Pos(pos.Line, smartHome(m.line(pos.Line), pos.Col))
	case End:
		return types.Pos(pos.Line, m.doc.LineLength(pos.Line))
	case Up, Down:
		lines := 1
		if unit == Page {
			lines = m.pageSize
		}
		if dir == Up {
			lines = -lines
		}
		return m.vertical(c, lines, last)
	case Left:
		switch unit {
		case Word:
			return m.wordLeft(pos)
		case Line, Page:
			return types.Pos(pos.Line, 0)
		}
		if pos.Col > 0 {
			return types.Pos(pos.Line, utils.PrevGraphemeColumn(m.line(pos.Line), pos.Col))
		}
		if pos.Line > 0 {
			return types.Pos(pos.Line-1, m.doc.LineLength(pos.Line-1))
		}
		return pos
	case Right:
		switch unit {
		case Word:
			return m.wordRight(pos, last)
		case Line, Page:
			return types.Pos(pos.Line, m.doc.LineLength(pos.Line))
		}
		if pos.Col < m.doc.LineLength(pos.Line) {
			return types.Pos(pos.Line, utils.NextGraphemeColumn(m.line(pos.Line), pos.Col))
		}
		if pos.Line < last {
			return types.Pos(pos.Line+1, 0)
		}
		return pos
	}
	return pos
}

// vertical moves by delta lines, keeping the preferred column. Moving above
// the first line lands on its start; moving below the last lands on its end.
func (m *Manager) vertical(c *Cursor, delta, last int) types.Position {
	if c.preferredCol < 0 {
		c.preferredCol = c.Position.Col
	}
	line := c.Position.Line + delta
	switch {
	case line < 0:
		return types.Pos(0, 0)
	case line > last:
		return types.Pos(last, m.doc.LineLength(last))
	}
	col := c.preferredCol
	if n := m.doc.LineLength(line); col > n {
		col = n
	}
	return types.Pos(line, col)
}

// smartHome toggles between the first non-blank column and column 0.
func smartHome(line string, col int) int {
	first := utils.FirstNonBlank(line)
	if col == first {
		return 0
	}
	return first
}

// wordLeft skips non-word characters, then the word before the caret. At the
// start of a line it moves to the end of the previous line.
func (m *Manager) wordLeft(pos types.Position) types.Position {
	if pos.Col == 0 {
		if pos.Line == 0 {
			return pos
		}
		return types.Pos(pos.Line-1, m.doc.LineLength(pos.Line-1))
	}
	runes := []rune(m.line(pos.Line))
	col := pos.Col
	for col > 0 && !utils.IsWordChar(runes[col-1]) {
		col--
	}
	for col > 0 && utils.IsWordChar(runes[col-1]) {
		col--
	}
	return types.Pos(pos.Line, col)
}

// wordRight skips non-word characters, then the word after the caret. At the
// end of a line it moves to the start of the next line.
func (m *Manager) wordRight(pos types.Position, last int) types.Position {
	runes := []rune(m.line(pos.Line))
	if pos.Col >= len(runes) {
		if pos.Line >= last {
			return pos
		}
		return types.Pos(pos.Line+1, 0)
	}
	col := pos.Col
	for col < len(runes) && !utils.IsWordChar(runes[col]) {
		col++
	}
	for col < len(runes) && utils.IsWordChar(runes[col]) {
		col++
	}
	return types.Pos(pos.Line, col)
}

package core

import (
	"fmt"

	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/types"
)

// Cursors returns every cursor in document order.
func (e *Editor) Cursors() []cursor.Cursor {
	var out []cursor.Cursor
	e.read(func() { out = e.cursors.Cursors() })
	return out
}

// PrimaryCursor returns the primary cursor.
func (e *Editor) PrimaryCursor() cursor.Cursor {
	var c cursor.Cursor
	e.read(func() { c = e.cursors.Primary() })
	return c
}

// MoveCursors moves every cursor. With extend the selections grow.
func (e *Editor) MoveCursors(dir cursor.Direction, unit cursor.Unit, extend bool) {
	_ = e.update(func() error {
		e.cursors.MoveAll(dir, unit, extend)
		return nil
	})
}

// MoveCursor moves the cursor with the given id.
func (e *Editor) MoveCursor(id int, dir cursor.Direction, unit cursor.Unit, extend bool) error {
	return e.update(func() error {
		return e.cursors.Move(id, dir, unit, extend)
	})
}

// AddCursor adds a caret at pos and returns its id.
func (e *Editor) AddCursor(pos types.Position) (int, error) {
	var id int
	err := e.update(func() error {
		var err error
		id, err = e.cursors.AddCursor(pos)
		return err
	})
	return id, err
}

// RemoveCursor removes a secondary cursor.
func (e *Editor) RemoveCursor(id int) bool {
	var ok bool
	_ = e.update(func() error {
		ok = e.cursors.RemoveCursor(id)
		return nil
	})
	return ok
}

// SetSelection sets the anchor and caret of cursor id.
func (e *Editor) SetSelection(id int, anchor, pos types.Position) error {
	return e.update(func() error {
		return e.cursors.SetSelection(id, anchor, pos)
	})
}

// CollapseToPrimary drops every cursor but the primary one and clears its
// selection.
func (e *Editor) CollapseToPrimary() {
	_ = e.update(func() error {
		e.cursors.CollapseToPrimary()
		return nil
	})
}

// ClearSelections collapses every selection onto its caret.
func (e *Editor) ClearSelections() {
	_ = e.update(func() error {
		e.cursors.ClearSelections()
		return nil
	})
}

// SelectAll selects the whole document with a single cursor.
func (e *Editor) SelectAll() {
	_ = e.update(func() error {
		e.cursors.SelectAll()
		return nil
	})
}

// SelectLines extends every selection to whole lines.
func (e *Editor) SelectLines() {
	_ = e.update(func() error {
		e.cursors.SelectLines()
		return nil
	})
}

// ExpandSelectionToWords grows every selection to word boundaries.
func (e *Editor) ExpandSelectionToWords() {
	_ = e.update(func() error {
		e.cursors.ExpandSelectionToWords()
		return nil
	})
}

// GotoPosition collapses to a single caret at pos.
func (e *Editor) GotoPosition(pos types.Position) error {
	return e.update(func() error {
		if err := e.buffer.ValidatePosition(pos); err != nil {
			return fmt.Errorf("goto: %w", err)
		}
		e.cursors.CollapseToPrimary()
		e.cursors.SetPosition(pos)
		return nil
	})
}

// GotoLine moves a single caret to the first non-blank column of line n,
// counted from 1.
func (e *Editor) GotoLine(n int) error {
	return e.update(func() error {
		if n < 1 || n > e.buffer.LineCount() {
			return fmt.Errorf("goto line %d of %d: %w", n, e.buffer.LineCount(), types.ErrInvalidPosition)
		}
		e.cursors.CollapseToPrimary()
		e.cursors.SetPosition(types.Pos(n-1, 0))
		e.cursors.MoveAll(cursor.Home, cursor.Character, false)
		return nil
	})
}

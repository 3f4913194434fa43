package core

import (
	"strings"

	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Copy puts the selected text on the clipboard, one line per selection. It
// reports false when nothing is selected.
func (e *Editor) Copy() bool {
	var ok bool
	e.read(func() { ok = e.copyLocked() })
	return ok
}

func (e *Editor) copyLocked() bool {
	ranges := e.cursors.SelectedRanges()
	if len(ranges) == 0 {
		return false
	}
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		text, err := e.buffer.TextInRange(r)
		if err != nil {
			logger.Warnf("Editor: copy %s: %v", r, err)
			continue
		}
		parts = append(parts, text)
	}
	e.clipboard.Copy(strings.Join(parts, "\n"))
	return true
}

// Cut copies the selections and deletes them.
func (e *Editor) Cut() (bool, error) {
	var ok bool
	err := e.update(func() error {
		if e.readOnly {
			return types.ErrReadOnly
		}
		if ok = e.copyLocked(); !ok {
			return nil
		}
		return e.deleteSelectionLocked()
	})
	return ok, err
}

// Paste inserts the clipboard at every cursor. When the clipboard holds one
// line per cursor, each cursor receives its own line.
func (e *Editor) Paste() (bool, error) {
	var ok bool
	err := e.update(func() error {
		text := e.clipboard.Text()
		if text == "" {
			return nil
		}
		ok = true

		lines := strings.Split(types.NormalizeNewlines(text), "\n")
		if n := e.cursors.Count(); n > 1 && len(lines) == n {
			i := 0
			edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
				edit := types.ReplaceEdit(c.Selection(), lines[i])
				i++
				return edit, true
			})
			_, err := e.applyLocked(edits, e.cursors.CollapseToSelectionEnds)
			return err
		}
		return e.insertLocked(text)
	})
	return ok, err
}

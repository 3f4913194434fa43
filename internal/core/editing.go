package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/core/history"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

var closingPairs = map[rune]rune{'(': ')', '[': ']', '{': '}', '"': '"', '\'': '\''}

// InsertText types text at every cursor, replacing selections. Each caret
// ends up after its inserted text.
func (e *Editor) InsertText(text string) error {
	return e.update(func() error {
		return e.insertLocked(text)
	})
}

func (e *Editor) insertLocked(text string) error {
	edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
		return types.ReplaceEdit(c.Selection(), text), true
	})
	_, err := e.applyLocked(edits, e.cursors.CollapseToSelectionEnds)
	return err
}

// TypeChar inserts one typed character. A newline copies the current
// indentation (one level deeper after an opening bracket) when auto-indent is
// on; a tab inserts spaces up to the next tab stop unless tabs are used;
// brackets and quotes are closed automatically, and typing a closer that is
// already there steps over it.
func (e *Editor) TypeChar(r rune) error {
	return e.update(func() error {
		ed := e.cfg.Editor
		switch {
		case r == '\n':
			return e.newlineLocked()
		case r == '\t' && !ed.UseTabs:
			return e.softTabLocked()
		case ed.AutoCloseBrackets && e.skipCloserLocked(r):
			return nil
		case ed.AutoCloseBrackets && e.canAutoCloseLocked(r):
			pair := string(r) + string(closingPairs[r])
			edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
				return types.InsertEdit(c.Position, pair), true
			})
			_, err := e.applyLocked(edits, func() {
				e.cursors.CollapseToSelectionEnds()
				e.cursors.MoveAll(cursor.Left, cursor.Character, false)
			})
			return err
		}
		return e.insertLocked(string(r))
	})
}

func (e *Editor) newlineLocked() error {
	ed := e.cfg.Editor
	edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
		sel := c.Selection()
		text := "\n"
		if ed.AutoIndent {
			line := e.lineLocked(sel.Start.Line)
			indent := utils.LineIndentation(line)
			if n := utf8.RuneCountInString(indent); sel.Start.Col < n {
				indent = utils.RuneSlice(indent, 0, sel.Start.Col)
			}
			text += indent
			if prev, ok := runeBefore(line, sel.Start.Col); ok && strings.ContainsRune("([{", prev) {
				text += utils.CreateIndentation(1, ed.TabSize, ed.UseTabs)
			}
		}
		return types.ReplaceEdit(sel, text), true
	})
	_, err := e.applyLocked(edits, e.cursors.CollapseToSelectionEnds)
	return err
}

func (e *Editor) softTabLocked() error {
	tabSize := e.cfg.Editor.TabSize
	edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
		sel := c.Selection()
		visual := utils.ColumnToVisualColumn(e.lineLocked(sel.Start.Line), sel.Start.Col, tabSize)
		return types.ReplaceEdit(sel, strings.Repeat(" ", tabSize-visual%tabSize)), true
	})
	_, err := e.applyLocked(edits, e.cursors.CollapseToSelectionEnds)
	return err
}

// skipCloserLocked moves every caret over r when r is a closing character
// that already follows each of them.
func (e *Editor) skipCloserLocked(r rune) bool {
	if !strings.ContainsRune(")]}\"'", r) || e.cursors.HasSelection() {
		return false
	}
	for _, c := range e.cursors.Cursors() {
		next, ok := runeAt(e.lineLocked(c.Position.Line), c.Position.Col)
		if !ok || next != r {
			return false
		}
	}
	e.cursors.MoveAll(cursor.Right, cursor.Character, false)
	return true
}

// canAutoCloseLocked reports whether typing r should insert its pair. Quotes
// are only paired outside words, so apostrophes in text stay single.
func (e *Editor) canAutoCloseLocked(r rune) bool {
	if _, ok := closingPairs[r]; !ok || e.cursors.HasSelection() {
		return false
	}
	if r != '"' && r != '\'' {
		return true
	}
	for _, c := range e.cursors.Cursors() {
		line := e.lineLocked(c.Position.Line)
		if prev, ok := runeBefore(line, c.Position.Col); ok && utils.IsWordChar(prev) {
			return false
		}
		if next, ok := runeAt(line, c.Position.Col); ok && utils.IsWordChar(next) {
			return false
		}
	}
	return true
}

// DeleteBackward deletes the selections, or the grapheme before each caret.
// At the start of a line the line is joined with the previous one. An empty
// bracket pair around the caret is removed as a whole.
func (e *Editor) DeleteBackward() error {
	return e.update(func() error {
		edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
			if c.HasSelection() {
				return types.DeleteEdit(c.Selection()), true
			}
			pos := c.Position
			line := e.lineLocked(pos.Line)
			switch {
			case pos.Col > 0:
				start := types.Pos(pos.Line, utils.PrevGraphemeColumn(line, pos.Col))
				end := pos
				if e.cfg.Editor.AutoCloseBrackets && pos.Col-start.Col == 1 {
					prev, _ := runeBefore(line, pos.Col)
					if next, ok := runeAt(line, pos.Col); ok && closingPairs[prev] == next {
						end.Col++
					}
				}
				return types.DeleteEdit(types.NewRange(start, end)), true
			case pos.Line > 0:
				prev := types.Pos(pos.Line-1, e.buffer.LineLength(pos.Line-1))
				return types.DeleteEdit(types.NewRange(prev, pos)), true
			}
			return types.TextEdit{}, false
		})
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

// DeleteForward deletes the selections, or the grapheme after each caret,
// joining the next line at a line end.
func (e *Editor) DeleteForward() error {
	return e.update(func() error {
		last := e.buffer.LineCount() - 1
		edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
			if c.HasSelection() {
				return types.DeleteEdit(c.Selection()), true
			}
			pos := c.Position
			switch {
			case pos.Col < e.buffer.LineLength(pos.Line):
				end := types.Pos(pos.Line, utils.NextGraphemeColumn(e.lineLocked(pos.Line), pos.Col))
				return types.DeleteEdit(types.NewRange(pos, end)), true
			case pos.Line < last:
				return types.DeleteEdit(types.NewRange(pos, types.Pos(pos.Line+1, 0))), true
			}
			return types.TextEdit{}, false
		})
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

// DeleteSelection removes every selected range. Carets are left alone.
func (e *Editor) DeleteSelection() error {
	return e.update(func() error {
		return e.deleteSelectionLocked()
	})
}

func (e *Editor) deleteSelectionLocked() error {
	edits := e.cursorEdits(func(c cursor.Cursor) (types.TextEdit, bool) {
		return types.DeleteEdit(c.Selection()), c.HasSelection()
	})
	_, err := e.applyLocked(edits, nil)
	return err
}

// ApplyEdit applies one edit through the editor's edit path.
func (e *Editor) ApplyEdit(edit types.TextEdit) error {
	return e.ApplyEdits([]types.TextEdit{edit})
}

// ApplyEdits applies a batch of non-overlapping edits, expressed against the
// current document, as one undoable step and one version increment.
func (e *Editor) ApplyEdits(edits []types.TextEdit) error {
	return e.update(func() error {
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

// Undo reverts the last transaction and restores the cursors from before it.
func (e *Editor) Undo() (bool, error) {
	var done bool
	err := e.update(func() error {
		var err error
		done, err = e.history.Undo(func(tx history.Transaction) error {
			for i := len(tx.Steps) - 1; i >= 0; i-- {
				if err := e.replayLocked(tx.Steps[i].Inverse); err != nil {
					return err
				}
			}
			e.cursors.Restore(tx.Before)
			return nil
		})
		return err
	})
	return done, err
}

// Redo reapplies the last undone transaction.
func (e *Editor) Redo() (bool, error) {
	var done bool
	err := e.update(func() error {
		var err error
		done, err = e.history.Redo(func(tx history.Transaction) error {
			for _, step := range tx.Steps {
				if err := e.replayLocked(step.Edits); err != nil {
					return err
				}
			}
			e.cursors.Restore(tx.After)
			return nil
		})
		return err
	})
	return done, err
}

// BeginUndoGroup makes the following edits undo as one transaction until the
// matching EndUndoGroup.
func (e *Editor) BeginUndoGroup() {
	e.read(func() { e.history.BeginGroup(e.cursors.Snapshot()) })
}

// EndUndoGroup closes a group opened with BeginUndoGroup.
func (e *Editor) EndUndoGroup() {
	e.read(func() { e.history.EndGroup(e.cursors.Snapshot()) })
}

// CanUndo reports whether Undo has anything to revert.
func (e *Editor) CanUndo() bool {
	var ok bool
	e.read(func() { ok = e.history.CanUndo() })
	return ok
}

// CanRedo reports whether Redo has anything to reapply.
func (e *Editor) CanRedo() bool {
	var ok bool
	e.read(func() { ok = e.history.CanRedo() })
	return ok
}

// IndentLines adds one indentation level to every line touched by a cursor.
func (e *Editor) IndentLines() error {
	return e.update(func() error {
		ed := e.cfg.Editor
		unit := utils.CreateIndentation(1, ed.TabSize, ed.UseTabs)
		var edits []types.TextEdit
		for _, n := range e.cursorLinesLocked() {
			if e.buffer.LineLength(n) > 0 {
				edits = append(edits, types.InsertEdit(types.Pos(n, 0), unit))
			}
		}
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

// UnindentLines removes up to one indentation level from every line touched
// by a cursor: a leading tab, or up to tab_size leading spaces.
func (e *Editor) UnindentLines() error {
	return e.update(func() error {
		tabSize := e.cfg.Editor.TabSize
		var edits []types.TextEdit
		for _, n := range e.cursorLinesLocked() {
			line := e.lineLocked(n)
			width := 0
			if strings.HasPrefix(line, "\t") {
				width = 1
			} else {
				for width < tabSize && width < len(line) && line[width] == ' ' {
					width++
				}
			}
			if width > 0 {
				edits = append(edits, types.DeleteEdit(types.NewRange(types.Pos(n, 0), types.Pos(n, width))))
			}
		}
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

// ToggleLineComment comments out the lines touched by a cursor with the
// language's line comment prefix, or uncomments them when every non-blank
// line already starts with it.
func (e *Editor) ToggleLineComment() error {
	return e.update(func() error {
		prefix := e.commentPrefixLocked()
		if prefix == "" {
			return fmt.Errorf("no line comment for language %q: %w", e.highlighter.Language(), types.ErrOperationFailed)
		}

		lines := e.cursorLinesLocked()
		commented, indent := true, -1
		for _, n := range lines {
			line := e.lineLocked(n)
			if strings.TrimSpace(line) == "" {
				continue
			}
			first := utils.FirstNonBlank(line)
			if indent < 0 || first < indent {
				indent = first
			}
			if !strings.HasPrefix(utils.RuneSlice(line, first, utf8.RuneCountInString(line)), prefix) {
				commented = false
			}
		}
		if indent < 0 {
			return nil
		}

		prefixLen := utf8.RuneCountInString(prefix)
		var edits []types.TextEdit
		for _, n := range lines {
			line := e.lineLocked(n)
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !commented {
				edits = append(edits, types.InsertEdit(types.Pos(n, indent), prefix+" "))
				continue
			}
			first := utils.FirstNonBlank(line)
			end := first + prefixLen
			if next, ok := runeAt(line, end); ok && next == ' ' {
				end++
			}
			edits = append(edits, types.DeleteEdit(types.NewRange(types.Pos(n, first), types.Pos(n, end))))
		}
		_, err := e.applyLocked(edits, nil)
		return err
	})
}

func (e *Editor) commentPrefixLocked() string {
	if e.ctx.Languages == nil {
		return ""
	}
	l, ok := e.ctx.Languages.Get(e.highlighter.Language())
	if !ok {
		return ""
	}
	return l.CommentPrefix
}

// cursorEdits builds one edit per cursor, in document order. Edits of
// neighbouring cursors that would overlap or start at the same position are
// merged, so the batch is always valid for the buffer.
func (e *Editor) cursorEdits(build func(c cursor.Cursor) (types.TextEdit, bool)) []types.TextEdit {
	var edits []types.TextEdit
	for _, c := range e.cursors.Cursors() {
		edit, ok := build(c)
		if !ok {
			continue
		}
		if n := len(edits); n > 0 {
			prev := &edits[n-1]
			if edit.Range.Start.Before(prev.Range.End) || edit.Range.Start == prev.Range.Start {
				prev.Range = prev.Range.Union(edit.Range)
				if prev.Text == "" {
					prev.Text = edit.Text
				}
				continue
			}
		}
		edits = append(edits, edit)
	}
	return edits
}

// cursorLinesLocked returns every line a cursor or selection touches, in
// order. A selection ending at column 0 does not include that line.
func (e *Editor) cursorLinesLocked() []int {
	var lines []int
	for _, c := range e.cursors.Cursors() {
		sel := c.Selection()
		end := sel.End.Line
		if sel.End.Col == 0 && end > sel.Start.Line {
			end--
		}
		for n := sel.Start.Line; n <= end; n++ {
			if len(lines) == 0 || lines[len(lines)-1] < n {
				lines = append(lines, n)
			}
		}
	}
	return lines
}

func (e *Editor) lineLocked(n int) string {
	line, _ := e.buffer.Line(n)
	return line
}

// runeBefore returns the rune before column col of line.
func runeBefore(line string, col int) (rune, bool) {
	if col <= 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(utils.RuneSlice(line, 0, col))
	return r, r != utf8.RuneError
}

// runeAt returns the rune at column col of line.
func runeAt(line string, col int) (rune, bool) {
	s := utils.RuneSlice(line, col, col+1)
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

package core

import (
	"github.com/bethropolis/textcore/internal/event"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Load replaces the document with text read from path. The line ending is
// detected from text and content is stored normalized. History, search state
// and cursors start over; the version keeps increasing so cached tokens of
// the previous content can never be mistaken for the new one. When the
// registry knows the file's extension the language is selected as well.
func (e *Editor) Load(path, text string) error {
	return e.update(func() error {
		le := types.DetectLineEnding(text)
		wasReadOnly := e.readOnly
		e.readOnly = false
		_, err := e.applyLocked([]types.TextEdit{
			types.ReplaceEdit(types.Range{End: e.buffer.EndPosition()}, text),
		}, nil)
		e.readOnly = wasReadOnly
		if err != nil {
			return err
		}

		e.buffer.SetLineEnding(le)
		e.cursors.Reset()
		e.history.Clear()
		e.finder.Clear()
		e.filePath = path
		e.dirty = false
		e.scrollTop, e.scrollLeft = 0, 0

		if path != "" && e.ctx.Languages != nil {
			if l, ok := e.ctx.Languages.ForFile(path); ok {
				if err := e.highlighter.SetLanguage(l.Name); err != nil {
					logger.Warnf("Editor: %v", err)
				}
				e.scheduleHighlightLocked()
			}
		}
		logger.Infof("Editor: loaded %q (%d lines, %s)", path, e.buffer.LineCount(), le)
		e.emit(event.TypeFileLoaded, event.FileData{Path: path})
		return nil
	})
}

// Text returns the document with "\n" newlines.
func (e *Editor) Text() string {
	var text string
	e.read(func() { text = e.buffer.FullText() })
	return text
}

// Line returns line n without its newline.
func (e *Editor) Line(n int) (string, error) {
	var (
		line string
		err  error
	)
	e.read(func() { line, err = e.buffer.Line(n) })
	return line, err
}

// Save returns the file path and the content to write, converted to the
// document's line ending. The caller writes it and then calls MarkSaved.
func (e *Editor) Save() (path, content string) {
	e.read(func() {
		path = e.filePath
		content = e.buffer.ConvertedText()
	})
	return path, content
}

// MarkSaved clears the dirty flag after a successful write. A non-empty path
// also becomes the editor's file path.
func (e *Editor) MarkSaved(path string) {
	_ = e.update(func() error {
		if path != "" {
			e.filePath = path
		}
		e.dirty = false
		e.emit(event.TypeFileSaved, event.FileData{Path: e.filePath})
		return nil
	})
}

// SetLineEnding changes the line ending used when saving.
func (e *Editor) SetLineEnding(le types.LineEnding) {
	_ = e.update(func() error {
		if e.buffer.LineEnding() != le {
			e.buffer.SetLineEnding(le)
			e.dirty = true
		}
		return nil
	})
}

// SetReadOnly toggles read-only mode. While set, every mutation fails with
// types.ErrReadOnly.
func (e *Editor) SetReadOnly(readOnly bool) {
	e.read(func() { e.readOnly = readOnly })
}

// SetFocus records whether the editor has input focus.
func (e *Editor) SetFocus(focused bool) {
	e.read(func() { e.focused = focused })
}

// FilePath returns the path the document was loaded from or saved to.
func (e *Editor) FilePath() string {
	var p string
	e.read(func() { p = e.filePath })
	return p
}

package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// EditorState is a snapshot of the editor for external consumers.
type EditorState struct {
	ID           uuid.UUID        `json:"id"`
	FilePath     string           `json:"file_path"`
	Language     string           `json:"language"`
	Version      uint64           `json:"version"`
	Dirty        bool             `json:"dirty"`
	ReadOnly     bool             `json:"read_only"`
	Focused      bool             `json:"focused"`
	Primary      types.Position   `json:"primary"`
	Cursors      []cursor.Cursor  `json:"cursors"`
	HasSelection bool             `json:"has_selection"`
	LineCount    int              `json:"line_count"`
	LineEnding   types.LineEnding `json:"line_ending"`
	CanUndo      bool             `json:"can_undo"`
	CanRedo      bool             `json:"can_redo"`
}

// ViewState describes the viewport. FirstLine and LastLine are the visible
// lines that exist in the document, inclusive.
type ViewState struct {
	ScrollTop    int `json:"scroll_top"`
	ScrollLeft   int `json:"scroll_left"`
	VisibleLines int `json:"visible_lines"`
	FirstLine    int `json:"first_line"`
	LastLine     int `json:"last_line"`
}

// ScrollInfo reports how far the viewport can scroll.
type ScrollInfo struct {
	Top       int `json:"top"`
	Left      int `json:"left"`
	MaxTop    int `json:"max_top"`
	LineCount int `json:"line_count"`
}

// EditorMetrics reports document statistics and operation timings.
type EditorMetrics struct {
	LastOperation    time.Duration     `json:"last_operation"`
	AverageOperation time.Duration     `json:"average_operation"`
	OperationCount   uint64            `json:"operation_count"`
	CharCount        int               `json:"char_count"`
	WordCount        int               `json:"word_count"`
	LineCount        int               `json:"line_count"`
	Highlight        highlighter.Stats `json:"highlight"`
	CacheHitRate     float64           `json:"cache_hit_rate"`
}

// State returns a snapshot of the editor state.
func (e *Editor) State() EditorState {
	var s EditorState
	e.read(func() {
		s = EditorState{
			ID:           e.id,
			FilePath:     e.filePath,
			Language:     e.highlighter.Language(),
			Version:      e.buffer.Version(),
			Dirty:        e.dirty,
			ReadOnly:     e.readOnly,
			Focused:      e.focused,
			Primary:      e.cursors.Primary().Position,
			Cursors:      e.cursors.Cursors(),
			HasSelection: e.cursors.HasSelection(),
			LineCount:    e.buffer.LineCount(),
			LineEnding:   e.buffer.LineEnding(),
			CanUndo:      e.history.CanUndo(),
			CanRedo:      e.history.CanRedo(),
		}
	})
	return s
}

// View returns the viewport.
func (e *Editor) View() ViewState {
	var v ViewState
	e.read(func() {
		first, last := e.visibleRangeLocked()
		v = ViewState{
			ScrollTop:    e.scrollTop,
			ScrollLeft:   e.scrollLeft,
			VisibleLines: e.visibleLines,
			FirstLine:    first,
			LastLine:     last,
		}
	})
	return v
}

// ScrollInfo returns the scroll offsets and limits.
func (e *Editor) ScrollInfo() ScrollInfo {
	var si ScrollInfo
	e.read(func() {
		si = ScrollInfo{
			Top:       e.scrollTop,
			Left:      e.scrollLeft,
			MaxTop:    e.maxScrollTopLocked(),
			LineCount: e.buffer.LineCount(),
		}
	})
	return si
}

// Metrics returns document statistics and timings.
func (e *Editor) Metrics() EditorMetrics {
	var m EditorMetrics
	e.read(func() {
		stats := e.highlighter.PerformanceStats()
		m = EditorMetrics{
			LastOperation:  e.lastOp,
			OperationCount: e.opCount,
			CharCount:      e.buffer.CharCount(),
			WordCount:      utils.CountWords(e.buffer.FullText()),
			LineCount:      e.buffer.LineCount(),
			Highlight:      stats,
			CacheHitRate:   stats.CacheHitRate(),
		}
		if e.opCount > 0 {
			m.AverageOperation = e.totalOp / time.Duration(e.opCount)
		}
	})
	return m
}

// SetViewport sets the first visible line and the number of visible lines.
func (e *Editor) SetViewport(top, lines int) {
	e.read(func() {
		if lines > 0 {
			e.visibleLines = lines
		}
		e.scrollTop = top
		e.clampScrollLocked()
	})
}

// SetViewportWidth sets the number of visible columns. Zero disables
// horizontal scrolling.
func (e *Editor) SetViewportWidth(cols int) {
	e.read(func() {
		if cols >= 0 {
			e.visibleCols = cols
		}
		if cols == 0 {
			e.scrollLeft = 0
		}
	})
}

// ScrollToPosition scrolls just enough to show pos, keeping scroll_off lines
// of context above and below it.
func (e *Editor) ScrollToPosition(pos types.Position) error {
	var err error
	e.read(func() {
		if err = e.buffer.ValidatePosition(pos); err != nil {
			return
		}
		e.scrollToLocked(pos)
	})
	return err
}

func (e *Editor) scrollToLocked(pos types.Position) {
	height := e.visibleLines
	if height <= 0 {
		return
	}

	// Scroll-off cannot exceed half the view height.
	off := e.cfg.Editor.ScrollOff
	if off*2 >= height {
		off = (height - 1) / 2
	}
	if pos.Line < e.scrollTop+off {
		e.scrollTop = pos.Line - off
	} else if pos.Line >= e.scrollTop+height-off {
		e.scrollTop = pos.Line - height + 1 + off
	}

	if e.visibleCols > 0 {
		line, _ := e.buffer.Line(pos.Line)
		visual := utils.ColumnToVisualColumn(line, pos.Col, e.cfg.Editor.TabSize)
		if visual < e.scrollLeft {
			e.scrollLeft = visual
		} else if visual >= e.scrollLeft+e.visibleCols {
			e.scrollLeft = visual - e.visibleCols + 1
		}
	}
	e.clampScrollLocked()
}

func (e *Editor) maxScrollTopLocked() int {
	top := e.buffer.LineCount() - e.visibleLines
	if top < 0 {
		return 0
	}
	return top
}

func (e *Editor) clampScrollLocked() {
	if e.scrollTop > e.maxScrollTopLocked() {
		e.scrollTop = e.maxScrollTopLocked()
	}
	if e.scrollTop < 0 {
		e.scrollTop = 0
	}
	if e.scrollLeft < 0 {
		e.scrollLeft = 0
	}
}

// visibleRangeLocked returns the first and last visible lines that exist.
func (e *Editor) visibleRangeLocked() (first, last int) {
	first = e.scrollTop
	lastLine := e.buffer.LineCount() - 1
	if first > lastLine {
		first = lastLine
	}
	last = first + e.visibleLines - 1
	if last > lastLine || e.visibleLines <= 0 {
		last = lastLine
	}
	return first, last
}

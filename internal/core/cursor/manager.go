package cursor

import (
	"fmt"
	"sort"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// DefaultPageSize is the number of lines a Page movement covers.
const DefaultPageSize = 25

// Document is the read access the cursor manager needs from the buffer.
type Document interface {
	LineCount() int
	Line(n int) (string, error)
	LineLength(n int) int
	ValidatePosition(pos types.Position) error
	ClampPosition(pos types.Position) types.Position
	EndPosition() types.Position
}

// Manager owns the cursors of one editor. The list is always non-empty,
// sorted by position and free of overlapping selections.
type Manager struct {
	doc      Document
	cursors  []*Cursor
	primary  int
	nextID   int
	clock    uint64
	pageSize int
}

// NewManager creates a manager with a single cursor at the document start.
func NewManager(doc Document, pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	m := &Manager{doc: doc, pageSize: pageSize}
	m.Reset()
	return m
}

// Reset drops every cursor and places a fresh primary cursor at (0,0).
func (m *Manager) Reset() {
	m.cursors = []*Cursor{{ID: m.nextID, preferredCol: -1}}
	m.primary = m.nextID
	m.nextID++
}

// SetPageSize changes how many lines a Page movement covers.
func (m *Manager) SetPageSize(n int) {
	if n > 0 {
		m.pageSize = n
	}
}

// PageSize returns the current page size.
func (m *Manager) PageSize() int { return m.pageSize }

func (m *Manager) touch(c *Cursor) {
	m.clock++
	c.moved = m.clock
}

func (m *Manager) find(id int) *Cursor {
	for _, c := range m.cursors {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Cursors returns copies of all cursors ordered by position.
func (m *Manager) Cursors() []Cursor {
	out := make([]Cursor, len(m.cursors))
	for i, c := range m.cursors {
		out[i] = *c
	}
	return out
}

// Count returns the number of cursors.
func (m *Manager) Count() int { return len(m.cursors) }

// Primary returns a copy of the primary cursor.
func (m *Manager) Primary() Cursor {
	if c := m.find(m.primary); c != nil {
		return *c
	}
	return *m.cursors[0]
}

// Positions returns the caret position of every cursor in order.
func (m *Manager) Positions() []types.Position {
	out := make([]types.Position, len(m.cursors))
	for i, c := range m.cursors {
		out[i] = c.Position
	}
	return out
}

// SelectedRanges returns the non-empty selections in document order.
func (m *Manager) SelectedRanges() []types.Range {
	var out []types.Range
	for _, c := range m.cursors {
		if c.HasSelection() {
			out = append(out, c.Selection())
		}
	}
	return out
}

// HasSelection reports whether any cursor selects text.
func (m *Manager) HasSelection() bool {
	for _, c := range m.cursors {
		if c.HasSelection() {
			return true
		}
	}
	return false
}

// AddCursor places a new caret at pos and returns its id. If the caret lands
// on an existing cursor the two merge and the new id survives.
func (m *Manager) AddCursor(pos types.Position) (int, error) {
	if err := m.doc.ValidatePosition(pos); err != nil {
		return 0, fmt.Errorf("add cursor: %w", err)
	}
	c := &Cursor{ID: m.nextID, Position: pos, Anchor: pos, preferredCol: -1}
	m.nextID++
	m.touch(c)
	m.cursors = append(m.cursors, c)
	m.merge()
	logger.DebugTagf("cursor", "added cursor %d at %s, total %d", c.ID, pos, len(m.cursors))
	return c.ID, nil
}

// RemoveCursor deletes a cursor. The last remaining cursor cannot be removed.
func (m *Manager) RemoveCursor(id int) bool {
	if len(m.cursors) <= 1 {
		return false
	}
	for i, c := range m.cursors {
		if c.ID == id {
			m.cursors = append(m.cursors[:i], m.cursors[i+1:]...)
			if id == m.primary {
				m.primary = m.cursors[0].ID
			}
			return true
		}
	}
	return false
}

// SetSelection sets a cursor's anchor and caret.
func (m *Manager) SetSelection(id int, anchor, pos types.Position) error {
	c := m.find(id)
	if c == nil {
		return fmt.Errorf("cursor %d: %w", id, types.ErrInvalidPosition)
	}
	if err := m.doc.ValidatePosition(anchor); err != nil {
		return fmt.Errorf("selection anchor: %w", err)
	}
	if err := m.doc.ValidatePosition(pos); err != nil {
		return fmt.Errorf("selection position: %w", err)
	}
	c.Anchor, c.Position = anchor, pos
	c.preferredCol = -1
	m.touch(c)
	m.merge()
	return nil
}

// SetPosition moves the primary cursor to pos, clamped to the document, and
// clears its selection.
func (m *Manager) SetPosition(pos types.Position) {
	c := m.find(m.primary)
	pos = m.doc.ClampPosition(pos)
	c.Position, c.Anchor = pos, pos
	c.preferredCol = -1
	m.touch(c)
	m.merge()
}

// CollapseToPrimary removes every cursor except the primary one and clears its
// selection.
func (m *Manager) CollapseToPrimary() {
	p := m.find(m.primary)
	if p == nil {
		p = m.cursors[0]
		m.primary = p.ID
	}
	p.Anchor = p.Position
	m.cursors = []*Cursor{p}
}

// ClearSecondary removes every cursor except the primary one, keeping its
// selection.
func (m *Manager) ClearSecondary() {
	if p := m.find(m.primary); p != nil {
		m.cursors = []*Cursor{p}
	}
}

// ClearSelections collapses every selection onto its caret.
func (m *Manager) ClearSelections() {
	for _, c := range m.cursors {
		c.Anchor = c.Position
	}
	m.merge()
}

// CollapseToSelectionEnds collapses every selection onto its later end, where
// the caret belongs after text replaced the selection.
func (m *Manager) CollapseToSelectionEnds() {
	for _, c := range m.cursors {
		end := c.Selection().End
		c.Anchor, c.Position = end, end
		c.preferredCol = -1
	}
	m.merge()
}

// SelectAll collapses to the primary cursor and selects the whole document.
func (m *Manager) SelectAll() {
	m.CollapseToPrimary()
	p := m.cursors[0]
	p.Anchor = types.Pos(0, 0)
	p.Position = m.doc.EndPosition()
	p.preferredCol = -1
	m.touch(p)
}

// SelectLines extends every selection to cover whole lines, including the
// newline of the last line when there is one.
func (m *Manager) SelectLines() {
	last := m.doc.LineCount() - 1
	for _, c := range m.cursors {
		sel := c.Selection()
		endLine := sel.End.Line
		// A selection ending at column 0 of a later line does not include it.
		if sel.End.Col == 0 && endLine > sel.Start.Line {
			endLine--
		}
		c.Anchor = types.Pos(sel.Start.Line, 0)
		if endLine < last {
			c.Position = types.Pos(endLine+1, 0)
		} else {
			c.Position = types.Pos(last, m.doc.LineLength(last))
		}
		c.preferredCol = -1
		m.touch(c)
	}
	m.merge()
}

// ExpandSelectionToWords grows every selection outwards to word boundaries.
func (m *Manager) ExpandSelectionToWords() {
	for _, c := range m.cursors {
		sel := c.Selection()
		startLine, _ := m.doc.Line(sel.Start.Line)
		endLine, _ := m.doc.Line(sel.End.Line)
		start, _ := utils.FindWordBoundaries(startLine, sel.Start.Col)
		_, end := utils.FindWordBoundaries(endLine, sel.End.Col)
		newStart := types.Pos(sel.Start.Line, start)
		newEnd := types.Pos(sel.End.Line, end)
		if c.Forward() {
			c.Anchor, c.Position = newStart, newEnd
		} else {
			c.Anchor, c.Position = newEnd, newStart
		}
		m.touch(c)
	}
	m.merge()
}

// Snapshot returns a copy of the cursor state for later Restore.
func (m *Manager) Snapshot() []Cursor {
	out := m.Cursors()
	for i := range out {
		if out[i].ID == m.primary {
			out[0], out[i] = out[i], out[0]
			break
		}
	}
	return out
}

// Restore replaces the cursor state with a snapshot. The first cursor of the
// snapshot becomes primary. Positions are clamped to the current document.
func (m *Manager) Restore(snapshot []Cursor) {
	if len(snapshot) == 0 {
		m.Reset()
		return
	}
	m.cursors = m.cursors[:0]
	for _, s := range snapshot {
		c := s
		c.Position = m.doc.ClampPosition(c.Position)
		c.Anchor = m.doc.ClampPosition(c.Anchor)
		c.preferredCol = -1
		m.cursors = append(m.cursors, &c)
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	m.primary = snapshot[0].ID
	m.touch(m.find(m.primary))
	m.merge()
}

// Translate maps every cursor through a batch of applied edits.
func (m *Manager) Translate(mapper *types.PositionMapper) {
	for _, c := range m.cursors {
		c.Position = m.doc.ClampPosition(mapper.Map(c.Position))
		c.Anchor = m.doc.ClampPosition(mapper.Map(c.Anchor))
		c.preferredCol = -1
	}
	m.merge()
}

// merge sorts the cursors and folds overlapping ones into the union of their
// selections. The survivor keeps the id of whichever cursor moved last.
// caretAtStart reports whether caret is empty and sits where sel begins.
// Sorting puts such a caret right before the selection.
func caretAtStart(caret, sel types.Range) bool {
	return caret.IsEmpty() && !sel.IsEmpty() && caret.Start == sel.Start
}

func (m *Manager) merge() {
	sort.SliceStable(m.cursors, func(i, j int) bool {
		a, b := m.cursors[i].Selection(), m.cursors[j].Selection()
		if a.Start != b.Start {
			return a.Start.Before(b.Start)
		}
		return a.End.Before(b.End)
	})

	merged := m.cursors[:1]
	for _, c := range m.cursors[1:] {
		prev := merged[len(merged)-1]
		if !prev.Selection().Overlaps(c.Selection()) && !caretAtStart(prev.Selection(), c.Selection()) {
			merged = append(merged, c)
			continue
		}
		union := prev.Selection().Union(c.Selection())
		survivor, gone := prev, c
		if c.moved > prev.moved {
			survivor, gone = c, prev
		}
		if survivor.Forward() {
			survivor.Anchor, survivor.Position = union.Start, union.End
		} else {
			survivor.Anchor, survivor.Position = union.End, union.Start
		}
		if gone.ID == m.primary {
			m.primary = survivor.ID
		}
		logger.DebugTagf("cursor", "merged cursor %d into %d", gone.ID, survivor.ID)
		merged[len(merged)-1] = survivor
	}
	m.cursors = merged
}

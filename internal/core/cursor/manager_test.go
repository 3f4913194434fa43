package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/buffer"
	"github.com/bethropolis/textcore/internal/types"
)

func newManager(text string) (*Manager, *buffer.TextBuffer) {
	tb := buffer.NewFromText(text, buffer.Options{})
	return NewManager(tb, 2), tb
}

func TestCharacterMovement(t *testing.T) {
	m, _ := newManager("ab\ncd")
	id := m.Primary().ID

	require.NoError(t, m.Move(id, Right, Character, false))
	require.NoError(t, m.Move(id, Right, Character, false))
	assert.Equal(t, types.Pos(0, 2), m.Primary().Position)

	require.NoError(t, m.Move(id, Right, Character, false))
	assert.Equal(t, types.Pos(1, 0), m.Primary().Position, "wraps to next line")

	require.NoError(t, m.Move(id, Left, Character, false))
	assert.Equal(t, types.Pos(0, 2), m.Primary().Position, "wraps to previous line end")

	m.SetPosition(types.Pos(0, 0))
	require.NoError(t, m.Move(id, Left, Character, false))
	assert.Equal(t, types.Pos(0, 0), m.Primary().Position)

	assert.ErrorIs(t, m.Move(99, Left, Character, false), types.ErrInvalidPosition)
}

func TestGraphemeAwareMovement(t *testing.T) {
	m, _ := newManager("e\u0301x")
	m.MoveAll(Right, Character, false)
	assert.Equal(t, types.Pos(0, 2), m.Primary().Position)
}

func TestWordMovement(t *testing.T) {
	m, _ := newManager("foo_bar(baz)  qux")
	m.MoveAll(Right, Word, false)
	assert.Equal(t, 7, m.Primary().Position.Col)
	m.MoveAll(Right, Word, false)
	assert.Equal(t, 11, m.Primary().Position.Col)
	m.MoveAll(Right, Word, false)
	assert.Equal(t, 17, m.Primary().Position.Col)

	m.MoveAll(Left, Word, false)
	assert.Equal(t, 14, m.Primary().Position.Col)
	m.MoveAll(Left, Word, false)
	assert.Equal(t, 8, m.Primary().Position.Col)
}

func TestVerticalMovementKeepsPreferredColumn(t *testing.T) {
	m, _ := newManager("long line\nab\nanother long")
	m.SetPosition(types.Pos(0, 7))

	m.MoveAll(Down, Line, false)
	assert.Equal(t, types.Pos(1, 2), m.Primary().Position)
	m.MoveAll(Down, Line, false)
	assert.Equal(t, types.Pos(2, 7), m.Primary().Position)

	m.MoveAll(Down, Line, false)
	assert.Equal(t, types.Pos(2, 12), m.Primary().Position, "past the last line goes to its end")

	m.MoveAll(Up, Page, false)
	assert.Equal(t, types.Pos(0, 7), m.Primary().Position)
	m.MoveAll(Up, Line, false)
	assert.Equal(t, types.Pos(0, 0), m.Primary().Position)
}

func TestHomeEndAndDocumentBounds(t *testing.T) {
	m, _ := newManager("    indented\nlast")
	m.SetPosition(types.Pos(0, 8))

	m.MoveAll(Home, Character, false)
	assert.Equal(t, 4, m.Primary().Position.Col)
	m.MoveAll(Home, Character, false)
	assert.Equal(t, 0, m.Primary().Position.Col)
	m.MoveAll(End, Character, false)
	assert.Equal(t, 12, m.Primary().Position.Col)

	m.MoveAll(DocumentEnd, Page, false)
	assert.Equal(t, types.Pos(1, 4), m.Primary().Position)
	m.MoveAll(DocumentStart, Word, true)
	assert.Equal(t, types.NewRange(types.Pos(0, 0), types.Pos(1, 4)), m.Primary().Selection())
}

func TestExtendSelection(t *testing.T) {
	m, _ := newManager("hello world")
	m.MoveAll(Right, Word, true)
	c := m.Primary()
	assert.True(t, c.HasSelection())
	assert.Equal(t, types.NewRange(types.Pos(0, 0), types.Pos(0, 5)), c.Selection())

	m.MoveAll(Right, Character, false)
	assert.False(t, m.HasSelection())
}

func TestAddCursorAndMerge(t *testing.T) {
	m, _ := newManager("abcdefgh")
	first := m.Primary().ID
	second, err := m.AddCursor(types.Pos(0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())

	_, err = m.AddCursor(types.Pos(3, 0))
	assert.ErrorIs(t, err, types.ErrInvalidPosition)

	// Moving the first cursor onto the second merges them; the mover's id survives.
	require.NoError(t, m.Move(first, Right, Character, false))
	require.NoError(t, m.Move(first, Right, Character, false))
	require.Equal(t, 1, m.Count())
	assert.Equal(t, first, m.Primary().ID)
	assert.NotEqual(t, second, m.Cursors()[0].ID)
}

func TestOverlappingSelectionsMergeToUnion(t *testing.T) {
	m, _ := newManager("abcdefghij")
	id := m.Primary().ID
	require.NoError(t, m.SetSelection(id, types.Pos(0, 0), types.Pos(0, 4)))
	other, err := m.AddCursor(types.Pos(0, 8))
	require.NoError(t, err)
	require.NoError(t, m.SetSelection(other, types.Pos(0, 8), types.Pos(0, 2)))

	cursors := m.Cursors()
	require.Len(t, cursors, 1)
	assert.Equal(t, other, cursors[0].ID)
	assert.Equal(t, types.NewRange(types.Pos(0, 0), types.Pos(0, 8)), cursors[0].Selection())
	assert.False(t, cursors[0].Forward(), "survivor keeps its orientation")
	assert.Equal(t, other, m.Primary().ID)
}

func TestCaretAtSelectionStartMerges(t *testing.T) {
	m, _ := newManager("abcdef")
	id := m.Primary().ID
	require.NoError(t, m.SetSelection(id, types.Pos(0, 2), types.Pos(0, 4)))
	caret, err := m.AddCursor(types.Pos(0, 2))
	require.NoError(t, err)

	cursors := m.Cursors()
	require.Len(t, cursors, 1)
	assert.Equal(t, caret, cursors[0].ID)
	assert.Equal(t, types.NewRange(types.Pos(0, 2), types.Pos(0, 4)), cursors[0].Selection())

	// A caret at the end of a selection stays separate.
	_, err = m.AddCursor(types.Pos(0, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count())
}

func TestTranslateThroughEdits(t *testing.T) {
	m, tb := newManager("abcdefghij")
	_, err := m.AddCursor(types.Pos(0, 7))
	require.NoError(t, err)
	m.SetPosition(types.Pos(0, 3))

	edits := []types.TextEdit{
		types.InsertEdit(types.Pos(0, 3), "X"),
		types.InsertEdit(types.Pos(0, 7), "X"),
	}
	ev, err := tb.ApplyEdits(edits)
	require.NoError(t, err)
	m.Translate(ev.Mapper())

	assert.Equal(t, "abcXdefgXhij", tb.FullText())
	assert.Equal(t, []types.Position{types.Pos(0, 4), types.Pos(0, 9)}, m.Positions())
}

func TestTranslateAcrossLines(t *testing.T) {
	m, tb := newManager("one\ntwo\nthree")
	m.SetPosition(types.Pos(2, 3))
	ev, err := tb.ApplyEdits([]types.TextEdit{types.DeleteEdit(types.NewRange(types.Pos(0, 1), types.Pos(1, 1)))})
	require.NoError(t, err)
	m.Translate(ev.Mapper())
	assert.Equal(t, types.Pos(1, 3), m.Primary().Position)
}

func TestSelectionHelpers(t *testing.T) {
	m, _ := newManager("alpha beta\ngamma")
	m.SelectAll()
	assert.Equal(t, types.NewRange(types.Pos(0, 0), types.Pos(1, 5)), m.Primary().Selection())

	m.SetPosition(types.Pos(0, 7))
	m.ExpandSelectionToWords()
	assert.Equal(t, types.NewRange(types.Pos(0, 6), types.Pos(0, 10)), m.Primary().Selection())

	m.SetPosition(types.Pos(0, 2))
	m.SelectLines()
	assert.Equal(t, types.NewRange(types.Pos(0, 0), types.Pos(1, 0)), m.Primary().Selection())

	m.ClearSelections()
	assert.False(t, m.HasSelection())
	assert.Empty(t, m.SelectedRanges())
}

func TestCollapseAndRemove(t *testing.T) {
	m, _ := newManager("abcdef")
	primary := m.Primary().ID
	id, err := m.AddCursor(types.Pos(0, 4))
	require.NoError(t, err)
	require.NoError(t, m.SetSelection(primary, types.Pos(0, 0), types.Pos(0, 2)))

	assert.True(t, m.RemoveCursor(id))
	assert.False(t, m.RemoveCursor(primary), "last cursor stays")

	_, err = m.AddCursor(types.Pos(0, 5))
	require.NoError(t, err)
	m.CollapseToPrimary()
	require.Equal(t, 1, m.Count())
	assert.Equal(t, primary, m.Primary().ID)
	assert.False(t, m.HasSelection())
}

func TestSnapshotRestore(t *testing.T) {
	m, _ := newManager("abcdef")
	_, err := m.AddCursor(types.Pos(0, 4))
	require.NoError(t, err)
	snap := m.Snapshot()

	m.CollapseToPrimary()
	m.Restore(snap)
	assert.Equal(t, []types.Position{types.Pos(0, 0), types.Pos(0, 4)}, m.Positions())
	assert.Equal(t, snap[0].ID, m.Primary().ID)
}

func TestParseNames(t *testing.T) {
	d, ok := ParseDirection("document-end")
	assert.True(t, ok)
	assert.Equal(t, DocumentEnd, d)
	u, ok := ParseUnit("page")
	assert.True(t, ok)
	assert.Equal(t, Page, u)
	_, ok = ParseUnit("chapter")
	assert.False(t, ok)
}

func TestCollapseToSelectionEnds(t *testing.T) {
	m, _ := newManager("hello world")
	id := m.Primary().ID
	require.NoError(t, m.SetSelection(id, types.Pos(0, 5), types.Pos(0, 0)))
	m.CollapseToSelectionEnds()

	c := m.Primary()
	assert.False(t, c.HasSelection())
	assert.Equal(t, types.Pos(0, 5), c.Position)
}

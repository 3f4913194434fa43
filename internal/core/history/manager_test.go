package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/types"
)

func step(text string) Step {
	return NewStep(
		[]types.TextEdit{types.InsertEdit(types.Pos(0, 0), text)},
		[]string{""},
		[]types.Range{types.NewRange(types.Pos(0, 0), types.Pos(0, len(text)))},
	)
}

func TestNewStepInverse(t *testing.T) {
	s := NewStep(
		[]types.TextEdit{types.ReplaceEdit(types.NewRange(types.Pos(0, 1), types.Pos(0, 3)), "X")},
		[]string{"bc"},
		[]types.Range{types.NewRange(types.Pos(0, 1), types.Pos(0, 2))},
	)
	require.Len(t, s.Inverse, 1)
	assert.Equal(t, "bc", s.Inverse[0].Text)
	assert.Equal(t, types.NewRange(types.Pos(0, 1), types.Pos(0, 2)), s.Inverse[0].Range)
}

func TestUndoRedo(t *testing.T) {
	m := NewManager(10)
	m.Record(step("a"), nil, nil)
	m.Record(step("b"), nil, nil)
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	var seen []string
	apply := func(tx Transaction) error {
		seen = append(seen, tx.Steps[0].Edits[0].Text)
		return nil
	}
	ok, err := m.Undo(apply)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Redo(apply)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "b"}, seen)

	m.Undo(apply)
	m.Record(step("c"), nil, nil)
	assert.False(t, m.CanRedo(), "recording clears redo")
	assert.Equal(t, 2, m.Len())
}

func TestFailedApplyKeepsIndex(t *testing.T) {
	m := NewManager(10)
	m.Record(step("a"), nil, nil)
	ok, err := m.Undo(func(Transaction) error { return errors.New("boom") })
	assert.False(t, ok)
	assert.Error(t, err)
	assert.True(t, m.CanUndo())
}

func TestMaxHistory(t *testing.T) {
	m := NewManager(2)
	for _, s := range []string{"a", "b", "c"} {
		m.Record(step(s), nil, nil)
	}
	assert.Equal(t, 2, m.Len())
}

func TestGroups(t *testing.T) {
	m := NewManager(0)
	m.BeginGroup(nil)
	m.Record(step("a"), nil, nil)
	m.BeginGroup(nil)
	m.Record(step("b"), nil, nil)
	m.EndGroup(nil)
	assert.Equal(t, 0, m.Len())
	m.EndGroup(nil)
	require.Equal(t, 1, m.Len())

	var steps int
	m.Undo(func(tx Transaction) error {
		steps = len(tx.Steps)
		return nil
	})
	assert.Equal(t, 2, steps)

	m.BeginGroup(nil)
	m.EndGroup(nil)
	assert.Equal(t, 1, m.Len(), "empty groups are not recorded")
}

func TestNothingToUndo(t *testing.T) {
	m := NewManager(0)
	ok, err := m.Undo(func(Transaction) error { return nil })
	assert.False(t, ok)
	assert.NoError(t, err)
	ok, err = m.Redo(func(Transaction) error { return nil })
	assert.False(t, ok)
	assert.NoError(t, err)
}

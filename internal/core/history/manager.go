package history

import (
	"fmt"

	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/logger"
)

const DefaultMaxHistory = 1000

// ApplyFunc performs the buffer side of an undo or redo.
type ApplyFunc func(tx Transaction) error

// Manager handles the undo/redo stack. It is owned by one editor and guarded
// by the editor's lock.
type Manager struct {
	changes      []Transaction
	currentIndex int // index of the next transaction to redo
	maxHistory   int
	group        *Transaction
	groupDepth   int
}

// NewManager creates a history manager keeping at most maxHistory
// transactions.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{maxHistory: maxHistory}
}

// BeginGroup starts collecting steps into one transaction. Groups nest; only
// the outermost EndGroup records.
func (m *Manager) BeginGroup(before []cursor.Cursor) {
	m.groupDepth++
	if m.groupDepth == 1 {
		m.group = &Transaction{Before: before}
	}
}

// EndGroup closes a group opened with BeginGroup.
func (m *Manager) EndGroup(after []cursor.Cursor) {
	if m.groupDepth == 0 {
		return
	}
	m.groupDepth--
	if m.groupDepth > 0 {
		return
	}
	tx := m.group
	m.group = nil
	if len(tx.Steps) == 0 {
		return
	}
	tx.After = after
	m.push(*tx)
}

// Record adds a step, clearing any redo history. Inside a group the step
// joins the group's transaction.
func (m *Manager) Record(step Step, before, after []cursor.Cursor) {
	if len(step.Edits) == 0 {
		return
	}
	if m.group != nil {
		m.group.Steps = append(m.group.Steps, step)
		return
	}
	m.push(Transaction{Steps: []Step{step}, Before: before, After: after})
}

func (m *Manager) push(tx Transaction) {
	if m.currentIndex < len(m.changes) {
		m.changes = m.changes[:m.currentIndex]
	}
	m.changes = append(m.changes, tx)
	if len(m.changes) > m.maxHistory {
		m.changes = m.changes[len(m.changes)-m.maxHistory:]
	}
	m.currentIndex = len(m.changes)
	logger.DebugTagf("history", "recorded transaction of %d step(s). Index: %d, Count: %d",
		len(tx.Steps), m.currentIndex, len(m.changes))
}

// CanUndo reports whether there is a transaction to undo.
func (m *Manager) CanUndo() bool { return m.currentIndex > 0 }

// CanRedo reports whether there is a transaction to redo.
func (m *Manager) CanRedo() bool { return m.currentIndex < len(m.changes) }

// Len returns the number of recorded transactions.
func (m *Manager) Len() int { return len(m.changes) }

// Clear drops all history.
func (m *Manager) Clear() {
	m.changes = nil
	m.currentIndex = 0
	m.group = nil
	m.groupDepth = 0
}

// Undo hands the last transaction to apply. The stack only moves when apply
// succeeds.
func (m *Manager) Undo(apply ApplyFunc) (bool, error) {
	if !m.CanUndo() {
		logger.DebugTagf("history", "nothing to undo")
		return false, nil
	}
	tx := m.changes[m.currentIndex-1]
	if err := apply(tx); err != nil {
		logger.Errorf("History: undo failed: %v", err)
		return false, fmt.Errorf("undo failed: %w", err)
	}
	m.currentIndex--
	logger.DebugTagf("history", "undid transaction %d", m.currentIndex)
	return true, nil
}

// Redo hands the next undone transaction to apply.
func (m *Manager) Redo(apply ApplyFunc) (bool, error) {
	if !m.CanRedo() {
		logger.DebugTagf("history", "nothing to redo. currentIndex=%d, len(changes)=%d", m.currentIndex, len(m.changes))
		return false, nil
	}
	tx := m.changes[m.currentIndex]
	if err := apply(tx); err != nil {
		logger.Errorf("History: redo failed: %v", err)
		return false, fmt.Errorf("redo failed: %w", err)
	}
	m.currentIndex++
	logger.DebugTagf("history", "redid transaction %d", m.currentIndex-1)
	return true, nil
}

// Package history provides undo/redo as a stack of edit transactions.
package history

import (
	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/types"
)

// Step is one buffer mutation: the edits as requested, in pre-edit
// coordinates, and the edits that revert them, in post-edit coordinates.
type Step struct {
	Edits   []types.TextEdit
	Inverse []types.TextEdit
}

// Transaction is the unit of undo. It holds one or more steps and the cursor
// state around them.
type Transaction struct {
	Steps  []Step
	Before []cursor.Cursor // cursors before the first step
	After  []cursor.Cursor // cursors after the last step
}

// NewStep builds a step from the applied edits of a change. removed[i] is the
// text edits[i] replaced and inserted[i] is the range its new text occupies
// afterwards.
func NewStep(edits []types.TextEdit, removed []string, inserted []types.Range) Step {
	inv := make([]types.TextEdit, len(edits))
	for i := range edits {
		inv[i] = types.ReplaceEdit(inserted[i], removed[i])
	}
	fwd := make([]types.TextEdit, len(edits))
	copy(fwd, edits)
	return Step{Edits: fwd, Inverse: inv}
}

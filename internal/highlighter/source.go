package highlighter

import (
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// Source is a versioned document the highlighter can read.
type Source interface {
	Version() uint64
	Bytes() []byte
}

// Snapshot is an immutable copy of a document at one version. It is safe to
// hand to a background goroutine.
type Snapshot struct {
	version uint64
	text    []byte
}

// NewSnapshot copies text into a snapshot.
func NewSnapshot(version uint64, text []byte) Snapshot {
	b := make([]byte, len(text))
	copy(b, text)
	return Snapshot{version: version, text: b}
}

// TakeSnapshot copies the current content of src.
func TakeSnapshot(src Source) Snapshot {
	return NewSnapshot(src.Version(), src.Bytes())
}

func (s Snapshot) Version() uint64 { return s.version }
func (s Snapshot) Bytes() []byte   { return s.text }

// EndOf returns the position just past the last character of text.
func EndOf(text []byte) types.Position {
	return utils.NewLineIndex(text).End()
}

// internal/buffer/store.go
package buffer

import "unicode/utf8"

// LineStore is the storage behind a TextBuffer. Lines never contain the
// newline character; a store always holds at least one (possibly empty) line.
//
// Offsets count one unit for the newline that separates consecutive lines.
type LineStore interface {
	LineCount() int
	// Line returns the content of line n. Callers must not modify it.
	Line(n int) []byte
	// LineRunes returns the number of runes on line n.
	LineRunes(n int) int
	// Splice replaces lines [start, end) with lines.
	Splice(start, end int, lines [][]byte)
	// LineOffset returns the rune and byte offsets of the first character of
	// line n.
	LineOffset(n int) (runeOff, byteOff int)
	// LineAtRune returns the line containing rune offset off.
	LineAtRune(off int) int
	// RuneCount and ByteCount include the newlines between lines.
	RuneCount() int
	ByteCount() int
}

// Store kinds accepted by Options.Store.
const (
	StoreBlock = "block"
	StoreSlice = "slice"
)

// NewLineStore creates an empty store of the given kind.
func NewLineStore(kind string, blockSize int) LineStore {
	if kind == StoreSlice {
		return NewSliceStore()
	}
	return NewBlockStore(blockSize)
}

func copyLine(line []byte) []byte {
	c := make([]byte, len(line))
	copy(c, line)
	return c
}

// SliceStore keeps one []byte per line in a flat slice. Offset lookups are
// linear in the number of lines, so it suits small documents only.
type SliceStore struct {
	lines [][]byte
	runes []int
}

// NewSliceStore creates a SliceStore holding a single empty line.
func NewSliceStore() *SliceStore {
	return &SliceStore{
		lines: [][]byte{{}},
		runes: []int{0},
	}
}

func (ss *SliceStore) LineCount() int { return len(ss.lines) }

func (ss *SliceStore) Line(n int) []byte { return ss.lines[n] }

func (ss *SliceStore) LineRunes(n int) int { return ss.runes[n] }

func (ss *SliceStore) Splice(start, end int, lines [][]byte) {
	newLines := make([][]byte, 0, len(ss.lines)-(end-start)+len(lines))
	newRunes := make([]int, 0, cap(newLines))
	newLines = append(newLines, ss.lines[:start]...)
	newRunes = append(newRunes, ss.runes[:start]...)
	for _, l := range lines {
		newLines = append(newLines, copyLine(l))
		newRunes = append(newRunes, utf8.RuneCount(l))
	}
	newLines = append(newLines, ss.lines[end:]...)
	newRunes = append(newRunes, ss.runes[end:]...)
	if len(newLines) == 0 {
		newLines, newRunes = [][]byte{{}}, []int{0}
	}
	ss.lines, ss.runes = newLines, newRunes
}

func (ss *SliceStore) LineOffset(n int) (int, int) {
	runeOff, byteOff := 0, 0
	for i := 0; i < n && i < len(ss.lines); i++ {
		runeOff += ss.runes[i] + 1
		byteOff += len(ss.lines[i]) + 1
	}
	return runeOff, byteOff
}

func (ss *SliceStore) LineAtRune(off int) int {
	for i, r := range ss.runes {
		if off <= r {
			return i
		}
		off -= r + 1
	}
	return len(ss.lines) - 1
}

func (ss *SliceStore) RuneCount() int {
	total := len(ss.lines) - 1
	for _, r := range ss.runes {
		total += r
	}
	return total
}

func (ss *SliceStore) ByteCount() int {
	total := len(ss.lines) - 1
	for _, l := range ss.lines {
		total += len(l)
	}
	return total
}

var _ LineStore = (*SliceStore)(nil)

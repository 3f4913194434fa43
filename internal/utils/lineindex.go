package utils

import (
	"sort"
	"unicode/utf8"

	"github.com/bethropolis/textcore/internal/types"
)

// LineIndex converts between byte offsets and rune positions of a text held
// in one "\n"-separated byte slice.
type LineIndex struct {
	text   []byte
	starts []int
}

// NewLineIndex indexes the line starts of text. text is not copied.
func NewLineIndex(text []byte) *LineIndex {
	starts := []int{0}
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of lines.
func (li *LineIndex) LineCount() int { return len(li.starts) }

func (li *LineIndex) lineEnd(line int) int {
	if line+1 < len(li.starts) {
		return li.starts[line+1] - 1
	}
	return len(li.text)
}

// Offset returns the byte offset of p, clamping out-of-range coordinates.
func (li *LineIndex) Offset(p types.Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(li.starts) {
		return len(li.text)
	}
	start := li.starts[p.Line]
	line := li.text[start:li.lineEnd(p.Line)]
	b := RuneIndexToByteOffset(line, p.Col)
	if b < 0 {
		b = len(line)
	}
	return start + b
}

// Position returns the rune position of byte offset off.
func (li *LineIndex) Position(off int) types.Position {
	if off > len(li.text) {
		off = len(li.text)
	}
	if off < 0 {
		off = 0
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	if line < 0 {
		line = 0
	}
	return types.Position{Line: line, Col: utf8.RuneCount(li.text[li.starts[line]:off])}
}

// End returns the position just past the last character.
func (li *LineIndex) End() types.Position {
	return li.Position(len(li.text))
}

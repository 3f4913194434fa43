package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/textcore/internal/types"
)

func TestRuneByteConversion(t *testing.T) {
	line := []byte("héllo")
	assert.Equal(t, 0, RuneIndexToByteOffset(line, 0))
	assert.Equal(t, 3, RuneIndexToByteOffset(line, 2))
	assert.Equal(t, len(line), RuneIndexToByteOffset(line, 5))
	assert.Equal(t, -1, RuneIndexToByteOffset(line, 6))

	assert.Equal(t, 2, ByteOffsetToRuneIndex(line, 3))
	// Offsets inside a multi-byte rune do not count the rune.
	assert.Equal(t, 1, ByteOffsetToRuneIndex(line, 2))
	assert.Equal(t, 5, ByteOffsetToRuneIndex(line, 100))
}

func TestRuneSlice(t *testing.T) {
	assert.Equal(t, "él", RuneSlice("héllo", 1, 3))
	assert.Equal(t, "llo", RuneSlice("héllo", 2, 99))
	assert.Equal(t, "", RuneSlice("abc", 5, 6))
}

func TestIsWordChar(t *testing.T) {
	for _, r := range "aZ09_é" {
		assert.True(t, IsWordChar(r), "%q", r)
	}
	for _, r := range " .-(\t" {
		assert.False(t, IsWordChar(r), "%q", r)
	}
}

func TestFindWordBoundaries(t *testing.T) {
	tests := []struct {
		line       string
		col        int
		start, end int
	}{
		{"hello world", 2, 0, 5},
		{"hello world", 5, 0, 5},
		{"hello world", 6, 6, 11},
		{"foo_bar(x)", 4, 0, 7},
		{"a  b", 2, 2, 2},
		{"", 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := FindWordBoundaries(tt.line, tt.col)
		assert.Equal(t, tt.start, start, "%q@%d", tt.line, tt.col)
		assert.Equal(t, tt.end, end, "%q@%d", tt.line, tt.col)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 2, CountWords("hello world"))
	assert.Equal(t, 5, CountWords("fn main() {\n    let x_y = 1;\n}"))
}

func TestVisualWidth(t *testing.T) {
	assert.Equal(t, 5, VisualWidth("a\tb", 4))
	assert.Equal(t, 8, VisualWidth("\t\t", 4))
	assert.Equal(t, 4, VisualWidth("日本", 4))
	assert.Equal(t, 0, VisualWidth("", 4))
}

func TestVisualColumns(t *testing.T) {
	assert.Equal(t, 4, ColumnToVisualColumn("a\tb", 2, 4))
	assert.Equal(t, 1, ColumnToVisualColumn("a\tb", 1, 4))
	assert.Equal(t, 5, ColumnToVisualColumn("a\tb", 3, 4))

	assert.Equal(t, 1, VisualColumnToColumn("a\tb", 2, 4))
	assert.Equal(t, 2, VisualColumnToColumn("a\tb", 4, 4))
	assert.Equal(t, 3, VisualColumnToColumn("a\tb", 40, 4))
}

func TestGraphemeColumns(t *testing.T) {
	line := "ae\u0301x" // e + combining acute accent
	assert.Equal(t, 1, NextGraphemeColumn(line, 0))
	assert.Equal(t, 3, NextGraphemeColumn(line, 1))
	assert.Equal(t, 1, PrevGraphemeColumn(line, 3))
	assert.Equal(t, 0, PrevGraphemeColumn(line, 1))
	assert.Equal(t, 4, NextGraphemeColumn(line, 4))
}

func TestIndentation(t *testing.T) {
	assert.Equal(t, "        ", CreateIndentation(2, 4, false))
	assert.Equal(t, "\t\t", CreateIndentation(2, 4, true))
	assert.Equal(t, "", CreateIndentation(0, 4, false))
	assert.Equal(t, "\t  ", LineIndentation("\t  foo  "))
	assert.Equal(t, 3, FirstNonBlank("   x"))
	assert.Equal(t, 2, FirstNonBlank("  "))
	assert.Equal(t, 6, IndentWidth("\t  x", 4))
}

func TestDebouncer(t *testing.T) {
	var d Debouncer
	var calls int32
	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	}
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, d.LastCalled().IsZero())

	d.Debounce(time.Hour, func() { atomic.AddInt32(&calls, 1) })
	assert.True(t, d.Stop())
	assert.False(t, d.Stop())
}

func TestLineIndex(t *testing.T) {
	li := NewLineIndex([]byte("aé\nxyz"))
	assert.Equal(t, 2, li.LineCount())
	assert.Equal(t, 3, li.Offset(types.Pos(0, 2)))
	assert.Equal(t, 4, li.Offset(types.Pos(1, 0)))
	assert.Equal(t, 7, li.Offset(types.Pos(1, 99)))
	assert.Equal(t, 7, li.Offset(types.Pos(5, 0)))
	assert.Equal(t, types.Pos(0, 2), li.Position(3))
	assert.Equal(t, types.Pos(1, 0), li.Position(4))
	assert.Equal(t, types.Pos(1, 3), li.End())
}

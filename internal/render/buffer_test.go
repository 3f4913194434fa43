package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/theme"
	"github.com/bethropolis/textcore/internal/types"
)

func TestPlainOutputWithGutter(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "x"
	}
	var buf bytes.Buffer
	require.NoError(t, New(nil, Options{LineNumbers: true}).Lines(&buf, 0, lines, nil, nil))

	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, out, 12)
	assert.Equal(t, " 1 x", out[0])
	assert.Equal(t, "12 x", out[11])
}

func TestColoredOutput(t *testing.T) {
	th := theme.Dark()
	tokens := []types.Token{
		{Range: types.NewRange(types.Pos(0, 0), types.Pos(0, 2)), Type: types.TokenKeywordFunction, Text: "fn"},
		{Range: types.NewRange(types.Pos(0, 2), types.Pos(0, 7)), Type: types.TokenText, Text: " main"},
	}
	var buf bytes.Buffer
	require.NoError(t, New(th, Options{Color: true}).Lines(&buf, 0, []string{"fn main"}, tokens, nil))

	want := sgr(th.Style(types.TokenKeywordFunction)) + "fn" + reset +
		sgr(th.Style(types.TokenText)) + " main" + reset + "\n"
	assert.Equal(t, want, buf.String())
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestHighlightsAreReversed(t *testing.T) {
	th := theme.Light()
	hl := []types.Range{types.NewRange(types.Pos(3, 1), types.Pos(3, 2))}
	var buf bytes.Buffer
	require.NoError(t, New(th, Options{Color: true}).Lines(&buf, 3, []string{"abc"}, nil, hl))

	plain := sgr(th.Default)
	want := plain + "a" + reset + sgr(th.Default.Reverse(true)) + "b" + reset + plain + "c" + reset + "\n"
	assert.Equal(t, want, buf.String())
}

func TestMultiLineTokenSpan(t *testing.T) {
	tok := types.NewRange(types.Pos(0, 3), types.Pos(2, 2))
	from, to := lineSpan(tok, 0, 5)
	assert.Equal(t, [2]int{3, 5}, [2]int{from, to})
	from, to = lineSpan(tok, 1, 4)
	assert.Equal(t, [2]int{0, 4}, [2]int{from, to})
	from, to = lineSpan(tok, 2, 9)
	assert.Equal(t, [2]int{0, 2}, [2]int{from, to})
	from, to = lineSpan(tok, 3, 9)
	assert.Equal(t, [2]int{0, 0}, [2]int{from, to})
}

func TestSGR(t *testing.T) {
	assert.Equal(t, "", sgr(tcell.StyleDefault))
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(1, 2, 3)).Bold(true)
	assert.Equal(t, "\x1b[1;38;2;1;2;3m", sgr(style))
}

func TestIsPositionWithin(t *testing.T) {
	start, end := types.Pos(1, 2), types.Pos(2, 1)
	assert.True(t, IsPositionWithin(types.Pos(1, 2), start, end))
	assert.True(t, IsPositionWithin(types.Pos(1, 50), start, end))
	assert.True(t, IsPositionWithin(types.Pos(2, 0), start, end))
	assert.False(t, IsPositionWithin(types.Pos(2, 1), start, end), "end is exclusive")
	assert.False(t, IsPositionWithin(types.Pos(1, 1), start, end))
	assert.False(t, IsPositionWithin(types.Pos(0, 5), start, end))
}

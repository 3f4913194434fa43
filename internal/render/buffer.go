// Package render writes highlighted document lines to a terminal as ANSI
// escape sequences.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/textcore/internal/theme"
	"github.com/bethropolis/textcore/internal/types"
)

// Options control the output.
type Options struct {
	LineNumbers bool // draw a gutter with 1-based line numbers
	Color       bool // emit escape sequences; off writes plain text
}

// Renderer draws lines with a theme.
type Renderer struct {
	theme *theme.Theme
	opts  Options
}

// New creates a renderer. A nil theme uses the built-in dark theme.
func New(th *theme.Theme, opts Options) *Renderer {
	if th == nil {
		th = theme.Dark()
	}
	return &Renderer{theme: th, opts: opts}
}

// Lines writes lines, the first of which is document line first. Tokens and
// highlights use document positions; highlighted text is drawn reversed.
func (r *Renderer) Lines(w io.Writer, first int, lines []string, tokens []types.Token, highlights []types.Range) error {
	bw := bufio.NewWriter(w)
	byLine := tokensByLine(tokens)
	gutter := gutterWidth(first + len(lines))

	for i, text := range lines {
		n := first + i
		if r.opts.LineNumbers {
			num := fmt.Sprintf("%*d ", gutter-1, n+1)
			if r.opts.Color {
				num = sgr(r.theme.Style(types.TokenComment)) + num + reset
			}
			bw.WriteString(num)
		}
		if !r.opts.Color {
			bw.WriteString(text)
		} else {
			r.writeLine(bw, n, []rune(text), byLine[n], highlights)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (r *Renderer) writeLine(bw *bufio.Writer, n int, runes []rune, tokens []types.Token, highlights []types.Range) {
	styles := make([]tcell.Style, len(runes))
	for i := range styles {
		styles[i] = r.theme.Default
	}
	for _, tok := range tokens {
		from, to := lineSpan(tok.Range, n, len(runes))
		style := r.theme.Style(tok.Type)
		for c := from; c < to; c++ {
			styles[c] = style
		}
	}
	for c := range styles {
		pos := types.Pos(n, c)
		for _, h := range highlights {
			if IsPositionWithin(pos, h.Start, h.End) {
				styles[c] = styles[c].Reverse(true)
				break
			}
		}
	}

	// One escape sequence per run of equal style.
	for start := 0; start < len(runes); {
		end := start + 1
		for end < len(runes) && styles[end] == styles[start] {
			end++
		}
		bw.WriteString(sgr(styles[start]))
		bw.WriteString(string(runes[start:end]))
		bw.WriteString(reset)
		start = end
	}
}

// IsPositionWithin checks if pos is within the range [start, end) considering lines and columns.
func IsPositionWithin(pos, start, end types.Position) bool {
	if pos.Line < start.Line || pos.Line > end.Line {
		return false
	}
	if pos.Line == start.Line && pos.Col < start.Col {
		return false
	}
	// The end position is exclusive.
	if pos.Line == end.Line && pos.Col >= end.Col {
		return false
	}
	return true
}

// lineSpan returns the columns of line n covered by rng, clamped to length.
func lineSpan(rng types.Range, n, length int) (from, to int) {
	if n < rng.Start.Line || n > rng.End.Line {
		return 0, 0
	}
	to = length
	if n == rng.Start.Line {
		from = rng.Start.Col
	}
	if n == rng.End.Line {
		to = rng.End.Col
	}
	if from > length {
		from = length
	}
	if to > length {
		to = length
	}
	return from, to
}

func tokensByLine(tokens []types.Token) map[int][]types.Token {
	out := make(map[int][]types.Token)
	for _, tok := range tokens {
		for n := tok.Range.Start.Line; n <= tok.Range.End.Line; n++ {
			out[n] = append(out[n], tok)
		}
	}
	return out
}

// gutterWidth is the number of digits of the last line number plus padding.
func gutterWidth(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	return int(math.Log10(float64(lineCount))) + 2
}

const reset = "\x1b[0m"

// sgr converts a tcell style to a Select Graphic Rendition sequence.
func sgr(style tcell.Style) string {
	fg, bg, attrs := style.Decompose()
	codes := make([]string, 0, 6)
	if attrs&tcell.AttrBold != 0 {
		codes = append(codes, "1")
	}
	if attrs&tcell.AttrItalic != 0 {
		codes = append(codes, "3")
	}
	if attrs&tcell.AttrUnderline != 0 {
		codes = append(codes, "4")
	}
	if attrs&tcell.AttrReverse != 0 {
		codes = append(codes, "7")
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		codes = append(codes, "9")
	}
	if fg.Valid() && fg.IsRGB() {
		r, g, b := fg.RGB()
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	if bg.Valid() && bg.IsRGB() {
		r, g, b := bg.RGB()
		codes = append(codes, fmt.Sprintf("48;2;%d;%d;%d", r, g, b))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

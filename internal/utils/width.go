package utils

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// tabAdvance returns the width of a tab that starts at visual column col.
func tabAdvance(col, tabSize int) int {
	if tabSize <= 0 {
		tabSize = 1
	}
	return tabSize - col%tabSize
}

// clusterWidth returns the cell width of one grapheme cluster.
func clusterWidth(cluster string) int {
	if w := runewidth.StringWidth(cluster); w > 0 {
		return w
	}
	return uniseg.StringWidth(cluster)
}

// VisualWidth returns the number of cells text occupies, expanding tabs to
// the next multiple of tabSize.
func VisualWidth(text string, tabSize int) int {
	width := 0
	state := -1
	var cluster string
	for len(text) > 0 {
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		if cluster == "\t" {
			width += tabAdvance(width, tabSize)
			continue
		}
		width += clusterWidth(cluster)
	}
	return width
}

// ColumnToVisualColumn returns the visual column at which rune column col of
// line is drawn.
func ColumnToVisualColumn(line string, col, tabSize int) int {
	visual := 0
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			visual += tabAdvance(visual, tabSize)
		} else {
			visual += runewidth.RuneWidth(r)
		}
		i++
	}
	return visual
}

// VisualColumnToColumn maps a visual column back to the rune column whose
// cell covers it. Visual columns past the end of line map to its length.
func VisualColumnToColumn(line string, visual, tabSize int) int {
	current := 0
	col := 0
	for _, r := range line {
		var w int
		if r == '\t' {
			w = tabAdvance(current, tabSize)
		} else {
			w = runewidth.RuneWidth(r)
		}
		if current+w > visual {
			return col
		}
		current += w
		col++
	}
	return col
}

// NextGraphemeColumn returns the rune column after the grapheme cluster that
// starts at col. It never moves past the end of line.
func NextGraphemeColumn(line string, col int) int {
	runes := []rune(line)
	if col >= len(runes) {
		return len(runes)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(runes[col:]), -1)
	n := len([]rune(cluster))
	if n == 0 {
		n = 1
	}
	return col + n
}

// PrevGraphemeColumn returns the rune column where the grapheme cluster that
// ends at col begins.
func PrevGraphemeColumn(line string, col int) int {
	runes := []rune(line)
	if col <= 0 {
		return 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	g := uniseg.NewGraphemes(string(runes[:col]))
	prev := 0
	pos := 0
	for g.Next() {
		prev = pos
		pos += len(g.Runes())
	}
	return prev
}

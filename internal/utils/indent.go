package utils

import "strings"

// CreateIndentation returns the whitespace for level indentation steps.
func CreateIndentation(level, tabSize int, useTabs bool) string {
	if level <= 0 {
		return ""
	}
	if useTabs {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*tabSize)
}

// LineIndentation returns the leading whitespace of line.
func LineIndentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// FirstNonBlank returns the rune column of the first non-whitespace rune on
// line, or the line length when the line is blank.
func FirstNonBlank(line string) int {
	col := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			return col
		}
		col++
	}
	return col
}

// IndentWidth returns the visual width of the leading whitespace of line.
func IndentWidth(line string, tabSize int) int {
	return VisualWidth(LineIndentation(line), tabSize)
}

package utils

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// IsWordChar reports whether r belongs to a word: a letter, a digit or '_'.
// Cursor word motion and whole-word search share this rule.
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindWordBoundaries returns the rune range [start, end) of the word that
// contains column col of line. When col is not on a word character the
// returned range is empty at col.
func FindWordBoundaries(line string, col int) (int, int) {
	runes := []rune(line)
	if col < 0 || col > len(runes) {
		return col, col
	}
	// A caret right after a word still selects that word.
	at := col
	if at == len(runes) || !IsWordChar(runes[at]) {
		if at > 0 && IsWordChar(runes[at-1]) {
			at--
		} else {
			return col, col
		}
	}
	start, end := at, at
	for start > 0 && IsWordChar(runes[start-1]) {
		start--
	}
	for end < len(runes) && IsWordChar(runes[end]) {
		end++
	}
	return start, end
}

// CountWords counts runs of word characters. Word segmentation of scripts
// without spaces follows Unicode word boundaries.
func CountWords(text string) int {
	count := 0
	state := -1
	rest := text
	var word string
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		for _, r := range word {
			if IsWordChar(r) {
				count++
				break
			}
		}
	}
	return count
}

package types

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// TextEdit replaces the text covered by Range with Text. An insertion has an
// empty range; a deletion has empty text.
type TextEdit struct {
	Range Range  `json:"range"`
	Text  string `json:"text"`
}

// InsertEdit builds an edit that inserts text at pos.
func InsertEdit(pos Position, text string) TextEdit {
	return TextEdit{Range: Caret(pos), Text: text}
}

// DeleteEdit builds an edit that removes the text in r.
func DeleteEdit(r Range) TextEdit {
	return TextEdit{Range: r.Normalize()}
}

// ReplaceEdit builds an edit that replaces the text in r with text.
func ReplaceEdit(r Range, text string) TextEdit {
	return TextEdit{Range: r.Normalize(), Text: text}
}

// IsNoop reports whether applying the edit would leave the document unchanged
// regardless of content.
func (e TextEdit) IsNoop() bool {
	return e.Range.IsEmpty() && e.Text == ""
}

// NewEnd returns the position just after the inserted text once the edit has
// been applied.
func (e TextEdit) NewEnd() Position {
	return EndOfText(e.Range.Start, e.Text)
}

// NewRange returns the range the inserted text occupies after the edit.
func (e TextEdit) NewRange() Range {
	return Range{Start: e.Range.Start, End: e.NewEnd()}
}

// EndOfText returns the position reached after writing text starting at start.
func EndOfText(start Position, text string) Position {
	nl := strings.Count(text, "\n")
	if nl == 0 {
		return Position{Line: start.Line, Col: start.Col + runeLen(text)}
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return Position{Line: start.Line + nl, Col: runeLen(last)}
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// EditInfo encapsulates the information needed for tree-sitter's Edit function.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the old text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}

// InputEdit converts the edit info into the tree-sitter input structure.
func (e EditInfo) InputEdit() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeNormalize(t *testing.T) {
	r := Range{Start: Pos(2, 1), End: Pos(0, 4)}
	n := r.Normalize()
	assert.Equal(t, Pos(0, 4), n.Start)
	assert.Equal(t, n, n.Normalize(), "normalize is idempotent")
	assert.True(t, Caret(Pos(1, 1)).IsEmpty())
}

func TestRangeOverlaps(t *testing.T) {
	a := NewRange(Pos(0, 0), Pos(0, 5))
	assert.True(t, a.Overlaps(NewRange(Pos(0, 4), Pos(0, 9))))
	assert.False(t, a.Overlaps(NewRange(Pos(0, 5), Pos(0, 9))))
	assert.True(t, a.Overlaps(Caret(Pos(0, 3))))
	assert.False(t, a.Overlaps(Caret(Pos(0, 5))))
	assert.True(t, Caret(Pos(1, 1)).Overlaps(Caret(Pos(1, 1))))
	assert.True(t, a.Touches(NewRange(Pos(0, 5), Pos(0, 9))))
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingUnix},
		{"a\nb\n", LineEndingUnix},
		{"a\r\nb\r\n", LineEndingWindows},
		{"a\rb\r", LineEndingMac},
		{"a\r\nb\n", LineEndingWindows}, // tie goes to CRLF
		{"a\rb\n", LineEndingMac},       // CR beats LF on a tie
		{"a\nb\nc\r\n", LineEndingUnix},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectLineEnding(tt.text), "%q", tt.text)
	}
}

func TestConvertLineEndings(t *testing.T) {
	text := "a\r\nb\rc\n"
	normalized := NormalizeNewlines(text)
	assert.Equal(t, "a\nb\nc\n", normalized)
	assert.Equal(t, normalized, NormalizeNewlines(normalized))
	assert.Equal(t, "a\r\nb\r\nc\r\n", ConvertLineEndings(text, LineEndingWindows))
	assert.Equal(t, "a\rb\rc\r", ConvertLineEndings(text, LineEndingMac))

	le, err := ParseLineEnding("CRLF")
	require.NoError(t, err)
	assert.Equal(t, LineEndingWindows, le)
	_, err = ParseLineEnding("vms")
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestEndOfText(t *testing.T) {
	assert.Equal(t, Pos(3, 7), EndOfText(Pos(3, 2), "héllo"))
	assert.Equal(t, Pos(5, 2), EndOfText(Pos(3, 2), "a\nb\ncd"))
	assert.Equal(t, Pos(4, 0), EndOfText(Pos(3, 2), "x\n"))
}

func TestPositionMapper(t *testing.T) {
	edits := []TextEdit{
		ReplaceEdit(NewRange(Pos(2, 0), Pos(2, 3)), "x\ny"),
		InsertEdit(Pos(0, 2), "ab"),
	}
	m := NewPositionMapper(edits)

	assert.Equal(t, Pos(0, 1), m.Map(Pos(0, 1)), "before any edit")
	assert.Equal(t, Pos(0, 4), m.Map(Pos(0, 2)), "insertion at the caret pushes it")
	assert.Equal(t, Pos(0, 7), m.Map(Pos(0, 5)), "same line after insertion")
	assert.Equal(t, Pos(1, 3), m.Map(Pos(1, 3)), "line between edits")
	assert.Equal(t, Pos(2, 0), m.Map(Pos(2, 0)), "start of a replaced span")
	assert.Equal(t, Pos(3, 1), m.Map(Pos(2, 1)), "inside a replaced span")
	assert.Equal(t, Pos(3, 3), m.Map(Pos(2, 5)), "after the replaced span")
	assert.Equal(t, Pos(4, 0), m.Map(Pos(3, 0)), "later lines shift")

	ranges := m.InsertedRanges()
	assert.Equal(t, NewRange(Pos(0, 2), Pos(0, 4)), ranges[0])
	assert.Equal(t, NewRange(Pos(2, 0), Pos(3, 1)), ranges[1])
}

func TestTokenTypeNames(t *testing.T) {
	assert.Equal(t, "keyword-control", TokenKeywordControl.CSSClass())
	assert.Equal(t, "doc-comment", TokenDocComment.String())

	tests := map[string]TokenType{
		"keyword.control":     TokenKeywordControl,
		"@type.builtin":       TokenTypeBuiltin,
		"punctuation.bracket": TokenPunctuationBracket,
		"function.method":     TokenMethod,
		"doc-comment":         TokenDocComment,
		"string.special.path": TokenString,
		"variable.other":      TokenVariable,
	}
	for name, want := range tests {
		got, ok := ParseTokenType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseTokenType("spell")
	assert.False(t, ok)
}

func TestTokenPrecedence(t *testing.T) {
	assert.Greater(t, TokenComment.Precedence(), TokenKeyword.Precedence())
	assert.Greater(t, TokenError.Precedence(), TokenString.Precedence())
	assert.Equal(t, 10, TokenText.Precedence())
	assert.Equal(t, 50, TokenLabel.Precedence())
}

func TestTokenJSON(t *testing.T) {
	data, err := json.Marshal(Token{Range: Caret(Pos(1, 2)), Type: TokenKeyword, Text: "fn"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"range":{"start":{"line":1,"column":2},"end":{"line":1,"column":2}},"token_type":"keyword","text":"fn"}`, string(data))

	var tok Token
	require.NoError(t, json.Unmarshal(data, &tok))
	assert.Equal(t, TokenKeyword, tok.Type)
}

func TestThemedTokenCSSStyle(t *testing.T) {
	tok := ThemedToken{Color: "#569CD6"}
	assert.Equal(t, "color: #569CD6;", tok.CSSStyle())

	tok.Styles = []TextStyle{StyleItalic, StyleUnderline, StyleBold, StyleStrikethrough}
	assert.Equal(t, "color: #569CD6; font-style: italic; font-weight: bold; text-decoration: underline line-through;", tok.CSSStyle())
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &PositionError{Pos: Pos(9, 9), LineCount: 2}
	assert.True(t, errors.Is(err, ErrInvalidPosition))
	err = &RangeError{Range: Caret(Pos(0, 0)), Reason: "x"}
	assert.True(t, errors.Is(err, ErrInvalidRange))
	assert.False(t, errors.Is(err, ErrInvalidPosition))

	cause := &PositionError{Pos: Pos(9, 0), LineCount: 2}
	err = fmt.Errorf("tokens: %w", &RangeError{Range: NewRange(Pos(0, 0), Pos(9, 0)), Cause: cause})
	assert.True(t, errors.Is(err, ErrInvalidRange))
	assert.True(t, errors.Is(err, ErrInvalidPosition))
	var pe *PositionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, Pos(9, 0), pe.Pos)
	assert.Contains(t, err.Error(), "invalid position 9:0")
}

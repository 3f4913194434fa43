// internal/buffer/buffer.go
package buffer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
	sitter "github.com/smacker/go-tree-sitter"
)

// Options configures a new TextBuffer.
type Options struct {
	Store      string // StoreBlock (default) or StoreSlice
	BlockSize  int
	LineEnding types.LineEnding
}

// AppliedEdit records how one edit of a batch was carried out.
type AppliedEdit struct {
	Edit     types.TextEdit // pre-edit coordinates
	Removed  string         // text the edit replaced
	NewRange types.Range    // inserted text, post-edit coordinates
}

// ChangeEvent describes one successful mutation.
type ChangeEvent struct {
	Edits   []types.TextEdit // the requested edits, pre-edit coordinates, ascending
	Applied []AppliedEdit    // same order as Edits
	// InputEdits are tree-sitter edits in the order they were applied, so
	// replaying them one by one on an old syntax tree stays consistent.
	InputEdits []types.EditInfo
	Version    uint64
}

// Mapper returns a position mapper from the pre-edit to the post-edit document.
func (ce ChangeEvent) Mapper() *types.PositionMapper {
	return types.NewPositionMapper(ce.Edits)
}

// ChangeHandler is notified after every mutation.
type ChangeHandler func(ChangeEvent)

// TextBuffer is a versioned, line-indexed document. Content is stored with
// "\n" newlines; the file's convention is kept in LineEnding and only applied
// when the text leaves the buffer through ConvertedText.
//
// TextBuffer is not safe for concurrent use; the owning editor serializes
// access.
type TextBuffer struct {
	store      LineStore
	version    uint64
	lineEnding types.LineEnding
	handlers   []ChangeHandler
}

// New creates an empty buffer holding one empty line at version 0.
func New(opts Options) *TextBuffer {
	return &TextBuffer{
		store:      NewLineStore(opts.Store, opts.BlockSize),
		lineEnding: opts.LineEnding,
	}
}

// NewFromText creates a buffer with text as its initial content. The line
// ending is detected from text and newlines are normalized. The version stays
// at 0.
func NewFromText(text string, opts Options) *TextBuffer {
	tb := New(opts)
	tb.lineEnding = types.DetectLineEnding(text)
	tb.store.Splice(0, 1, splitLines(types.NormalizeNewlines(text)))
	return tb
}

func splitLines(text string) [][]byte {
	parts := strings.Split(text, "\n")
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		lines[i] = []byte(p)
	}
	return lines
}

// OnChange registers a handler called synchronously after each mutation.
func (tb *TextBuffer) OnChange(h ChangeHandler) {
	tb.handlers = append(tb.handlers, h)
}

// Version increases by exactly one for every successful mutation.
func (tb *TextBuffer) Version() uint64 { return tb.version }

func (tb *TextBuffer) LineEnding() types.LineEnding { return tb.lineEnding }

func (tb *TextBuffer) SetLineEnding(le types.LineEnding) { tb.lineEnding = le }

// LineCount is always at least 1.
func (tb *TextBuffer) LineCount() int { return tb.store.LineCount() }

// Line returns line n without its newline.
func (tb *TextBuffer) Line(n int) (string, error) {
	if n < 0 || n >= tb.store.LineCount() {
		return "", &types.PositionError{Pos: types.Pos(n, 0), LineCount: tb.store.LineCount()}
	}
	return string(tb.store.Line(n)), nil
}

// LineBytes returns a copy of line n.
func (tb *TextBuffer) LineBytes(n int) ([]byte, error) {
	if n < 0 || n >= tb.store.LineCount() {
		return nil, &types.PositionError{Pos: types.Pos(n, 0), LineCount: tb.store.LineCount()}
	}
	return copyLine(tb.store.Line(n)), nil
}

// LineLength returns the rune count of line n, or 0 when n is out of range.
func (tb *TextBuffer) LineLength(n int) int {
	if n < 0 || n >= tb.store.LineCount() {
		return 0
	}
	return tb.store.LineRunes(n)
}

// FullText returns the whole document joined with "\n".
func (tb *TextBuffer) FullText() string {
	return string(tb.Bytes())
}

// Bytes returns the whole document joined with "\n".
func (tb *TextBuffer) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(tb.store.ByteCount())
	n := tb.store.LineCount()
	for i := 0; i < n; i++ {
		buf.Write(tb.store.Line(i))
		if i < n-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// ConvertedText returns the document using the buffer's line ending.
func (tb *TextBuffer) ConvertedText() string {
	return types.ConvertLineEndings(tb.FullText(), tb.lineEnding)
}

// CharCount returns the number of runes including newlines.
func (tb *TextBuffer) CharCount() int { return tb.store.RuneCount() }

// ByteCount returns the number of bytes including newlines.
func (tb *TextBuffer) ByteCount() int { return tb.store.ByteCount() }

// ValidatePosition checks that pos addresses an existing line and a column
// within [0, LineLength].
func (tb *TextBuffer) ValidatePosition(pos types.Position) error {
	count := tb.store.LineCount()
	if pos.Line < 0 || pos.Line >= count || pos.Col < 0 || pos.Col > tb.store.LineRunes(pos.Line) {
		return &types.PositionError{Pos: pos, LineCount: count}
	}
	return nil
}

// ValidateRange checks both ends of r and that r is normalized.
func (tb *TextBuffer) ValidateRange(r types.Range) error {
	if !r.IsNormalized() {
		return &types.RangeError{Range: r, Reason: "start after end"}
	}
	if err := tb.ValidatePosition(r.Start); err != nil {
		return &types.RangeError{Range: r, Cause: err}
	}
	if err := tb.ValidatePosition(r.End); err != nil {
		return &types.RangeError{Range: r, Cause: err}
	}
	return nil
}

// ClampPosition moves pos to the nearest valid position.
func (tb *TextBuffer) ClampPosition(pos types.Position) types.Position {
	count := tb.store.LineCount()
	if pos.Line < 0 {
		return types.Pos(0, 0)
	}
	if pos.Line >= count {
		last := count - 1
		return types.Pos(last, tb.store.LineRunes(last))
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if max := tb.store.LineRunes(pos.Line); pos.Col > max {
		pos.Col = max
	}
	return pos
}

// EndPosition returns the position after the last character.
func (tb *TextBuffer) EndPosition() types.Position {
	last := tb.store.LineCount() - 1
	return types.Pos(last, tb.store.LineRunes(last))
}

// OffsetOf converts a position to a rune offset from the document start.
func (tb *TextBuffer) OffsetOf(pos types.Position) (int, error) {
	if err := tb.ValidatePosition(pos); err != nil {
		return 0, err
	}
	runeOff, _ := tb.store.LineOffset(pos.Line)
	return runeOff + pos.Col, nil
}

// ByteOffsetOf converts a position to a byte offset from the document start.
func (tb *TextBuffer) ByteOffsetOf(pos types.Position) (int, error) {
	if err := tb.ValidatePosition(pos); err != nil {
		return 0, err
	}
	_, byteOff := tb.store.LineOffset(pos.Line)
	return byteOff + utils.RuneIndexToByteOffset(tb.store.Line(pos.Line), pos.Col), nil
}

// PositionAt converts a rune offset to a position, clamping to the document.
func (tb *TextBuffer) PositionAt(offset int) types.Position {
	if offset <= 0 {
		return types.Pos(0, 0)
	}
	if offset >= tb.store.RuneCount() {
		return tb.EndPosition()
	}
	line := tb.store.LineAtRune(offset)
	runeOff, _ := tb.store.LineOffset(line)
	col := offset - runeOff
	if max := tb.store.LineRunes(line); col > max {
		col = max
	}
	return types.Pos(line, col)
}

// TextInRange returns the text covered by r.
func (tb *TextBuffer) TextInRange(r types.Range) (string, error) {
	r = r.Normalize()
	if err := tb.ValidateRange(r); err != nil {
		return "", err
	}
	return tb.textInRange(r), nil
}

func (tb *TextBuffer) textInRange(r types.Range) string {
	startLine := tb.store.Line(r.Start.Line)
	sb := utils.RuneIndexToByteOffset(startLine, r.Start.Col)
	if r.SingleLine() {
		eb := utils.RuneIndexToByteOffset(startLine, r.End.Col)
		return string(startLine[sb:eb])
	}
	var out strings.Builder
	out.Write(startLine[sb:])
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		out.WriteByte('\n')
		out.Write(tb.store.Line(l))
	}
	endLine := tb.store.Line(r.End.Line)
	out.WriteByte('\n')
	out.Write(endLine[:utils.RuneIndexToByteOffset(endLine, r.End.Col)])
	return out.String()
}

// Insert places text at pos. Inserting an empty string is a no-op that does
// not change the version.
func (tb *TextBuffer) Insert(pos types.Position, text string) (types.TextEdit, error) {
	edit := types.InsertEdit(pos, text)
	if err := tb.ValidatePosition(pos); err != nil {
		return edit, err
	}
	if _, err := tb.ApplyEdits([]types.TextEdit{edit}); err != nil {
		return edit, err
	}
	edit.Text = types.NormalizeNewlines(text)
	return edit, nil
}

// Delete removes the text in r and returns it.
func (tb *TextBuffer) Delete(r types.Range) (string, error) {
	ev, err := tb.ApplyEdits([]types.TextEdit{types.DeleteEdit(r)})
	if err != nil {
		return "", err
	}
	if len(ev.Applied) == 0 {
		return "", nil
	}
	return ev.Applied[0].Removed, nil
}

// Replace swaps the text in r for text.
func (tb *TextBuffer) Replace(r types.Range, text string) (types.TextEdit, error) {
	edit := types.ReplaceEdit(r, types.NormalizeNewlines(text))
	_, err := tb.ApplyEdits([]types.TextEdit{edit})
	return edit, err
}

// ApplyEdit applies a single edit.
func (tb *TextBuffer) ApplyEdit(edit types.TextEdit) error {
	_, err := tb.ApplyEdits([]types.TextEdit{edit})
	return err
}

// ApplyEdits applies a batch of non-overlapping edits, all expressed against
// the current document, as one mutation. Either every edit is applied and the
// version increases by one, or nothing changes. Edits are applied from the
// end of the document backwards so earlier coordinates stay valid.
func (tb *TextBuffer) ApplyEdits(edits []types.TextEdit) (ChangeEvent, error) {
	batch := make([]types.TextEdit, 0, len(edits))
	for _, e := range edits {
		e.Text = types.NormalizeNewlines(e.Text)
		if !e.Range.IsNormalized() {
			return ChangeEvent{}, &types.RangeError{Range: e.Range, Reason: "start after end"}
		}
		if err := tb.ValidateRange(e.Range); err != nil {
			return ChangeEvent{}, err
		}
		if e.IsNoop() {
			continue
		}
		batch = append(batch, e)
	}
	if len(batch) == 0 {
		return ChangeEvent{Version: tb.version}, nil
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Range.Start.Before(batch[j].Range.Start)
	})
	for i := 1; i < len(batch); i++ {
		prev, cur := batch[i-1].Range, batch[i].Range
		if cur.Start.Before(prev.End) || cur.Start == prev.Start {
			return ChangeEvent{}, &types.RangeError{Range: cur, Reason: fmt.Sprintf("overlaps %s", prev)}
		}
	}

	applied := make([]AppliedEdit, len(batch))
	inputs := make([]types.EditInfo, 0, len(batch))
	for i := len(batch) - 1; i >= 0; i-- {
		removed, info := tb.applyOne(batch[i])
		applied[i] = AppliedEdit{Edit: batch[i], Removed: removed}
		inputs = append(inputs, info)
	}
	for i, r := range types.NewPositionMapper(batch).InsertedRanges() {
		applied[i].NewRange = r
	}

	tb.version++
	ev := ChangeEvent{Edits: batch, Applied: applied, InputEdits: inputs, Version: tb.version}
	logger.DebugTagf("buffer", "applied %d edit(s), version %d", len(batch), tb.version)
	for _, h := range tb.handlers {
		h(ev)
	}
	return ev, nil
}

// applyOne performs a validated edit and returns the removed text together
// with the tree-sitter description of the change.
func (tb *TextBuffer) applyOne(e types.TextEdit) (string, types.EditInfo) {
	start, end := e.Range.Start, e.Range.End
	startLine := tb.store.Line(start.Line)
	endLine := tb.store.Line(end.Line)
	sb := utils.RuneIndexToByteOffset(startLine, start.Col)
	eb := utils.RuneIndexToByteOffset(endLine, end.Col)
	_, lineByte := tb.store.LineOffset(start.Line)
	startByte := lineByte + sb

	removed := ""
	if !e.Range.IsEmpty() {
		removed = tb.textInRange(e.Range)
	}

	parts := strings.Split(e.Text, "\n")
	newLines := make([][]byte, len(parts))
	for i, p := range parts {
		newLines[i] = []byte(p)
	}
	newLines[0] = append(append([]byte{}, startLine[:sb]...), newLines[0]...)
	lastIdx := len(newLines) - 1
	newEndCol := len(newLines[lastIdx])
	newLines[lastIdx] = append(newLines[lastIdx], endLine[eb:]...)

	tb.store.Splice(start.Line, end.Line+1, newLines)

	return removed, types.EditInfo{
		StartIndex:     uint32(startByte),
		OldEndIndex:    uint32(startByte + len(removed)),
		NewEndIndex:    uint32(startByte + len(e.Text)),
		StartPosition:  sitter.Point{Row: uint32(start.Line), Column: uint32(sb)},
		OldEndPosition: sitter.Point{Row: uint32(end.Line), Column: uint32(eb)},
		NewEndPosition: sitter.Point{Row: uint32(start.Line + lastIdx), Column: uint32(newEndCol)},
	}
}

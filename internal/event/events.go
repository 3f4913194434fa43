// internal/event/events.go
package event

import "github.com/bethropolis/textcore/internal/types"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota
	TypeCursorMoved
	TypeSelectionChanged
	TypeTextChanged
	TypeFileSaved
	TypeFileLoaded
)

var typeNames = [...]string{"unknown", "cursor-moved", "selection-changed", "text-changed", "file-saved", "file-loaded"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Event is the structure passed to handlers.
type Event struct {
	Type     Type
	EditorID string
	Data     interface{}
}

// CursorMovedData carries every cursor position, primary first.
type CursorMovedData struct {
	Positions []types.Position
}

// SelectionChangedData reports whether any cursor now has a selection.
type SelectionChangedData struct {
	HasSelection bool
}

// TextChangedData carries the new buffer version and the edits that led to it.
type TextChangedData struct {
	Version uint64
	Edits   []types.TextEdit
}

// FileData names the file that was loaded or saved.
type FileData struct {
	Path string
}

// Listener observes one editor. Embed NopListener to implement only the
// callbacks of interest.
type Listener interface {
	OnCursorMoved(positions []types.Position)
	OnSelectionChanged(hasSelection bool)
	OnTextChanged(version uint64)
	OnFileSaved(path string)
	OnFileLoaded(path string)
}

// NopListener implements Listener with no-ops.
type NopListener struct{}

func (NopListener) OnCursorMoved([]types.Position) {}
func (NopListener) OnSelectionChanged(bool)        {}
func (NopListener) OnTextChanged(uint64)           {}
func (NopListener) OnFileSaved(string)             {}
func (NopListener) OnFileLoaded(string)            {}

// deliver calls the listener callback matching e.
func deliver(l Listener, e Event) {
	switch d := e.Data.(type) {
	case CursorMovedData:
		l.OnCursorMoved(d.Positions)
	case SelectionChangedData:
		l.OnSelectionChanged(d.HasSelection)
	case TextChangedData:
		l.OnTextChanged(d.Version)
	case FileData:
		switch e.Type {
		case TypeFileSaved:
			l.OnFileSaved(d.Path)
		case TypeFileLoaded:
			l.OnFileLoaded(d.Path)
		}
	}
}

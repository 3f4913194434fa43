package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/textcore/internal/types"
)

type textOnly struct {
	NopListener
	name string
	log  *[]string
}

func (l textOnly) OnTextChanged(version uint64) {
	*l.log = append(*l.log, l.name)
}

type saveRecorder struct {
	NopListener
	saved, loaded []string
}

func (r *saveRecorder) OnFileSaved(path string)  { r.saved = append(r.saved, path) }
func (r *saveRecorder) OnFileLoaded(path string) { r.loaded = append(r.loaded, path) }

func TestDispatchOrder(t *testing.T) {
	m := NewManager()
	var log []string
	m.AddListener(textOnly{name: "first", log: &log})
	m.Subscribe(TypeTextChanged, func(e Event) { log = append(log, "handler") })
	m.AddListener(textOnly{name: "second", log: &log})

	m.Dispatch(Event{Type: TypeTextChanged, Data: TextChangedData{Version: 1}})
	assert.Equal(t, []string{"first", "handler", "second"}, log)

	m.Dispatch(Event{Type: TypeCursorMoved, Data: CursorMovedData{Positions: []types.Position{{}}}})
	assert.Len(t, log, 3, "default callbacks are no-ops")
}

func TestFileEvents(t *testing.T) {
	m := NewManager()
	rec := &saveRecorder{}
	m.AddListener(rec)
	m.Dispatch(Event{Type: TypeFileLoaded, Data: FileData{Path: "a.rs"}})
	m.Dispatch(Event{Type: TypeFileSaved, Data: FileData{Path: "b.rs"}})
	assert.Equal(t, []string{"a.rs"}, rec.loaded)
	assert.Equal(t, []string{"b.rs"}, rec.saved)
}

func TestRemoveListener(t *testing.T) {
	m := NewManager()
	var log []string
	id := m.AddListener(textOnly{name: "x", log: &log})
	assert.Equal(t, 1, m.Count())
	assert.True(t, m.RemoveListener(id))
	assert.False(t, m.RemoveListener(id))

	m.Dispatch(Event{Type: TypeTextChanged, Data: TextChangedData{Version: 2}})
	assert.Empty(t, log)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "selection-changed", TypeSelectionChanged.String())
	assert.Equal(t, "unknown", Type(99).String())
}

// Package core ties a buffer, its cursors, highlighting, search and history
// into one editor and keeps a registry of open editors.
package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bethropolis/textcore/internal/buffer"
	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/core/clipboard"
	"github.com/bethropolis/textcore/internal/core/cursor"
	"github.com/bethropolis/textcore/internal/core/find"
	"github.com/bethropolis/textcore/internal/core/history"
	"github.com/bethropolis/textcore/internal/event"
	"github.com/bethropolis/textcore/internal/highlight"
	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/theme"
	"github.com/bethropolis/textcore/internal/types"
)

// Editor is one open document. Every exported method takes the editor's
// lock; events are dispatched after it is released, so listeners may call
// back into the editor.
type Editor struct {
	id  uuid.UUID
	ctx *Context
	cfg *config.Config

	mu          sync.Mutex
	buffer      *buffer.TextBuffer
	cursors     *cursor.Manager
	highlighter *highlighter.Highlighter
	scheduler   *highlight.Manager
	finder      *find.Manager
	history     *history.Manager
	clipboard   *clipboard.Manager
	events      *event.Manager
	theme       *theme.Theme

	filePath string
	dirty    bool
	readOnly bool
	focused  bool
	closed   bool

	// View state
	scrollTop    int
	scrollLeft   int
	visibleLines int
	visibleCols  int

	// Events raised under the lock, dispatched once it is released.
	pending []event.Event

	lastOp  time.Duration
	totalOp time.Duration
	opCount uint64
}

// NewEditor creates an empty editor. A nil ctx uses a default context.
func NewEditor(ctx *Context) *Editor {
	if ctx == nil {
		var err error
		if ctx, err = NewContext(nil); err != nil {
			logger.Errorf("Editor: default context failed: %v", err)
			ctx = &Context{Config: config.NewDefaultConfig(), Themes: theme.NewManager(config.DefaultTheme)}
		}
	}
	cfg := ctx.Config

	e := &Editor{
		id:           uuid.New(),
		ctx:          ctx,
		cfg:          cfg,
		history:      history.NewManager(cfg.Editor.MaxUndo),
		clipboard:    clipboard.NewManager(cfg.Editor.SystemClipboard),
		events:       event.NewManager(),
		theme:        ctx.Themes.Current(),
		focused:      true,
		visibleLines: cfg.Editor.PageSize,
	}
	e.buffer = buffer.New(buffer.Options{Store: cfg.Buffer.Store, BlockSize: cfg.Buffer.BlockSize})
	e.buffer.OnChange(e.onBufferChange)
	e.cursors = cursor.NewManager(e.buffer, cfg.Editor.PageSize)
	e.finder = find.NewManager(editorHost{e})
	e.highlighter = highlighter.New(ctx.Languages, highlighter.Options{
		CacheSize:   cfg.Syntax.CacheSize,
		MaxFileSize: cfg.Syntax.MaxFileSize,
	})
	e.scheduler = highlight.NewManager(e.highlighter, e.snapshotAt, e.publishTokens, cfg.Syntax.Debounce.Duration)
	logger.Debugf("Editor %s created", e.id)
	return e
}

// ID returns the editor's unique id.
func (e *Editor) ID() uuid.UUID { return e.id }

// Close stops background highlighting and releases parser resources. The
// editor must not be used afterwards.
func (e *Editor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	// publishTokens takes e.mu, so wait for the scheduler without holding it.
	e.scheduler.Shutdown()
	e.scheduler.Wait()
	e.highlighter.Close()
	logger.Debugf("Editor %s closed", e.id)
}

// AddListener registers l for every editor event and returns its id.
func (e *Editor) AddListener(l event.Listener) int {
	return e.events.AddListener(l)
}

// Subscribe registers handler for one event type and returns its id.
func (e *Editor) Subscribe(t event.Type, handler event.Handler) int {
	return e.events.Subscribe(t, handler)
}

// RemoveListener removes a listener or handler by id.
func (e *Editor) RemoveListener(id int) bool {
	return e.events.RemoveListener(id)
}

// WaitForHighlighting blocks until no background highlighting is running.
func (e *Editor) WaitForHighlighting() {
	e.scheduler.Wait()
}

// read runs fn under the lock without touching cursor or timing state.
func (e *Editor) read(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// update runs a state-changing operation under the lock. Cursor movement and
// selection changes are turned into events, and everything raised while fn
// ran is dispatched after the lock is released.
func (e *Editor) update(fn func() error) error {
	e.mu.Lock()
	start := time.Now()
	positions := e.cursors.Positions()
	hadSelection := e.cursors.HasSelection()

	err := fn()

	if moved := e.cursors.Positions(); !samePositions(positions, moved) {
		e.scrollToLocked(e.cursors.Primary().Position)
		e.emit(event.TypeCursorMoved, event.CursorMovedData{Positions: moved})
	}
	if has := e.cursors.HasSelection(); has != hadSelection {
		e.emit(event.TypeSelectionChanged, event.SelectionChangedData{HasSelection: has})
	}

	e.lastOp = time.Since(start)
	e.totalOp += e.lastOp
	e.opCount++

	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, ev := range pending {
		e.events.Dispatch(ev)
	}
	return err
}

func (e *Editor) emit(t event.Type, data interface{}) {
	e.pending = append(e.pending, event.Event{Type: t, EditorID: e.id.String(), Data: data})
}

func samePositions(a, b []types.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// onBufferChange runs synchronously inside every buffer mutation: running
// highlighting is cancelled, cursors are translated, then highlighting is
// invalidated and rescheduled.
func (e *Editor) onBufferChange(ev buffer.ChangeEvent) {
	e.scheduler.Cancel()
	e.cursors.Translate(ev.Mapper())
	e.highlighter.Invalidate(ev.Version, ev.InputEdits)
	e.scheduleHighlightLocked()
}

func (e *Editor) scheduleHighlightLocked() {
	if !e.cfg.Syntax.Enabled || e.highlighter.Language() == "" {
		return
	}
	e.scheduler.Schedule(e.buffer.Version())
}

// snapshotAt copies the document for the scheduler when its debounce fires.
func (e *Editor) snapshotAt(version uint64) (highlighter.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || version != e.buffer.Version() {
		return highlighter.Snapshot{}, false
	}
	return highlighter.TakeSnapshot(e.buffer), true
}

// publishTokens is called by the scheduler with a finished tokenization. It
// is kept only while the document is still at that version.
func (e *Editor) publishTokens(version uint64, r types.Range, tokens []types.Token) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || version != e.buffer.Version() {
		return false
	}
	return e.highlighter.Store(version, r, tokens)
}

// applyLocked is the single edit path. The buffer applies the batch and, via
// onBufferChange, translates cursors and invalidates highlighting. place, when
// set, then positions the cursors; the step is recorded in history and
// TextChanged is raised.
func (e *Editor) applyLocked(edits []types.TextEdit, place func()) (buffer.ChangeEvent, error) {
	return e.commitLocked(edits, place, true)
}

// replayLocked applies undo or redo edits without recording them.
func (e *Editor) replayLocked(edits []types.TextEdit) error {
	_, err := e.commitLocked(edits, nil, false)
	return err
}

func (e *Editor) commitLocked(edits []types.TextEdit, place func(), record bool) (buffer.ChangeEvent, error) {
	if e.readOnly {
		return buffer.ChangeEvent{}, types.ErrReadOnly
	}
	before := e.cursors.Snapshot()
	ev, err := e.buffer.ApplyEdits(edits)
	if err != nil {
		return ev, err
	}
	if len(ev.Edits) == 0 {
		return ev, nil
	}
	if place != nil {
		place()
	}

	if record {
		removed := make([]string, len(ev.Applied))
		inserted := make([]types.Range, len(ev.Applied))
		for i, a := range ev.Applied {
			removed[i] = a.Removed
			inserted[i] = a.NewRange
		}
		e.history.Record(history.NewStep(ev.Edits, removed, inserted), before, e.cursors.Snapshot())
	}
	e.dirty = true
	e.emit(event.TypeTextChanged, event.TextChangedData{Version: ev.Version, Edits: ev.Edits})
	return ev, nil
}

// editorHost gives the find manager access to the editor. It is only called
// with the editor lock held.
type editorHost struct{ e *Editor }

func (h editorHost) Version() uint64 { return h.e.buffer.Version() }
func (h editorHost) Bytes() []byte   { return h.e.buffer.Bytes() }

func (h editorHost) PrimaryPosition() types.Position {
	return h.e.cursors.Primary().Position
}

func (h editorHost) ApplyEdits(edits []types.TextEdit) error {
	_, err := h.e.applyLocked(edits, nil)
	return err
}

func (h editorHost) Select(r types.Range) {
	m := h.e.cursors
	m.CollapseToPrimary()
	if err := m.SetSelection(m.Primary().ID, r.Start, r.End); err != nil {
		logger.Warnf("Editor: cannot select match %s: %v", r, err)
	}
}

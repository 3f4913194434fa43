package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Registry holds the open editors. Its lock guards only the map; work on an
// editor takes that editor's own lock, so editors never block each other.
type Registry struct {
	ctx *Context

	mu      sync.RWMutex
	editors map[uuid.UUID]*Editor
	order   map[uuid.UUID]uint64 // creation sequence, for List
	seq     uint64
	limit   int
}

// NewRegistry creates an empty registry bounded by core.max_editors. Its
// editors share ctx; a nil ctx is replaced by a default one.
func NewRegistry(ctx *Context) *Registry {
	if ctx == nil {
		var err error
		if ctx, err = NewContext(nil); err != nil {
			logger.Errorf("Registry: default context failed: %v", err)
		}
	}
	limit := 0
	if ctx != nil && ctx.Config != nil {
		limit = ctx.Config.Core.MaxEditors
	}
	return &Registry{
		ctx:     ctx,
		editors: make(map[uuid.UUID]*Editor),
		order:   make(map[uuid.UUID]uint64),
		limit:   limit,
	}
}

// Context returns the context shared by the registry's editors.
func (r *Registry) Context() *Context { return r.ctx }

// Create opens a new, empty editor.
func (r *Registry) Create() (*Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.editors) >= r.limit {
		return nil, fmt.Errorf("editor limit of %d reached: %w", r.limit, types.ErrOperationFailed)
	}
	e := NewEditor(r.ctx)
	r.seq++
	r.editors[e.id] = e
	r.order[e.id] = r.seq
	logger.DebugTagf("registry", "created editor %s (%d open)", e.id, len(r.editors))
	return e, nil
}

// Get returns the editor with the given id.
func (r *Registry) Get(id uuid.UUID) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.editors[id]
	return e, ok
}

// Remove closes and forgets an editor.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	e, ok := r.editors[id]
	if ok {
		delete(r.editors, id)
		delete(r.order, id)
	}
	r.mu.Unlock()
	if ok {
		e.Close()
		logger.DebugTagf("registry", "removed editor %s", id)
	}
	return ok
}

// List returns the ids of the open editors in creation order.
func (r *Registry) List() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.editors))
	for id := range r.editors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return r.order[ids[i]] < r.order[ids[j]] })
	return ids
}

// Count returns the number of open editors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.editors)
}

// Each calls fn for every editor in creation order until fn returns false.
// The registry lock is not held while fn runs.
func (r *Registry) Each(fn func(*Editor) bool) {
	for _, id := range r.List() {
		if e, ok := r.Get(id); ok && !fn(e) {
			return
		}
	}
}

// Close closes every editor and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[uuid.UUID]*Editor)
	r.order = make(map[uuid.UUID]uint64)
	r.mu.Unlock()

	for _, e := range editors {
		e.Close()
	}
	logger.DebugTagf("registry", "closed %d editor(s)", len(editors))
}

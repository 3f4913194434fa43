package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Registry holds the languages available to editors. One registry is built at
// startup and shared through the editor context.
type Registry struct {
	mu        sync.RWMutex
	languages []*Language
	byName    map[string]*Language
	byExt     map[string]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Language),
		byExt:  make(map[string]*Language),
	}
}

// Register adds a language. A later registration wins for shared names and
// extensions.
func (r *Registry) Register(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.languages = append(r.languages, l)
	for _, n := range l.names() {
		r.byName[n] = l
	}
	for _, ext := range l.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := r.byExt[lowerExt]; ok {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, l.Name)
		}
		r.byExt[lowerExt] = l
	}
	logger.Debugf("Registered language: %s with extensions: %v", l.Name, l.Extensions)
}

// Get returns the language registered under name or one of its aliases.
func (r *Registry) Get(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// ForFile returns the language for a file path based on its extension.
func (r *Registry) ForFile(path string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return l, ok
}

// MapExtension points an extension at an already registered language.
func (r *Registry) MapExtension(ext, name string) error {
	l, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("language %q: %w", name, types.ErrOperationFailed)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.Lock()
	r.byExt[strings.ToLower(ext)] = l
	r.mu.Unlock()
	return nil
}

// All returns all registered languages in registration order.
func (r *Registry) All() []*Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Language, len(r.languages))
	copy(out, r.languages)
	return out
}

// Names returns the sorted canonical names of all languages.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.languages))
	seen := make(map[string]bool)
	for _, l := range r.languages {
		if !seen[l.Name] {
			seen[l.Name] = true
			names = append(names, l.Name)
		}
	}
	sort.Strings(names)
	return names
}

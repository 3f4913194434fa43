// internal/theme/manager.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	mutex  sync.RWMutex
	themes map[string]*Theme // lowercase name -> theme
	active *Theme
}

// NewManager creates a manager with the built-in themes and activates
// defaultTheme, falling back to the dark theme when it is unknown.
func NewManager(defaultTheme string) *Manager {
	m := &Manager{themes: make(map[string]*Theme)}
	m.Register(Dark())
	m.Register(Light())
	if err := m.SetTheme(defaultTheme); err != nil {
		logger.Warnf("Theme '%s' not available, using '%s'", defaultTheme, DarkThemeName)
		m.active = m.themes[DarkThemeName]
	}
	return m
}

// Register adds or replaces a theme.
func (m *Manager) Register(t *Theme) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	key := strings.ToLower(t.Name)
	if existing, ok := m.themes[key]; ok {
		logger.Debugf("Theme '%s' overrides existing theme '%s'", t.Name, existing.Name)
	}
	m.themes[key] = t
}

// LoadThemesFromDir loads every .toml file in dir. A missing directory is not
// an error. It returns the number of themes loaded.
func (m *Manager) LoadThemesFromDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("Theme directory '%s' does not exist", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read theme directory '%s': %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		t, err := LoadThemeFromFile(path)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", path, err)
			continue
		}
		m.Register(t)
		loaded++
	}
	logger.Infof("Loaded %d custom themes from %s", loaded, dir)
	return loaded, nil
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.active
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	t, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s' not found: %w", name, types.ErrOperationFailed)
	}
	if m.active != t {
		m.active = t
		logger.Debugf("Active theme set to: %s", t.Name)
	}
	return nil
}

// GetTheme returns a specific theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	t, ok := m.themes[strings.ToLower(name)]
	return t, ok
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	names := make([]string, 0, len(m.themes))
	for _, t := range m.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

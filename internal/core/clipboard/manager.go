// Package clipboard holds copied text for an editor.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/textcore/internal/logger"
)

// Manager keeps an internal register and optionally mirrors it to the system
// clipboard. When the system clipboard is unavailable the register is used.
type Manager struct {
	mu       sync.Mutex
	register string
	system   bool
}

// NewManager creates a clipboard. useSystem selects the system clipboard.
func NewManager(useSystem bool) *Manager {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("ClipboardManager: system clipboard unsupported, using internal register")
		useSystem = false
	}
	return &Manager{system: useSystem}
}

// UsesSystem reports whether the system clipboard is mirrored.
func (m *Manager) UsesSystem() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.system
}

// Copy stores text.
func (m *Manager) Copy(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.register = text
	if m.system {
		if err := clipboard.WriteAll(text); err != nil {
			logger.Warnf("ClipboardManager: system clipboard write failed: %v", err)
		}
	}
	logger.Debugf("ClipboardManager: Yanked %d bytes", len(text))
}

// Text returns the clipboard content, preferring the system clipboard.
func (m *Manager) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.system {
		text, err := clipboard.ReadAll()
		if err == nil {
			return text
		}
		logger.Warnf("ClipboardManager: system clipboard read failed: %v", err)
	}
	return m.register
}

// Empty reports whether there is nothing to paste.
func (m *Manager) Empty() bool {
	return m.Text() == ""
}

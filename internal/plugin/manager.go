package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
// It also serves as the API handed to them.
type Manager struct {
	registry *core.Registry
	cfg      *config.Config

	mu       sync.RWMutex
	plugins  map[string]Plugin
	order    []string // registration order
	commands map[string]CommandFunc
}

var _ API = (*Manager)(nil)

// NewManager creates a plugin manager over the editors of registry.
func NewManager(registry *core.Registry, cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Manager{
		registry: registry,
		cfg:      cfg,
		plugins:  make(map[string]Plugin),
		commands: make(map[string]CommandFunc),
	}
}

// Register adds a plugin. It must be called before InitializePlugins.
func (m *Manager) Register(p Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}
	m.plugins[name] = p
	m.order = append(m.order, name)
	logger.Debugf("PluginManager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins initializes every plugin in registration order. A plugin
// that fails is logged and skipped; the others still start.
func (m *Manager) InitializePlugins() {
	for _, p := range m.snapshot() {
		if err := p.Initialize(m); err != nil {
			logger.Errorf("PluginManager: ERROR initializing plugin '%s': %v", p.Name(), err)
			continue
		}
		logger.Debugf("PluginManager: Initialized plugin '%s'", p.Name())
	}
}

// ShutdownPlugins calls Shutdown on every plugin, newest first.
func (m *Manager) ShutdownPlugins() {
	plugins := m.snapshot()
	for i := len(plugins) - 1; i >= 0; i-- {
		if err := plugins[i].Shutdown(); err != nil {
			logger.Errorf("PluginManager: ERROR shutting down plugin '%s': %v", plugins[i].Name(), err)
		}
	}
}

func (m *Manager) snapshot() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.plugins[name])
	}
	return out
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plugins[name]
	return p, ok
}

// Editors implements API.
func (m *Manager) Editors() []*core.Editor {
	var out []*core.Editor
	if m.registry == nil {
		return out
	}
	m.registry.Each(func(e *core.Editor) bool {
		out = append(out, e)
		return true
	})
	return out
}

// ConfigValue implements API.
func (m *Manager) ConfigValue(plugin, key string) (interface{}, bool) {
	return m.cfg.PluginValue(plugin, key)
}

// RegisterCommand implements API. Command names are case-insensitive.
func (m *Manager) RegisterCommand(name string, fn CommandFunc) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || fn == nil {
		return fmt.Errorf("invalid command registration %q: %w", name, types.ErrOperationFailed)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered: %w", name, types.ErrOperationFailed)
	}
	m.commands[name] = fn
	logger.DebugTagf("plugin", "registered command '%s'", name)
	return nil
}

// Commands lists the registered command names, sorted.
func (m *Manager) Commands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.commands))
	for name := range m.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a registered command.
func (m *Manager) Execute(name string, args []string) (string, error) {
	m.mu.RLock()
	fn, ok := m.commands[strings.ToLower(name)]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown command '%s': %w", name, types.ErrOperationFailed)
	}
	return fn(args)
}

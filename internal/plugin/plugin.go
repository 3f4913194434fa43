// Package plugin runs optional extensions over the open editors.
package plugin

import (
	"github.com/bethropolis/textcore/internal/core"
)

// CommandFunc is a command registered by a plugin. It returns a message for
// the user.
type CommandFunc func(args []string) (string, error)

// API is what plugins may use. It exposes the editor registry and the
// plugin's own settings, nothing else.
type API interface {
	// Editors returns the open editors in creation order.
	Editors() []*core.Editor
	// ConfigValue returns a key from the [plugins.<name>] table.
	ConfigValue(plugin, key string) (interface{}, bool)
	RegisterCommand(name string, fn CommandFunc) error
}

// Plugin is implemented by every extension.
type Plugin interface {
	// Name identifies the plugin and its config table.
	Name() string
	// Initialize is called once. Plugins read their settings and register
	// commands here.
	Initialize(api API) error
	// Shutdown stops background work.
	Shutdown() error
}

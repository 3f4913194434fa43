// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/textcore/internal/logger"
)

// Config holds the application's combined configuration. One value is loaded
// at startup and passed down explicitly.
type Config struct {
	Logger    logger.Config                     `toml:"logger"`
	Editor    EditorConfig                      `toml:"editor"`
	Buffer    BufferConfig                      `toml:"buffer"`
	Syntax    SyntaxConfig                      `toml:"syntax"`
	Core      CoreConfig                        `toml:"core"`
	Languages map[string]string                 `toml:"languages"` // extension -> language name
	Plugins   map[string]map[string]interface{} `toml:"plugins"`   // plugin name -> settings
}

// EditorConfig holds editing behaviour.
type EditorConfig struct {
	TabSize           int  `toml:"tab_size"`
	UseTabs           bool `toml:"use_tabs"`
	PageSize          int  `toml:"page_size"`
	AutoIndent        bool `toml:"auto_indent"`
	AutoCloseBrackets bool `toml:"auto_close_brackets"`
	MaxUndo           int  `toml:"max_undo"`
	SystemClipboard   bool `toml:"system_clipboard"`
	ScrollOff         int  `toml:"scroll_off"`
}

// BufferConfig selects the line store.
type BufferConfig struct {
	Store     string `toml:"store"` // "block" or "slice"
	BlockSize int    `toml:"block_size"`
}

// SyntaxConfig controls highlighting.
type SyntaxConfig struct {
	Enabled      bool     `toml:"enabled"`
	DefaultTheme string   `toml:"default_theme"`
	ThemeDir     string   `toml:"theme_dir"` // empty means <config dir>/themes
	CacheSize    int      `toml:"cache_size"`
	MaxFileSize  int      `toml:"max_file_size"`
	Debounce     Duration `toml:"debounce"`
}

// CoreConfig bounds the editor registry.
type CoreConfig struct {
	MaxEditors int `toml:"max_editors"`
}

// Duration is a time.Duration written as "65ms" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			TabSize:           DefaultTabSize,
			PageSize:          DefaultPageSize,
			AutoIndent:        true,
			AutoCloseBrackets: true,
			MaxUndo:           DefaultMaxUndo,
			SystemClipboard:   SystemClipboard,
			ScrollOff:         DefaultScrollOff,
		},
		Buffer: BufferConfig{Store: DefaultStore, BlockSize: DefaultBlockSize},
		Syntax: SyntaxConfig{
			Enabled:      true,
			DefaultTheme: DefaultTheme,
			CacheSize:    DefaultCacheSize,
			MaxFileSize:  DefaultMaxFileSize,
			Debounce:     Duration{DefaultDebounce},
		},
		Core:      CoreConfig{MaxEditors: DefaultMaxEditors},
		Languages: map[string]string{},
		Plugins:   map[string]map[string]interface{}{},
	}
}

// DefaultConfigDir returns ~/.config/textcore, or "" when the user config
// directory is unknown.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath returns the default config file path, or "".
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, DefaultConfigFileName)
}

// ThemeDir returns the directory holding user themes.
func (c *Config) ThemeDir() string {
	if c.Syntax.ThemeDir != "" {
		return c.Syntax.ThemeDir
	}
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ThemesDirName)
}

// Load reads the config file at filePath over the defaults. An empty path
// means DefaultConfigPath. A missing file is not an error.
func Load(filePath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filePath == "" {
		filePath = DefaultConfigPath()
	}
	if filePath == "" {
		return cfg, nil
	}

	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		logger.Debugf("Config file not found: %s", filePath)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return NewDefaultConfig(), fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	cfg.Validate()
	logger.Infof("Loaded configuration from: %s", filePath)
	return cfg, nil
}

// PluginValue returns one setting from the [plugins.<name>] table.
func (c *Config) PluginValue(plugin, key string) (interface{}, bool) {
	settings, ok := c.Plugins[strings.ToLower(plugin)]
	if !ok {
		return nil, false
	}
	v, ok := settings[key]
	return v, ok
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (*Config, error) {
	cfg := NewDefaultConfig()
	metadata, err := toml.Decode(data, cfg)
	if err != nil {
		return NewDefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config: Unrecognized keys: %v", undecoded)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate checks config values and resets invalid ones to defaults.
func (c *Config) Validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabSize <= 0 || c.Editor.TabSize > 16 {
		logger.Warnf("Config: invalid tab_size %d, using %d", c.Editor.TabSize, defaults.Editor.TabSize)
		c.Editor.TabSize = defaults.Editor.TabSize
	}
	if c.Editor.PageSize <= 0 {
		c.Editor.PageSize = defaults.Editor.PageSize
	}
	if c.Editor.MaxUndo <= 0 {
		c.Editor.MaxUndo = defaults.Editor.MaxUndo
	}
	if c.Editor.ScrollOff < 0 { // 0 is allowed
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}

	switch strings.ToLower(c.Buffer.Store) {
	case "block", "slice":
		c.Buffer.Store = strings.ToLower(c.Buffer.Store)
	default:
		logger.Warnf("Config: unknown buffer store %q, using %q", c.Buffer.Store, defaults.Buffer.Store)
		c.Buffer.Store = defaults.Buffer.Store
	}
	if c.Buffer.BlockSize <= 0 {
		c.Buffer.BlockSize = defaults.Buffer.BlockSize
	}

	if c.Syntax.DefaultTheme == "" {
		c.Syntax.DefaultTheme = defaults.Syntax.DefaultTheme
	}
	if c.Syntax.CacheSize <= 0 {
		c.Syntax.CacheSize = defaults.Syntax.CacheSize
	}
	if c.Syntax.MaxFileSize <= 0 {
		c.Syntax.MaxFileSize = defaults.Syntax.MaxFileSize
	}
	if c.Syntax.Debounce.Duration <= 0 {
		c.Syntax.Debounce = defaults.Syntax.Debounce
	}

	if c.Core.MaxEditors <= 0 {
		c.Core.MaxEditors = defaults.Core.MaxEditors
	}

	if c.Logger.Level == "" {
		c.Logger.Level = defaults.Logger.Level
	}

	langs := make(map[string]string, len(c.Languages))
	for ext, name := range c.Languages {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || name == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		langs[ext] = strings.TrimSpace(name)
	}
	c.Languages = langs
}

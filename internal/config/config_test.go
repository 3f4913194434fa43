package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 4, cfg.Editor.TabSize)
	assert.Equal(t, 25, cfg.Editor.PageSize)
	assert.Equal(t, 1000, cfg.Editor.MaxUndo)
	assert.True(t, cfg.Editor.AutoIndent)
	assert.Equal(t, "block", cfg.Buffer.Store)
	assert.Equal(t, 100, cfg.Syntax.CacheSize)
	assert.Equal(t, 65*time.Millisecond, cfg.Syntax.Debounce.Duration)
	assert.Equal(t, 100, cfg.Core.MaxEditors)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[editor]
tab_size = 8
auto_indent = false

[buffer]
store = "SLICE"

[syntax]
debounce = "120ms"
default_theme = "light"

[languages]
rsx = "rust"
".tpl" = "html"

[logger]
level = "debug"
enabled_tags = ["buffer"]
`)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Editor.TabSize)
	assert.False(t, cfg.Editor.AutoIndent)
	assert.True(t, cfg.Editor.AutoCloseBrackets, "unset keys keep defaults")
	assert.Equal(t, "slice", cfg.Buffer.Store)
	assert.Equal(t, 120*time.Millisecond, cfg.Syntax.Debounce.Duration)
	assert.Equal(t, "light", cfg.Syntax.DefaultTheme)
	assert.Equal(t, map[string]string{".rsx": "rust", ".tpl": "html"}, cfg.Languages)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"buffer"}, cfg.Logger.EnabledTags)
}

func TestValidateResetsInvalidValues(t *testing.T) {
	cfg, err := Parse(`
[editor]
tab_size = -2
page_size = 0
scroll_off = -1

[buffer]
store = "rope"
block_size = 0

[core]
max_editors = -5
`)
	require.NoError(t, err)
	assert.Equal(t, DefaultTabSize, cfg.Editor.TabSize)
	assert.Equal(t, DefaultPageSize, cfg.Editor.PageSize)
	assert.Equal(t, DefaultScrollOff, cfg.Editor.ScrollOff)
	assert.Equal(t, DefaultStore, cfg.Buffer.Store)
	assert.Equal(t, DefaultBlockSize, cfg.Buffer.BlockSize)
	assert.Equal(t, DefaultMaxEditors, cfg.Core.MaxEditors)
}

func TestParseError(t *testing.T) {
	_, err := Parse("[editor\n")
	assert.Error(t, err)

	_, err = Parse("[syntax]\ndebounce = \"soon\"\n")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	missing, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), missing)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nuse_tabs = true\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Editor.UseTabs)
}

func TestFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var f Flags
	f.DefineFlags(fs)
	require.NoError(t, fs.Parse([]string{"-tabsize", "2", "-no-syntax", "-log-tags", "buffer, find", "-theme", "light"}))

	cfg := NewDefaultConfig()
	f.ApplyOverrides(cfg)
	assert.Equal(t, 2, cfg.Editor.TabSize)
	assert.False(t, cfg.Syntax.Enabled)
	assert.Equal(t, []string{"buffer", "find"}, cfg.Logger.EnabledTags)
	assert.Equal(t, "light", cfg.Syntax.DefaultTheme)
	assert.Equal(t, DefaultPageSize, cfg.Editor.PageSize)
}

func TestPluginValues(t *testing.T) {
	cfg, err := Parse(`
[plugins.autosave]
enabled = true
interval = "30s"
`)
	require.NoError(t, err)

	v, ok := cfg.PluginValue("AutoSave", "enabled")
	require.True(t, ok)
	assert.Equal(t, true, v)
	v, ok = cfg.PluginValue("autosave", "interval")
	require.True(t, ok)
	assert.Equal(t, "30s", v)

	_, ok = cfg.PluginValue("autosave", "missing")
	assert.False(t, ok)
	_, ok = cfg.PluginValue("wordcount", "enabled")
	assert.False(t, ok)
}

package autosave

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/plugin"
)

func setup(t *testing.T, settings map[string]interface{}) (*AutoSave, *core.Registry) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Syntax.ThemeDir = t.TempDir()
	cfg.Editor.SystemClipboard = false
	if settings != nil {
		cfg.Plugins["autosave"] = settings
	}
	ctx, err := core.NewContext(cfg)
	require.NoError(t, err)
	reg := core.NewRegistry(ctx)

	p := New()
	m := plugin.NewManager(reg, cfg)
	require.NoError(t, m.Register(p))
	m.InitializePlugins()
	t.Cleanup(func() {
		m.ShutdownPlugins()
		reg.Close()
	})
	return p, reg
}

func TestSaveModified(t *testing.T) {
	p, reg := setup(t, nil)
	assert.False(t, p.enabled)
	assert.Equal(t, defaultInterval, p.interval)

	path := filepath.Join(t.TempDir(), "doc.txt")
	e, err := reg.Create()
	require.NoError(t, err)
	require.NoError(t, e.Load(path, "a\r\nb"))

	untitled, err := reg.Create()
	require.NoError(t, err)
	require.NoError(t, untitled.InsertText("scratch"))

	assert.Equal(t, 0, p.SaveModified(), "clean documents and untitled ones are skipped")

	require.NoError(t, e.InsertText("x"))
	assert.Equal(t, 1, p.SaveModified())
	assert.False(t, e.State().Dirty)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "xa\r\nb", string(data))
}

func TestSaverLoop(t *testing.T) {
	p, reg := setup(t, map[string]interface{}{"enabled": true, "interval": "10ms"})
	require.True(t, p.enabled)
	assert.Equal(t, 10*time.Millisecond, p.interval)

	path := filepath.Join(t.TempDir(), "loop.txt")
	e, err := reg.Create()
	require.NoError(t, err)
	require.NoError(t, e.Load(path, ""))
	require.NoError(t, e.InsertText("saved in the background"))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "saved in the background"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInvalidSettingsKeepDefaults(t *testing.T) {
	p, _ := setup(t, map[string]interface{}{"enabled": "yes", "interval": "-1s"})
	assert.False(t, p.enabled)
	assert.Equal(t, defaultInterval, p.interval)
}

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/types"
)

type stubPlugin struct {
	name    string
	initErr error
	log     *[]string
}

func (p *stubPlugin) Name() string { return p.name }

func (p *stubPlugin) Initialize(api API) error {
	*p.log = append(*p.log, "init:"+p.name)
	if p.initErr != nil {
		return p.initErr
	}
	return api.RegisterCommand(p.name, func(args []string) (string, error) {
		return p.name + " ran", nil
	})
}

func (p *stubPlugin) Shutdown() error {
	*p.log = append(*p.log, "shutdown:"+p.name)
	return nil
}

func newTestManager(t *testing.T) (*Manager, *core.Registry) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Syntax.ThemeDir = t.TempDir()
	cfg.Editor.SystemClipboard = false
	cfg.Plugins["stub"] = map[string]interface{}{"level": int64(3)}
	ctx, err := core.NewContext(cfg)
	require.NoError(t, err)
	reg := core.NewRegistry(ctx)
	t.Cleanup(reg.Close)
	return NewManager(reg, cfg), reg
}

func TestManagerLifecycle(t *testing.T) {
	m, _ := newTestManager(t)
	var log []string
	require.NoError(t, m.Register(&stubPlugin{name: "a", log: &log}))
	require.NoError(t, m.Register(&stubPlugin{name: "broken", initErr: errors.New("boom"), log: &log}))
	require.NoError(t, m.Register(&stubPlugin{name: "b", log: &log}))

	assert.Error(t, m.Register(&stubPlugin{name: "a", log: &log}), "duplicate name")
	assert.Error(t, m.Register(&stubPlugin{name: "", log: &log}), "empty name")

	m.InitializePlugins()
	assert.Equal(t, []string{"init:a", "init:broken", "init:b"}, log)
	assert.Equal(t, []string{"a", "b"}, m.Commands())

	out, err := m.Execute("A", nil)
	require.NoError(t, err)
	assert.Equal(t, "a ran", out)
	_, err = m.Execute("nope", nil)
	assert.ErrorIs(t, err, types.ErrOperationFailed)

	_, ok := m.GetPlugin("b")
	assert.True(t, ok)

	log = nil
	m.ShutdownPlugins()
	assert.Equal(t, []string{"shutdown:b", "shutdown:broken", "shutdown:a"}, log)
}

func TestManagerAPI(t *testing.T) {
	m, reg := newTestManager(t)
	assert.Empty(t, m.Editors())

	a, err := reg.Create()
	require.NoError(t, err)
	b, err := reg.Create()
	require.NoError(t, err)
	editors := m.Editors()
	require.Len(t, editors, 2)
	assert.Same(t, a, editors[0])
	assert.Same(t, b, editors[1])

	v, ok := m.ConfigValue("stub", "level")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	assert.ErrorIs(t, m.RegisterCommand(" ", func([]string) (string, error) { return "", nil }), types.ErrOperationFailed)
	require.NoError(t, m.RegisterCommand("x", func([]string) (string, error) { return "", nil }))
	assert.ErrorIs(t, m.RegisterCommand("X", func([]string) (string, error) { return "", nil }), types.ErrOperationFailed)
}

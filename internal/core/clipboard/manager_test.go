package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	m := NewManager(false)
	assert.False(t, m.UsesSystem())
	assert.True(t, m.Empty())

	m.Copy("hello\nworld")
	assert.Equal(t, "hello\nworld", m.Text())
	assert.False(t, m.Empty())

	m.Copy("")
	assert.True(t, m.Empty())
}

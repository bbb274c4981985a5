package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "ctrl+c")
	assert.Contains(t, keys, "esc")
	assert.NotContains(t, keys, "q")
}

func TestDefaultKeyMap_SendBinding(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, []string{"enter"}, km.Send.Keys())
}

func TestDefaultKeyMap_ScrollBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.ScrollUp.Keys(), "pgup")
	assert.Contains(t, km.ScrollDown.Keys(), "pgdown")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	require.Len(t, bindings, 3)
	assert.Equal(t, km.Send, bindings[0])
	assert.Equal(t, km.Quit, bindings[2])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 3)
	assert.Len(t, bindings[0], 2)
	assert.Len(t, bindings[1], 2)
	assert.Len(t, bindings[2], 1)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("enter", km.Send))
	assert.True(t, Matches("ctrl+u", km.ScrollUp))
	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("a", km.Send))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	for name, binding := range map[string]key.Binding{
		"Quit":       km.Quit,
		"Send":       km.Send,
		"ScrollUp":   km.ScrollUp,
		"ScrollDown": km.ScrollDown,
		"Clear":      km.Clear,
	} {
		assert.NotEmpty(t, binding.Help().Key, name)
	}
}

package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alastify/vufind/internal/core/config"
	"github.com/alastify/vufind/pkg/executil"
)

func TestKeybindingHandler_Resolve(t *testing.T) {
	keybindings := map[string]config.Keybinding{
		"y": {Sh: `echo -n "{{ .URL }}" | pbcopy`, Help: "copy URL"},
		"o": {Sh: `open "{{ .URL }}"`, Help: "open in browser", Confirm: "Open in browser?"},
		"b": {Help: "no command"},
	}

	handler := NewKeybindingHandler(keybindings, nil)

	data := config.KeybindingTemplateData{
		URL:       "https://catalog.example.edu/AJAX/JSON?method=getLightbox&submodule=Record&subaction=Cite",
		Submodule: "Record",
		Action:    "Cite",
	}

	t.Run("renders template with page data", func(t *testing.T) {
		action, ok := handler.Resolve("y", data)
		require.True(t, ok)
		assert.Equal(t, `echo -n "`+data.URL+`" | pbcopy`, action.ShellCmd)
		assert.Equal(t, "copy URL", action.Help)
		assert.False(t, action.NeedsConfirm())
	})

	t.Run("confirm prompt carries through", func(t *testing.T) {
		action, ok := handler.Resolve("o", data)
		require.True(t, ok)
		assert.True(t, action.NeedsConfirm())
		assert.Equal(t, "Open in browser?", action.Confirm)
	})

	t.Run("unknown key does not resolve", func(t *testing.T) {
		_, ok := handler.Resolve("z", data)
		assert.False(t, ok)
	})

	t.Run("binding without sh does not resolve", func(t *testing.T) {
		_, ok := handler.Resolve("b", data)
		assert.False(t, ok)
	})
}

func TestKeybindingHandler_Execute(t *testing.T) {
	recorder := &executil.RecordingExecutor{}
	handler := NewKeybindingHandler(map[string]config.Keybinding{
		"y": {Sh: "echo {{ .Submodule }}"},
	}, recorder)

	action, ok := handler.Resolve("y", config.KeybindingTemplateData{Submodule: "Record"})
	require.True(t, ok)

	err := handler.Execute(context.Background(), action)
	require.NoError(t, err)

	require.Len(t, recorder.Commands, 1)
	assert.Equal(t, "sh", recorder.Commands[0].Cmd)
	assert.Equal(t, []string{"-c", "echo Record"}, recorder.Commands[0].Args)
}

func TestKeybindingHandler_KeyBindings(t *testing.T) {
	handler := NewKeybindingHandler(map[string]config.Keybinding{
		"y": {Sh: "pbcopy", Help: "copy"},
		"x": {Sh: "true"}, // no help text, hidden from the list
	}, nil)

	bindings := handler.KeyBindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "copy", bindings[0].Help().Desc)
}

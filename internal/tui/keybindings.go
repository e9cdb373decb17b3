package tui

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"charm.land/bubbles/v2/key"

	"github.com/alastify/vufind/internal/core/config"
	"github.com/alastify/vufind/pkg/executil"
	"github.com/alastify/vufind/pkg/tmpl"
)

// Action represents a resolved keybinding action ready for execution.
type Action struct {
	Key      string
	Help     string
	Confirm  string // Non-empty if confirmation required
	ShellCmd string // The rendered shell command
}

// NeedsConfirm returns true if the action requires user confirmation.
func (a Action) NeedsConfirm() bool {
	return a.Confirm != ""
}

// KeybindingHandler resolves keybindings to shell actions.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
	executor    executil.Executor
}

// NewKeybindingHandler creates a new handler with the given config.
func NewKeybindingHandler(keybindings map[string]config.Keybinding, executor executil.Executor) *KeybindingHandler {
	return &KeybindingHandler{
		keybindings: keybindings,
		executor:    executor,
	}
}

// Resolve attempts to resolve a key press to an action for the current
// modal state.
func (h *KeybindingHandler) Resolve(key string, data config.KeybindingTemplateData) (Action, bool) {
	kb, exists := h.keybindings[key]
	if !exists {
		return Action{}, false
	}
	if kb.Sh == "" {
		return Action{}, false
	}

	action := Action{
		Key:     key,
		Help:    kb.Help,
		Confirm: kb.Confirm,
	}

	rendered, err := tmpl.Render(kb.Sh, data)
	if err != nil {
		// Template error - surface it instead of running anything
		action.ShellCmd = fmt.Sprintf("echo 'template error: %v'", err)
		return action, true
	}

	action.ShellCmd = rendered
	return action, true
}

// sortedKeys returns keybinding keys in stable order for display.
func sortedKeys(m map[string]config.Keybinding) []string {
	return slices.Sorted(maps.Keys(m))
}

// Execute runs the given action's shell command.
func (h *KeybindingHandler) Execute(ctx context.Context, action Action) error {
	_, err := h.executor.Run(ctx, "sh", "-c", action.ShellCmd)
	return err
}

// KeyBindings returns help entries for the configured keybindings.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	var bindings []key.Binding
	for _, k := range sortedKeys(h.keybindings) {
		help := h.keybindings[k].Help
		if help == "" {
			continue
		}
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, help),
		))
	}
	return bindings
}

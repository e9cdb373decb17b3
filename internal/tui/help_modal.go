package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/alastify/vufind/internal/core/config"
)

// Help modal layout constants.
const (
	helpModalMaxWidth = 70 // maximum modal width in columns
	helpModalMargin   = 4  // margin from screen edges
	glamourGutter     = 2  // glamour adds gutter space
)

// HelpModal displays key help rendered as markdown.
type HelpModal struct {
	content string
}

// NewHelpModal renders the help text for the given keybindings.
func NewHelpModal(keybindings map[string]config.Keybinding, width int) HelpModal {
	modalWidth := min(width-helpModalMargin, helpModalMaxWidth)

	var b strings.Builder
	b.WriteString("# Keys\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	b.WriteString("| `enter` | open page / follow link / fill form |\n")
	b.WriteString("| `tab` / `shift+tab` | next / previous link |\n")
	b.WriteString("| `f` | fill the first form |\n")
	b.WriteString("| `esc` | close the modal |\n")
	b.WriteString("| `?` | toggle this help |\n")
	b.WriteString("| `q`, `ctrl+c` | quit |\n")

	if len(keybindings) > 0 {
		b.WriteString("\n## Custom\n\n")
		b.WriteString("| Key | Action |\n|-----|--------|\n")
		for _, key := range sortedKeys(keybindings) {
			help := keybindings[key].Help
			if help == "" {
				help = keybindings[key].Sh
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", key, help)
		}
	}

	markdown := b.String()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(modalWidth-glamourGutter),
	)
	if err != nil {
		return HelpModal{content: markdown}
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return HelpModal{content: markdown}
	}

	return HelpModal{content: rendered}
}

// Overlay renders the help as a layer over the given background.
func (m HelpModal) Overlay(background string, width, height int) string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		strings.TrimRight(m.content, "\n"),
		modalHelpStyle.Render("? close"),
	)
	overlay := modalStyle.Render(body)

	bgLayer := lipgloss.NewLayer(background)
	helpLayer := lipgloss.NewLayer(overlay)

	overlayW := lipgloss.Width(overlay)
	overlayH := lipgloss.Height(overlay)
	helpLayer.X(max((width-overlayW)/2, 0)).Y(max((height-overlayH)/2, 0)).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, helpLayer)
	return compositor.Render()
}

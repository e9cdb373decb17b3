package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/alastify/vufind/internal/core/markup"
)

// Modal layout constants.
const (
	modalMaxWidth = 80 // maximum modal width in columns
	modalMargin   = 4  // margin from screen edges
	modalPadding  = 6  // border and padding columns consumed by modalStyle
)

// alertStyles maps alert kinds to their display styles.
var alertStyles = map[string]func(...string) string{
	markup.KindDanger:  dangerStyle.Render,
	markup.KindSuccess: successStyle.Render,
	markup.KindWarning: warningStyle.Render,
	markup.KindInfo:    infoStyle.Render,
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	bannerView := bannerStyle.Render(banner)
	listView := m.list.View()
	statusView := statusStyle.Render(m.status)
	mainView := lipgloss.JoinVertical(lipgloss.Left, bannerView, listView, statusView)

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	newView := func(content string) tea.View {
		v := tea.NewView(content)
		v.AltScreen = true
		return v
	}

	if m.state == stateHelp {
		background := mainView
		if m.modalView.Visible() {
			background = m.overlayModal(mainView, w, h)
		}
		return newView(m.help.Overlay(background, w, h))
	}

	if m.state == stateConfirming {
		background := m.overlayModal(mainView, w, h)
		return newView(m.overlayConfirm(background, w, h))
	}

	if m.state == stateForm && m.form != nil {
		return newView(m.overlayForm(mainView, w, h))
	}

	if m.modalView.Visible() {
		return newView(m.overlayModal(mainView, w, h))
	}

	return newView(mainView)
}

// overlayModal renders the lightbox modal over the background.
func (m Model) overlayModal(background string, w, h int) string {
	modalWidth := min(w-modalMargin, modalMaxWidth)
	contentWidth := modalWidth - modalPadding

	title := m.modalView.Title()
	if title == "" {
		title = m.translate.Translate("loading")
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(title),
		"",
		m.renderModalContent(contentWidth),
		modalHelpStyle.Render(m.modalHelp()),
	)

	overlay := modalStyle.Width(modalWidth).Render(body)
	return composite(background, overlay, w, h)
}

// renderModalContent converts the modal markup fragment to styled text.
func (m Model) renderModalContent(width int) string {
	content := m.modalView.Content()

	if content == "" || markup.IsPlaceholder(content) {
		return m.spinner.View() + " " + m.translate.Translate("loading") + "..."
	}

	var parts []string
	for _, kind := range []string{markup.KindDanger, markup.KindWarning, markup.KindSuccess, markup.KindInfo} {
		if message, ok := markup.FindAlert(content, kind); ok {
			parts = append(parts, alertStyles[kind](message))
			content = markup.RemoveAlert(content, kind)
		}
	}

	if text := markup.Render(content); text != "" {
		parts = append(parts, text)
	}

	if len(m.links) > 0 {
		var links []string
		links = append(links, routeStyle.Render(m.translate.Translate("links")+":"))
		for i, link := range m.links {
			label := link.Text
			if i == m.linkIdx {
				links = append(links, "  "+linkSelectedStyle.Render(label))
			} else {
				links = append(links, "  "+linkStyle.Render(label))
			}
		}
		parts = append(parts, strings.Join(links, "\n"))
	}

	text := strings.Join(parts, "\n\n")
	return lipgloss.NewStyle().Width(width).Render(text)
}

// modalHelp builds the modal footer help line.
func (m Model) modalHelp() string {
	parts := []string{"esc " + m.translate.Translate("close")}
	if len(m.ctrl.Forms()) > 0 {
		parts = append(parts, "f "+m.translate.Translate("fill_form"))
	}
	if len(m.links) > 0 {
		parts = append(parts, "tab/enter "+m.translate.Translate("links"))
	}
	parts = append(parts, "? help")
	return strings.Join(parts, "  "+iconDot+"  ")
}

// overlayForm renders the form over the background.
func (m Model) overlayForm(background string, w, h int) string {
	title := m.modalView.Title()
	if title == "" {
		title = m.translate.Translate("fill_form")
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(title),
		"",
		m.form.View(),
	)
	overlay := modalStyle.Render(body)
	return composite(background, overlay, w, h)
}

// overlayConfirm renders the pending action confirmation.
func (m Model) overlayConfirm(background string, w, h int) string {
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(m.pending.Confirm),
		modalHelpStyle.Render("y confirm  "+iconDot+"  n cancel"),
	)
	overlay := modalStyle.Render(body)
	return composite(background, overlay, w, h)
}

// composite centers the overlay on the background using layers.
func composite(background, overlay string, w, h int) string {
	bgLayer := lipgloss.NewLayer(background)
	fgLayer := lipgloss.NewLayer(overlay)

	overlayW := lipgloss.Width(overlay)
	overlayH := lipgloss.Height(overlay)
	fgLayer.X(max((w-overlayW)/2, 0)).Y(max((h-overlayH)/2, 0)).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, fgLayer)
	return compositor.Render()
}

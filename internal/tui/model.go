package tui

import (
	"context"
	"net/url"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"

	"github.com/alastify/vufind/internal/ajax"
	"github.com/alastify/vufind/internal/core/config"
	"github.com/alastify/vufind/internal/core/history"
	"github.com/alastify/vufind/internal/core/lightbox"
	"github.com/alastify/vufind/internal/core/markup"
	"github.com/alastify/vufind/internal/i18n"
	"github.com/alastify/vufind/pkg/executil"
	"github.com/alastify/vufind/pkg/randid"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateHome UIState = iota
	stateModal
	stateForm
	stateHelp
	stateConfirming
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
)

// Options configures the TUI behavior.
type Options struct {
	History  history.Store
	Executor executil.Executor
	Logger   zerolog.Logger
}

// Messages internal to the model.
type (
	historyLoadedMsg struct {
		entries []history.Entry
		err     error
	}
	historySavedMsg   struct{ err error }
	actionCompleteMsg struct {
		action Action
		err    error
	}
	clearStatusMsg struct{ id string }
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg       *config.Config
	ctrl      *lightbox.Controller
	modalView *ModalView
	translate *i18n.Translator
	handler   *KeybindingHandler
	hist      history.Store
	log       zerolog.Logger

	list    list.Model
	spinner spinner.Model
	state   UIState
	form    *FormView
	help    HelpModal
	pending Action

	// Links scraped from the current modal content.
	links       []markup.Link
	linkIdx     int
	lastContent string

	width    int
	height   int
	status   string
	statusID string
	quitting bool
}

// New creates the TUI model. The controller and modal view must share
// the dispatcher whose messages this model will receive.
func New(ctrl *lightbox.Controller, view *ModalView, translate *i18n.Translator, cfg *config.Config, opts Options) Model {
	delegate := NewPageDelegate()

	items := make([]list.Item, 0, len(cfg.Pages))
	for i := range cfg.Pages {
		items = append(items, PageItem{Page: &cfg.Pages[i]})
	}

	l := list.New(items, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowTitle(false)
	l.Styles.TitleBar = lipgloss.NewStyle()

	executor := opts.Executor
	if executor == nil {
		executor = &executil.RealExecutor{}
	}
	handler := NewKeybindingHandler(cfg.Keybindings, executor)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return append(handler.KeyBindings(), key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))

	return Model{
		cfg:       cfg,
		ctrl:      ctrl,
		modalView: view,
		translate: translate,
		handler:   handler,
		hist:      opts.History,
		log:       opts.Logger,
		list:      l,
		spinner:   s,
		state:     stateHome,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.hist != nil {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

// loadHistory returns a command that loads recent lightbox visits.
func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.hist.List(context.Background())
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// saveHistory returns a command that records a visit.
func (m Model) saveHistory(entry history.Entry) tea.Cmd {
	return func() tea.Msg {
		return historySavedMsg{err: m.hist.Save(context.Background(), entry)}
	}
}

// executeAction returns a command that executes a keybinding action.
func (m Model) executeAction(action Action) tea.Cmd {
	return func() tea.Msg {
		err := m.handler.Execute(context.Background(), action)
		return actionCompleteMsg{action: action, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Banner (5 lines) + status line (1)
		contentHeight := msg.Height - 6
		if contentHeight < 1 {
			contentHeight = 1
		}
		m.list.SetSize(msg.Width, contentHeight)
		return m, nil

	case CallbackMsg:
		msg.Fn()
		m.syncModalContent()
		return m, nil

	case ModalClosedMsg:
		m.modalView.FinishClose()
		m.links = nil
		m.linkIdx = 0
		m.lastContent = ""
		if m.state == stateModal || m.state == stateForm {
			m.state = stateHome
			m.form = nil
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("failed to load history")
			return m, nil
		}
		items := make([]list.Item, 0, len(m.cfg.Pages)+len(msg.entries))
		for i := range m.cfg.Pages {
			items = append(items, PageItem{Page: &m.cfg.Pages[i]})
		}
		for i := range msg.entries {
			items = append(items, PageItem{Entry: &msg.entries[i]})
		}
		return m, m.list.SetItems(items)

	case historySavedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("failed to save history")
		}
		return m, nil

	case actionCompleteMsg:
		if msg.err != nil {
			return m.setStatus("! " + msg.err.Error())
		}
		if msg.action.Help != "" {
			return m.setStatus(msg.action.Help + " ✓")
		}
		return m.setStatus("done")

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Route all other messages to the form while filling one
	if m.state == stateForm && m.form != nil {
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// syncModalContent rescrapes links when the modal content changes.
func (m *Model) syncModalContent() {
	content := m.modalView.Content()
	if content == m.lastContent {
		return
	}
	m.lastContent = content
	m.links = nil
	m.linkIdx = 0
	if content != "" && !markup.IsPlaceholder(content) {
		m.links = markup.ParseLinks(content)
	}
	if m.modalView.Visible() && m.state == stateHome {
		m.state = stateModal
	}
}

// setStatus shows a transient status line message.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusID = randid.Generate(8)
	id := m.statusID
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == keyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateForm:
		return m.handleFormKey(msg, keyStr)
	case stateHelp:
		return m.handleHelpKey(keyStr)
	case stateConfirming:
		return m.handleConfirmKey(keyStr)
	case stateModal:
		return m.handleModalKey(keyStr)
	}

	return m.handleHomeKey(msg, keyStr)
}

// handleHomeKey handles keys on the page list.
func (m Model) handleHomeKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if m.list.SettingFilter() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch keyStr {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.help = NewHelpModal(m.cfg.Keybindings, m.width)
		m.state = stateHelp
		return m, nil
	case keyEnter:
		item, ok := m.list.SelectedItem().(PageItem)
		if !ok {
			return m, nil
		}
		return m.openItem(item)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openItem starts a lightbox session for the selected page.
func (m Model) openItem(item PageItem) (tea.Model, tea.Cmd) {
	submodule, action := item.Route()
	route := ajax.Route{Submodule: submodule, Action: action}

	query := url.Values{}
	if item.Page != nil {
		for k, v := range item.Page.Query {
			query.Set(k, v)
		}
	}

	m.ctrl.Open(route, query, nil, nil)
	m.state = stateModal

	var cmds []tea.Cmd
	if m.hist != nil {
		cmds = append(cmds, m.saveHistory(history.Entry{
			ID:        randid.Generate(8),
			Submodule: submodule,
			Action:    action,
			Title:     item.Name(),
			URL:       m.ctrl.LastURL(),
			Timestamp: time.Now(),
		}))
	}
	return m, tea.Batch(cmds...)
}

// handleModalKey handles keys while the modal is open.
func (m Model) handleModalKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc", "q":
		m.ctrl.Close()
		return m, nil
	case "?":
		m.help = NewHelpModal(m.cfg.Keybindings, m.width)
		m.state = stateHelp
		return m, nil
	case "f":
		forms := m.ctrl.Forms()
		if len(forms) == 0 {
			return m.setStatus(m.translate.Translate("fill_form") + ": -")
		}
		m.form = NewFormView(forms[0])
		m.state = stateForm
		_ = m.form.Form().Init()
		return m, nil
	case "tab", "down", "j":
		if len(m.links) > 0 {
			m.linkIdx = (m.linkIdx + 1) % len(m.links)
		}
		return m, nil
	case "shift+tab", "up", "k":
		if len(m.links) > 0 {
			m.linkIdx = (m.linkIdx - 1 + len(m.links)) % len(m.links)
		}
		return m, nil
	case keyEnter:
		return m.followLink()
	}

	// Custom keybindings operate on the current modal page
	if action, ok := m.handler.Resolve(keyStr, m.templateData()); ok {
		if action.NeedsConfirm() {
			m.pending = action
			m.state = stateConfirming
			return m, nil
		}
		return m, m.executeAction(action)
	}

	return m, nil
}

// followLink opens the selected link when it matches the configured
// lightbox patterns.
func (m Model) followLink() (tea.Model, tea.Cmd) {
	if m.linkIdx >= len(m.links) {
		return m, nil
	}
	link := m.links[m.linkIdx]
	if !m.cfg.OpensInLightbox(link.Href) {
		return m.setStatus("external: " + link.Href)
	}
	m.ctrl.OpenByURL(link.Href, nil, nil)
	return m, nil
}

// handleFormKey handles keys while filling a form.
func (m Model) handleFormKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if keyStr == "esc" {
		m.form = nil
		m.state = stateModal
		return m, nil
	}
	return m.updateForm(msg)
}

// updateForm routes a message to the huh form and submits on completion.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Note: huh uses bubbletea v1, so its commands are incompatible
	// with v2 and are dropped. The form still works for input.
	form, _ := m.form.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.SetForm(f)

		if m.form.Completed() {
			scraped := m.form.Apply()
			m.form = nil
			m.state = stateModal
			m.ctrl.Submit(scraped, false)
			return m, nil
		}
	}
	return m, nil
}

// handleHelpKey handles keys on the help overlay.
func (m Model) handleHelpKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "?", "esc", "q":
		if m.modalView.Visible() {
			m.state = stateModal
		} else {
			m.state = stateHome
		}
	}
	return m, nil
}

// handleConfirmKey handles keys on the confirmation overlay.
func (m Model) handleConfirmKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "y", keyEnter:
		action := m.pending
		m.pending = Action{}
		m.state = stateModal
		return m, m.executeAction(action)
	case "n", "esc":
		m.pending = Action{}
		m.state = stateModal
	}
	return m, nil
}

// templateData builds the keybinding template data for the current page.
func (m Model) templateData() config.KeybindingTemplateData {
	data := config.KeybindingTemplateData{
		URL:   m.ctrl.LastURL(),
		Title: m.modalView.Title(),
	}
	if u, err := url.Parse(m.ctrl.LastURL()); err == nil {
		data.Submodule = u.Query().Get("submodule")
		data.Action = u.Query().Get("subaction")
	}
	return data
}

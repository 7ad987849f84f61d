// Package tui provides an interactive browser over the imported chat
// archive: a filterable message list with a full-message preview.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
)

const (
	debounceDelay = 200 * time.Millisecond
	queryLimit    = 500
)

// message types

type queryResultMsg struct {
	query    string
	messages []model.Message
	err      error
}

type debounceTickMsg struct {
	query string
}

// browseModel is the bubbletea model for the archive browser.
type browseModel struct {
	store       service.Storage
	teacher     model.Teacher
	query       string
	messages    []model.Message
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	width       int
	height      int
	ready       bool
	quitting    bool
}

func initialModel(store service.Storage, teacher model.Teacher) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return browseModel{
		store:       store,
		teacher:     teacher,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the archive browser and blocks until it exits.
func Run(store service.Storage, teacher model.Teacher) error {
	m := initialModel(store, teacher)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init triggers the initial message load.
func (m browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doQuery(""))
}

// Update handles messages.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.messages)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				m.refreshPreview()
			}
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to the filter input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedQuery(newQuery))
		}
		return m, tea.Batch(cmds...)

	case debounceTickMsg:
		// Only fire if the query hasn't changed since the debounce started
		if msg.query == m.query {
			cmds = append(cmds, m.doQuery(msg.query))
		}
		return m, tea.Batch(cmds...)

	case queryResultMsg:
		if msg.query != m.query {
			return m, nil // stale result
		}
		if msg.err != nil {
			m.messages = nil
			m.cursor = 0
			m.listOffset = 0
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.messages = msg.messages
		m.cursor = 0
		m.listOffset = 0
		m.refreshPreview()
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m browseModel) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m *browseModel) refreshPreview() {
	if len(m.messages) == 0 || m.cursor >= len(m.messages) {
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(renderPreview(&m.messages[m.cursor], m.previewWidth()))
	m.preview.GotoTop()
}

func (m browseModel) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m browseModel) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m browseModel) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m browseModel) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d messages", len(m.messages)),
		"up/dn navigate",
		"C-u/C-d preview",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m browseModel) doQuery(query string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		messages, err := store.GetMessages(context.Background(), service.MessageFilter{
			Search: query,
			Limit:  queryLimit,
		})
		return queryResultMsg{query: query, messages: messages, err: err}
	}
}

func (m browseModel) scheduleDebouncedQuery(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type menuItem struct {
	title string
	page  string
}

type MenuModel struct {
	items  []menuItem
	idx    int
	status string
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		items: []menuItem{
			{title: "Log in", page: pageLogin},
			{title: "Sign up", page: pageSignup},
			{title: "Reset password", page: pageReset},
		},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if notice, ok := msg.(Notice); ok {
		m.status = notice.Text
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		m.status = ""
		return m, navigate(m.items[m.idx].page, nil)
	}

	return m, nil
}

func (m *MenuModel) View() string {
	var b strings.Builder

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d │ %s\n", cursor, i+1, item.title))
	}
	b.WriteString(renderStatus(m.status))

	return renderPage("VAULTSCRIBE", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: move │ v: version")
}

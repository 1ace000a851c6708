package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/models"
)

// RootModel is a TUI router:
// 1) keeps the active page
// 2) handles the global ctrl+c quit
// 3) handles NavigateTo messages
// 4) owns the session token between login and logout
// 5) delegates all other messages to the active page
type RootModel struct {
	pages   map[string]tea.Model
	current tea.Model
	page    string

	token string

	quitByUser bool
	buildInfo  models.AppBuildInfo

	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage.
func NewRootModel(pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		pages:     pages,
		current:   pages[startPage],
		page:      startPage,
		buildInfo: buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	if r.current == nil {
		return nil
	}
	return r.current.Init()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.quit):
			r.quitByUser = true
			return r, tea.Quit
		case key.Matches(keyMsg, keys.version) && r.page == pageMenu:
			r.showBuildInfo = !r.showBuildInfo
			return r, nil
		case key.Matches(keyMsg, keys.esc) && r.showBuildInfo:
			r.showBuildInfo = false
			return r, nil
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		return r.navigate(msg)
	case sessionStartedMsg:
		if msg.err == nil {
			r.token = msg.session.Token
			r = r.delegate(msg)
			return r.navigate(NavigateTo{Page: pageHome, Payload: enterHomeMsg{token: r.token}})
		}
	case sessionEndedMsg:
		r.token = ""
		return r.navigate(NavigateTo{Page: pageMenu, Payload: Notice{Text: msg.notice}})
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	if r.current == nil {
		return renderPage("VAULTSCRIBE", "", "")
	}
	return r.current.View()
}

// Token is the current session token, empty when logged out.
func (r RootModel) Token() string {
	return r.token
}

func (r RootModel) navigate(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, exists := r.pages[nav.Page]
	if !exists {
		return r, nil
	}

	r.showBuildInfo = false
	r.current = next
	r.page = nav.Page

	if nav.Payload != nil {
		payload := nav.Payload
		return r, func() tea.Msg { return payload }
	}
	return r, r.current.Init()
}

// delegate lets the active page see msg and drops its command.
func (r RootModel) delegate(msg tea.Msg) RootModel {
	if r.current != nil {
		r.current, _ = r.current.Update(msg)
	}
	return r
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/models"
)

var audioExtensions = map[string]struct{}{
	".wav": {}, ".mp3": {}, ".m4a": {}, ".ogg": {}, ".flac": {}, ".webm": {},
}

// HomeModel is the signed-in page. It shows the session's account and
// summarizes an audio or text file in the background.
type HomeModel struct {
	ctx       context.Context
	auth      service.AuthService
	summaries service.SummaryService
	logger    *logger.Logger

	token   string
	account models.Account

	form    form
	spinner spinner.Model
	working bool
	job     models.SummaryJob
	errMsg  string
}

func NewHomeModel(ctx context.Context, auth service.AuthService, summaries service.SummaryService, logger *logger.Logger) *HomeModel {
	return &HomeModel{
		ctx:       ctx,
		auth:      auth,
		summaries: summaries,
		logger:    logger,
		form:      newForm(field{label: "File", placeholder: "/path/to/meeting.wav or notes.txt", limit: 4096}),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *HomeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case enterHomeMsg:
		m.token = msg.token
		m.account = models.Account{}
		m.job = models.SummaryJob{}
		m.errMsg = ""
		m.form.reset()
		return m, tea.Batch(textinput.Blink, m.cmdLoadAccount(msg.token))
	case accountLoadedMsg:
		if msg.err != nil {
			return m, m.endSession(errorText(msg.err))
		}
		m.account = msg.account
		return m, nil
	case summaryQueuedMsg:
		if msg.err != nil {
			m.working = false
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.job = msg.job
		return m, m.cmdWait(msg.job.ID)
	case summaryDoneMsg:
		m.working = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.job = msg.job
		if msg.job.Status == models.SummaryFailed {
			m.errMsg = msg.job.Error
		}
		return m, nil
	case spinner.TickMsg:
		if !m.working {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.logout):
			return m, m.cmdLogout(m.token)
		case key.Matches(msg, keys.enter):
			if m.working || m.account.ID == 0 {
				return m, nil
			}

			req, err := summaryRequest(m.form.value(0))
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}

			m.errMsg = ""
			m.job = models.SummaryJob{}
			m.working = true
			return m, tea.Batch(m.spinner.Tick, m.cmdSubmit(req))
		}
	}

	return m, m.form.update(msg)
}

func (m *HomeModel) View() string {
	var b strings.Builder

	email := m.account.Email
	if email == "" {
		email = "..."
	}
	fmt.Fprintf(&b, "Signed in as %s\n\n", email)
	b.WriteString("Summarize an audio recording or a text file.\n\n")
	b.WriteString(m.form.View())

	switch {
	case m.working:
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Summarizing...\n")
	case m.job.Status == models.SummaryDone:
		b.WriteString("\nSummary\n")
		b.WriteString(uiDivider)
		b.WriteString("\n")
		b.WriteString(m.job.Summary)
		b.WriteString("\n")
	}
	b.WriteString(renderError(m.errMsg))

	return renderPage("VAULTSCRIBE", strings.TrimRight(b.String(), "\n"), "enter: summarize │ ctrl+l: log out")
}

// summaryRequest turns a file path into a request: audio files are
// transcribed first, anything else is read as text.
func summaryRequest(path string) (models.SummaryRequest, error) {
	if path == "" {
		return models.SummaryRequest{}, errors.New("enter a file path")
	}
	if _, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return models.SummaryRequest{AudioPath: path}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return models.SummaryRequest{}, fmt.Errorf("cannot read %s", path)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return models.SummaryRequest{}, fmt.Errorf("%s is empty", path)
	}
	return models.SummaryRequest{Text: text}, nil
}

func (m *HomeModel) endSession(notice string) tea.Cmd {
	m.token = ""
	m.account = models.Account{}
	m.working = false
	return func() tea.Msg { return sessionEndedMsg{notice: notice} }
}

func (m *HomeModel) cmdLoadAccount(token string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		account, err := auth.ValidateSession(ctx, token)
		return accountLoadedMsg{account: account, err: err}
	}
}

func (m *HomeModel) cmdSubmit(req models.SummaryRequest) tea.Cmd {
	ctx := m.ctx
	summaries := m.summaries
	account := m.account

	return func() tea.Msg {
		job, err := summaries.Submit(ctx, account, req)
		return summaryQueuedMsg{job: job, err: err}
	}
}

func (m *HomeModel) cmdWait(id string) tea.Cmd {
	ctx := m.ctx
	summaries := m.summaries
	account := m.account

	return func() tea.Msg {
		job, err := summaries.Wait(ctx, account, id)
		return summaryDoneMsg{job: job, err: err}
	}
}

func (m *HomeModel) cmdLogout(token string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth
	log := m.logger

	m.token = ""
	m.account = models.Account{}
	m.working = false

	return func() tea.Msg {
		if err := auth.Logout(ctx, token); err != nil {
			log.Err(err).Msg("logout")
		}
		return sessionEndedMsg{notice: "Logged out."}
	}
}

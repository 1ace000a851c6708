package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/models"
)

type resetStep int

const (
	resetStepEmail resetStep = iota
	resetStepCode
	resetStepPassword
)

// ResetModel walks the password reset: email, authenticator code, new
// password. Each step holds the value the previous one returned.
type ResetModel struct {
	ctx  context.Context
	auth service.AuthService

	step      resetStep
	challenge models.ResetChallenge
	grant     models.ResetGrant

	email    form
	code     form
	password form

	submitting bool
	errMsg     string
}

func NewResetModel(ctx context.Context, auth service.AuthService) *ResetModel {
	return &ResetModel{
		ctx:   ctx,
		auth:  auth,
		email: newForm(field{label: "Email", placeholder: "you@example.com", limit: 254}),
		code:  newForm(field{label: "Code", placeholder: "123456", limit: 6}),
		password: newForm(
			field{label: "New password", placeholder: "password", limit: 1024, secret: true},
			field{label: "Repeat password", placeholder: "password", limit: 1024, secret: true},
		),
	}
}

func (m *ResetModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resetChallengeMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.challenge = msg.challenge
		m.step = resetStepCode
		return m, nil
	case resetGrantMsg:
		m.submitting = false
		m.code.reset()
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			if errors.Is(msg.err, service.ErrChallengeExpired) || errors.Is(msg.err, service.ErrInvalidChallenge) {
				m.restart()
			}
			return m, nil
		}
		m.errMsg = ""
		m.grant = msg.grant
		m.step = resetStepPassword
		return m, nil
	case resetDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			if !errors.Is(msg.err, service.ErrWeakPassword) {
				m.restart()
			}
			return m, nil
		}
		m.restart()
		m.errMsg = ""
		return m, navigate(pageMenu, Notice{Text: "Password updated. Log in with your new password."})
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.restart()
			m.errMsg = ""
			return m, navigate(pageMenu, nil)
		case key.Matches(msg, keys.tab):
			m.current().focusNext()
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.current().focusPrev()
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			return m, m.submit()
		}
	}

	return m, m.current().update(msg)
}

func (m *ResetModel) submit() tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	switch m.step {
	case resetStepEmail:
		email := m.email.value(0)
		if email == "" {
			m.errMsg = "Email is required."
			return nil
		}
		m.errMsg = ""
		m.submitting = true
		return func() tea.Msg {
			challenge, err := auth.BeginReset(ctx, email)
			return resetChallengeMsg{challenge: challenge, err: err}
		}
	case resetStepCode:
		code := m.code.value(0)
		if !isCode(code) {
			m.errMsg = "Enter the 6-digit code from your authenticator app."
			return nil
		}
		m.errMsg = ""
		m.submitting = true
		challenge := m.challenge
		return func() tea.Msg {
			grant, err := auth.VerifyReset(ctx, challenge, code)
			return resetGrantMsg{grant: grant, err: err}
		}
	default:
		password := m.password.rawValue(0)
		if password == "" {
			m.errMsg = "New password is required."
			return nil
		}
		if password != m.password.rawValue(1) {
			m.errMsg = "Passwords do not match."
			return nil
		}
		m.errMsg = ""
		m.submitting = true
		grant := m.grant
		return func() tea.Msg {
			return resetDoneMsg{err: auth.CompleteReset(ctx, grant, password)}
		}
	}
}

func (m *ResetModel) current() *form {
	switch m.step {
	case resetStepCode:
		return &m.code
	case resetStepPassword:
		return &m.password
	default:
		return &m.email
	}
}

func (m *ResetModel) restart() {
	m.step = resetStepEmail
	m.challenge = models.ResetChallenge{}
	m.grant = models.ResetGrant{}
	m.email.reset()
	m.code.reset()
	m.password.reset()
}

func (m *ResetModel) View() string {
	var b strings.Builder

	switch m.step {
	case resetStepEmail:
		b.WriteString("Step 1 of 3: the account email.\n\n")
	case resetStepCode:
		b.WriteString("Step 2 of 3: the code from your authenticator app.\n\n")
	case resetStepPassword:
		b.WriteString("Step 3 of 3: choose a new password.\n\n")
	}
	b.WriteString(m.current().View())

	if m.submitting {
		b.WriteString("\n[Working...]\n")
	} else {
		b.WriteString("\n[Continue]\n")
	}
	b.WriteString(renderError(m.errMsg))

	return renderPage("RESET PASSWORD", strings.TrimRight(b.String(), "\n"), "esc: cancel │ enter: continue")
}

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

// SecondFactorModel asks for the authenticator code of a login challenge.
// A wrong code keeps the challenge so the user can retry until it expires.
type SecondFactorModel struct {
	ctx  context.Context
	auth service.AuthService

	challenge  models.LoginChallenge
	form       form
	submitting bool
	errMsg     string
}

func NewSecondFactorModel(ctx context.Context, auth service.AuthService) *SecondFactorModel {
	return &SecondFactorModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(field{label: "Code", placeholder: "123456", limit: 6}),
	}
}

func (m *SecondFactorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SecondFactorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginChallengeMsg:
		m.challenge = msg.challenge
		m.errMsg = ""
		m.form.reset()
		return m, textinput.Blink
	case sessionStartedMsg:
		m.submitting = false
		m.form.reset()
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			if errors.Is(msg.err, service.ErrChallengeExpired) || errors.Is(msg.err, service.ErrInvalidChallenge) {
				m.challenge = models.LoginChallenge{}
			}
			return m, nil
		}
		m.challenge = models.LoginChallenge{}
		m.errMsg = ""
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.challenge = models.LoginChallenge{}
			m.errMsg = ""
			m.form.reset()
			return m, navigate(pageLogin, nil)
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			if m.challenge.Token == "" {
				m.errMsg = "Start again from the login page."
				return m, nil
			}

			code := m.form.value(0)
			if !isCode(code) {
				m.errMsg = "Enter the 6-digit code from your authenticator app."
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdVerify(m.challenge, code)
		}
	}

	return m, m.form.update(msg)
}

func (m *SecondFactorModel) View() string {
	var b strings.Builder
	if m.challenge.Email != "" {
		b.WriteString("Account: ")
		b.WriteString(m.challenge.Email)
		b.WriteString("\n\n")
	}
	b.WriteString(m.form.View())

	if m.submitting {
		b.WriteString("\n[Verifying...]\n")
	} else {
		b.WriteString("\n[Verify]\n")
	}
	b.WriteString(renderError(m.errMsg))

	return renderPage("TWO-FACTOR CODE", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: verify")
}

func (m *SecondFactorModel) cmdVerify(challenge models.LoginChallenge, code string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		session, err := auth.CompleteLogin(ctx, challenge, code)
		return sessionStartedMsg{session: session, err: err}
	}
}

// isCode reports whether s looks like a 6-digit one-time code.
func isCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

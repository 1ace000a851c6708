package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/service"
)

// SignupModel collects email and password for a new account. Password rules
// are checked by the service; the pending enrollment it returns is shown by
// [EnrollModel].
type SignupModel struct {
	ctx  context.Context
	auth service.AuthService

	form       form
	submitting bool
	errMsg     string
}

func NewSignupModel(ctx context.Context, auth service.AuthService) *SignupModel {
	return &SignupModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(
			field{label: "Email", placeholder: "you@example.com", limit: 254},
			field{label: "Password", placeholder: "password", limit: 1024, secret: true},
			field{label: "Repeat password", placeholder: "password", limit: 1024, secret: true},
		),
	}
}

func (m *SignupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SignupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(enrollmentReadyMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = errorText(result.err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, navigate(pageEnroll, result)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, navigate(pageMenu, nil)
		case key.Matches(keyMsg, keys.tab):
			m.form.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			email := m.form.value(0)
			password := m.form.rawValue(1)
			if email == "" || password == "" {
				m.errMsg = "Email and password are required."
				return m, nil
			}
			if password != m.form.rawValue(2) {
				m.errMsg = "Passwords do not match."
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSignup(email, password)
		}
	}

	return m, m.form.update(msg)
}

func (m *SignupModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.View())

	if m.submitting {
		b.WriteString("\n[Preparing...]\n")
	} else {
		b.WriteString("\n[Continue]\n")
	}
	b.WriteString("\nAt least 8 characters with an uppercase letter, a digit and a symbol.\n")
	b.WriteString(renderError(m.errMsg))

	return renderPage("SIGN UP", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: continue")
}

func (m *SignupModel) cmdSignup(email, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		pending, err := auth.BeginSignup(ctx, email, password)
		return enrollmentReadyMsg{pending: pending, err: err}
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/service"
)

// LoginModel is the password step of the login workflow. It renders email
// and password inputs and, once the password is accepted, hands the login
// challenge to the [SecondFactorModel].
type LoginModel struct {
	ctx  context.Context
	auth service.AuthService

	form       form
	submitting bool
	errMsg     string
}

func NewLoginModel(ctx context.Context, auth service.AuthService) *LoginModel {
	return &LoginModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(
			field{label: "Email", placeholder: "you@example.com", limit: 254},
			field{label: "Password", placeholder: "password", limit: 1024, secret: true},
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [loginChallengeMsg]: on success resets the form and moves to the
//     second-factor page; on error shows the message.
//   - esc: back to the menu.
//   - tab / shift+tab: switch inputs.
//   - enter: submits email and password.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(loginChallengeMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = errorText(result.err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, navigate(pageSecondFactor, result)
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

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(email, password)
		}
	}

	return m, m.form.update(msg)
}

func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.View())

	if m.submitting {
		b.WriteString("\n[Checking...]\n")
	} else {
		b.WriteString("\n[Continue]\n")
	}
	b.WriteString(renderError(m.errMsg))

	return renderPage("LOG IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: continue")
}

func (m *LoginModel) cmdLogin(email, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		challenge, err := auth.BeginLogin(ctx, email, password)
		return loginChallengeMsg{challenge: challenge, err: err}
	}
}

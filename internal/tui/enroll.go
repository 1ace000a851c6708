// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/models"
)

const statusTTL = 2 * time.Second

// writeClipboard is swapped in tests; CI machines have no clipboard.
var writeClipboard = clipboard.WriteAll

// EnrollModel shows the secret of a pending enrollment and confirms it with
// the first code from the authenticator. The account is created only when
// that code is accepted.
type EnrollModel struct {
	ctx  context.Context
	auth service.AuthService

	pending    models.PendingEnrollment
	form       form
	submitting bool
	errMsg     string
	status     string
}

func NewEnrollModel(ctx context.Context, auth service.AuthService) *EnrollModel {
	return &EnrollModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(field{label: "Code", placeholder: "123456", limit: 6}),
	}
}

func (m *EnrollModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *EnrollModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case enrollmentReadyMsg:
		m.pending = msg.pending
		m.errMsg = ""
		m.status = ""
		m.form.reset()
		return m, textinput.Blink
	case signupDoneMsg:
		m.submitting = false
		m.form.reset()
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.pending = models.PendingEnrollment{}
		m.errMsg = ""
		return m, navigate(pageMenu, Notice{Text: "Account " + msg.account.Email + " created. You can log in now."})
	case copiedMsg:
		if msg.err != nil {
			m.status = ""
			m.errMsg = "Could not copy to the clipboard."
			return m, nil
		}
		m.status = "Secret copied to the clipboard."
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.pending = models.PendingEnrollment{}
			m.errMsg = ""
			m.status = ""
			m.form.reset()
			return m, navigate(pageMenu, nil)
		case key.Matches(msg, keys.copy):
			if m.pending.TOTPSecret == "" {
				return m, nil
			}
			return m, cmdCopy(m.pending.TOTPSecret)
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			if m.pending.Ticket == "" && m.pending.TOTPSecret == "" {
				m.errMsg = "Start the sign up again."
				return m, nil
			}

			code := m.form.value(0)
			if !isCode(code) {
				m.errMsg = "Enter the 6-digit code from your authenticator app."
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdConfirm(m.pending, code)
		}
	}

	return m, m.form.update(msg)
}

func (m *EnrollModel) View() string {
	var b strings.Builder
	b.WriteString("Add this account to your authenticator app.\n\n")
	fmt.Fprintf(&b, "Account │ %s\n", m.pending.Email)
	fmt.Fprintf(&b, "Secret  │ %s\n", m.pending.TOTPSecret)
	fmt.Fprintf(&b, "URI     │ %s\n", fitText(m.pending.ProvisioningURI, 80))
	if m.pending.ImagePath != "" {
		fmt.Fprintf(&b, "QR code │ %s\n", m.pending.ImagePath)
	}
	if !m.pending.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "Expires │ %s\n", m.pending.ExpiresAt.Local().Format(time.TimeOnly))
	}
	b.WriteString("\n")
	b.WriteString(m.form.View())

	if m.submitting {
		b.WriteString("\n[Creating account...]\n")
	} else {
		b.WriteString("\n[Create account]\n")
	}
	b.WriteString(renderStatus(m.status))
	b.WriteString(renderError(m.errMsg))

	return renderPage("TWO-FACTOR SETUP", strings.TrimRight(b.String(), "\n"), "esc: cancel │ c: copy secret │ enter: confirm")
}

func (m *EnrollModel) cmdConfirm(pending models.PendingEnrollment, code string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		account, err := auth.CompleteSignup(ctx, pending, code)
		return signupDoneMsg{account: account, err: err}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

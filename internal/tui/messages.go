package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/vaultscribe/models"
)

const (
	pageMenu         = "menu"
	pageLogin        = "login"
	pageSecondFactor = "second-factor"
	pageSignup       = "signup"
	pageEnroll       = "enroll"
	pageReset        = "reset"
	pageHome         = "home"
)

// NavigateTo switches the active page. A non-nil Payload is delivered to
// the new page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// Notice is shown once on the menu.
type Notice struct {
	Text string
}

type loginChallengeMsg struct {
	challenge models.LoginChallenge
	err       error
}

// sessionStartedMsg is handled by [RootModel], which keeps the token.
type sessionStartedMsg struct {
	session models.Session
	err     error
}

// enterHomeMsg hands the session token to the home page.
type enterHomeMsg struct {
	token string
}

// sessionEndedMsg makes [RootModel] drop the token and return to the menu.
type sessionEndedMsg struct {
	notice string
}

type enrollmentReadyMsg struct {
	pending models.PendingEnrollment
	err     error
}

type signupDoneMsg struct {
	account models.Account
	err     error
}

type resetChallengeMsg struct {
	challenge models.ResetChallenge
	err       error
}

type resetGrantMsg struct {
	grant models.ResetGrant
	err   error
}

type resetDoneMsg struct {
	err error
}

type accountLoadedMsg struct {
	account models.Account
	err     error
}

type summaryQueuedMsg struct {
	job models.SummaryJob
	err error
}

type summaryDoneMsg struct {
	job models.SummaryJob
	err error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}

func navigate(page string, payload tea.Msg) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page, Payload: payload} }
}

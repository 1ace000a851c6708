package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is an ordered set of text inputs with one focused field.
type form struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

type field struct {
	label       string
	placeholder string
	limit       int
	secret      bool
}

func newForm(fields ...field) form {
	f := form{
		inputs: make([]textinput.Model, len(fields)),
		labels: make([]string, len(fields)),
	}
	for i, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.CharLimit = fd.limit
		in.Width = 40
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		f.inputs[i] = in
		f.labels[i] = fd.label
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// rawValue is the input as typed. Passwords are not trimmed.
func (f *form) rawValue(i int) string {
	return f.inputs[i].Value()
}

func (f *form) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.inputs[0].Focus()
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) View() string {
	width := 0
	for _, l := range f.labels {
		width = max(width, len(l))
	}

	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(f.labels[i])
		b.WriteString(strings.Repeat(" ", width-len(f.labels[i])))
		b.WriteString(" │ [")
		b.WriteString(in.View())
		b.WriteString("]\n")
	}
	return b.String()
}

// Package login renders the sign-in form.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slopewatch/tui/internal/theme"
)

const fieldWidth = 28

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(1, 3)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)
)

// Model holds the login form state. Failed attempts keep the typed
// username so only the password needs re-entering.
type Model struct {
	username textinput.Model
	password textinput.Model
	focusIdx int

	Err  string
	Busy bool
}

// New creates the form with the username field focused.
func New() Model {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = fieldWidth
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.Width = fieldWidth
	pass.EchoMode = textinput.EchoPassword

	return Model{username: user, password: pass}
}

// Values returns the entered credentials.
func (m Model) Values() (username, password string) {
	return strings.TrimSpace(m.username.Value()), m.password.Value()
}

// Validate checks required fields, setting Err on failure.
func (m *Model) Validate() bool {
	user, pass := m.Values()
	if user == "" || pass == "" {
		m.Err = "Vui lòng nhập đầy đủ tài khoản và mật khẩu"
		return false
	}
	m.Err = ""
	return true
}

// SetError surfaces a login failure and clears only the password.
func (m *Model) SetError(msg string) {
	m.Err = msg
	m.Busy = false
	m.password.SetValue("")
}

// NextField moves focus between the two inputs.
func (m *Model) NextField() {
	m.focusIdx = (m.focusIdx + 1) % 2
	if m.focusIdx == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.username.Blur()
	}
}

// Update forwards key events to the focused input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// View renders the form centered in the given viewport.
func (m Model) View(width, height int) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Slopewatch — Đăng nhập") + "\n\n")
	b.WriteString(m.username.View() + "\n")
	b.WriteString(m.password.View() + "\n")

	switch {
	case m.Busy:
		b.WriteString("\n" + theme.StyleDimmed.Render("Signing in…"))
	case m.Err != "":
		b.WriteString("\n" + theme.StyleDanger.Render(m.Err))
	default:
		b.WriteString("\n" + theme.StyleDimmed.Render("tab:switch field  enter:sign in  q:quit"))
	}

	panel := stylePanel.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}

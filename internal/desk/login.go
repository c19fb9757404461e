package desk

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"inquirydesk/internal/client"
	apperrors "inquirydesk/pkg/errors"
)

// loginForm collects manager credentials.
type loginForm struct {
	username   textinput.Model
	password   textinput.Model
	onPassword bool
	submitting bool
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{username: username, password: password}
}

func (f *loginForm) focus() tea.Cmd {
	if f.onPassword {
		f.username.Blur()
		return f.password.Focus()
	}
	f.password.Blur()
	return f.username.Focus()
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &m.login
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m.Navigate(RouteLanding, 0)
		case key.Matches(keyMsg, m.keys.NextField), key.Matches(keyMsg, m.keys.PrevField):
			f.onPassword = !f.onPassword
			cmd := f.focus()
			return m, cmd
		case key.Matches(keyMsg, m.keys.Select):
			if !f.onPassword {
				f.onPassword = true
				cmd := f.focus()
				return m, cmd
			}
			return m.submitLogin()
		case key.Matches(keyMsg, m.keys.Submit):
			return m.submitLogin()
		}
	}

	var cmd tea.Cmd
	if f.onPassword {
		f.password, cmd = f.password.Update(msg)
	} else {
		f.username, cmd = f.username.Update(msg)
	}
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.login.username.Value())
	password := m.login.password.Value()
	if username == "" || password == "" {
		cmd := m.notify(ToastError, "Please enter username and password")
		return m, cmd
	}

	m.login.submitting = true
	api := m.api
	return m, func() tea.Msg {
		sess, err := api.Login(context.Background(), username, password)
		return loginDoneMsg{session: sess, err: err}
	}
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.log.Warn("login failed", zap.Error(msg.err))
		text := failureText("Login failed", msg.err)
		if apperrors.IsUnauthorized(msg.err) {
			text = "Invalid username or password"
		}
		m.login.password.Reset()
		cmd := m.notify(ToastError, text)
		return m, cmd
	}

	m.session = msg.session
	m.log.Info("logged in", zap.String("username", msg.session.Username), zap.Time("expires_at", msg.session.ExpiresAt))

	route, id := m.afterLogin, m.afterLoginID
	m.afterLogin, m.afterLoginID = RouteManager, 0
	next, cmd := m.Navigate(route, id)
	welcome := next.notify(ToastSuccess, "Welcome, "+msg.session.Username)
	return next, tea.Batch(cmd, welcome)
}

// logout drops the session locally and revokes it on the server.
func (m Model) logout() (tea.Model, tea.Cmd) {
	sess := m.session
	m.session = client.Session{}
	next, cmd := m.Navigate(RouteLanding, 0)
	api := m.api
	revoke := func() tea.Msg {
		return logoutDoneMsg{err: api.Logout(context.Background(), sess)}
	}
	notice := next.notify(ToastInfo, "Logged out")
	return next, tea.Batch(cmd, revoke, notice)
}

func (f loginForm) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.title().Render("Manager login") + "\n\n")
	b.WriteString("Username\n" + f.username.View() + "\n\n")
	b.WriteString("Password\n" + f.password.View() + "\n")
	if f.submitting {
		b.WriteString("\n" + theme.faint().Render("Signing in..."))
	}
	return b.String()
}

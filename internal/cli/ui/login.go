package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"papermc/internal/notify"
	"papermc/pkg/sdk"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
)

type loginModel struct {
	deps          Deps
	usernameInput textinput.Model
	passwordInput textinput.Model
	spinner       spinner.Model
	focus         loginField
	submitting    bool
	err           string
	next          Route
	width         int
	height        int
}

type loginResultMsg struct {
	username string
	token    sdk.Credential
	err      error
}

func newLoginModel(d Deps) loginModel {
	user := textinput.New()
	user.Placeholder = "admin"
	user.CharLimit = 64
	user.Width = 30
	user.SetValue(d.Session.LastUsername())

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128
	pass.Width = 30

	focus := fieldUsername
	if user.Value() != "" {
		focus = fieldPassword
		pass.Focus()
	} else {
		user.Focus()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return loginModel{
		deps:          d,
		usernameInput: user,
		passwordInput: pass,
		spinner:       s,
		focus:         focus,
		next:          RouteQuit,
	}
}

func (m loginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.next = RouteQuit
			return m, tea.Quit
		case "tab", "shift+tab", "up", "down":
			if m.submitting {
				return m, nil
			}
			return m.toggleFocus()
		case "enter":
			if m.submitting {
				return m, nil
			}
			if m.focus == fieldUsername {
				return m.toggleFocus()
			}
			username := strings.TrimSpace(m.usernameInput.Value())
			if username == "" || m.passwordInput.Value() == "" {
				m.err = "Username and password are required"
				return m, nil
			}
			m.submitting = true
			m.err = ""
			return m, loginCmd(m.deps, username, m.passwordInput.Value())
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = loginFailure(msg.err)
			m.passwordInput.SetValue("")
			return m, nil
		}
		if err := m.deps.Session.Set(msg.username, msg.token); err != nil {
			m.err = fmt.Sprintf("Could not save session: %v", err)
			return m, nil
		}
		m.next = RouteConsole
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == fieldUsername {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m loginModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == fieldUsername {
		m.focus = fieldPassword
		m.usernameInput.Blur()
		return m, m.passwordInput.Focus()
	}
	m.focus = fieldUsername
	m.passwordInput.Blur()
	return m, m.usernameInput.Focus()
}

func loginCmd(d Deps, username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := d.Backend.Login(context.Background(), username, password)
		if err != nil {
			d.logger().Infow("login failed", "username", username, "error", err)
		}
		return loginResultMsg{username: username, token: token, err: err}
	}
}

func loginFailure(err error) string {
	if errors.Is(err, sdk.ErrInvalidCredentials) {
		return "Invalid credentials"
	}
	return notify.FailureMessage(err)
}

func (m loginModel) View() string {
	title := headerStyle.Width(m.width).Render("PAPERMC LOGIN")

	status := ""
	switch {
	case m.submitting:
		status = m.spinner.View() + " Signing in..."
	case m.err != "":
		status = errorTextStyle.Render(m.err)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		descStyle.Render("Backend: "+m.deps.BaseURL),
		"",
		"Username",
		m.usernameInput.View(),
		"",
		"Password",
		m.passwordInput.View(),
		"",
		status,
	)

	box := baseStyle.Padding(1, 2).Render(form)
	help := helpLine("tab", "switch field", "enter", "sign in", "esc", "quit")

	body := lipgloss.JoinVertical(lipgloss.Center, box, help)
	if m.width > 0 && m.height > 0 {
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	}
	return lipgloss.JoinVertical(lipgloss.Center, title, body)
}

func RunLogin(d Deps) (Route, error) {
	p := tea.NewProgram(newLoginModel(d), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return RouteQuit, fmt.Errorf("running login form: %w", err)
	}
	if m, ok := final.(loginModel); ok {
		return m.next, nil
	}
	return RouteQuit, nil
}

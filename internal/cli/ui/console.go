package ui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"papermc/internal/console"
	"papermc/internal/notify"
	"papermc/internal/realtime"
	"papermc/internal/vitals"
	"papermc/pkg/sdk"
)

type consoleModel struct {
	deps         Deps
	channel      *realtime.Channel
	poller       *vitals.Poller
	toasts       *notify.Center
	events       *events
	linesPending *atomic.Bool

	viewport  viewport.Model
	textInput textinput.Model
	ready     bool
	content   string
	rendered  int
	connState realtime.State
	vitals    *sdk.Vitals
	next      Route
	width     int
	height    int
}

type (
	linesMsg      struct{}
	connStateMsg  realtime.State
	frameErrorMsg string
)

func newConsoleModel(d Deps, ch *realtime.Channel, ev *events, pending *atomic.Bool, toasts *notify.Center) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40

	return consoleModel{
		deps:         d,
		channel:      ch,
		poller:       d.newPoller(),
		toasts:       toasts,
		events:       ev,
		linesPending: pending,
		textInput:    ti,
		connState:    ch.State(),
		next:         RouteQuit,
	}
}

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.events.wait(),
		pollCmd(m.poller),
		pollTick(m.poller.Interval()),
	)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.next = RouteQuit
			return m, tea.Quit
		case "tab":
			m.next = RoutePlayers
			return m, tea.Quit
		case "ctrl+s":
			return m, serverActionCmd(m.deps, m.toasts, true)
		case "ctrl+x":
			return m, serverActionCmd(m.deps, m.toasts, false)
		case "enter":
			if cmd := m.textInput.Value(); cmd != "" {
				m.textInput.SetValue("")
				m.channel.SendCommand(cmd)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		verticalMargin := 14
		contentWidth := msg.Width - 6
		if !m.ready {
			m.viewport = viewport.New(contentWidth, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = msg.Height - verticalMargin
		}

	case linesMsg:
		m.linesPending.Store(false)
		for _, line := range m.channel.LinesSince(m.rendered) {
			m.content += console.Render(line) + "\n"
			m.rendered++
		}
		if m.ready {
			m.viewport.SetContent(m.content)
			m.viewport.GotoBottom()
		}
		return m, m.events.wait()

	case connStateMsg:
		m.connState = realtime.State(msg)
		return m, m.events.wait()

	case frameErrorMsg:
		toasts := m.toasts
		text := string(msg)
		return m, tea.Batch(m.events.wait(), func() tea.Msg {
			toasts.Error(text)
			return nil
		})

	case toastsChangedMsg:
		return m, m.events.wait()

	case unauthorizedMsg:
		_ = m.deps.Session.Clear()
		m.next = RouteLogin
		return m, tea.Quit

	case vitalsMsg:
		v := sdk.Vitals(msg)
		m.vitals = &v
		return m, nil

	case pollFailedMsg:
		if errors.Is(msg.err, sdk.ErrUnauthorized) || errors.Is(msg.err, vitals.ErrNoSession) {
			m.next = RouteLogin
			return m, tea.Quit
		}
		return m, nil

	case pollTickMsg:
		return m, tea.Batch(pollCmd(m.poller), pollTick(m.poller.Interval()))
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m consoleModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	title := headerStyle.Width(m.width).Render("PAPERMC CONSOLE")

	headerBox := baseStyle.
		Width(m.width-4).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			vitalsLine(m.vitals),
			connectionIndicator(m.connState)+descStyle.Render("  •  "+m.deps.BaseURL),
		))

	consoleBox := baseStyle.
		Width(m.width - 4).
		Render(m.viewport.View())

	help := lipgloss.NewStyle().
		Width(m.width - 6).
		Align(lipgloss.Center).
		Render(helpLine("enter", "send", "ctrl+s", "start", "ctrl+x", "stop", "tab", "players", "esc", "quit"))

	footerContent := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("→ %s", m.textInput.View()),
		renderToasts(m.toasts.Active()),
		help,
	)

	footerBox := footerStyle.
		Width(m.width - 4).
		Align(lipgloss.Left).
		Render(footerContent)

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		headerBox,
		consoleBox,
		footerBox,
	)
}

func connectionIndicator(s realtime.State) string {
	switch s {
	case realtime.StateOpen:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("● Connected")
	case realtime.StateConnecting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("○ Connecting...")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("○ Disconnected")
	}
}

func serverActionCmd(d Deps, toasts *notify.Center, start bool) tea.Cmd {
	return func() tea.Msg {
		var (
			resp     *sdk.StatusResponse
			err      error
			fallback string
		)
		cred := d.Session.Credential()
		if start {
			resp, err = d.Backend.Start(context.Background(), cred)
			fallback = "Start requested"
		} else {
			resp, err = d.Backend.Stop(context.Background(), cred)
			fallback = "Stop requested"
		}

		if err != nil {
			d.logger().Warnw("server action failed", "start", start, "error", err)
			toasts.Failure(err)
			if errors.Is(err, sdk.ErrUnauthorized) {
				return unauthorizedMsg{}
			}
			return nil
		}
		if resp != nil && resp.Status != "" {
			fallback = resp.Status
		}
		toasts.Success(fallback)
		return nil
	}
}

// RunConsole owns one realtime channel for as long as the view is up and tears
// it down before returning.
func RunConsole(d Deps) (Route, error) {
	ev := newEvents()
	pending := &atomic.Bool{}

	toasts := d.newToasts()
	toasts.OnChange(func() { ev.send(toastsChangedMsg{}) })

	ch := realtime.New(d.WebSocketURL,
		realtime.WithReconnectDelay(d.ReconnectDelay),
		realtime.WithLogger(d.logger()),
		realtime.OnLine(func(string) {
			if pending.CompareAndSwap(false, true) {
				ev.send(linesMsg{})
			}
		}),
		realtime.OnState(func(s realtime.State) { ev.send(connStateMsg(s)) }),
		realtime.OnError(func(msg string) { ev.send(frameErrorMsg(msg)) }),
		realtime.OnUnauthorized(func() { ev.send(unauthorizedMsg{}) }),
	)

	defer func() {
		ev.close()
		toasts.Close()
		ch.Close()
	}()

	if err := ch.Start(d.Session.Credential()); err != nil {
		if errors.Is(err, realtime.ErrNoCredential) {
			return RouteLogin, nil
		}
		return RouteQuit, err
	}

	p := tea.NewProgram(
		newConsoleModel(d, ch, ev, pending, toasts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return RouteQuit, fmt.Errorf("running console: %w", err)
	}
	if m, ok := final.(consoleModel); ok {
		return m.next, nil
	}
	return RouteQuit, nil
}

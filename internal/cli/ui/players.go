package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"papermc/internal/notify"
	"papermc/internal/players"
	"papermc/pkg/sdk"
)

const (
	nameWidth   = 18
	uuidWidth   = 36
	reasonWidth = 24
)

type playersModel struct {
	deps       Deps
	reconciler *players.Reconciler
	toasts     *notify.Center
	events     *events

	table       table.Model
	rows        []players.UnifiedPlayer
	reasonInput textinput.Model
	prompting   string
	loading     bool
	next        Route
	width       int
	height      int
}

type (
	playersChangedMsg struct{}
	refreshDoneMsg    struct{ err error }
	actionDoneMsg     struct{ err error }
)

func newPlayersModel(d Deps, r *players.Reconciler, ev *events, toasts *notify.Center) playersModel {
	columns := []table.Column{
		{Title: "On", Width: 3},
		{Title: "Name", Width: nameWidth},
		{Title: "UUID", Width: uuidWidth},
		{Title: "WL", Width: 3},
		{Title: "OP", Width: 3},
		{Title: "Ban", Width: 3},
		{Title: "Reason / Attempts", Width: reasonWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	ri := textinput.New()
	ri.Placeholder = players.DefaultBanReason
	ri.CharLimit = 128
	ri.Width = 40

	return playersModel{
		deps:        d,
		reconciler:  r,
		toasts:      toasts,
		events:      ev,
		table:       t,
		reasonInput: ri,
		loading:     true,
		next:        RouteQuit,
	}
}

func (m playersModel) Init() tea.Cmd {
	return tea.Batch(m.events.wait(), m.refreshCmd())
}

func (m playersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.prompting != "" {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				m.prompting = ""
				m.reasonInput.Blur()
				return m, nil
			case "enter":
				name, reason := m.prompting, m.reasonInput.Value()
				m.prompting = ""
				m.reasonInput.Blur()
				return m, m.banCmd(name, reason)
			case "ctrl+c":
				m.next = RouteQuit
				return m, tea.Quit
			}
			m.reasonInput, cmd = m.reasonInput.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.next = RouteQuit
			return m, tea.Quit
		case "tab":
			m.next = RouteConsole
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refreshCmd()
		case "w":
			if p, ok := m.selected(); ok {
				return m, m.actionCmd(func(ctx context.Context, cred sdk.Credential) error {
					return m.reconciler.SetWhitelisted(ctx, cred, p.Name, !p.Whitelisted)
				})
			}
		case "o":
			if p, ok := m.selected(); ok {
				return m, m.actionCmd(func(ctx context.Context, cred sdk.Credential) error {
					return m.reconciler.SetOp(ctx, cred, p.Name, !p.Op)
				})
			}
		case "b":
			if p, ok := m.selected(); ok {
				if p.Banned {
					return m, m.actionCmd(func(ctx context.Context, cred sdk.Credential) error {
						return m.reconciler.SetBanned(ctx, cred, p.Name, false, "")
					})
				}
				m.prompting = p.Name
				m.reasonInput.SetValue(players.DefaultBanReason)
				m.reasonInput.CursorEnd()
				return m, m.reasonInput.Focus()
			}
		case "d":
			if p, ok := m.selected(); ok && p.Rejected {
				return m, m.actionCmd(func(ctx context.Context, cred sdk.Credential) error {
					return m.reconciler.DismissRejected(ctx, cred, p.Name)
				})
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 10)
		m.table.SetHeight(msg.Height - 14)

	case playersChangedMsg:
		m.updateTable()
		return m, m.events.wait()

	case toastsChangedMsg:
		return m, m.events.wait()

	case refreshDoneMsg:
		m.loading = false
		m.updateTable()
		if errors.Is(msg.err, sdk.ErrUnauthorized) {
			return m.toLogin()
		}
		return m, nil

	case actionDoneMsg:
		m.updateTable()
		if errors.Is(msg.err, sdk.ErrUnauthorized) {
			return m.toLogin()
		}
		return m, nil

	case unauthorizedMsg:
		return m.toLogin()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m playersModel) toLogin() (tea.Model, tea.Cmd) {
	_ = m.deps.Session.Clear()
	m.next = RouteLogin
	return m, tea.Quit
}

func (m playersModel) selected() (players.UnifiedPlayer, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return players.UnifiedPlayer{}, false
	}
	return m.rows[i], true
}

func (m playersModel) refreshCmd() tea.Cmd {
	r, cred := m.reconciler, m.deps.Session.Credential()
	return func() tea.Msg {
		return refreshDoneMsg{err: r.Refresh(context.Background(), cred)}
	}
}

func (m playersModel) actionCmd(fn func(context.Context, sdk.Credential) error) tea.Cmd {
	cred := m.deps.Session.Credential()
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background(), cred)}
	}
}

// banCmd returns nil for an empty reason: the ban is abandoned without a
// request.
func (m playersModel) banCmd(name, reason string) tea.Cmd {
	r, cred := m.reconciler, m.deps.Session.Credential()
	if strings.TrimSpace(reason) == "" {
		return nil
	}
	return func() tea.Msg {
		return actionDoneMsg{err: r.SetBanned(context.Background(), cred, name, true, reason)}
	}
}

func (m *playersModel) updateTable() {
	m.rows = m.reconciler.Players()

	rows := make([]table.Row, 0, len(m.rows))
	for _, p := range m.rows {
		online := "⚫"
		if p.Online {
			online = "🟢"
		}

		detail := ""
		switch {
		case p.Banned:
			detail = p.Reason
		case p.Rejected:
			detail = strconv.Itoa(p.RejectionCount) + " rejected join(s)"
		}

		rows = append(rows, table.Row{
			online,
			runewidth.Truncate(p.Name, nameWidth, "…"),
			runewidth.Truncate(orDash(p.UUID), uuidWidth, "…"),
			mark(p.Whitelisted),
			mark(p.Op),
			mark(p.Banned),
			runewidth.Truncate(detail, reasonWidth, "…"),
		})
	}
	m.table.SetRows(rows)
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (m playersModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := headerStyle.Width(m.width).Render("PLAYER MANAGER")

	online, rejected := 0, 0
	for _, p := range m.rows {
		if p.Online {
			online++
		}
		if p.Rejected {
			rejected++
		}
	}
	summary := fmt.Sprintf("Known: %d  |  Online: %d  |  Rejected: %d", len(m.rows), online, rejected)
	if m.loading {
		summary += "  |  refreshing..."
	}
	headerBox := baseStyle.
		Width(m.width-4).
		Align(lipgloss.Center).
		Render(summary)

	tableBox := baseStyle.
		Width(m.width - 4).
		Height(m.height - 12).
		Render(m.table.View())

	var footer string
	if m.prompting != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("Ban reason for %s: %s", m.prompting, m.reasonInput.View()),
			helpLine("enter", "ban", "esc", "cancel"),
		)
	} else {
		footer = helpLine("↑/↓", "navigate", "w", "whitelist", "o", "op", "b", "ban", "d", "dismiss", "r", "refresh", "tab", "console", "q", "quit")
	}
	if toasts := renderToasts(m.toasts.Active()); toasts != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, toasts, footer)
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		headerBox,
		tableBox,
		lipgloss.NewStyle().MarginLeft(2).Render(footer),
	)
}

func RunPlayers(d Deps) (Route, error) {
	ev := newEvents()
	toasts := d.newToasts()
	toasts.OnChange(func() { ev.send(toastsChangedMsg{}) })

	r := players.NewReconciler(d.Backend, toasts,
		players.WithLogger(d.logger()),
		players.OnChange(func() { ev.send(playersChangedMsg{}) }),
	)

	defer func() {
		ev.close()
		toasts.Close()
	}()

	p := tea.NewProgram(newPlayersModel(d, r, ev, toasts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return RouteQuit, fmt.Errorf("running players view: %w", err)
	}
	if m, ok := final.(playersModel); ok {
		return m.next, nil
	}
	return RouteQuit, nil
}

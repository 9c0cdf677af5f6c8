package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"papermc/internal/logger"
	"papermc/internal/notify"
	"papermc/internal/players"
	"papermc/internal/realtime"
	"papermc/internal/vitals"
	"papermc/pkg/sdk"
)

// Route is where a view hands control when its program exits.
type Route int

const (
	RouteQuit Route = iota
	RouteLogin
	RouteConsole
	RoutePlayers
)

// Backend is everything the views call on the server. *sdk.Client satisfies it.
type Backend interface {
	players.API
	Login(ctx context.Context, username, password string) (sdk.Credential, error)
	Start(ctx context.Context, cred sdk.Credential) (*sdk.StatusResponse, error)
	Stop(ctx context.Context, cred sdk.Credential) (*sdk.StatusResponse, error)
}

// Session is the credential holder shared by every view.
type Session interface {
	Credential() sdk.Credential
	Authenticated() bool
	LastUsername() string
	Set(username string, token sdk.Credential) error
	Clear() error
}

type Deps struct {
	Backend        Backend
	Session        Session
	Log            *logger.Logger
	BaseURL        string
	WebSocketURL   realtime.URLFunc
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	ToastTTL       time.Duration
}

func (d Deps) logger() *logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

func (d Deps) newToasts() *notify.Center {
	return notify.NewCenter(d.ToastTTL)
}

func (d Deps) newPoller(opts ...vitals.Option) *vitals.Poller {
	opts = append([]vitals.Option{vitals.WithInterval(d.PollInterval), vitals.WithLogger(d.logger())}, opts...)
	return vitals.NewPoller(d.Backend, d.Session, opts...)
}

// Run is the route loop: no token means the login form, a 401 anywhere lands
// back there, and tab switches between console and players.
func Run(d Deps, start Route) error {
	route := start
	for route != RouteQuit {
		if !d.Session.Authenticated() {
			route = RouteLogin
		}

		var err error
		switch route {
		case RouteLogin:
			route, err = RunLogin(d)
		case RouteConsole:
			route, err = RunConsole(d)
		case RoutePlayers:
			route, err = RunPlayers(d)
		default:
			route = RouteQuit
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Messages shared by the views.
type (
	unauthorizedMsg struct{}
	toastsChangedMsg struct{}
	vitalsMsg        sdk.Vitals
	pollFailedMsg    struct{ err error }
	pollTickMsg      time.Time
)

// events carries messages from background callbacks (socket reader, timers)
// into the running program. Sends block until the program takes the message or
// the view is torn down.
type events struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newEvents() *events {
	return &events{ch: make(chan tea.Msg, 16), done: make(chan struct{})}
}

func (e *events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	case <-e.done:
	}
}

func (e *events) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-e.ch:
			return msg
		case <-e.done:
			return nil
		}
	}
}

func (e *events) close() {
	e.once.Do(func() { close(e.done) })
}

func pollCmd(p *vitals.Poller) tea.Cmd {
	return func() tea.Msg {
		if err := p.Poll(context.Background()); err != nil {
			return pollFailedMsg{err: err}
		}
		if v := p.Snapshot(); v != nil {
			return vitalsMsg(*v)
		}
		return nil
	}
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

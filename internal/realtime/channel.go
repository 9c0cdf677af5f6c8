// Package realtime owns the console websocket: one connection to the backend
// carrying log lines in and commands out, reconnected on a fixed delay until the
// owner tears it down.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"papermc/internal/logger"
	"papermc/pkg/sdk"
)

const DefaultReconnectDelay = 3 * time.Second

var (
	ErrNoCredential = errors.New("realtime: no session token")
	ErrStopped      = errors.New("realtime: channel stopped")
)

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// URLFunc builds the websocket URL for a credential. The token travels as a query
// parameter because browsers cannot set headers on the upgrade request and the
// backend accepts it only there.
type URLFunc func(cred sdk.Credential) (string, error)

type Channel struct {
	urlFor URLFunc
	dialer *websocket.Dialer
	delay  time.Duration
	log    *logger.Logger

	onLine         func(string)
	onState        func(State)
	onError        func(string)
	onUnauthorized func()

	mu     sync.Mutex
	state  State
	cred   sdk.Credential
	conn   *websocket.Conn
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	lines  []string

	writeMu sync.Mutex
}

type Option func(*Channel)

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) { c.delay = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Channel) { c.log = l.Named("realtime") }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Channel) { c.dialer = d }
}

// OnLine is called from the read goroutine for every log line, in arrival order.
func OnLine(fn func(string)) Option {
	return func(c *Channel) { c.onLine = fn }
}

func OnState(fn func(State)) Option {
	return func(c *Channel) { c.onState = fn }
}

// OnError receives the data of "error" frames. They never enter the transcript.
func OnError(fn func(string)) Option {
	return func(c *Channel) { c.onError = fn }
}

// OnUnauthorized is called when the backend refuses the upgrade with 401. The
// channel stops instead of retrying a token that will keep failing.
func OnUnauthorized(fn func()) Option {
	return func(c *Channel) { c.onUnauthorized = fn }
}

func New(urlFor URLFunc, opts ...Option) *Channel {
	c := &Channel{
		urlFor: urlFor,
		dialer: websocket.DefaultDialer,
		delay:  DefaultReconnectDelay,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the channel with cred. Without a token the channel stays idle.
func (c *Channel) Start(cred sdk.Credential) error {
	if cred.Empty() {
		return ErrNoCredential
	}

	c.mu.Lock()
	switch c.state {
	case StateStopped:
		c.mu.Unlock()
		return ErrStopped
	case StateIdle:
	default:
		c.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.cred = cred
	c.state = StateConnecting
	gen := c.gen
	c.mu.Unlock()

	c.notifyState(StateConnecting)
	go c.connect(ctx, gen)
	return nil
}

func (c *Channel) connect(ctx context.Context, gen uint64) {
	c.mu.Lock()
	cred := c.cred
	c.mu.Unlock()

	var (
		conn *websocket.Conn
		resp *http.Response
	)
	wsURL, err := c.urlFor(cred)
	if err == nil {
		conn, resp, err = c.dialer.DialContext(ctx, wsURL, nil)
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			c.log.Warnw("backend rejected console token")
			c.stopLocked()
			c.mu.Unlock()
			c.notifyState(StateStopped)
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return
		}
		c.log.Warnw("console connection failed", "error", err, "retry_in", c.delay)
		c.state = StateClosed
		c.scheduleLocked(ctx, gen)
		c.mu.Unlock()
		c.notifyState(StateClosed)
		return
	}

	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	c.log.Infow("console connected")
	c.notifyState(StateOpen)
	c.readLoop(ctx, conn, gen)
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Debugw("console read ended", "error", err)
			break
		}
		c.handleFrame(data, gen)
	}
	conn.Close()

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = StateClosed
	c.scheduleLocked(ctx, gen)
	c.mu.Unlock()

	c.log.Infow("console connection lost", "retry_in", c.delay)
	c.notifyState(StateClosed)
}

func (c *Channel) handleFrame(data []byte, gen uint64) {
	var frame sdk.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.log.Debugw("discarding malformed frame", "error", err, "size", len(data))
		return
	}

	switch frame.Type {
	case sdk.FrameLog:
		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return
		}
		c.lines = append(c.lines, frame.Data)
		c.mu.Unlock()
		if c.onLine != nil {
			c.onLine(frame.Data)
		}
	case sdk.FrameError:
		c.log.Warnw("backend reported console error", "message", frame.Data)
		if c.onError != nil {
			c.onError(frame.Data)
		}
	default:
		c.log.Debugw("ignoring frame", "type", frame.Type)
	}
}

func (c *Channel) scheduleLocked(ctx context.Context, gen uint64) {
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		if gen != c.gen || c.state != StateClosed {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.mu.Unlock()

		c.notifyState(StateConnecting)
		c.connect(ctx, gen)
	})
}

// SendCommand writes a command frame if the channel is open. Otherwise the
// command is dropped; nothing is queued for a later reconnect.
func (c *Channel) SendCommand(text string) {
	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		c.log.Debugw("dropping command, console not open", "command", text)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(sdk.Frame{Type: sdk.FrameCommand, Data: text}); err != nil {
		c.log.Warnw("failed to send command", "error", err)
	}
}

// Close tears the channel down for good: the connection is closed, any pending
// reconnect is cancelled and late callbacks from the old connection are ignored.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return nil
	}
	conn := c.stopLocked()
	c.mu.Unlock()

	c.notifyState(StateStopped)

	if conn == nil {
		return nil
	}
	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *Channel) stopLocked() *websocket.Conn {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateStopped
	return conn
}

func (c *Channel) notifyState(s State) {
	if c.onState != nil {
		c.onState(s)
	}
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) Connected() bool {
	return c.State() == StateOpen
}

// Lines returns a copy of every log line received since Start.
func (c *Channel) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// LinesSince returns the lines after the first n, for views that render
// incrementally.
func (c *Channel) LinesSince(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n >= len(c.lines) {
		return nil
	}
	out := make([]string, len(c.lines)-n)
	copy(out, c.lines[n:])
	return out
}

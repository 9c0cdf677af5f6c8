// Package notify keeps the short-lived outcome messages shown after every
// mutating action.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"papermc/pkg/sdk"
)

const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Toast struct {
	ID      string
	Message string
	Kind    Kind
}

// Center holds the live toasts. Each one removes itself once its TTL elapses.
type Center struct {
	ttl      time.Duration
	onChange func()

	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// OnChange registers a callback fired after a toast is added or expires. The TUI
// uses it to schedule a redraw.
func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Center) Push(kind Kind, message string) Toast {
	t := Toast{ID: uuid.NewString(), Message: message, Kind: kind}

	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	c.timers[t.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(t.ID) })
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return t
}

func (c *Center) Success(message string) Toast { return c.Push(KindSuccess, message) }

func (c *Center) Error(message string) Toast { return c.Push(KindError, message) }

// Dismiss removes a toast before its TTL. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	idx := -1
	for i, t := range c.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	c.toasts = append(c.toasts[:idx], c.toasts[idx+1:]...)
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Active returns the live toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Close stops every pending expiry timer.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
}

// Failure pushes the error toast for err. Connectivity problems read differently
// from a rejection by the backend.
func (c *Center) Failure(err error) Toast {
	return c.Error(FailureMessage(err))
}

func FailureMessage(err error) string {
	switch {
	case errors.Is(err, sdk.ErrUnauthorized):
		return "Session expired, please log in again"
	case sdk.IsNetwork(err):
		return "Network error: backend unreachable"
	}
	if msg := sdk.ServerMessage(err); msg != "" {
		return msg
	}
	return "Action failed"
}

// Package vitals polls the backend's /status endpoint and formats the snapshot
// for display.
package vitals

import (
	"context"
	"errors"
	"sync"
	"time"

	"papermc/internal/logger"
	"papermc/pkg/sdk"
)

const DefaultInterval = 10 * time.Second

var ErrNoSession = errors.New("vitals: not logged in")

type StatusAPI interface {
	Status(ctx context.Context, cred sdk.Credential) (*sdk.Vitals, error)
}

// Session is read once per poll and cleared on a 401.
type Session interface {
	Credential() sdk.Credential
	Clear() error
}

type Poller struct {
	api      StatusAPI
	session  Session
	interval time.Duration
	log      *logger.Logger

	onUpdate       func(sdk.Vitals)
	onUnauthorized func()

	mu       sync.Mutex
	issued   uint64
	applied  uint64
	snapshot *sdk.Vitals
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Poller) { p.log = l.Named("vitals") }
}

func OnUpdate(fn func(sdk.Vitals)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

func OnUnauthorized(fn func()) Option {
	return func(p *Poller) { p.onUnauthorized = fn }
}

func NewPoller(api StatusAPI, session Session, opts ...Option) *Poller {
	p := &Poller{api: api, session: session, interval: DefaultInterval, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls immediately and then on every interval until ctx is done or the
// backend answers 401.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Poll(ctx); errors.Is(err, sdk.ErrUnauthorized) || errors.Is(err, ErrNoSession) {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll fetches one snapshot. A response that lands after a newer one has been
// applied is dropped.
func (p *Poller) Poll(ctx context.Context) error {
	cred := p.session.Credential()
	if cred.Empty() {
		return ErrNoSession
	}

	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	v, err := p.api.Status(ctx, cred)
	if err != nil {
		if errors.Is(err, sdk.ErrUnauthorized) {
			p.log.Warnw("status poll unauthorized, clearing session")
			if clearErr := p.session.Clear(); clearErr != nil {
				p.log.Errorw("failed to clear session", "error", clearErr)
			}
			if p.onUnauthorized != nil {
				p.onUnauthorized()
			}
			return err
		}
		if ctx.Err() == nil {
			p.log.Debugw("status poll failed, keeping last snapshot", "error", err)
		}
		return err
	}

	p.mu.Lock()
	if seq < p.applied {
		p.mu.Unlock()
		p.log.Debugw("dropping stale status response", "seq", seq, "applied", p.applied)
		return nil
	}
	p.applied = seq
	p.snapshot = v
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(*v)
	}
	return nil
}

// Snapshot returns the last applied vitals, or nil before the first success.
func (p *Poller) Snapshot() *sdk.Vitals {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return nil
	}
	v := *p.snapshot
	return &v
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

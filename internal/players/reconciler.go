package players

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"papermc/internal/logger"
	"papermc/internal/notify"
	"papermc/pkg/sdk"
)

// DefaultBanReason prefills the reason prompt.
const DefaultBanReason = "Violating rules"

var ErrReasonRequired = errors.New("a ban reason is required")

// API is the part of the backend client the reconciler talks to. *sdk.Client
// satisfies it.
type API interface {
	ListWhitelist(ctx context.Context, cred sdk.Credential) ([]sdk.Player, error)
	ListBanned(ctx context.Context, cred sdk.Credential) ([]sdk.Player, error)
	ListOps(ctx context.Context, cred sdk.Credential) ([]sdk.Player, error)
	ListRejected(ctx context.Context, cred sdk.Credential) ([]sdk.RejectedPlayer, error)
	Status(ctx context.Context, cred sdk.Credential) (*sdk.Vitals, error)

	AddWhitelist(ctx context.Context, cred sdk.Credential, username string) (*sdk.StatusResponse, error)
	RemoveWhitelist(ctx context.Context, cred sdk.Credential, username string) (*sdk.StatusResponse, error)
	Ban(ctx context.Context, cred sdk.Credential, username, reason string) (*sdk.StatusResponse, error)
	Unban(ctx context.Context, cred sdk.Credential, username string) (*sdk.StatusResponse, error)
	SetOp(ctx context.Context, cred sdk.Credential, username string, op bool) (*sdk.StatusResponse, error)
	DismissRejected(ctx context.Context, cred sdk.Credential, username string) (*sdk.StatusResponse, error)
}

type Reconciler struct {
	api    API
	toasts *notify.Center
	log    *logger.Logger

	onUnauthorized func()
	onChange       func()

	mu     sync.RWMutex
	src    Sources
	loaded bool
}

type Option func(*Reconciler)

func WithLogger(l *logger.Logger) Option {
	return func(r *Reconciler) { r.log = l.Named("players") }
}

// OnUnauthorized is called once per operation that hit a 401.
func OnUnauthorized(fn func()) Option {
	return func(r *Reconciler) { r.onUnauthorized = fn }
}

// OnChange is called after any source commits.
func OnChange(fn func()) Option {
	return func(r *Reconciler) { r.onChange = fn }
}

func NewReconciler(api API, toasts *notify.Center, opts ...Option) *Reconciler {
	r := &Reconciler{api: api, toasts: toasts, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh reads the five sources concurrently. Each successful read is committed
// as soon as it lands; a failed read keeps that source's previous value. The
// returned error joins the failures, or is sdk.ErrUnauthorized on a 401.
func (r *Reconciler) Refresh(ctx context.Context, cred sdk.Credential) error {
	var (
		g        errgroup.Group
		errMu    sync.Mutex
		failures []error
	)
	fail := func(source string, err error) {
		r.log.Warnw("failed to load player source", "source", source, "error", err)
		errMu.Lock()
		failures = append(failures, fmt.Errorf("%s: %w", source, err))
		errMu.Unlock()
	}

	// The goroutines report through fail and always return nil so one failure
	// never cancels or hides the others.
	g.Go(func() error {
		list, err := r.api.ListWhitelist(ctx, cred)
		if err != nil {
			fail("whitelist", err)
			return nil
		}
		r.commit(func(s *Sources) { s.Whitelist = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.api.ListBanned(ctx, cred)
		if err != nil {
			fail("banned", err)
			return nil
		}
		r.commit(func(s *Sources) { s.Banned = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.api.ListOps(ctx, cred)
		if err != nil {
			fail("ops", err)
			return nil
		}
		r.commit(func(s *Sources) { s.Ops = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.api.ListRejected(ctx, cred)
		if err != nil {
			fail("rejected", err)
			return nil
		}
		r.commit(func(s *Sources) { s.Rejected = list })
		return nil
	})
	g.Go(func() error {
		vitals, err := r.api.Status(ctx, cred)
		if err != nil {
			fail("online", err)
			return nil
		}
		r.commit(func(s *Sources) { s.Online = vitals.PlayerList })
		return nil
	})
	_ = g.Wait()

	r.mu.Lock()
	r.loaded = true
	r.mu.Unlock()

	err := errors.Join(failures...)
	if errors.Is(err, sdk.ErrUnauthorized) {
		r.unauthorized()
		return sdk.ErrUnauthorized
	}
	return err
}

func (r *Reconciler) commit(apply func(*Sources)) {
	r.mu.Lock()
	apply(&r.src)
	r.mu.Unlock()
	if r.onChange != nil {
		r.onChange()
	}
}

func (r *Reconciler) Sources() Sources {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.src
}

// Players returns the unified view of the currently committed sources.
func (r *Reconciler) Players() []UnifiedPlayer {
	return Merge(r.Sources())
}

// Loaded reports whether at least one Refresh has settled.
func (r *Reconciler) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *Reconciler) SetWhitelisted(ctx context.Context, cred sdk.Credential, name string, whitelisted bool) error {
	if whitelisted {
		return r.mutate(ctx, cred, "Added "+name+" to the whitelist", func() (*sdk.StatusResponse, error) {
			return r.api.AddWhitelist(ctx, cred, name)
		})
	}
	return r.mutate(ctx, cred, "Removed "+name+" from the whitelist", func() (*sdk.StatusResponse, error) {
		return r.api.RemoveWhitelist(ctx, cred, name)
	})
}

// SetBanned bans with reason, or lifts the ban. Banning without a reason fails
// locally with ErrReasonRequired.
func (r *Reconciler) SetBanned(ctx context.Context, cred sdk.Credential, name string, banned bool, reason string) error {
	if !banned {
		return r.mutate(ctx, cred, "Unbanned "+name, func() (*sdk.StatusResponse, error) {
			return r.api.Unban(ctx, cred, name)
		})
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	return r.mutate(ctx, cred, "Banned "+name, func() (*sdk.StatusResponse, error) {
		return r.api.Ban(ctx, cred, name, reason)
	})
}

func (r *Reconciler) SetOp(ctx context.Context, cred sdk.Credential, name string, op bool) error {
	done := "Removed operator status from " + name
	if op {
		done = "Made " + name + " an operator"
	}
	return r.mutate(ctx, cred, done, func() (*sdk.StatusResponse, error) {
		return r.api.SetOp(ctx, cred, name, op)
	})
}

func (r *Reconciler) DismissRejected(ctx context.Context, cred sdk.Credential, name string) error {
	return r.mutate(ctx, cred, "Dismissed rejected attempts from "+name, func() (*sdk.StatusResponse, error) {
		return r.api.DismissRejected(ctx, cred, name)
	})
}

// mutate issues one request and pushes exactly one toast for its outcome. Only
// a success triggers a refresh.
func (r *Reconciler) mutate(ctx context.Context, cred sdk.Credential, fallback string, call func() (*sdk.StatusResponse, error)) error {
	resp, err := call()
	if err != nil {
		r.log.Warnw("player action failed", "action", fallback, "error", err)
		r.toasts.Failure(err)
		if errors.Is(err, sdk.ErrUnauthorized) {
			r.unauthorized()
		}
		return err
	}

	msg := fallback
	if resp != nil && resp.Status != "" {
		msg = resp.Status
	}
	r.toasts.Success(msg)

	if err := r.Refresh(ctx, cred); err != nil {
		r.log.Debugw("refresh after action incomplete", "error", err)
	}
	return nil
}

func (r *Reconciler) unauthorized() {
	if r.onUnauthorized != nil {
		r.onUnauthorized()
	}
}

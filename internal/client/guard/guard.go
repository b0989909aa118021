// Package guard decides, once per page mount, whether the caller may see the
// page or must be redirected.
//
// An evaluation reads the session store, confirms a present credential with
// the server and then redirects according to the page's Policy. The guard
// never writes to the store. Every failure (no credential, store error,
// rejected credential, unreachable server) folds into Unauthenticated.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/logging"
)

// ErrUnmounted is returned by Mount.Wait when the page went away before the
// evaluation finished.
var ErrUnmounted = errors.New("guard: unmounted before resolution")

// CredentialReader is the read half of the session store.
type CredentialReader interface {
	Get(ctx context.Context) (string, bool, error)
}

// ProfileFetcher confirms a credential with the server.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*models.Profile, error)
}

// Navigator performs a redirect. It is called with the mount's lock held and
// must not call back into the Mount.
type Navigator interface {
	Navigate(path string)
}

type Option func(*Guard)

// WithLanding sets where signed-in callers of guest pages are sent.
func WithLanding(path string) Option {
	return func(g *Guard) { g.landing = path }
}

// WithLogin sets where anonymous callers of protected pages are sent.
func WithLogin(path string) Option {
	return func(g *Guard) { g.login = path }
}

type Guard struct {
	store    CredentialReader
	profiles ProfileFetcher
	nav      Navigator
	log      logging.Logger
	landing  string
	login    string
}

func New(store CredentialReader, profiles ProfileFetcher, nav Navigator, log logging.Logger, opts ...Option) *Guard {
	g := &Guard{
		store:    store,
		profiles: profiles,
		nav:      nav,
		log:      log,
		landing:  common.PathTasks,
		login:    common.PathLogin,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Mount starts the single evaluation for a new page instance and returns
// immediately. The policy cannot change for the lifetime of the mount.
func (g *Guard) Mount(ctx context.Context, policy Policy) *Mount {
	ctx, cancel := context.WithCancel(ctx)
	m := &Mount{
		guard:   g,
		policy:  policy,
		cancel:  cancel,
		mounted: true,
		done:    make(chan struct{}),
	}
	go m.evaluate(ctx)
	return m
}

// check never fails: anything that is not a confirmed profile is
// Unauthenticated.
func (g *Guard) check(ctx context.Context) (State, *models.Profile) {
	_, ok, err := g.store.Get(ctx)
	if err != nil {
		g.log.Warn(ctx, "guard: session store read failed", "error", err)
		return Unauthenticated, nil
	}
	if !ok {
		g.log.Debug(ctx, "guard: no stored credential")
		return Unauthenticated, nil
	}

	p, err := g.profiles.Profile(ctx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			g.log.Debug(ctx, "guard: validation abandoned", "error", err)
		case errors.Is(err, common.ErrUnauthorized):
			g.log.Debug(ctx, "guard: credential rejected", "error", err)
		default:
			g.log.Warn(ctx, "guard: credential validation failed", "error", err)
		}
		return Unauthenticated, nil
	}
	return Authenticated, p
}

// destination returns the redirect target for a resolved state, or "".
func (g *Guard) destination(policy Policy, s State) string {
	switch {
	case s == Authenticated && policy == RequireGuest:
		return g.landing
	case s == Unauthenticated && policy == RequireAuthenticated:
		return g.login
	}
	return ""
}

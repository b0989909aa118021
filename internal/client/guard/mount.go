package guard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tasklist/internal/client/models"
)

// Mount is one page instance's view of the guard.
type Mount struct {
	guard  *Guard
	policy Policy
	cancel context.CancelFunc

	mu       sync.Mutex
	mounted  bool
	state    State
	profile  *models.Profile
	redirect string
	subs     []chan State
	done     chan struct{}
}

func (m *Mount) evaluate(ctx context.Context) {
	defer m.cancel()

	state, profile := m.guard.check(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mounted {
		m.guard.log.Debug(ctx, "guard: result dropped, page unmounted", "state", state.String())
		return
	}

	m.state = state
	m.profile = profile
	m.redirect = m.guard.destination(m.policy, state)
	m.guard.log.Debug(ctx, "guard: resolved",
		"policy", m.policy.String(), "state", state.String(), "redirect", m.redirect)
	if m.redirect != "" {
		m.guard.nav.Navigate(m.redirect)
	}
	m.finishLocked()
}

// finishLocked wakes waiters and subscribers. A subscriber receives the
// state only if the mount resolved.
func (m *Mount) finishLocked() {
	for _, ch := range m.subs {
		if m.state.Resolved() {
			ch <- m.state
		}
		close(ch)
	}
	m.subs = nil
	close(m.done)
}

// Policy returns the audience the mount was created with.
func (m *Mount) Policy() Policy { return m.policy }

func (m *Mount) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Profile is the confirmed user, or nil unless the state is Authenticated.
func (m *Mount) Profile() *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Redirect is the path the mount navigated to, or "" if it did not.
func (m *Mount) Redirect() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redirect
}

// Subscribe returns a channel that delivers the resolved state once and is
// then closed. If the mount is unmounted first the channel is closed without
// a value.
func (m *Mount) Subscribe() <-chan State {
	ch := make(chan State, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		if m.state.Resolved() {
			ch <- m.state
		}
		close(ch)
	default:
		m.subs = append(m.subs, ch)
	}
	return ch
}

// Wait blocks until the mount resolves or is unmounted.
func (m *Mount) Wait(ctx context.Context) (State, error) {
	select {
	case <-m.done:
	case <-ctx.Done():
		return Unknown, ctx.Err()
	}
	s := m.State()
	if !s.Resolved() {
		return Unknown, ErrUnmounted
	}
	return s, nil
}

// Unmount detaches the page. Once it returns no state is written and no
// navigation happens for this mount. Calling it again is a no-op.
func (m *Mount) Unmount() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.mounted {
		return
	}
	m.mounted = false
	m.cancel()
	if !m.state.Resolved() {
		m.finishLocked()
	}
}

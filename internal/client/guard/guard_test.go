package guard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklist/internal/apitest"
	"github.com/dmitrijs2005/tasklist/internal/client/api"
	"github.com/dmitrijs2005/tasklist/internal/client/models"
	"github.com/dmitrijs2005/tasklist/internal/client/services"
	"github.com/dmitrijs2005/tasklist/internal/client/session"
	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recNav) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fakeProfiles struct {
	profile  *models.Profile
	err      error
	block    chan struct{}
	calls    atomic.Int32
	returned atomic.Bool
}

func (f *fakeProfiles) Profile(ctx context.Context) (*models.Profile, error) {
	f.calls.Add(1)
	defer f.returned.Store(true)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.profile, f.err
}

type brokenStore struct{}

func (brokenStore) Get(context.Context) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func storeWith(t *testing.T, cred string) *session.MemoryStore {
	t.Helper()
	s := session.NewMemoryStore()
	if cred != "" {
		require.NoError(t, s.Set(context.Background(), cred))
	}
	return s
}

func wait(t *testing.T, m *Mount) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := m.Wait(ctx)
	require.NoError(t, err)
	return s
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "pending", Unknown.String())
	assert.Equal(t, "true", Authenticated.String())
	assert.Equal(t, "false", Unauthenticated.String())
	assert.False(t, Unknown.Resolved())
	assert.True(t, Unauthenticated.Resolved())
}

func TestRedirectMatrix(t *testing.T) {
	cases := []struct {
		name    string
		policy  Policy
		profErr error
		want    State
		wantNav []string
	}{
		{"auth page, valid", RequireAuthenticated, nil, Authenticated, nil},
		{"auth page, rejected", RequireAuthenticated, common.ErrUnauthorized, Unauthenticated, []string{common.PathLogin}},
		{"auth page, unreachable", RequireAuthenticated, common.ErrUnavailable, Unauthenticated, []string{common.PathLogin}},
		{"guest page, valid", RequireGuest, nil, Authenticated, []string{common.PathTasks}},
		{"guest page, rejected", RequireGuest, common.ErrUnauthorized, Unauthenticated, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := &recNav{}
			fp := &fakeProfiles{profile: &models.Profile{Username: "alice"}, err: tc.profErr}
			g := New(storeWith(t, "tok"), fp, nav, logging.Nop())

			m := g.Mount(context.Background(), tc.policy)
			assert.Equal(t, tc.want, wait(t, m))
			assert.Equal(t, tc.wantNav, nav.Paths())
			assert.Equal(t, int32(1), fp.calls.Load())
			assert.Equal(t, tc.policy, m.Policy())
			if tc.want == Authenticated {
				require.NotNil(t, m.Profile())
				assert.Equal(t, "alice", m.Profile().Username)
			} else {
				assert.Nil(t, m.Profile())
			}
		})
	}
}

func TestEmptyStore_NoNetworkCall(t *testing.T) {
	for _, p := range []Policy{RequireAuthenticated, RequireGuest} {
		nav := &recNav{}
		fp := &fakeProfiles{}
		g := New(storeWith(t, ""), fp, nav, logging.Nop())

		assert.Equal(t, Unauthenticated, wait(t, g.Mount(context.Background(), p)))
		assert.Zero(t, fp.calls.Load())
	}
}

func TestStoreReadError_FoldsIntoUnauthenticated(t *testing.T) {
	nav := &recNav{}
	fp := &fakeProfiles{}
	g := New(brokenStore{}, fp, nav, logging.Nop())

	m := g.Mount(context.Background(), RequireAuthenticated)
	assert.Equal(t, Unauthenticated, wait(t, m))
	assert.Equal(t, []string{common.PathLogin}, nav.Paths())
	assert.Zero(t, fp.calls.Load())
}

func TestOptions_OverrideDestinations(t *testing.T) {
	nav := &recNav{}
	g := New(storeWith(t, ""), &fakeProfiles{}, nav, logging.Nop(), WithLogin("/signin"), WithLanding("/home"))
	wait(t, g.Mount(context.Background(), RequireAuthenticated))

	g2 := New(storeWith(t, "x"), &fakeProfiles{profile: &models.Profile{}}, nav, logging.Nop(), WithLanding("/home"))
	wait(t, g2.Mount(context.Background(), RequireGuest))

	assert.Equal(t, []string{"/signin", "/home"}, nav.Paths())
}

func TestUnmountBeforeResolution(t *testing.T) {
	nav := &recNav{}
	fp := &fakeProfiles{profile: &models.Profile{}, block: make(chan struct{})}
	g := New(storeWith(t, "tok"), fp, nav, logging.Nop())

	m := g.Mount(context.Background(), RequireGuest)
	sub := m.Subscribe()
	require.Eventually(t, func() bool { return fp.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	m.Unmount()
	require.Eventually(t, fp.returned.Load, time.Second, 5*time.Millisecond, "unmount must cancel the request")

	_, ok := <-sub
	assert.False(t, ok, "subscriber must see a closed channel without a value")
	assert.Equal(t, Unknown, m.State())
	assert.Empty(t, nav.Paths())
	assert.Empty(t, m.Redirect())

	_, err := m.Wait(context.Background())
	assert.ErrorIs(t, err, ErrUnmounted)

	// late subscribers get the same answer
	_, ok = <-m.Subscribe()
	assert.False(t, ok)

	m.Unmount()
}

func TestUnmountAfterResolution_KeepsState(t *testing.T) {
	nav := &recNav{}
	g := New(storeWith(t, ""), &fakeProfiles{}, nav, logging.Nop())

	m := g.Mount(context.Background(), RequireAuthenticated)
	wait(t, m)
	m.Unmount()

	assert.Equal(t, Unauthenticated, m.State())
	assert.Equal(t, common.PathLogin, m.Redirect())
	s, ok := <-m.Subscribe()
	require.True(t, ok)
	assert.Equal(t, Unauthenticated, s)
	assert.Len(t, nav.Paths(), 1)
}

func TestSubscribe_ManySubscribersEachGetOneValue(t *testing.T) {
	fp := &fakeProfiles{profile: &models.Profile{}, block: make(chan struct{})}
	g := New(storeWith(t, "tok"), fp, &recNav{}, logging.Nop())
	m := g.Mount(context.Background(), RequireAuthenticated)

	subs := []<-chan State{m.Subscribe(), m.Subscribe(), m.Subscribe()}
	assert.Equal(t, Unknown, m.State())
	close(fp.block)

	for _, ch := range subs {
		var got []State
		for s := range ch {
			got = append(got, s)
		}
		assert.Equal(t, []State{Authenticated}, got)
	}
}

func TestWait_ContextDone(t *testing.T) {
	fp := &fakeProfiles{block: make(chan struct{})}
	g := New(storeWith(t, "tok"), fp, &recNav{}, logging.Nop())
	m := g.Mount(context.Background(), RequireAuthenticated)
	defer m.Unmount()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIndependentMountsAgree(t *testing.T) {
	fp := &fakeProfiles{profile: &models.Profile{Username: "a"}}
	g := New(storeWith(t, "tok"), fp, &recNav{}, logging.Nop())

	a := g.Mount(context.Background(), RequireAuthenticated)
	b := g.Mount(context.Background(), RequireAuthenticated)
	assert.Equal(t, wait(t, a), wait(t, b))
	assert.Equal(t, int32(2), fp.calls.Load(), "each mount evaluates once")
}

// ---- against the fake API ----

func newLive(t *testing.T, store session.Store) (*apitest.Server, *Guard, *recNav, services.AuthService) {
	t.Helper()
	srv := apitest.New(t)
	auth := services.NewAuthService(api.New(srv.BaseURL(), store))
	nav := &recNav{}
	return srv, New(store, auth, nav, logging.Nop()), nav, auth
}

func TestScenarioA_EmptyStoreRedirectsWithoutHTTP(t *testing.T) {
	srv, g, nav, _ := newLive(t, storeWith(t, ""))

	assert.Equal(t, Unauthenticated, wait(t, g.Mount(context.Background(), RequireAuthenticated)))
	assert.Equal(t, []string{"/login"}, nav.Paths())
	assert.Empty(t, srv.Requests())
}

func TestScenarioB_GuestPageWithValidCredential(t *testing.T) {
	store := session.NewMemoryStore()
	srv, g, nav, _ := newLive(t, store)
	uid := srv.AddUser("Alice", "alice", "alice@example.org", "secret1")
	require.NoError(t, store.Set(context.Background(), srv.Token(uid)))

	m := g.Mount(context.Background(), RequireGuest)
	assert.Equal(t, Authenticated, wait(t, m))
	assert.Equal(t, []string{"/tasks"}, nav.Paths())
	assert.Equal(t, "alice", m.Profile().Username)
	assert.Equal(t, 1, srv.Count("GET", "/me"))
}

func TestScenarioC_RejectedCredentialLeavesStoreAlone(t *testing.T) {
	store := storeWith(t, "expired")
	srv, g, nav, _ := newLive(t, store)

	assert.Equal(t, Unauthenticated, wait(t, g.Mount(context.Background(), RequireAuthenticated)))
	assert.Equal(t, []string{"/login"}, nav.Paths())

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer expired", reqs[0].Authorization)

	cred, ok, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "expired", cred)
}

func TestScenarioD_LoginThenProtectedPage(t *testing.T) {
	store := session.NewMemoryStore()
	srv, g, nav, auth := newLive(t, store)
	srv.AddUser("Alice", "alice", "alice@example.org", "secret1")

	ctx := context.Background()
	tok, err := auth.Login(ctx, models.LoginRequest{Email: "alice@example.org", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, tok))

	m := g.Mount(ctx, RequireAuthenticated)
	assert.Equal(t, Authenticated, wait(t, m))
	assert.Empty(t, nav.Paths())
	assert.Equal(t, "Bearer "+tok, srv.Requests()[1].Authorization)
}

func TestUnmountRace_HeldProfileRequest(t *testing.T) {
	store := session.NewMemoryStore()
	srv, g, nav, _ := newLive(t, store)
	uid := srv.AddUser("Alice", "alice", "alice@example.org", "secret1")
	require.NoError(t, store.Set(context.Background(), srv.Token(uid)))

	release := srv.HoldProfile()
	defer release()

	m := g.Mount(context.Background(), RequireGuest)
	require.Eventually(t, func() bool { return srv.Count("GET", "/me") == 1 }, 2*time.Second, 5*time.Millisecond)

	m.Unmount()
	release()

	_, err := m.Wait(context.Background())
	assert.ErrorIs(t, err, ErrUnmounted)
	assert.Equal(t, Unknown, m.State())
	assert.Empty(t, nav.Paths())
}

package goSession

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/permission"
	"github.com/MrEthical07/goSession/session"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// plainVerifier keeps tests fast; hashes are "plain:<password>".
type plainVerifier struct{}

func (plainVerifier) Verify(plain, hash string) (bool, error) {
	return "plain:"+plain == hash, nil
}

// faultyStore injects errors on selected operations.
type faultyStore struct {
	session.Store
	fetchErr  error
	createErr error
	deleteErr error
	renewErr  error
	sweepErr  error
}

func (f *faultyStore) Create(ctx context.Context, userID, token string, exp time.Time) (*session.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.Store.Create(ctx, userID, token, exp)
}

func (f *faultyStore) FetchWithUser(ctx context.Context, token string) (*session.Session, *account.User, error) {
	if f.fetchErr != nil {
		return nil, nil, f.fetchErr
	}
	return f.Store.FetchWithUser(ctx, token)
}

func (f *faultyStore) Renew(ctx context.Context, id string, exp time.Time) error {
	if f.renewErr != nil {
		return f.renewErr
	}
	return f.Store.Renew(ctx, id, exp)
}

func (f *faultyStore) DeleteByToken(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Store.DeleteByToken(ctx, token)
}

func (f *faultyStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	if f.sweepErr != nil {
		return 0, f.sweepErr
	}
	return f.Store.SweepExpired(ctx, now)
}

type engineFixture struct {
	engine   *Engine
	users    *account.MemoryStore
	sessions *session.MemoryStore
	store    *faultyStore
	clock    *testClock
	sink     *ChannelSink
}

func newEngineFixture(t *testing.T, mutate func(*Config)) *engineFixture {
	t.Helper()

	users := account.NewMemoryStore()
	sessions := session.NewMemoryStore(users)
	users.HasDependents = sessions.HasUserSessions
	store := &faultyStore{Store: sessions}
	clock := newTestClock()
	sink := NewChannelSink(256)

	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("engine-test-secret")
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().
		WithConfig(cfg).
		WithSessionStore(store).
		WithUsers(users).
		WithPasswordVerifier(plainVerifier{}).
		WithAuditSink(sink).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	return &engineFixture{
		engine:   engine,
		users:    users,
		sessions: sessions,
		store:    store,
		clock:    clock,
		sink:     sink,
	}
}

func (f *engineFixture) addUser(t *testing.T, username, password string, role permission.Role, active bool) *account.User {
	t.Helper()
	now := f.clock.Now()
	u := &account.User{
		ID:           "id-" + username,
		Username:     username,
		PasswordHash: "plain:" + password,
		Name:         "Nome " + username,
		Role:         role,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.users.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

// login performs a successful login and returns the issued token.
func (f *engineFixture) login(t *testing.T, area Area, username, password string) string {
	t.Helper()
	out := f.engine.Login(context.Background(), LoginRequest{Area: area, Username: username, Password: password})
	if out.Kind != OutcomeRedirect || out.Cookie != CookieSet || out.Token == "" {
		t.Fatalf("login did not succeed: %+v", out)
	}
	return out.Token
}

func (f *engineFixture) waitEvent(t *testing.T, eventType string) AuditEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-f.sink.Events():
			if ev.Kind == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s audit event", eventType)
		}
	}
}

func queryParam(t *testing.T, location, key string) string {
	t.Helper()
	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse %q: %v", location, err)
	}
	return u.Query().Get(key)
}

func expectRedirect(t *testing.T, out Outcome, target string, flash FlashKind, msg string) {
	t.Helper()
	if out.Kind != OutcomeRedirect {
		t.Fatalf("expected redirect, got %s (%v)", out.Kind, out.Reason)
	}
	if out.Target != target {
		t.Fatalf("target = %q, want %q", out.Target, target)
	}
	if out.Flash != flash {
		t.Fatalf("flash = %q, want %q", out.Flash.Param(), flash.Param())
	}
	if got := queryParam(t, out.Location(), flash.Param()); got != msg {
		t.Fatalf("message = %q, want %q", got, msg)
	}
}

package goSession

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/permission"
	"github.com/MrEthical07/goSession/session"
)

// versionedVerifier accepts "plain:<pw>" and "v2:<pw>" and upgrades the
// former to the latter.
type versionedVerifier struct {
	hashErr error
}

func (versionedVerifier) Verify(plain, hash string) (bool, error) {
	return hash == "plain:"+plain || hash == "v2:"+plain, nil
}

func (versionedVerifier) NeedsUpgrade(hash string) (bool, error) {
	return strings.HasPrefix(hash, "plain:"), nil
}

func (v versionedVerifier) Hash(plain string) (string, error) {
	if v.hashErr != nil {
		return "", v.hashErr
	}
	return "v2:" + plain, nil
}

func newRehashEngine(t *testing.T, verifier PasswordVerifier, hash string) (*Engine, *account.MemoryStore) {
	t.Helper()
	users := account.NewMemoryStore()
	if err := users.Insert(context.Background(), &account.User{
		ID:           "u1",
		Username:     "ana",
		PasswordHash: hash,
		Name:         "Ana",
		Role:         permission.RoleAnalista,
		Active:       true,
	}); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("rehash-secret")
	engine, err := New().
		WithConfig(cfg).
		WithSessionStore(session.NewMemoryStore(users)).
		WithUsers(users).
		WithPasswordVerifier(verifier).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, users
}

func storedHash(t *testing.T, users *account.MemoryStore) string {
	t.Helper()
	u, err := users.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return u.PasswordHash
}

func TestLoginUpgradesStaleHash(t *testing.T) {
	engine, users := newRehashEngine(t, versionedVerifier{}, "plain:segredo")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out := engine.Login(ctx, LoginRequest{Area: AreaGeneral, Username: "ana", Password: "segredo"})
		if out.Cookie != CookieSet {
			t.Fatalf("login %d failed: %v", i, out.Reason)
		}
		if got := storedHash(t, users); got != "v2:segredo" {
			t.Fatalf("login %d: stored hash = %q", i, got)
		}
	}
}

func TestLoginSurvivesRehashFailure(t *testing.T) {
	engine, users := newRehashEngine(t, versionedVerifier{hashErr: errors.New("hash failed")}, "plain:segredo")

	out := engine.Login(context.Background(), LoginRequest{Area: AreaGeneral, Username: "ana", Password: "segredo"})
	if out.Cookie != CookieSet {
		t.Fatalf("login failed: %v", out.Reason)
	}
	if got := storedHash(t, users); got != "plain:segredo" {
		t.Fatalf("stored hash changed to %q", got)
	}
}

func TestLoginRaisesBcryptCost(t *testing.T) {
	old, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	hasher, err := password.NewHasher(bcrypt.MinCost + 1)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	engine, users := newRehashEngine(t, hasher, string(old))

	out := engine.Login(context.Background(), LoginRequest{Area: AreaGeneral, Username: "ana", Password: "segredo"})
	if out.Cookie != CookieSet {
		t.Fatalf("login failed: %v", out.Reason)
	}
	upgraded := storedHash(t, users)
	if cost, err := bcrypt.Cost([]byte(upgraded)); err != nil || cost != bcrypt.MinCost+1 {
		t.Fatalf("stored cost = %d, %v", cost, err)
	}
	if ok, err := hasher.Verify("segredo", upgraded); err != nil || !ok {
		t.Fatalf("upgraded hash does not verify: %v, %v", ok, err)
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/sqlitedb"
	"github.com/MrEthical07/goSession/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type storeFixture struct {
	store   Store
	addUser func(t *testing.T, id string)
}

func userRecord(id string) *account.User {
	now := time.UnixMilli(1_700_000_000_000)
	return &account.User{
		ID:           id,
		Username:     "user-" + id,
		PasswordHash: "x",
		Name:         "User " + id,
		Role:         permission.RoleInspetor,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newSQLiteFixture(t *testing.T) storeFixture {
	t.Helper()
	db, err := sqlitedb.OpenAndMigrate(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	users := account.NewSQLiteStore(db, nil)
	return storeFixture{
		store: NewSQLiteStore(db, nil),
		addUser: func(t *testing.T, id string) {
			if err := users.Insert(context.Background(), userRecord(id)); err != nil {
				t.Fatalf("insert user: %v", err)
			}
		},
	}
}

func newRedisFixture(t *testing.T) storeFixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	users := account.NewMemoryStore()
	return storeFixture{
		store: NewRedisStore(rdb, "test", users, nil),
		addUser: func(t *testing.T, id string) {
			if err := users.Insert(context.Background(), userRecord(id)); err != nil {
				t.Fatalf("insert user: %v", err)
			}
		},
	}
}

func newMemoryFixture(t *testing.T) storeFixture {
	t.Helper()
	users := account.NewMemoryStore()
	return storeFixture{
		store: NewMemoryStore(users),
		addUser: func(t *testing.T, id string) {
			if err := users.Insert(context.Background(), userRecord(id)); err != nil {
				t.Fatalf("insert user: %v", err)
			}
		},
	}
}

var backends = map[string]func(t *testing.T) storeFixture{
	"sqlite": newSQLiteFixture,
	"redis":  newRedisFixture,
	"memory": newMemoryFixture,
}

func forEachBackend(t *testing.T, fn func(t *testing.T, f storeFixture)) {
	for name, newFixture := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, newFixture(t))
		})
	}
}

var base = time.UnixMilli(1_700_000_000_000)

func TestCreateAndFetchWithUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")

		created, err := f.store.Create(ctx, "u1", "tok-1", base.Add(15*time.Minute))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.ID == "" {
			t.Fatal("expected session id")
		}

		sess, u, err := f.store.FetchWithUser(ctx, "tok-1")
		if err != nil {
			t.Fatalf("FetchWithUser: %v", err)
		}
		if sess.ID != created.ID || sess.UserID != "u1" || sess.Token != "tok-1" {
			t.Fatalf("unexpected session %+v", sess)
		}
		if !sess.ExpiresAt.Equal(base.Add(15 * time.Minute)) {
			t.Fatalf("expires_at mismatch: %v", sess.ExpiresAt)
		}
		if u.ID != "u1" || u.Role != permission.RoleInspetor || !u.Active {
			t.Fatalf("unexpected user %+v", u)
		}
	})
}

func TestCreateDuplicateToken(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		if _, err := f.store.Create(ctx, "u1", "dup", base); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := f.store.Create(ctx, "u1", "dup", base); !errors.Is(err, ErrTokenConflict) {
			t.Fatalf("expected ErrTokenConflict, got %v", err)
		}
	})
}

func TestFetchMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		if _, _, err := f.store.FetchWithUser(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRenewUpdatesExpiryOnly(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		created, _ := f.store.Create(ctx, "u1", "tok", base.Add(time.Minute))

		next := base.Add(30 * time.Minute)
		for i := 0; i < 2; i++ {
			if err := f.store.Renew(ctx, created.ID, next); err != nil {
				t.Fatalf("Renew #%d: %v", i, err)
			}
		}
		sess, _, err := f.store.FetchWithUser(ctx, "tok")
		if err != nil {
			t.Fatalf("FetchWithUser: %v", err)
		}
		if !sess.ExpiresAt.Equal(next) || sess.ID != created.ID {
			t.Fatalf("unexpected renewed session %+v", sess)
		}
	})
}

func TestRenewNeverResurrects(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		created, _ := f.store.Create(ctx, "u1", "tok", base)

		if err := f.store.DeleteByToken(ctx, "tok"); err != nil {
			t.Fatalf("DeleteByToken: %v", err)
		}
		if err := f.store.Renew(ctx, created.ID, base.Add(time.Hour)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound renewing deleted row, got %v", err)
		}
		if _, _, err := f.store.FetchWithUser(ctx, "tok"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("deleted row must stay gone, got %v", err)
		}
	})
}

func TestDeleteByTokenIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		if _, err := f.store.Create(ctx, "u1", "tok", base); err != nil {
			t.Fatalf("Create: %v", err)
		}
		for i := 0; i < 2; i++ {
			if err := f.store.DeleteByToken(ctx, "tok"); err != nil {
				t.Fatalf("DeleteByToken #%d: %v", i, err)
			}
		}
		if err := f.store.DeleteByToken(ctx, "never-existed"); err != nil {
			t.Fatalf("DeleteByToken(missing): %v", err)
		}
	})
}

func TestSweepExpired(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		now := base.Add(time.Hour)

		mustCreate := func(token string, exp time.Time) {
			if _, err := f.store.Create(ctx, "u1", token, exp); err != nil {
				t.Fatalf("Create(%s): %v", token, err)
			}
		}
		mustCreate("old-1", now.Add(-time.Minute))
		mustCreate("old-2", now.Add(-time.Hour))
		mustCreate("boundary", now)
		mustCreate("live", now.Add(time.Minute))

		removed, err := f.store.SweepExpired(ctx, now)
		if err != nil {
			t.Fatalf("SweepExpired: %v", err)
		}
		if removed != 2 {
			t.Fatalf("expected 2 removed, got %d", removed)
		}

		removed, err = f.store.SweepExpired(ctx, now)
		if err != nil || removed != 0 {
			t.Fatalf("second sweep = %d, %v", removed, err)
		}

		for _, tok := range []string{"boundary", "live"} {
			if _, _, err := f.store.FetchWithUser(ctx, tok); err != nil {
				t.Fatalf("%s must survive sweep: %v", tok, err)
			}
		}
		for _, tok := range []string{"old-1", "old-2"} {
			if _, _, err := f.store.FetchWithUser(ctx, tok); !errors.Is(err, ErrNotFound) {
				t.Fatalf("%s must be swept, got %v", tok, err)
			}
		}
	})
}

func TestSweepSkipsRenewedRow(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		now := base.Add(time.Hour)

		created, _ := f.store.Create(ctx, "u1", "tok", now.Add(-time.Second))
		if err := f.store.Renew(ctx, created.ID, now.Add(15*time.Minute)); err != nil {
			t.Fatalf("Renew: %v", err)
		}
		removed, err := f.store.SweepExpired(ctx, now)
		if err != nil || removed != 0 {
			t.Fatalf("SweepExpired = %d, %v", removed, err)
		}
	})
}

func TestConcurrentSweepAndRenew(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f storeFixture) {
		ctx := context.Background()
		f.addUser(t, "u1")
		now := base.Add(time.Hour)

		live, _ := f.store.Create(ctx, "u1", "live", now.Add(time.Minute))
		for i := 0; i < 20; i++ {
			if _, err := f.store.Create(ctx, "u1", fmt.Sprintf("dead-%d", i), now.Add(-time.Minute)); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			total int64
		)
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				n, err := f.store.SweepExpired(ctx, now)
				if err != nil {
					t.Errorf("SweepExpired: %v", err)
					return
				}
				mu.Lock()
				total += n
				mu.Unlock()
			}()
			go func() {
				defer wg.Done()
				if err := f.store.Renew(ctx, live.ID, now.Add(15*time.Minute)); err != nil {
					t.Errorf("Renew: %v", err)
				}
			}()
		}
		wg.Wait()

		if total != 20 {
			t.Fatalf("expected 20 rows removed across sweeps, got %d", total)
		}
		if _, _, err := f.store.FetchWithUser(ctx, "live"); err != nil {
			t.Fatalf("live row must survive: %v", err)
		}
	})
}

func TestCreateUnknownUser(t *testing.T) {
	for name, newFixture := range map[string]func(t *testing.T) storeFixture{
		"sqlite": newSQLiteFixture,
		"memory": newMemoryFixture,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if _, err := f.store.Create(context.Background(), "ghost", "tok", base); !errors.Is(err, ErrUnknownUser) {
				t.Fatalf("expected ErrUnknownUser, got %v", err)
			}
		})
	}
}

func TestSQLiteUserDeleteBlockedBySession(t *testing.T) {
	db, err := sqlitedb.OpenAndMigrate(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	users := account.NewSQLiteStore(db, nil)
	store := NewSQLiteStore(db, nil)

	if err := users.Insert(ctx, userRecord("u1")); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := store.Create(ctx, "u1", "tok", base); err != nil {
		t.Fatalf("Create: %v", err)
	}

	has, err := store.HasUserSessions(ctx, "u1")
	if err != nil || !has {
		t.Fatalf("HasUserSessions = %v, %v", has, err)
	}
	if err := users.Delete(ctx, "u1"); !errors.Is(err, account.ErrHasSessions) {
		t.Fatalf("expected ErrHasSessions, got %v", err)
	}
	if _, _, err := store.FetchWithUser(ctx, "tok"); err != nil {
		t.Fatalf("session must survive refused user delete: %v", err)
	}
}

func TestMemoryStoreBacksAccountDependents(t *testing.T) {
	ctx := context.Background()
	users := account.NewMemoryStore()
	store := NewMemoryStore(users)
	users.HasDependents = store.HasUserSessions

	if err := users.Insert(ctx, userRecord("u1")); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := store.Create(ctx, "u1", "tok", base); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Delete(ctx, "u1"); !errors.Is(err, account.ErrHasSessions) {
		t.Fatalf("expected ErrHasSessions, got %v", err)
	}
	if err := store.DeleteByToken(ctx, "tok"); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if err := users.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

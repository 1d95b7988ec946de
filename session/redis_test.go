package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/sqlitedb"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *account.MemoryStore, *miniredis.Miniredis, *redis.Client) {
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
	if err := users.Insert(context.Background(), userRecord("u1")); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return NewRedisStore(rdb, "gs", users, nil), users, mr, rdb
}

func TestRedisKeyLayout(t *testing.T) {
	store, _, mr, _ := newRedisStoreTest(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "u1", "tok", base)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !mr.Exists("gs:tok:tok") || !mr.Exists("gs:sid:"+sess.ID) || !mr.Exists("gs:exp") || !mr.Exists("gs:usr:u1") {
		t.Fatalf("missing keys: %v", mr.Keys())
	}

	if err := store.DeleteByToken(ctx, "tok"); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no keys after delete, got %v", mr.Keys())
	}
}

func TestRedisUserDeleteBlockedBySession(t *testing.T) {
	db, err := sqlitedb.OpenAndMigrate(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	_, _, _, rdb := newRedisStoreTest(t)
	ctx := context.Background()

	users := account.NewSQLiteStore(db, nil)
	store := NewRedisStore(rdb, "fk", users, nil)
	users.HasDependents = store.HasUserSessions

	if err := users.Insert(ctx, userRecord("u1")); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := store.Create(ctx, "u1", "tok", base.Add(15*time.Minute)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Delete(ctx, "u1"); !errors.Is(err, account.ErrHasSessions) {
		t.Fatalf("expected ErrHasSessions, got %v", err)
	}
	if _, _, err := store.FetchWithUser(ctx, "tok"); err != nil {
		t.Fatalf("session must survive refused user delete: %v", err)
	}

	if err := store.DeleteByToken(ctx, "tok"); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	if err := users.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete after logout: %v", err)
	}
}

func TestRedisHasUserSessionsTracksSweepAndPrunes(t *testing.T) {
	store, _, mr, _ := newRedisStoreTest(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "u1", "old", base); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if has, err := store.HasUserSessions(ctx, "u1"); err != nil || !has {
		t.Fatalf("HasUserSessions = %v, %v", has, err)
	}
	if _, err := store.SweepExpired(ctx, base.Add(time.Minute)); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if has, err := store.HasUserSessions(ctx, "u1"); err != nil || has {
		t.Fatalf("after sweep HasUserSessions = %v, %v", has, err)
	}

	// An index entry whose hash vanished is pruned, not counted.
	mr.SAdd("gs:usr:u1", "ghost")
	if has, err := store.HasUserSessions(ctx, "u1"); err != nil || has {
		t.Fatalf("stale entry counted: %v, %v", has, err)
	}
	if mr.Exists("gs:usr:u1") {
		t.Fatalf("stale owner index not pruned: %v", mr.Keys())
	}
}

// A user removed out of band leaves the hash unresolvable; it reads as
// not found rather than failing the guard.
func TestRedisOrphanSessionReportsNotFound(t *testing.T) {
	store, users, _, _ := newRedisStoreTest(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, "u1", "tok", base); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := users.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, _, err := store.FetchWithUser(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for orphan session, got %v", err)
	}
}

func TestRedisCorruptHashReportsNotFound(t *testing.T) {
	store, _, mr, _ := newRedisStoreTest(t)
	mr.HSet("gs:tok:bad", "id", "s1")

	if _, _, err := store.FetchWithUser(context.Background(), "bad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisSweepDropsStaleIndexEntries(t *testing.T) {
	store, _, mr, rdb := newRedisStoreTest(t)
	ctx := context.Background()

	if err := rdb.ZAdd(ctx, "gs:exp", redis.Z{Score: float64(base.UnixMilli()), Member: "ghost"}).Err(); err != nil {
		t.Fatalf("zadd: %v", err)
	}
	removed, err := store.SweepExpired(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if removed != 0 {
		t.Fatalf("stale index entries must not count, got %d", removed)
	}
	if mr.Exists("gs:exp") {
		members, _ := mr.ZMembers("gs:exp")
		if len(members) != 0 {
			t.Fatalf("expected empty index, got %v", members)
		}
	}
}

func TestRedisSweepMultipleBatches(t *testing.T) {
	store, _, _, _ := newRedisStoreTest(t)
	ctx := context.Background()

	n := sweepBatch + 17
	for i := 0; i < n; i++ {
		if _, err := store.Create(ctx, "u1", fmt.Sprintf("t-%d", i), base); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	removed, err := store.SweepExpired(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if removed != int64(n) {
		t.Fatalf("expected %d removed, got %d", n, removed)
	}
}

func TestRedisUnavailable(t *testing.T) {
	store, _, mr, _ := newRedisStoreTest(t)
	mr.Close()

	ctx := context.Background()
	if _, _, err := store.FetchWithUser(ctx, "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("FetchWithUser: expected ErrUnavailable, got %v", err)
	}
	if err := store.DeleteByToken(ctx, "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("DeleteByToken: expected ErrUnavailable, got %v", err)
	}
	if _, err := store.Create(ctx, "u1", "tok", base); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Create: expected ErrUnavailable, got %v", err)
	}
}

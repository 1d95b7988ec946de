package session

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// cmdCounter counts Redis commands issued through a client.
type cmdCounter struct {
	commands atomic.Int64
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) measure(fn func()) int64 {
	h.commands.Store(0)
	fn()
	return h.commands.Load()
}

// The guard path runs FetchWithUser and Renew on every request, so their
// command counts are pinned.
func TestRedisCommandBudget(t *testing.T) {
	ctx := context.Background()
	store, _, _, rdb := newRedisStoreTest(t)
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}
	counter := &cmdCounter{}
	rdb.AddHook(counter)

	expires := time.Now().Add(15 * time.Minute)

	// Load every script once so later calls hit EVALSHA directly.
	warm, err := store.Create(ctx, "u1", "warm", expires)
	if err != nil {
		t.Fatalf("warm create: %v", err)
	}
	if err := store.Renew(ctx, warm.ID, expires); err != nil {
		t.Fatalf("warm renew: %v", err)
	}
	if err := store.DeleteByToken(ctx, "warm"); err != nil {
		t.Fatalf("warm delete: %v", err)
	}

	var sess *Session
	if n := counter.measure(func() { sess, err = store.Create(ctx, "u1", "tok", expires) }); n != 1 || err != nil {
		t.Fatalf("create: commands=%d err=%v", n, err)
	}
	if n := counter.measure(func() { _, _, err = store.FetchWithUser(ctx, "tok") }); n != 1 || err != nil {
		t.Fatalf("fetch: commands=%d err=%v", n, err)
	}
	if n := counter.measure(func() { err = store.Renew(ctx, sess.ID, expires.Add(time.Minute)) }); n != 2 || err != nil {
		t.Fatalf("renew: commands=%d err=%v", n, err)
	}
	if n := counter.measure(func() { err = store.DeleteByToken(ctx, "tok") }); n != 1 || err != nil {
		t.Fatalf("delete: commands=%d err=%v", n, err)
	}
}

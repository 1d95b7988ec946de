package goSession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/permission"
	"github.com/MrEthical07/goSession/session"
)

func TestSweepRemovesOnlyExpiredRows(t *testing.T) {
	f := newEngineFixture(t, func(c *Config) { c.JWT.TTL = time.Hour })
	f.addUser(t, "ana", "segredo1", permission.RoleAnalista, true)
	ctx := context.Background()

	f.login(t, AreaGeneral, "ana", "segredo1")
	f.login(t, AreaGeneral, "ana", "segredo1")
	f.clock.Advance(10 * time.Minute)
	fresh := f.login(t, AreaGeneral, "ana", "segredo1")
	f.clock.Advance(6 * time.Minute)

	n, err := f.engine.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	if _, _, err := f.sessions.FetchWithUser(ctx, fresh); err != nil {
		t.Fatalf("live row was swept: %v", err)
	}
	if got := f.engine.MetricsSnapshot().Counters[MetricSweepRemoved]; got != 2 {
		t.Fatalf("sweep metric = %d, want 2", got)
	}

	n, err = f.engine.Sweep(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second sweep = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSweepStoreFailure(t *testing.T) {
	f := newEngineFixture(t, nil)
	f.store.sweepErr = session.ErrUnavailable

	if _, err := f.engine.Sweep(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStartSweeperStopsWithContext(t *testing.T) {
	f := newEngineFixture(t, func(c *Config) { c.Sweep.Interval = time.Second })

	ctx, cancel := context.WithCancel(context.Background())
	done := f.engine.StartSweeper(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestStartSweeperDisabled(t *testing.T) {
	f := newEngineFixture(t, func(c *Config) { c.Sweep.Interval = 0 })

	select {
	case <-f.engine.StartSweeper(context.Background()):
	default:
		t.Fatal("disabled sweeper must return a closed channel")
	}
}

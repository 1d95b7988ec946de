package goSession

import (
	"log/slog"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/flows"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
)

// Engine defines a public type used by goSession APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// Every method is safe for concurrent use.
type Engine struct {
	config     Config
	store      session.Store
	users      account.Repository
	verifier   PasswordVerifier
	rehasher   PasswordRehasher
	jwtManager *jwt.Manager
	metrics    *Metrics
	audit      *audit.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
	flows      flows.Deps
}

// Close flushes the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return cloneConfig(e.config)
}

// Paths returns the configured redirect destinations.
func (e *Engine) Paths() PathsConfig {
	if e == nil {
		return DefaultConfig().Paths
	}
	return e.config.Paths
}

// AreaOf classifies path using the configured admin prefix.
func (e *Engine) AreaOf(path string) Area {
	return e.Paths().AreaOf(path)
}

// CookieName is the name of the credential cookie.
func (e *Engine) CookieName() string {
	if e == nil {
		return DefaultConfig().Session.CookieName
	}
	return e.config.Session.CookieName
}

// Session returns the session and cookie settings.
func (e *Engine) Session() SessionConfig {
	if e == nil {
		return DefaultConfig().Session
	}
	return e.config.Session
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) buildFlowDeps() flows.Deps {
	window := e.config.Session.Window
	warn := func(msg string, args ...any) { e.logger.Warn(msg, args...) }

	deps := flows.Deps{
		Guard: flows.GuardDeps{
			Window:        window,
			Now:           e.now,
			VerifyToken:   e.jwtManager.Verify,
			CodecExpired:  jwt.ErrExpired,
			FetchWithUser: e.store.FetchWithUser,
			Renew:         e.store.Renew,
			DeleteByToken: e.store.DeleteByToken,
			Warn:          warn,
		},
		Login: flows.LoginDeps{
			Window:            window,
			Now:               e.now,
			GetUserByUsername: e.users.GetByUsername,
			VerifyPassword:    e.verifier.Verify,
			IssueToken:        e.jwtManager.Issue,
			CreateSession:     e.store.Create,
		},
		Logout: flows.LogoutDeps{
			DeleteByToken: e.store.DeleteByToken,
		},
	}
	if e.rehasher != nil {
		deps.Login.Rehash = e.rehashPassword
	}
	return deps
}

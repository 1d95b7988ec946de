package goSession

import (
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/session"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plain, encodedHash string) (bool, error)
}

// PasswordRehasher is an optional extension of PasswordVerifier. When the
// verifier implements it, a successful login rewrites a hash that
// NeedsUpgrade reports as stale.
type PasswordRehasher interface {
	NeedsUpgrade(encodedHash string) (bool, error)
	Hash(plain string) (string, error)
}

// Builder defines a public type used by goSession APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store    session.Store
	users    account.Repository
	verifier PasswordVerifier

	logger    *slog.Logger
	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSessionStore sets the session backend. It is required.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithUsers sets the user repository consulted by Login. It is required.
func (b *Builder) WithUsers(users account.Repository) *Builder {
	b.users = users
	return b
}

// WithPasswordVerifier overrides the default bcrypt verifier.
func (b *Builder) WithPasswordVerifier(v PasswordVerifier) *Builder {
	b.verifier = v
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClock replaces time.Now for the engine and its credential codec.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder can be
// used only once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.store == nil {
		return nil, errors.New("session store required")
	}
	if b.users == nil {
		return nil, errors.New("user repository required")
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	verifier := b.verifier
	if verifier == nil {
		h, err := password.NewDefaultHasher()
		if err != nil {
			return nil, err
		}
		verifier = h
	}

	jm, err := jwt.NewManager(jwt.Config{
		Secret: cloneBytes(cfg.JWT.Secret),
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
		Leeway: cfg.JWT.Leeway,
		Now:    now,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		store:      b.store,
		users:      b.users,
		verifier:   verifier,
		jwtManager: jm,
		metrics:    NewMetrics(cfg.Metrics),
		logger:     logging.Component(b.logger, "goSession"),
		now:        now,
	}
	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink, b.logger)
	if r, ok := verifier.(PasswordRehasher); ok {
		engine.rehasher = r
	}
	engine.flows = engine.buildFlowDeps()

	b.built = true

	return engine, nil
}

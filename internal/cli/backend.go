package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/sqlitedb"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/session"
)

// backend bundles the user and session stores selected by configuration.
type backend struct {
	users    account.Repository
	sessions session.Store
	hasher   *password.Hasher
	closers  []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openBackend opens the configured stores and the password hasher.
func openBackend(ctx context.Context, fc FileConfig, logger *slog.Logger) (*backend, error) {
	hasher, err := password.NewHasher(fc.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt_cost %d: %w", fc.BcryptCost, err)
	}
	b, err := openStores(ctx, fc, logger)
	if err != nil {
		return nil, err
	}
	b.hasher = hasher
	return b, nil
}

// openStores opens the stores. Users always live in SQLite except for the
// memory backend; the redis backend keeps only sessions in Redis.
func openStores(ctx context.Context, fc FileConfig, logger *slog.Logger) (*backend, error) {
	switch fc.Backend {
	case BackendMemory:
		users := account.NewMemoryStore()
		sessions := session.NewMemoryStore(users)
		users.HasDependents = sessions.HasUserSessions
		logger.Warn("memory backend selected; data is lost on exit")
		return &backend{users: users, sessions: sessions}, nil

	case BackendSQLite, BackendRedis:
		db, err := sqlitedb.OpenAndMigrate(ctx, fc.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		users := account.NewSQLiteStore(db, logger)
		b := &backend{users: users, closers: []func() error{db.Close}}
		logger.Info("database ready", "path", fc.SQLitePath)

		if fc.Backend == BackendSQLite {
			b.sessions = session.NewSQLiteStore(db, logger)
			return b, nil
		}
		return b, attachRedis(ctx, b, users, fc, logger)

	default:
		return nil, fmt.Errorf("unknown backend %q", fc.Backend)
	}
}

// attachRedis moves sessions to Redis. The users table can no longer see them
// through its foreign key, so user deletes consult the Redis owner index.
func attachRedis(ctx context.Context, b *backend, users *account.SQLiteStore, fc FileConfig, logger *slog.Logger) error {
	rdb := redis.NewClient(&redis.Options{Addr: fc.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = b.Close()
		return fmt.Errorf("connect redis %s: %w", fc.RedisAddr, err)
	}
	b.closers = append(b.closers, rdb.Close)
	sessions := session.NewRedisStore(rdb, fc.RedisPrefix, users, logger)
	users.HasDependents = sessions.HasUserSessions
	b.sessions = sessions
	logger.Info("redis session store ready", "addr", fc.RedisAddr, "prefix", fc.RedisPrefix)
	return nil
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/MrEthical07/goSession/internal/sqlitedb"
	"github.com/MrEthical07/goSession/permission"
	"github.com/google/uuid"
)

// SQLiteStore implements Store on the shared SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore wraps db. The schema must already be migrated.
func NewSQLiteStore(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "session_store"),
		now:    time.Now,
	}
}

func (s *SQLiteStore) Create(ctx context.Context, userID, token string, expiresAt time.Time) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}
	s.logger.Debug("sql", "op", "insert", "table", "sessions", "id", sess.ID, "user_id", userID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Token, sess.ExpiresAt.UnixMilli(), sess.CreatedAt.UnixMilli(),
	)
	switch {
	case err == nil:
		return sess, nil
	case sqlitedb.IsUniqueViolation(err):
		return nil, ErrTokenConflict
	case sqlitedb.IsForeignKeyViolation(err):
		return nil, ErrUnknownUser
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (s *SQLiteStore) FetchWithUser(ctx context.Context, token string) (*Session, *account.User, error) {
	s.logger.Debug("sql", "op", "select_join", "table", "sessions")

	var (
		sess                 Session
		u                    account.User
		expiresAt, createdAt int64
		role                 string
		active               int
		uCreated, uUpdated   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at,
		        u.id, u.username, u.password_hash, u.name, COALESCE(u.email, ''), u.role, u.active, u.created_at, u.updated_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`, token,
	).Scan(&sess.ID, &sess.UserID, &sess.Token, &expiresAt, &createdAt,
		&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &role, &active, &uCreated, &uUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	parsed, err := permission.ParseRole(role)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: user %s: %v", ErrUnavailable, u.ID, err)
	}
	u.Role = parsed
	u.Active = active != 0
	u.CreatedAt = time.UnixMilli(uCreated)
	u.UpdatedAt = time.UnixMilli(uUpdated)
	sess.ExpiresAt = time.UnixMilli(expiresAt)
	sess.CreatedAt = time.UnixMilli(createdAt)

	return &sess, &u, nil
}

func (s *SQLiteStore) Renew(ctx context.Context, sessionID string, expiresAt time.Time) error {
	s.logger.Debug("sql", "op", "update", "table", "sessions", "id", sessionID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ? WHERE id = ?`, expiresAt.UnixMilli(), sessionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteByToken(ctx context.Context, token string) error {
	s.logger.Debug("sql", "op", "delete", "table", "sessions")

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// SweepExpired runs a single DELETE, so the expiry check and the removal are
// atomic with respect to concurrent renewals.
func (s *SQLiteStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	s.logger.Debug("sql", "op", "delete_expired", "table", "sessions")

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// HasUserSessions reports whether any row belongs to userID.
func (s *SQLiteStore) HasUserSessions(ctx context.Context, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE user_id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return exists == 1, nil
}

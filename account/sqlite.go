package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/MrEthical07/goSession/internal/sqlitedb"
	"github.com/MrEthical07/goSession/permission"
)

// SQLiteStore implements Repository on the shared SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger

	// HasDependents, when set, is consulted by Delete for sessions kept
	// outside this database, where the foreign key cannot see them.
	HasDependents func(ctx context.Context, userID string) (bool, error)
}

// NewSQLiteStore wraps db. The schema must already be migrated.
func NewSQLiteStore(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "account_store"),
	}
}

const userColumns = `id, username, password_hash, name, COALESCE(email, ''), role, active, created_at, updated_at`

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*User, error) {
	s.logger.Debug("sql", "op", "select", "table", "users", "id", id)
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername matches the login name exactly (case-preserving).
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	s.logger.Debug("sql", "op", "select", "table", "users", "username", username)
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return u, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, u *User) error {
	s.logger.Debug("sql", "op", "insert", "table", "users", "id", u.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, name, email, role, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Name, nullString(u.Email),
		u.Role.String(), boolInt(u.Active),
		u.CreatedAt.UnixMilli(), u.UpdatedAt.UnixMilli(),
	)
	if sqlitedb.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, u *User) error {
	s.logger.Debug("sql", "op", "update", "table", "users", "id", u.ID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password_hash = ?, name = ?, email = ?, role = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		u.Username, u.PasswordHash, u.Name, nullString(u.Email),
		u.Role.String(), boolInt(u.Active), u.UpdatedAt.UnixMilli(), u.ID,
	)
	if sqlitedb.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return requireOneRow(res)
}

// Delete removes the user. It fails with ErrHasSessions while any session row
// references the user.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "users", "id", id)

	if s.HasDependents != nil {
		has, err := s.HasDependents(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if has {
			return ErrHasSessions
		}
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if sqlitedb.IsForeignKeyViolation(err) {
		return ErrHasSessions
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return requireOneRow(res)
}

// List returns all users ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]User, error) {
	s.logger.Debug("sql", "op", "list", "table", "users")

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, username`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                    User
		role                 string
		active               int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email,
		&role, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := permission.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = parsed
	u.Active = active != 0
	u.CreatedAt = time.UnixMilli(createdAt)
	u.UpdatedAt = time.UnixMilli(updatedAt)
	return &u, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

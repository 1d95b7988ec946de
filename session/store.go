package session

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/account"
)

var (
	// ErrNotFound indicates no session row matches.
	ErrNotFound = errors.New("session not found")
	// ErrTokenConflict indicates a duplicate token on Create.
	ErrTokenConflict = errors.New("session token already exists")
	// ErrUnknownUser indicates Create referenced a user that does not exist.
	ErrUnknownUser = errors.New("session owner does not exist")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("session store unavailable")
)

// Store is the session persistence contract consumed by the engine.
type Store interface {
	// Create inserts a row. A duplicate token fails with ErrTokenConflict.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) (*Session, error)
	// FetchWithUser returns the row for token and its owner, or ErrNotFound.
	FetchWithUser(ctx context.Context, token string) (*Session, *account.User, error)
	// Renew sets ExpiresAt for sessionID. A missing row yields ErrNotFound.
	Renew(ctx context.Context, sessionID string, expiresAt time.Time) error
	// DeleteByToken removes zero or one row. Zero rows is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// SweepExpired removes rows with ExpiresAt before now and returns the count.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

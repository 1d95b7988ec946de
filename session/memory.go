package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory. Owners are resolved through
// an account.Lookup on every FetchWithUser.
type MemoryStore struct {
	users account.Lookup

	mu      sync.Mutex
	byToken map[string]*Session
	byID    map[string]string
}

// NewMemoryStore returns an empty MemoryStore joined against users.
func NewMemoryStore(users account.Lookup) *MemoryStore {
	return &MemoryStore{
		users:   users,
		byToken: make(map[string]*Session),
		byID:    make(map[string]string),
	}
}

func (m *MemoryStore) Create(ctx context.Context, userID, token string, expiresAt time.Time) (*Session, error) {
	if _, err := m.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byToken[token]; ok {
		return nil, ErrTokenConflict
	}
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	m.byToken[token] = sess
	m.byID[sess.ID] = token

	out := *sess
	return &out, nil
}

func (m *MemoryStore) FetchWithUser(ctx context.Context, token string) (*Session, *account.User, error) {
	m.mu.Lock()
	stored, ok := m.byToken[token]
	var sess Session
	if ok {
		sess = *stored
	}
	m.mu.Unlock()

	if !ok {
		return nil, nil, ErrNotFound
	}

	u, err := m.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, account.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &sess, u, nil
}

func (m *MemoryStore) Renew(_ context.Context, sessionID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[sessionID]
	if !ok {
		return ErrNotFound
	}
	m.byToken[token].ExpiresAt = expiresAt
	return nil
}

func (m *MemoryStore) DeleteByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.byToken[token]; ok {
		delete(m.byID, sess.ID)
		delete(m.byToken, token)
	}
	return nil
}

func (m *MemoryStore) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for token, sess := range m.byToken {
		if sess.ExpiresAt.Before(now) {
			delete(m.byID, sess.ID)
			delete(m.byToken, token)
			removed++
		}
	}
	return removed, nil
}

// HasUserSessions reports whether any row belongs to userID. It satisfies
// account.MemoryStore.HasDependents.
func (m *MemoryStore) HasUserSessions(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.byToken {
		if sess.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byToken)
}

package account

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded Repository for tests and single-process demos.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]string

	// HasDependents, when set, is consulted by Delete to emulate the sessions
	// foreign key.
	HasDependents func(ctx context.Context, userID string) (bool, error)
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

func (m *MemoryStore) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *MemoryStore) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return m.byID[id].Clone(), nil
}

func (m *MemoryStore) Insert(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUsername[u.Username]; ok {
		return ErrUsernameTaken
	}
	if _, ok := m.byID[u.ID]; ok {
		return ErrUsernameTaken
	}
	m.byID[u.ID] = u.Clone()
	m.byUsername[u.Username] = u.ID
	return nil
}

func (m *MemoryStore) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[u.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := m.byUsername[u.Username]; taken && owner != u.ID {
		return ErrUsernameTaken
	}
	delete(m.byUsername, current.Username)
	m.byID[u.ID] = u.Clone()
	m.byUsername[u.Username] = u.ID
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if m.HasDependents != nil {
		has, err := m.HasDependents(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return ErrHasSessions
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byUsername, u.Username)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

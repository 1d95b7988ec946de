package session

import "time"

// Session is one login. Only ExpiresAt is ever mutated after creation.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Live reports whether s is still valid at now.
func (s *Session) Live(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now)
}

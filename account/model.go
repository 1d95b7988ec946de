package account

import (
	"context"
	"time"

	"github.com/MrEthical07/goSession/permission"
)

// User is an application account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         permission.Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Lookup resolves a user by id. Session backends without a SQL join use it to
// attach the owning user.
type Lookup interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// Repository persists users.
type Repository interface {
	Lookup
	GetByUsername(ctx context.Context, username string) (*User, error)
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]User, error)
}

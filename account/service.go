package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrEthical07/goSession/internal/logging"
	"github.com/MrEthical07/goSession/permission"
	"github.com/google/uuid"
)

const (
	minUsernameChars = 3
	minPasswordChars = 6

	// Seed credentials written by SeedAdmin. They must be changed after the
	// first login.
	SeedUsername = "admin"
	SeedPassword = "admin123"
	seedName     = "Administrador"
	seedEmail    = "admin@sistema.com"
)

// PasswordHasher produces password hashes for new or changed passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// CreateInput is the administrator-supplied data for a new user.
type CreateInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
	Active   bool
}

// UpdateInput replaces editable fields. A blank Password keeps the current hash.
type UpdateInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
	Active   bool
}

// Service applies administrative rules on top of a Repository.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	now    func() time.Time
	logger *slog.Logger
}

// NewService wires a Service. now may be nil.
func NewService(repo Repository, hasher PasswordHasher, now func() time.Time, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("account repository is required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    now,
		logger: logging.Component(logger, "account"),
	}, nil
}

// Repository returns the underlying repository.
func (s *Service) Repository() Repository {
	return s.repo
}

// Create validates in, hashes the trimmed password and inserts the user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	pass := strings.TrimSpace(in.Password)
	if pass == "" {
		return nil, ErrPasswordRequired
	}
	if utf8.RuneCountInString(pass) < minPasswordChars {
		return nil, ErrPasswordTooShort
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        strings.TrimSpace(in.Email),
		Role:         role,
		Active:       in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role.String())
	return u, nil
}

// Update replaces the editable fields of user id.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if pass := strings.TrimSpace(in.Password); pass != "" {
		if utf8.RuneCountInString(pass) < minPasswordChars {
			return nil, ErrPasswordTooShort
		}
		hash, err := s.hasher.Hash(pass)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	u.Username = username
	u.Name = name
	u.Email = strings.TrimSpace(in.Email)
	u.Role = role
	u.Active = in.Active
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", u.ID, "role", u.Role.String(), "active", u.Active)
	return u, nil
}

// SetActive toggles the active flag. Deactivation takes effect on the user's
// next request because the session guard re-reads the user every time.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = active
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user active flag changed", "user_id", id, "active", active)
	return u, nil
}

// SetRole changes the role of user id. Like deactivation it applies from the
// user's next request.
func (s *Service) SetRole(ctx context.Context, id, code string) (*User, error) {
	role, err := parseRole(code)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "user_id", id, "role", role.String())
	return u, nil
}

// Delete removes targetID on behalf of actorID.
func (s *Service) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID != "" && actorID == targetID {
		return ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", targetID, "actor_id", actorID)
	return nil
}

// List returns every user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// MakeAdmin promotes username to ADMIN.
func (s *Service) MakeAdmin(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	u.Role = permission.RoleAdmin
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user promoted to admin", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// SeedAdmin ensures the default administrator exists. An existing "admin" user
// keeps its password and is forced back to ADMIN. The boolean reports whether
// the user was created.
func (s *Service) SeedAdmin(ctx context.Context) (*User, bool, error) {
	existing, err := s.repo.GetByUsername(ctx, SeedUsername)
	switch {
	case err == nil:
		if existing.Role == permission.RoleAdmin {
			return existing, false, nil
		}
		u, err := s.MakeAdmin(ctx, SeedUsername)
		return u, false, err
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	u, err := s.Create(ctx, CreateInput{
		Username: SeedUsername,
		Password: SeedPassword,
		Name:     seedName,
		Email:    seedEmail,
		Role:     permission.RoleAdmin.String(),
		Active:   true,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func validateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) < minUsernameChars {
		return ErrUsernameTooShort
	}
	return nil
}

func parseRole(code string) (permission.Role, error) {
	role, err := permission.ParseRole(code)
	if err != nil {
		return permission.RoleUnknown, ErrInvalidRole
	}
	return role, nil
}

package account

import "errors"

var (
	// ErrNotFound indicates no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken indicates a username uniqueness conflict.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrHasSessions indicates the user still owns sessions and cannot be deleted.
	ErrHasSessions = errors.New("user has active sessions")
	// ErrSelfDelete indicates an administrator tried to delete their own account.
	ErrSelfDelete = errors.New("cannot delete own account")
	// ErrUsernameRequired indicates a blank username.
	ErrUsernameRequired = errors.New("username is required")
	// ErrUsernameTooShort indicates a username shorter than three characters.
	ErrUsernameTooShort = errors.New("username must have at least 3 characters")
	// ErrPasswordRequired indicates a blank password on creation.
	ErrPasswordRequired = errors.New("password is required")
	// ErrPasswordTooShort indicates a password shorter than six characters.
	ErrPasswordTooShort = errors.New("password must have at least 6 characters")
	// ErrNameRequired indicates a blank display name.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidRole indicates a role outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("user store unavailable")
)

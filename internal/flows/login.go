package flows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/permission"
	"github.com/MrEthical07/goSession/session"
)

// LoginState classifies a login attempt.
type LoginState uint8

const (
	LoginOK LoginState = iota
	LoginMissingFields
	LoginBlankUsername
	LoginBlankPassword
	LoginUnknownUser
	LoginInactive
	LoginNotAdmin
	LoginWrongPassword
	LoginTokenConflict
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginOK:
		return "ok"
	case LoginMissingFields:
		return "missing_fields"
	case LoginBlankUsername:
		return "blank_username"
	case LoginBlankPassword:
		return "blank_password"
	case LoginUnknownUser:
		return "unknown_user"
	case LoginInactive:
		return "inactive"
	case LoginNotAdmin:
		return "not_admin"
	case LoginWrongPassword:
		return "wrong_password"
	case LoginTokenConflict:
		return "token_conflict"
	case LoginFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoginInput is the submitted form.
type LoginInput struct {
	Username  string
	Password  string
	AdminOnly bool
}

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	State   LoginState
	User    *account.User
	Session *session.Session
	Token   string
	Err     error

	// Rehashed reports that the stored hash was upgraded. RehashErr is a
	// failed upgrade; it never fails the login.
	Rehashed  bool
	RehashErr error
}

// LoginDeps captures login dependencies.
type LoginDeps struct {
	Window time.Duration
	Now    func() time.Time

	GetUserByUsername func(context.Context, string) (*account.User, error)
	VerifyPassword    func(plain, hash string) (bool, error)
	IssueToken        func(userID string) (string, time.Time, error)
	CreateSession     func(context.Context, string, string, time.Time) (*session.Session, error)

	// Rehash, when set, runs after a password match.
	Rehash func(ctx context.Context, u *account.User, plain string) (bool, error)
}

// RunLogin checks the form in a fixed order: presence, blank fields, user
// lookup, active flag, admin-only gate, password. Only then does it mint a
// credential and a session row expiring Window from now. A stale hash is
// rehashed between the password check and the credential.
func RunLogin(ctx context.Context, in LoginInput, deps LoginDeps) LoginResult {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if in.Username == "" || in.Password == "" {
		return LoginResult{State: LoginMissingFields}
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return LoginResult{State: LoginBlankUsername}
	}
	if strings.TrimSpace(in.Password) == "" {
		return LoginResult{State: LoginBlankPassword}
	}

	u, err := deps.GetUserByUsername(ctx, username)
	if errors.Is(err, account.ErrNotFound) {
		return LoginResult{State: LoginUnknownUser}
	}
	if err != nil {
		return LoginResult{State: LoginFailed, Err: err}
	}
	if !u.Active {
		return LoginResult{State: LoginInactive, User: u}
	}
	if in.AdminOnly && !permission.Can(u.Role, permission.OpAdminArea) {
		return LoginResult{State: LoginNotAdmin, User: u}
	}

	ok, err := deps.VerifyPassword(in.Password, u.PasswordHash)
	if err != nil {
		return LoginResult{State: LoginFailed, User: u, Err: err}
	}
	if !ok {
		return LoginResult{State: LoginWrongPassword, User: u}
	}

	var (
		rehashed  bool
		rehashErr error
	)
	if deps.Rehash != nil {
		rehashed, rehashErr = deps.Rehash(ctx, u, in.Password)
	}

	token, _, err := deps.IssueToken(u.ID)
	if err != nil {
		return LoginResult{State: LoginFailed, User: u, Err: err}
	}
	sess, err := deps.CreateSession(ctx, u.ID, token, deps.Now().Add(deps.Window))
	if errors.Is(err, session.ErrTokenConflict) {
		return LoginResult{State: LoginTokenConflict, User: u, Err: err}
	}
	if err != nil {
		return LoginResult{State: LoginFailed, User: u, Err: err}
	}

	return LoginResult{State: LoginOK, User: u, Session: sess, Token: token, Rehashed: rehashed, RehashErr: rehashErr}
}

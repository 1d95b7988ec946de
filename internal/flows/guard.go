package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/session"
)

// GuardState is the terminal state of one guard pass.
type GuardState uint8

const (
	GuardNoToken GuardState = iota
	GuardMalformed
	GuardCodecExpired
	GuardStoreNotFound
	GuardStoreExpired
	GuardUserInactive
	GuardStoreError
	GuardActive
)

func (s GuardState) String() string {
	switch s {
	case GuardNoToken:
		return "no_token"
	case GuardMalformed:
		return "malformed"
	case GuardCodecExpired:
		return "codec_expired"
	case GuardStoreNotFound:
		return "store_not_found"
	case GuardStoreExpired:
		return "store_expired"
	case GuardUserInactive:
		return "user_inactive"
	case GuardStoreError:
		return "store_error"
	case GuardActive:
		return "active"
	default:
		return "unknown"
	}
}

// GuardResult carries the state and, for GuardActive, the renewed session
// and its owner.
type GuardResult struct {
	State   GuardState
	Session *session.Session
	User    *account.User
	Err     error
}

// GuardDeps captures guard dependencies.
type GuardDeps struct {
	Window time.Duration
	Now    func() time.Time

	// VerifyToken returns the embedded user id. Errors matching CodecExpired
	// map to GuardCodecExpired, every other error to GuardMalformed.
	VerifyToken  func(string) (string, error)
	CodecExpired error

	FetchWithUser func(context.Context, string) (*session.Session, *account.User, error)
	Renew         func(context.Context, string, time.Time) error
	DeleteByToken func(context.Context, string) error

	Warn func(string, ...any)
}

// RunGuard validates token against the codec and then the session store.
// Every invalidating branch past decoding deletes the row for token. Renewal
// runs only for an active owner.
func RunGuard(ctx context.Context, token string, deps GuardDeps) GuardResult {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if token == "" {
		return GuardResult{State: GuardNoToken}
	}

	userID, err := deps.VerifyToken(token)
	if err != nil {
		if deps.CodecExpired != nil && errors.Is(err, deps.CodecExpired) {
			// The row may outlive the credential; remove it so an expired
			// login leaves nothing behind.
			discard(ctx, token, deps)
			return GuardResult{State: GuardCodecExpired, Err: err}
		}
		return GuardResult{State: GuardMalformed, Err: err}
	}

	sess, u, err := deps.FetchWithUser(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		discard(ctx, token, deps)
		return GuardResult{State: GuardStoreNotFound, Err: err}
	}
	if err != nil {
		return GuardResult{State: GuardStoreError, Err: err}
	}

	// A row whose owner differs from the signed claim was not minted for this
	// token; treat the pair as forged.
	if sess.UserID != userID {
		discard(ctx, token, deps)
		return GuardResult{State: GuardMalformed, Err: errors.New("session owner does not match credential")}
	}

	now := deps.Now()
	if !sess.Live(now) {
		discard(ctx, token, deps)
		return GuardResult{State: GuardStoreExpired, Session: sess}
	}

	if !u.Active {
		discard(ctx, token, deps)
		return GuardResult{State: GuardUserInactive, Session: sess, User: u}
	}

	expiresAt := now.Add(deps.Window)
	if err := deps.Renew(ctx, sess.ID, expiresAt); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			// Deleted between fetch and renew; the delete wins.
			return GuardResult{State: GuardStoreNotFound, Err: err}
		}
		return GuardResult{State: GuardStoreError, Err: err}
	}
	sess.ExpiresAt = expiresAt

	return GuardResult{State: GuardActive, Session: sess, User: u}
}

func discard(ctx context.Context, token string, deps GuardDeps) {
	if deps.DeleteByToken == nil {
		return
	}
	if err := deps.DeleteByToken(ctx, token); err != nil {
		deps.Warn("session cleanup failed", "error", err)
	}
}

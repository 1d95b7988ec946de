package goSession

import (
	"errors"

	"github.com/MrEthical07/goSession/jwt"
)

var (
	// ErrMissingCredential means the request carried no token.
	ErrMissingCredential = errors.New("missing credential")
	// ErrMalformedCredential means the token failed decoding or signature checks.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrCredentialExpired means the token's own expiry has passed.
	ErrCredentialExpired = errors.New("credential expired")
	// ErrSessionNotFound means no session row matches a codec-valid token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired means the session row exists but its expiry has passed.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserInactive means the session owner has been deactivated.
	ErrUserInactive = errors.New("user inactive")
	// ErrRoleDenied means the caller's role is outside the required set.
	ErrRoleDenied = errors.New("role denied")
	// ErrStoreUnavailable wraps session or user store infrastructure failures.
	// It is the only guard failure that should reach a 5xx boundary.
	ErrStoreUnavailable = errors.New("session store unavailable")

	// ErrInvalidCredentials groups login failures caused by user input.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionCreationFailed means login verified the user but could not persist a session.
	ErrSessionCreationFailed = errors.New("session creation failed")

	// ErrMissingSecret is returned by Config.Validate and Build when no signing
	// secret is configured.
	ErrMissingSecret = jwt.ErrMissingSecret
	// ErrEngineNotReady is returned when a method is called on a nil Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

package goSession

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/internal/flows"
)

// LoginRequest is a submitted login form.
type LoginRequest struct {
	Area     Area
	Username string
	Password string
}

// Login verifies the form and, on success, creates a session row and returns
// an Outcome that sets the credential cookie and redirects to the area's
// landing page. Every failure redirects back to the area's login page with an
// error message.
func (e *Engine) Login(ctx context.Context, req LoginRequest) Outcome {
	if e == nil {
		return Fail(ErrEngineNotReady)
	}
	paths := e.config.Paths
	loginPath := paths.LoginPath(req.Area)

	res := flows.RunLogin(ctx, flows.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		AdminOnly: req.Area == AreaAdmin,
	}, e.flows.Login)

	event := AuditEvent{Kind: auditEventLoginFailure, Username: req.Username, Area: req.Area.String()}
	if res.User != nil {
		event.UserID = res.User.ID
		event.Username = res.User.Username
	}

	var (
		msg    string
		reason = ErrInvalidCredentials
	)
	switch res.State {
	case flows.LoginOK:
		if res.RehashErr != nil {
			e.logger.Warn("password rehash failed", "user_id", res.User.ID, "error", res.RehashErr)
		} else if res.Rehashed {
			e.logger.Info("password rehashed", "user_id", res.User.ID)
		}
		e.metricInc(MetricLoginSuccess)
		e.metricInc(MetricSessionCreated)
		e.logger.Info("login", "user_id", res.User.ID, "area", req.Area.String())
		event.Kind = auditEventLoginSuccess
		event.Role = res.User.Role.String()
		event.SessionID = res.Session.ID
		e.emitAudit(ctx, event, nil)
		return Redirect(paths.LandingPath(req.Area), FlashSuccess, WelcomeMessage(res.User.Name)).
			SettingCookie(res.Token, e.config.Session.Window)
	case flows.LoginMissingFields:
		msg = MsgFillAllFields
	case flows.LoginBlankUsername:
		msg = MsgUsernameEmpty
	case flows.LoginBlankPassword:
		msg = MsgPasswordEmpty
	case flows.LoginUnknownUser:
		msg = MsgUserNotFound
	case flows.LoginInactive:
		msg = MsgUserInactive
		reason = ErrUserInactive
	case flows.LoginNotAdmin:
		msg = MsgAdminOnly
		reason = ErrRoleDenied
	case flows.LoginWrongPassword:
		msg = MsgWrongPassword
	case flows.LoginTokenConflict:
		msg = MsgDuplicateSession
		reason = fmt.Errorf("%w: %v", ErrSessionCreationFailed, res.Err)
		e.logger.Error("login token conflict", "user_id", event.UserID, "error", res.Err)
	default:
		msg = MsgLoginFailed
		reason = fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Err)
		e.metricInc(MetricStoreError)
		e.logger.Error("login failed", "area", req.Area.String(), "error", res.Err)
	}

	e.metricInc(MetricLoginFailure)
	e.logger.Debug("login rejected", "area", req.Area.String(), "state", res.State.String())
	e.emitAudit(ctx, event, reason)
	return Redirect(loginPath, FlashError, msg).Because(reason)
}

// Logout deletes the row for token, when present, and redirects to the
// area's login page. The cookie is always cleared. A store failure is logged
// and reported with a warning instead of an error outcome, so logout never
// fails from the client's point of view.
func (e *Engine) Logout(ctx context.Context, area Area, token string) Outcome {
	if e == nil {
		return Fail(ErrEngineNotReady)
	}
	loginPath := e.config.Paths.LoginPath(area)

	err := flows.RunLogout(ctx, token, e.flows.Logout)
	event := AuditEvent{Kind: auditEventLogout, Area: area.String()}
	if err != nil {
		e.metricInc(MetricStoreError)
		e.logger.Warn("logout failed", "area", area.String(), "error", err)
		e.emitAudit(ctx, event, fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
		return Redirect(loginPath, FlashWarning, MsgLogoutPartial).ClearingCookie()
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, event, nil)
	return Redirect(loginPath, FlashInfo, MsgLogoutOK).ClearingCookie()
}

// rehashPassword replaces u's stored hash when the verifier reports it stale.
// plain has already matched the old hash.
func (e *Engine) rehashPassword(ctx context.Context, u *account.User, plain string) (bool, error) {
	stale, err := e.rehasher.NeedsUpgrade(u.PasswordHash)
	if err != nil || !stale {
		return false, err
	}
	hash, err := e.rehasher.Hash(plain)
	if err != nil {
		return false, err
	}
	next := u.Clone()
	next.PasswordHash = hash
	next.UpdatedAt = e.now()
	if err := e.users.Update(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

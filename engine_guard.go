package goSession

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/internal/flows"
)

// AuthRequest is the transport-neutral view of a guarded request.
type AuthRequest struct {
	// Path is the full request path, mount prefix included.
	Path  string
	Token string
}

// Authenticate runs the session guard for one request. On success the
// Outcome is Continue with an Identity and the session row has been renewed
// to now + window. Invalid credentials yield a Redirect to the area's login
// page; store failures yield Error wrapping ErrStoreUnavailable.
func (e *Engine) Authenticate(ctx context.Context, req AuthRequest) Outcome {
	if e == nil {
		return Fail(ErrEngineNotReady)
	}
	start := time.Now()
	defer func() { e.metrics.Observe(MetricGuardLatency, time.Since(start)) }()

	area := e.AreaOf(req.Path)
	login := e.config.Paths.LoginPath(area)

	res := flows.RunGuard(ctx, req.Token, e.flows.Guard)

	var out Outcome
	switch res.State {
	case flows.GuardActive:
		e.metricInc(MetricSessionRenewed)
		return Continue(&Identity{
			User:      res.User,
			SessionID: res.Session.ID,
			Area:      area,
		})
	case flows.GuardNoToken:
		out = Redirect(login, FlashWarning, MsgSessionMissing).Because(ErrMissingCredential)
	case flows.GuardMalformed:
		e.metricInc(MetricSessionInvalidated)
		out = Redirect(login, FlashError, MsgTokenInvalid).Because(ErrMalformedCredential).ClearingCookie()
	case flows.GuardCodecExpired:
		e.metricInc(MetricSessionExpired)
		out = Redirect(login, FlashWarning, MsgSessionExpired).Because(ErrCredentialExpired).ClearingCookie()
	case flows.GuardStoreNotFound:
		e.metricInc(MetricSessionInvalidated)
		out = Redirect(login, FlashWarning, MsgSessionExpired).Because(ErrSessionNotFound).ClearingCookie()
	case flows.GuardStoreExpired:
		e.metricInc(MetricSessionExpired)
		out = Redirect(login, FlashWarning, MsgSessionExpired).Because(ErrSessionExpired).ClearingCookie()
	case flows.GuardUserInactive:
		e.metricInc(MetricSessionInvalidated)
		out = Redirect(login, FlashError, MsgUserInactive).Because(ErrUserInactive).ClearingCookie()
	default:
		e.metricInc(MetricStoreError)
		e.logger.Error("session store failure", "path", req.Path, "error", res.Err)
		return Fail(fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Err))
	}

	e.logger.Debug("session rejected", "path", req.Path, "area", area.String(), "state", res.State.String())
	event := AuditEvent{Kind: auditEventGuardReject, Area: area.String(), Path: req.Path}
	if res.User != nil {
		event.UserID = res.User.ID
		event.Username = res.User.Username
	}
	if res.Session != nil {
		event.SessionID = res.Session.ID
	}
	e.emitAudit(ctx, event, out.Reason)
	return out
}

// GuardStep adapts Authenticate for Chain.
func (e *Engine) GuardStep(req AuthRequest) Step {
	return func(ctx context.Context, _ *Identity) Outcome {
		return e.Authenticate(ctx, req)
	}
}

// RedirectIfAuthenticated is for login pages. A codec-valid token redirects
// to the landing page of the area, without consulting the session store. An
// invalid token is cleared and the login page is shown.
func (e *Engine) RedirectIfAuthenticated(ctx context.Context, req AuthRequest) Outcome {
	if e == nil {
		return Fail(ErrEngineNotReady)
	}
	if req.Token == "" {
		return Continue(nil)
	}
	if _, err := e.jwtManager.Verify(req.Token); err != nil {
		e.logger.Debug("stale credential on login page", "path", req.Path, "error", err)
		return Continue(nil).ClearingCookie()
	}

	area := e.AreaOf(req.Path)
	if strings.HasPrefix(req.Path, e.config.Paths.AdminLogin) {
		area = AreaAdmin
	}
	return Redirect(e.config.Paths.LandingPath(area), FlashNone, "")
}

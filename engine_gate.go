package goSession

import (
	"context"

	"github.com/MrEthical07/goSession/permission"
)

// Authorize checks id against allowed. A missing identity sends the client
// back to the area login; a role outside allowed lands on the general
// dashboard with a message naming the accepted roles.
func (e *Engine) Authorize(ctx context.Context, id *Identity, area Area, allowed permission.Set) Outcome {
	if e == nil {
		return Fail(ErrEngineNotReady)
	}
	paths := e.config.Paths

	if id == nil || id.User == nil {
		e.metricInc(MetricRoleDenied)
		return Redirect(paths.LoginPath(area), FlashError, MsgAccessDeniedLogin).Because(ErrRoleDenied)
	}
	if allowed.Has(id.Role()) {
		return Continue(id)
	}

	e.metricInc(MetricRoleDenied)
	e.logger.Debug("role denied", "user_id", id.User.ID, "role", id.Role().String(), "allowed", allowed.String())
	e.emitAudit(ctx, AuditEvent{
		Kind:      auditEventRoleDenied,
		Area:      area.String(),
		UserID:    id.User.ID,
		Username:  id.User.Username,
		SessionID: id.SessionID,
		Role:      id.Role().String(),
		Allowed:   allowed.Codes(),
	}, ErrRoleDenied)

	return Redirect(paths.Dashboard, FlashError, RoleDeniedMessage(allowed.DisplayNames())).Because(ErrRoleDenied)
}

// GateStep adapts Authorize for Chain. The area comes from the identity when
// the guard resolved one, else from fallback.
func (e *Engine) GateStep(fallback Area, allowed permission.Set) Step {
	return func(ctx context.Context, id *Identity) Outcome {
		area := fallback
		if id != nil {
			area = id.Area
		}
		return e.Authorize(ctx, id, area, allowed)
	}
}

// OperationStep gates on the role set the operation table assigns to op.
func (e *Engine) OperationStep(fallback Area, op permission.Operation) Step {
	return e.GateStep(fallback, permission.Allowed(op))
}

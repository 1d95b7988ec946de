package goSession

import (
	"context"
	"errors"
	"io"

	"github.com/MrEthical07/goSession/internal/audit"
)

// AuditEvent is one security-relevant action.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

// ChannelSink delivers events into a buffered channel.
type ChannelSink = audit.ChannelSink

// NewChannelSink returns a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink writes one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

const (
	auditEventLoginSuccess = "login_success"
	auditEventLoginFailure = "login_failure"
	auditEventLogout       = "logout"
	auditEventGuardReject  = "session_rejected"
	auditEventRoleDenied   = "role_denied"
)

// AuditErrorCode is the stable failure label written into AuditEvent.Reason.
type AuditErrorCode string

const (
	auditErrMissingCredential AuditErrorCode = "missing_credential"
	auditErrMalformed         AuditErrorCode = "malformed_credential"
	auditErrExpired           AuditErrorCode = "credential_expired"
	auditErrSessionNotFound   AuditErrorCode = "session_not_found"
	auditErrSessionExpired    AuditErrorCode = "session_expired"
	auditErrUserInactive      AuditErrorCode = "user_inactive"
	auditErrRoleDenied        AuditErrorCode = "role_denied"
	auditErrInvalidCreds      AuditErrorCode = "invalid_credentials"
	auditErrSessionCreation   AuditErrorCode = "session_creation_failed"
	auditErrUnavailable       AuditErrorCode = "backend_unavailable"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent, err error) {
	if e == nil || e.audit == nil {
		return
	}
	event.At = e.now().UTC()
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	if code := auditErrorCode(err); code != "" {
		event.Reason = string(code)
	}
	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return auditErrMissingCredential
	case errors.Is(err, ErrMalformedCredential):
		return auditErrMalformed
	case errors.Is(err, ErrCredentialExpired):
		return auditErrExpired
	case errors.Is(err, ErrSessionNotFound):
		return auditErrSessionNotFound
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrUserInactive):
		return auditErrUserInactive
	case errors.Is(err, ErrRoleDenied):
		return auditErrRoleDenied
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCreds
	case errors.Is(err, ErrSessionCreationFailed):
		return auditErrSessionCreation
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}

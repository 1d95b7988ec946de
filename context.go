package goSession

import (
	"context"

	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/permission"
)

// Identity is the request-scoped result of a successful guard pass.
type Identity struct {
	User      *account.User
	SessionID string
	Area      Area
}

// AdminArea reports whether the request targeted the admin area.
func (i *Identity) AdminArea() bool {
	return i != nil && i.Area == AreaAdmin
}

// Role returns the user's role, or RoleUnknown for a nil identity.
func (i *Identity) Role() permission.Role {
	if i == nil || i.User == nil {
		return permission.RoleUnknown
	}
	return i.User.Role
}

type identityContextKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity attached by the session guard.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok && id != nil
}

type clientIPContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

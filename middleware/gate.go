package middleware

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/permission"
)

// RequireRoles lets the request through only when the guarded identity holds
// a role in allowed. It must be mounted after Guard.
func RequireRoles(engine *goSession.Engine, allowed permission.Set, opts ...Option) func(http.Handler) http.Handler {
	o := buildOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := goSession.IdentityFromContext(r.Context())
			area := engine.AreaOf(r.URL.Path)
			if id != nil {
				area = id.Area
			}
			out := engine.Authorize(r.Context(), id, area, allowed)
			if !Render(w, r, engine, out, o.onError) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOperation gates on the role set assigned to op.
func RequireOperation(engine *goSession.Engine, op permission.Operation, opts ...Option) func(http.Handler) http.Handler {
	return RequireRoles(engine, permission.Allowed(op), opts...)
}

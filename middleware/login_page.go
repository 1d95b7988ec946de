package middleware

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// RedirectIfAuthenticated wraps login pages. Clients carrying a credential
// that still verifies are sent to their landing page; a stale cookie is
// cleared and the page is served.
func RedirectIfAuthenticated(engine *goSession.Engine, opts ...Option) func(http.Handler) http.Handler {
	o := buildOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out := engine.RedirectIfAuthenticated(r.Context(), goSession.AuthRequest{
				Path:  r.URL.Path,
				Token: TokenFromRequest(r, engine.CookieName()),
			})
			if !Render(w, r, engine, out, o.onError) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net"
	"net/http"

	goSession "github.com/MrEthical07/goSession"
)

// ErrorHandler renders an OutcomeError.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler answers 500 without leaking err.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Option customizes the middleware constructors.
type Option func(*options)

type options struct {
	onError ErrorHandler
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		if h != nil {
			o.onError = h
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{onError: DefaultErrorHandler}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Guard runs Engine.Authenticate on every request. Guarded handlers find the
// Identity with goSession.IdentityFromContext.
func Guard(engine *goSession.Engine, opts ...Option) func(http.Handler) http.Handler {
	o := buildOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := withRemoteIP(r)
			out := engine.Authenticate(ctx, goSession.AuthRequest{
				Path:  r.URL.Path,
				Token: TokenFromRequest(r, engine.CookieName()),
			})
			if !Render(w, r, engine, out, o.onError) {
				return
			}
			next.ServeHTTP(w, r.WithContext(goSession.WithIdentity(ctx, out.Identity)))
		})
	}
}

// Render applies out to the response: the cookie directive first, then the
// redirect or error. It reports whether the request should proceed.
func Render(w http.ResponseWriter, r *http.Request, engine *goSession.Engine, out goSession.Outcome, onError ErrorHandler) bool {
	cfg := engine.Session()
	switch out.Cookie {
	case goSession.CookieSet:
		SetCredentialCookie(w, cfg, out.Token, out.TokenMaxAge)
	case goSession.CookieClear:
		ClearCredentialCookie(w, cfg)
	}

	switch out.Kind {
	case goSession.OutcomeContinue:
		return true
	case goSession.OutcomeRedirect:
		http.Redirect(w, r, out.Location(), http.StatusFound)
	default:
		if onError == nil {
			onError = DefaultErrorHandler
		}
		onError(w, r, out.Reason)
	}
	return false
}

// withRemoteIP tags the request context with the caller address for audit
// events.
func withRemoteIP(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return goSession.WithClientIP(r.Context(), host)
}

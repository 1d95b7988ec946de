package middleware

import (
	"net/http"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
)

// TokenFromRequest returns the credential from the session cookie, falling
// back to an Authorization bearer header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	token, _ := bearerToken(r.Header.Get("Authorization"))
	return token
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

// SetCredentialCookie stores token in an HttpOnly cookie living maxAge.
func SetCredentialCookie(w http.ResponseWriter, cfg goSession.SessionConfig, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: cfg.SameSite,
	})
}

// ClearCredentialCookie expires the credential cookie on the client.
func ClearCredentialCookie(w http.ResponseWriter, cfg goSession.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: cfg.SameSite,
	})
}

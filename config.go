package goSession

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/jwt"
)

// DefaultWindow is the sliding session window applied at login and on every
// authenticated request.
const DefaultWindow = 15 * time.Minute

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT     JWTConfig
	Session SessionConfig
	Paths   PathsConfig
	Sweep   SweepConfig
	Metrics MetricsConfig
	Audit   AuditConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls the credential codec.
type JWTConfig struct {
	// Secret signs every credential with HS256. It is required.
	Secret []byte
	// TTL is the credential lifetime, independent of the session row expiry.
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session rows and the client cookie.
type SessionConfig struct {
	Window       time.Duration
	CookieName   string
	SecureCookie bool
	SameSite     http.SameSite
}

/*
====================================
PATHS CONFIG
====================================
*/

// PathsConfig names the redirect destinations of both areas.
type PathsConfig struct {
	// AdminPrefix is the leading path segment that marks an admin-area request.
	AdminPrefix  string
	AdminLogin   string
	Login        string
	AdminLanding string
	Dashboard    string
}

/*
====================================
SWEEP CONFIG
====================================
*/

// SweepConfig controls the optional background sweeper. A zero Interval
// disables it.
type SweepConfig struct {
	Interval time.Duration
}

/*
====================================
METRICS / AUDIT CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the production defaults. Secret is left empty and
// must be supplied by the host.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL: jwt.DefaultTTL,
		},
		Session: SessionConfig{
			Window:     DefaultWindow,
			CookieName: "token",
			SameSite:   http.SameSiteLaxMode,
		},
		Paths: PathsConfig{
			AdminPrefix:  "/admin",
			AdminLogin:   "/admin/auth/login",
			Login:        "/auth/login",
			AdminLanding: "/admin",
			Dashboard:    "/dashboard",
		},
		Sweep: SweepConfig{
			Interval: time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid setting. A missing secret yields
// ErrMissingSecret so hosts can abort startup on it.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) == 0 {
		return ErrMissingSecret
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be > 0")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	// Session
	if c.Session.Window <= 0 {
		return errors.New("Session Window must be > 0")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("Session CookieName must not be empty")
	}
	if c.Session.SameSite == http.SameSiteNoneMode && !c.Session.SecureCookie {
		return errors.New("Session SameSite=None requires SecureCookie")
	}

	// Paths
	for name, p := range map[string]string{
		"AdminPrefix":  c.Paths.AdminPrefix,
		"AdminLogin":   c.Paths.AdminLogin,
		"Login":        c.Paths.Login,
		"AdminLanding": c.Paths.AdminLanding,
		"Dashboard":    c.Paths.Dashboard,
	} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("Paths " + name + " must start with /")
		}
	}
	if c.Paths.AdminPrefix == "/" {
		return errors.New("Paths AdminPrefix must not be /")
	}
	if !c.Paths.adminPath(c.Paths.AdminLogin) {
		return errors.New("Paths AdminLogin must live under AdminPrefix")
	}
	if c.Paths.adminPath(c.Paths.Login) {
		return errors.New("Paths Login must not live under AdminPrefix")
	}

	// Sweep
	if c.Sweep.Interval < 0 {
		return errors.New("Sweep Interval must be >= 0")
	}
	if c.Sweep.Interval > 0 && c.Sweep.Interval < time.Second {
		return errors.New("Sweep Interval must be >= 1s")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}

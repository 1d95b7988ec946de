package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/password"
)

// Backend names accepted by the backend setting.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// FileConfig is the on-disk server configuration.
type FileConfig struct {
	Addr string `yaml:"addr"`
	TLS  bool   `yaml:"tls"`

	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`

	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
		Issuer string        `yaml:"issuer"`
	} `yaml:"jwt"`

	Session struct {
		Window     time.Duration `yaml:"window"`
		CookieName string        `yaml:"cookie_name"`
		SameSite   string        `yaml:"same_site"`
	} `yaml:"session"`

	// BcryptCost is the cost of new hashes. Logins rewrite rows stored below it.
	BcryptCost int `yaml:"bcrypt_cost"`

	SweepInterval time.Duration `yaml:"sweep_interval"`
	Metrics       bool          `yaml:"metrics"`
	AuditLog      string        `yaml:"audit_log"`
}

// DefaultFileConfig mirrors goSession.DefaultConfig plus server defaults.
func DefaultFileConfig() FileConfig {
	def := goSession.DefaultConfig()
	var fc FileConfig
	fc.Addr = ":3000"
	fc.Backend = BackendSQLite
	fc.SQLitePath = "gosession.db"
	fc.RedisAddr = "localhost:6379"
	fc.RedisPrefix = "gosession"
	fc.JWT.TTL = def.JWT.TTL
	fc.Session.Window = def.Session.Window
	fc.Session.CookieName = def.Session.CookieName
	fc.Session.SameSite = "lax"
	fc.BcryptCost = password.DefaultCost
	fc.SweepInterval = def.Sweep.Interval
	fc.Metrics = def.Metrics.Enabled
	return fc
}

// LoadConfig reads path, when non-empty, over the defaults and then applies
// GOSESSION_* environment overrides.
func LoadConfig(path string) (FileConfig, error) {
	fc := DefaultFileConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fc, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&fc, os.LookupEnv); err != nil {
		return fc, err
	}
	return fc, nil
}

func applyEnv(fc *FileConfig, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str("GOSESSION_JWT_SECRET", &fc.JWT.Secret)
	str("GOSESSION_ADDR", &fc.Addr)
	str("GOSESSION_BACKEND", &fc.Backend)
	str("GOSESSION_SQLITE_PATH", &fc.SQLitePath)
	str("GOSESSION_REDIS_ADDR", &fc.RedisAddr)

	if v, ok := lookup("GOSESSION_TLS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GOSESSION_TLS: %w", err)
		}
		fc.TLS = b
	}
	if v, ok := lookup("GOSESSION_JWT_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GOSESSION_JWT_TTL: %w", err)
		}
		fc.JWT.TTL = d
	}
	return nil
}

// EngineConfig converts fc into a validated engine configuration.
func (fc FileConfig) EngineConfig() (goSession.Config, error) {
	cfg := goSession.DefaultConfig()
	cfg.JWT.Secret = []byte(fc.JWT.Secret)
	cfg.JWT.TTL = fc.JWT.TTL
	cfg.JWT.Issuer = fc.JWT.Issuer
	cfg.Session.Window = fc.Session.Window
	cfg.Session.CookieName = fc.Session.CookieName
	cfg.Session.SecureCookie = fc.TLS
	cfg.Sweep.Interval = fc.SweepInterval
	cfg.Metrics.Enabled = fc.Metrics
	cfg.Audit.Enabled = fc.AuditLog != ""

	switch strings.ToLower(fc.Session.SameSite) {
	case "", "lax":
		cfg.Session.SameSite = http.SameSiteLaxMode
	case "strict":
		cfg.Session.SameSite = http.SameSiteStrictMode
	case "none":
		cfg.Session.SameSite = http.SameSiteNoneMode
	default:
		return cfg, fmt.Errorf("unknown same_site %q", fc.Session.SameSite)
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, goSession.ErrMissingSecret) {
			return cfg, fmt.Errorf("%w: set jwt.secret or GOSESSION_JWT_SECRET", err)
		}
		return cfg, err
	}
	return cfg, nil
}

package cookie

import "net/http"

// Config holds the attributes applied to every cookie the Manager writes
// unless a call overrides them.
type Config struct {
	Path   string `env:"COOKIE_PATH" envDefault:"/"`
	Domain string `env:"COOKIE_DOMAIN" envDefault:""`
	// MaxAge in seconds; 0 leaves it to the caller (session cookies)
	MaxAge   int  `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	// SameSite uses the net/http numbering: 1 default, 2 lax, 3 strict, 4 none
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
}

// NewFromConfig creates a Manager from cfg; opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	base := []Option{WithHTTPOnly(cfg.HttpOnly)}
	if cfg.Path != "" {
		base = append(base, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		base = append(base, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		base = append(base, WithMaxAge(cfg.MaxAge))
	}
	if cfg.Secure {
		base = append(base, WithSecure(true))
	}
	if cfg.SameSite != 0 {
		base = append(base, WithSameSite(cfg.SameSite))
	}
	return New(append(base, opts...)...)
}

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const productionProfile = "prod"

type Config struct {
	AppPort  string   `env:"APP_PORT" envDefault:"8080"`
	Profiles []string `env:"APP_PROFILES" envSeparator:","`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"info"`

	// AllowedEmailDomain is the suffix every email must carry in production,
	// e.g. "@ist.com".
	AllowedEmailDomain string `env:"ALLOWED_EMAIL_DOMAIN"`

	OIDCIssuer          string   `env:"OIDC_ISSUER" envDefault:"https://login.microsoftonline.com/common/v2.0"`
	OIDCClientID        string   `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret    string   `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL     string   `env:"OIDC_REDIRECT_URL"`
	OIDCScopes          []string `env:"OIDC_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
	OIDCSkipIssuerCheck bool     `env:"OIDC_SKIP_ISSUER_CHECK"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTAlgorithm  string        `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"1h"`

	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Profiles = trimCSV(cfg.Profiles)
	cfg.AllowedEmailDomain = strings.TrimSpace(cfg.AllowedEmailDomain)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the "prod" deployment profile is active.
func (c Config) IsProduction() bool {
	return slices.Contains(c.Profiles, productionProfile)
}

func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.IsProduction() && c.AllowedEmailDomain == "" {
		errs = append(errs, errors.New("ALLOWED_EMAIL_DOMAIN is required for the prod profile"))
	}

	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres store"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	return errors.Join(errs...)
}

func trimCSV(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env      string // dev|prod
	HTTPAddr string
	LogLevel string

	DBDriver     string // postgres|mysql|sqlite
	DatabaseURL  string
	PGDriverName string // пусто — pgx, "postgres" — lib/pq
	DBTimeout    time.Duration

	SessionKey string
	JWTSecret  string
	JWTTTL     time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	CORSOrigins []string
	SentryDSN   string
	Seed        bool
}

const (
	devSessionKey = "super-secret-default-key"
	devJWTSecret  = "dev-jwt-secret"
)

// Load читает окружение. Секреты без значений допустимы только вне prod,
// список того, что было подставлено по умолчанию, возвращается во втором значении.
func Load() (*Config, []string, error) {
	var warnings []string

	dbTimeout, err := getDuration("DB_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	jwtTTL, err := getDuration("JWT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, nil, err
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":" + getenv("PORT", "8080")
	}

	cfg := &Config{
		Env:      strings.ToLower(getenv("ENV", "dev")),
		HTTPAddr: addr,
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:     strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		PGDriverName: os.Getenv("PG_DRIVER_NAME"),
		DBTimeout:    dbTimeout,

		SessionKey: os.Getenv("SESSION_KEY"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     jwtTTL,

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Seed:        os.Getenv("SEED") == "true" || os.Getenv("SEED") == "1",
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}

	if cfg.SessionKey == "" {
		if cfg.IsProd() {
			return nil, nil, errors.New("SESSION_KEY is required in prod")
		}
		cfg.SessionKey = devSessionKey
		warnings = append(warnings, "SESSION_KEY не задан, используется дефолтный")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProd() {
			return nil, nil, errors.New("JWT_SECRET is required in prod")
		}
		cfg.JWTSecret = devJWTSecret
		warnings = append(warnings, "JWT_SECRET не задан, используется дефолтный")
	}

	// CORS идёт с AllowCredentials: в prod только явные источники
	if hasWildcard(cfg.CORSOrigins) {
		if cfg.IsProd() {
			return nil, nil, errors.New("CORS_ORIGINS must list explicit origins in prod")
		}
		warnings = append(warnings, "CORS_ORIGINS разрешает любой источник")
	}

	return cfg, warnings, nil
}

func hasWildcard(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (c *Config) IsProd() bool { return c.Env == "prod" }

// GoogleEnabled — вход через Google включается, только если заданы все три переменные.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

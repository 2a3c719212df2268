package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_KEY", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, warnings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBTimeout != 5*time.Second {
		t.Fatalf("DBTimeout = %v", cfg.DBTimeout)
	}
	if cfg.SessionKey != devSessionKey || cfg.JWTSecret != devJWTSecret {
		t.Fatal("expected development secrets")
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v", warnings)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.GoogleEnabled() {
		t.Fatal("google login must be disabled without credentials")
	}
}

func TestLoadProdRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_KEY", "")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("CORS_ORIGINS", "https://app.test")
	if _, _, err := Load(); err == nil {
		t.Fatal("expected error for missing SESSION_KEY in prod")
	}
}

func TestLoadProdRequiresExplicitOrigins(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("SESSION_KEY", "k")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_TIMEOUT", "")

	for _, origins := range []string{"", "*", "https://app.test,*"} {
		t.Setenv("CORS_ORIGINS", origins)
		if _, _, err := Load(); err == nil {
			t.Fatalf("CORS_ORIGINS=%q: expected error in prod", origins)
		}
	}

	t.Setenv("CORS_ORIGINS", "https://app.test")
	cfg, warnings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 1 || len(warnings) != 0 {
		t.Fatalf("origins = %v, warnings = %v", cfg.CORSOrigins, warnings)
	}
}

func TestLoadDevWarnsOnWildcardOrigins(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_KEY", "k")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_TIMEOUT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, warnings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" || len(warnings) != 1 {
		t.Fatalf("origins = %v, warnings = %v", cfg.CORSOrigins, warnings)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("DB_DRIVER", "oracle")
	if _, _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_TIMEOUT", "five seconds")
	if _, _, err := Load(); err == nil {
		t.Fatal("expected error for malformed DB_TIMEOUT")
	}
}

package config

import (
	"testing"

	"retailmanager/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"STORAGE_NAMESPACE", "AUTH_SECRET",
		"ACCESS_TOKEN_TTL_MINUTES", "REPORT_CACHE_TTL_SECONDS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DatabaseURL != "" || cfg.RedisAddr != "" {
		t.Fatalf("expected empty backend addresses, got %+v", cfg)
	}
	if cfg.Namespace != store.DefaultNamespace {
		t.Fatalf("expected default namespace %q, got %q", store.DefaultNamespace, cfg.Namespace)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected default token ttl 480, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.ReportCacheTTLSeconds != 60 {
		t.Fatalf("expected default cache ttl 60, got %d", cfg.ReportCacheTTLSeconds)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected redis db 0, got %d", cfg.RedisDB)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/retail")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STORAGE_NAMESPACE", "@test:")
	t.Setenv("AUTH_SECRET", "  sekret  ")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "5")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://localhost/retail" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Fatalf("unexpected redis settings: %+v", cfg)
	}
	if cfg.Namespace != "@test:" {
		t.Fatalf("unexpected namespace %q", cfg.Namespace)
	}
	if cfg.AuthSecret != "sekret" {
		t.Fatalf("expected trimmed secret, got %q", cfg.AuthSecret)
	}
	if cfg.AccessTokenTTLMinutes != 15 || cfg.ReportCacheTTLSeconds != 5 {
		t.Fatalf("unexpected ttls: %+v", cfg)
	}
}

func TestLoadRejectsBadTTLs(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "-5")

	cfg := Load()
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected fallback token ttl, got %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.ReportCacheTTLSeconds != 60 {
		t.Fatalf("expected fallback cache ttl, got %d", cfg.ReportCacheTTLSeconds)
	}
}

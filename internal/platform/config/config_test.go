package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hreval/internal/domain/evaluation"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("expected default token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("expected fallback rate limit, got %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hreval")
	t.Setenv("RUN_SEED", "false")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://localhost/hreval" || cfg.RunSeed {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", cfg.TokenTTL)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.SlogLevel())
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseURL:        "postgres://localhost/hreval",
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 10,
		TokenTTL:           time.Hour,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(c *Config){
		"missing database": func(c *Config) { c.DatabaseURL = "" },
		"small body":       func(c *Config) { c.MaxBodyBytes = 10 },
		"zero rate":        func(c *Config) { c.RateLimitPerMinute = 0 },
		"production secret": func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = ""
		},
		"production seed password": func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "secret"
			c.RunSeed = true
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadReviewersDefaults(t *testing.T) {
	dir, err := LoadReviewers("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(dir.List()); got != 5 {
		t.Fatalf("expected 5 default reviewers, got %d", got)
	}
}

func TestLoadReviewersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewers.yaml")
	content := "reviewers:\n  - id: r-1\n    name: Grace Hopper\n    role: HR\n  - id: r-2\n    name: Alan Turing\n    role: LM\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	dir, err := LoadReviewers(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := dir.Lookup("r-1")
	if !ok || r.Name != "Grace Hopper" || r.Role != evaluation.RoleHR {
		t.Fatalf("unexpected reviewer: %+v", r)
	}
}

func TestLoadReviewersRejectsBadRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewers.yaml")
	if err := os.WriteFile(path, []byte("reviewers:\n  - id: r-1\n    name: X\n    role: CEO\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadReviewers(path)
	if !errors.Is(err, evaluation.ErrInvalidReviewerList) {
		t.Fatalf("expected invalid reviewer list, got %v", err)
	}
}

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:               "8000",
		Env:                "production",
		DatabaseURL:        "postgres://localhost/hemo",
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    168 * time.Hour,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingSecrets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.AccessTokenSecret = "" }},
		{"missing refresh secret", func(c *Config) { c.RefreshTokenSecret = "" }},
		{"identical secrets", func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_TokenLifetimes(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTokenTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero access TTL")
	}

	cfg = validConfig()
	cfg.RefreshTokenTTL = 5 * time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when refresh TTL does not exceed access TTL")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hemo_test")
	t.Setenv("ENV", "development")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		t.Error("expected development secret defaults")
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access TTL = %s, want 15m", cfg.AccessTokenTTL)
	}
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hemo")
	t.Setenv("ENV", "production")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected startup failure for missing secrets in production")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080 got %s", cfg.Server.Port)
	}
	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Fatalf("expected 15m access expiry got %s", cfg.JWT.AccessExpiry)
	}
	if cfg.Script.SungMarker != "~" {
		t.Fatalf("expected ~ sung marker got %q", cfg.Script.SungMarker)
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "rehearsals")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_REFRESH_EXPIRY", "24h")
	t.Setenv("LOCAL_PROJECTS_DIR", "/tmp/scripts")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Name != "rehearsals" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.JWT.RefreshExpiry != 24*time.Hour {
		t.Fatalf("unexpected refresh expiry %s", cfg.JWT.RefreshExpiry)
	}
	if cfg.Local.Dir != "/tmp/scripts" {
		t.Fatalf("unexpected local dir %s", cfg.Local.Dir)
	}
}

func TestValidate_RequiresGoogleCredentials(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing client id to fail")
	}
	cfg.OAuth.Google.ClientID = "id"
	cfg.OAuth.Google.ClientSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_ADDR", "STORE_DRIVER", "EMAIL_HOST", "EMAIL_PORT", "EMAIL_SECURE",
		"EMAIL_USER", "EMAIL_PASS", "ADMIN_EMAIL", "REDIS_ADDR", "RATE_LIMIT_PER_MINUTE",
		"TRUSTED_PROXIES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Server.Address)
	}
	if cfg.Store.Driver != "mongo" {
		t.Errorf("expected mongo driver, got %q", cfg.Store.Driver)
	}
	if cfg.Mail.Host != "smtp.gmail.com" || cfg.Mail.Port != 587 || cfg.Mail.Secure {
		t.Errorf("unexpected mail defaults: %+v", cfg.Mail)
	}
	if cfg.Redis.Enabled {
		t.Error("expected redis disabled without REDIS_ADDR")
	}
	if cfg.Server.TrustedProxies != 1 {
		t.Errorf("expected 1 trusted proxy, got %d", cfg.Server.TrustedProxies)
	}
}

func TestLoad_MailCredentialsDoNotFailStartup(t *testing.T) {
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	missing := cfg.Mail.Missing()
	want := []string{"EMAIL_USER", "EMAIL_PASS", "ADMIN_EMAIL"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d]: want %q, got %q", i, want[i], missing[i])
		}
	}
}

func TestLoad_Redis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WAITLIST_LOCK_TTL_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Redis.Enabled || cfg.Redis.DB != 2 || cfg.Redis.LockTTL != 30*time.Second {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("EMAIL_PORT", "smtp")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric EMAIL_PORT")
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("EMAIL_SECURE", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid EMAIL_SECURE")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown STORE_DRIVER")
	}
}

func TestLoad_NegativeTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative TRUSTED_PROXIES")
	}
}

func TestMailConfig_Missing_Complete(t *testing.T) {
	c := MailConfig{Host: "smtp", User: "u", Password: "p", AdminEmail: "a@b.com"}
	if m := c.Missing(); len(m) != 0 {
		t.Errorf("expected nothing missing, got %v", m)
	}
}

package config

import (
	"strings"
	"testing"
)

func base() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := base()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("expected longpoll default, got %q", cfg.Telegram.RunMode)
	}
	if cfg.Orders.ConfirmDelayMS != 3000 || cfg.Orders.FollowUpDelayMS != 4000 {
		t.Fatalf("unexpected order delays: %+v", cfg.Orders)
	}
	if cfg.Orders.LeaseTTLMinutes != 60 {
		t.Fatalf("expected 60 minute lease default, got %d", cfg.Orders.LeaseTTLMinutes)
	}
	if cfg.Orders.PaymentURL == "" || cfg.Probe.Listen != ":8080" {
		t.Fatalf("missing defaults: %+v %+v", cfg.Orders, cfg.Probe)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := &Config{}
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := base()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = base()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://example.com/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("expected valid webhook config, got %v", err)
	}
}

func TestNormalizeRejectsNegativeDelays(t *testing.T) {
	cfg := base()
	cfg.Orders.ConfirmDelayMS = -1
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for negative confirm delay")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := base()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback "}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Fatalf("expected normalized exclusion, got %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg = base()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported exclusion")
	}
}

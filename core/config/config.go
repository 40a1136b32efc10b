package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings that are common for all bots.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// OrdersConfig tunes the order pipeline timings and the payment link.
type OrdersConfig struct {
	ConfirmDelayMS   int    `yaml:"confirm_delay_ms" envconfig:"ORDERS_CONFIRM_DELAY_MS"`
	FollowUpDelayMS  int    `yaml:"follow_up_delay_ms" envconfig:"ORDERS_FOLLOW_UP_DELAY_MS"`
	LeaseTTLMinutes  int    `yaml:"lease_ttl_minutes" envconfig:"ORDERS_LEASE_TTL_MINUTES"`
	PaymentURL       string `yaml:"payment_url" envconfig:"ORDERS_PAYMENT_URL"`
}

// ConfirmDelay returns the payment confirmation delay as a duration.
func (o OrdersConfig) ConfirmDelay() time.Duration {
	return time.Duration(o.ConfirmDelayMS) * time.Millisecond
}

// FollowUpDelay returns the follow-up delay as a duration.
func (o OrdersConfig) FollowUpDelay() time.Duration {
	return time.Duration(o.FollowUpDelayMS) * time.Millisecond
}

// LeaseTTL returns the number lease lifetime as a duration.
func (o OrdersConfig) LeaseTTL() time.Duration {
	return time.Duration(o.LeaseTTLMinutes) * time.Minute
}

// ProbeConfig configures the liveness probe HTTP server.
type ProbeConfig struct {
	Listen string `yaml:"listen" envconfig:"PROBE_LISTEN"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates all runtime configuration of the bot.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Orders    OrdersConfig    `yaml:"orders"`
	Probe     ProbeConfig     `yaml:"probe"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}

	if cfg.Orders.ConfirmDelayMS < 0 {
		return fmt.Errorf("orders.confirm_delay_ms must be >= 0")
	}
	if cfg.Orders.ConfirmDelayMS == 0 {
		cfg.Orders.ConfirmDelayMS = 3000
	}
	if cfg.Orders.FollowUpDelayMS < 0 {
		return fmt.Errorf("orders.follow_up_delay_ms must be >= 0")
	}
	if cfg.Orders.FollowUpDelayMS == 0 {
		cfg.Orders.FollowUpDelayMS = 4000
	}
	if cfg.Orders.LeaseTTLMinutes < 0 {
		return fmt.Errorf("orders.lease_ttl_minutes must be >= 0")
	}
	if cfg.Orders.LeaseTTLMinutes == 0 {
		cfg.Orders.LeaseTTLMinutes = 60
	}
	if strings.TrimSpace(cfg.Orders.PaymentURL) == "" {
		cfg.Orders.PaymentURL = "https://platega.io"
	}
	if strings.TrimSpace(cfg.Probe.Listen) == "" {
		cfg.Probe.Listen = ":8080"
	}
	return nil
}

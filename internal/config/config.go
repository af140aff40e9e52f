// Package config handles loading and validating the application configuration
// from an optional YAML file, a .env file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no Hypixel API key is configured.
var ErrMissingAPIKey = errors.New("HYPIXEL_API_KEY is not set")

// Config is the top-level application configuration.
type Config struct {
	Hypixel HypixelConfig `yaml:"hypixel"`
	Discord DiscordConfig `yaml:"discord"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// HypixelConfig defines Bazaar API settings.
type HypixelConfig struct {
	APIKey    string          `yaml:"api_key"`
	BazaarURL string          `yaml:"bazaar_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines client-side request pacing.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// DiscordConfig defines Discord webhook settings. An empty WebhookURL
// means alerts are only logged.
type DiscordConfig struct {
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// WatchConfig defines what is watched and how often.
type WatchConfig struct {
	ProductID     string `yaml:"product_id"`
	TargetPrice   int64  `yaml:"target_price"`   // coins
	CheckInterval int    `yaml:"check_interval"` // seconds
}

// Interval returns CheckInterval as a duration.
func (w *WatchConfig) Interval() time.Duration {
	return time.Duration(w.CheckInterval) * time.Second
}

// MetricsConfig defines the optional health/metrics HTTP server.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// envBindings maps config keys to the environment variables that override
// them.
var envBindings = map[string]string{
	"hypixel.api_key":      "HYPIXEL_API_KEY",
	"discord.webhook_url":  "DISCORD_WEBHOOK",
	"watch.target_price":   "TARGET_PRICE",
	"watch.check_interval": "CHECK_INTERVAL",
	"watch.product_id":     "PRODUCT_ID",
	"metrics.addr":         "METRICS_ADDR",
	"logging.level":        "LOG_LEVEL",
	"logging.format":       "LOG_FORMAT",
}

// Load reads configuration with the default .env file in the working
// directory. path may be empty, in which case only the environment is used.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, ".env")
}

// LoadWithEnvFile reads configuration in increasing precedence: the YAML file
// at path (if any), then envFile (if it exists), then the process environment.
// Defaults fill anything left unset.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, newEnvViper()); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv sets variables from envFile without overriding ones already in
// the environment. A missing file is not an error.
func loadDotEnv(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return nil
}

func newEnvViper() *viper.Viper {
	v := viper.New()
	for key, env := range envBindings {
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(key, env)
	}
	return v
}

func applyEnv(cfg *Config, v *viper.Viper) error {
	setString(v, "hypixel.api_key", &cfg.Hypixel.APIKey)
	setString(v, "discord.webhook_url", &cfg.Discord.WebhookURL)
	setString(v, "watch.product_id", &cfg.Watch.ProductID)
	setString(v, "metrics.addr", &cfg.Metrics.Addr)
	setString(v, "logging.level", &cfg.Logging.Level)
	setString(v, "logging.format", &cfg.Logging.Format)

	var errs []error

	if s, ok := lookup(v, "watch.target_price"); ok {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TARGET_PRICE must be an integer (got %q)", s))
		} else {
			cfg.Watch.TargetPrice = n
		}
	}

	if s, ok := lookup(v, "watch.check_interval"); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("CHECK_INTERVAL must be an integer (got %q)", s))
		} else {
			cfg.Watch.CheckInterval = n
		}
	}

	return errors.Join(errs...)
}

func lookup(v *viper.Viper, key string) (string, bool) {
	if !v.IsSet(key) {
		return "", false
	}
	s := strings.TrimSpace(v.GetString(key))
	return s, s != ""
}

func setString(v *viper.Viper, key string, dst *string) {
	if s, ok := lookup(v, key); ok {
		*dst = s
	}
}

func applyDefaults(cfg *Config) {
	applyHypixelDefaults(&cfg.Hypixel)
	applyDiscordDefaults(&cfg.Discord)
	applyWatchDefaults(&cfg.Watch)
	applyLoggingDefaults(&cfg.Logging)
}

func applyHypixelDefaults(h *HypixelConfig) {
	if h.BazaarURL == "" {
		h.BazaarURL = "https://api.hypixel.net/skyblock/bazaar"
	}
	if h.Timeout == 0 {
		h.Timeout = 10 * time.Second
	}
	if h.RateLimit.PerSecond == 0 {
		h.RateLimit.PerSecond = 2.0
	}
	if h.RateLimit.Burst == 0 {
		h.RateLimit.Burst = 1
	}
}

func applyDiscordDefaults(d *DiscordConfig) {
	if d.Timeout == 0 {
		d.Timeout = 10 * time.Second
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.ProductID == "" {
		w.ProductID = "SOULFLOW"
	}
	if w.TargetPrice == 0 {
		w.TargetPrice = 40000
	}
	if w.CheckInterval == 0 {
		w.CheckInterval = 5
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Hypixel.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if cfg.Watch.CheckInterval < 0 {
		errs = append(errs, fmt.Errorf("watch.check_interval must be positive (got %d)", cfg.Watch.CheckInterval))
	}

	return errors.Join(errs...)
}

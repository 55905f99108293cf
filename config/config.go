package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Limits    LimitsConfig    `yaml:"limits"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"` // default: "0.0.0.0"
	Port int    `yaml:"port"` // default: 8080
	Mode string `yaml:"mode"` // "debug", "release", "test"; default: "release"
}

// LimitsConfig bounds request payloads and batch work.
type LimitsConfig struct {
	// MaxTextBytes is the largest accepted input text, in bytes.
	MaxTextBytes int `yaml:"max_text_bytes"` // default: 1 MiB

	// MaxBatchItems caps the number of texts in one batch request.
	MaxBatchItems int `yaml:"max_batch_items"` // default: 100

	// BatchConcurrency is the number of texts optimized in parallel
	// per batch job.
	BatchConcurrency int `yaml:"batch_concurrency"` // default: 4
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool `yaml:"enabled"` // default: true

	// APIKeys is the list of valid API keys. Empty means open access.
	APIKeys []string `yaml:"api_keys"`
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 `yaml:"requests_per_second"` // default: 5

	// Burst is the maximum burst size per API key.
	Burst int `yaml:"burst"` // default: 10
}

// CacheConfig controls the optimization response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int `yaml:"max_entries"` // default: 1000

	// TTL is the hard ceiling on entry age, regardless of the
	// max_age_ms a request asks for.
	TTL Duration `yaml:"ttl"` // default: 1h
}

// WebhookConfig controls batch completion callbacks.
type WebhookConfig struct {
	// Secret signs webhook payloads. Empty disables signing.
	Secret string `yaml:"secret"`

	// Timeout is the per-delivery HTTP timeout.
	Timeout Duration `yaml:"timeout"` // default: 10s
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "1h".
type Duration time.Duration

// UnmarshalYAML implements custom unmarshaling for duration strings.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a string like \"30s\", got %v", node.Kind)
	}
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back to its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// Load builds configuration in three layers: defaults, then the optional
// YAML file named by DISTILL_CONFIG, then DISTILL_* environment variables.
// Later layers win.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("DISTILL_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Limits: LimitsConfig{
			MaxTextBytes:     1 << 20,
			MaxBatchItems:    100,
			BatchConcurrency: 4,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5.0,
			Burst:             10,
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
			TTL:        Duration(time.Hour),
		},
		Webhook: WebhookConfig{
			Timeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// applyEnv overrides whatever the earlier layers produced, so each helper's
// fallback is the current field value.
func applyEnv(cfg *Config) {
	cfg.Server.Host = envOr("DISTILL_HOST", cfg.Server.Host)
	cfg.Server.Port = envIntOr("DISTILL_PORT", cfg.Server.Port)
	cfg.Server.Mode = envOr("DISTILL_MODE", cfg.Server.Mode)

	cfg.Limits.MaxTextBytes = envIntOr("DISTILL_MAX_TEXT_BYTES", cfg.Limits.MaxTextBytes)
	cfg.Limits.MaxBatchItems = envIntOr("DISTILL_MAX_BATCH_ITEMS", cfg.Limits.MaxBatchItems)
	cfg.Limits.BatchConcurrency = envIntOr("DISTILL_BATCH_CONCURRENCY", cfg.Limits.BatchConcurrency)

	cfg.Auth.Enabled = envBoolOr("DISTILL_AUTH_ENABLED", cfg.Auth.Enabled)
	cfg.Auth.APIKeys = envSliceOr("DISTILL_API_KEYS", cfg.Auth.APIKeys)

	cfg.RateLimit.RequestsPerSecond = envFloatOr("DISTILL_RATE_RPS", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Burst = envIntOr("DISTILL_RATE_BURST", cfg.RateLimit.Burst)

	cfg.Cache.MaxEntries = envIntOr("DISTILL_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)
	cfg.Cache.TTL = Duration(envDurationOr("DISTILL_CACHE_TTL", time.Duration(cfg.Cache.TTL)))

	cfg.Webhook.Secret = envOr("DISTILL_WEBHOOK_SECRET", cfg.Webhook.Secret)
	cfg.Webhook.Timeout = Duration(envDurationOr("DISTILL_WEBHOOK_TIMEOUT", time.Duration(cfg.Webhook.Timeout)))

	cfg.Log.Level = envOr("DISTILL_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("DISTILL_LOG_FORMAT", cfg.Log.Format)

	cfg.Metrics.Enabled = envBoolOr("DISTILL_METRICS_ENABLED", cfg.Metrics.Enabled)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

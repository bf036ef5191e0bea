package config

import (
	"fmt"
	"time"

	"github.com/law-makers/boardid/internal/relay"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `yaml:"log_level"`
	JSONLog  bool   `yaml:"json_log"`

	// Extraction
	Mode           string        `yaml:"mode"`
	DomainMarker   string        `yaml:"domain_marker"`
	MinDigits      int           `yaml:"min_digits"`
	ExtractTimeout time.Duration `yaml:"extract_timeout"`
	Retries        int           `yaml:"retries"`

	// Relays
	Relays              []relay.Relay `yaml:"relays"`
	RelayTimeout        time.Duration `yaml:"relay_timeout"`
	RelayFloor          int           `yaml:"relay_floor"`
	RelayAcceptLength   int           `yaml:"relay_accept_length"`
	RelayCooldown       time.Duration `yaml:"relay_cooldown"`
	RelayRateLimitRPS   float64       `yaml:"relay_rate_limit_rps"`
	RelayRateLimitBurst int           `yaml:"relay_rate_limit_burst"`
	KeyDir              string        `yaml:"key_dir"`

	// HTTP/Browser
	UserAgent       string        `yaml:"user_agent"`
	Proxy           string        `yaml:"proxy"`
	BrowserPoolSize int           `yaml:"browser_pool_size"`
	BrowserHeadless bool          `yaml:"browser_headless"`
	ChromePath      string        `yaml:"chrome_path"`
	Settle          time.Duration `yaml:"settle"`

	// Caching
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CacheMaxSizeBytes int64         `yaml:"cache_max_size_bytes"`

	// Batch
	BatchConcurrency int `yaml:"batch_concurrency"`

	// Source records the config file that was read, if any
	Source string `yaml:"-"`
}

// Defaults returns a Config holding only built-in values
func Defaults() *Config {
	return &Config{
		LogLevel:            DefaultLogLevel,
		JSONLog:             DefaultJSONLog,
		Mode:                DefaultMode,
		DomainMarker:        DefaultDomainMarker,
		MinDigits:           DefaultMinDigits,
		ExtractTimeout:      DefaultExtractTimeout,
		Retries:             DefaultRetries,
		Relays:              relay.DefaultRelays(),
		RelayTimeout:        DefaultRelayTimeout,
		RelayFloor:          DefaultRelayFloor,
		RelayAcceptLength:   DefaultRelayAcceptLength,
		RelayCooldown:       DefaultRelayCooldown,
		RelayRateLimitRPS:   DefaultRelayRateLimitRPS,
		RelayRateLimitBurst: DefaultRelayRateLimitBurst,
		UserAgent:           DefaultUserAgent,
		BrowserPoolSize:     DefaultBrowserPoolSize,
		BrowserHeadless:     DefaultBrowserHeadless,
		Settle:              DefaultSettle,
		CacheTTL:            DefaultCacheTTL,
		CacheMaxSizeBytes:   DefaultCacheMaxSizeBytes,
		BatchConcurrency:    DefaultBatchConcurrency,
	}
}

// Load builds a Config by combining defaults, an optional YAML file, an
// optional .env file, BOARDID_* environment variables, and CLI flags, in
// that order. Caller should pass the running *cobra.Command so flags can be
// read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Defaults()

	path := flagString(cmd, "config")
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	if err := loadDotEnv(flagString(cmd, "env-file")); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/boardid/pkg/models"
)

func validate(c *Config) error {
	switch models.ExtractorMode(c.Mode) {
	case models.ModeAuto, models.ModeStatic, models.ModeLive:
	default:
		return fmt.Errorf("mode must be one of auto, static, live")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error")
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extract timeout must be > 0")
	}
	if c.RelayTimeout <= 0 {
		return fmt.Errorf("relay timeout must be > 0")
	}
	if len(c.Relays) == 0 {
		return fmt.Errorf("at least one relay is required")
	}
	seen := make(map[string]bool, len(c.Relays))
	for _, r := range c.Relays {
		if err := r.Validate(); err != nil {
			return err
		}
		name := strings.ToLower(r.Name)
		if seen[name] {
			return fmt.Errorf("duplicate relay %q", r.Name)
		}
		seen[name] = true
	}
	if c.RelayFloor < 0 || c.RelayAcceptLength < c.RelayFloor {
		return fmt.Errorf("relay accept length must be >= relay floor >= 0")
	}
	if c.MinDigits < 1 {
		return fmt.Errorf("min digits must be >= 1")
	}
	if strings.TrimSpace(c.DomainMarker) == "" {
		return fmt.Errorf("domain marker cannot be empty")
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.RelayRateLimitRPS <= 0 || c.RelayRateLimitBurst <= 0 {
		return fmt.Errorf("relay rate limit and burst must be > 0")
	}
	if c.Retries < 0 || c.BatchConcurrency < 0 {
		return fmt.Errorf("retries and batch concurrency cannot be negative")
	}
	return nil
}

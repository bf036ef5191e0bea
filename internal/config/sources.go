package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadFile overlays the YAML file at path. With no path, DefaultConfigFile
// in the working directory is read when present.
func loadFile(cfg *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Source = path
	return nil
}

// loadDotEnv exports a .env file into the process environment without
// overriding variables that are already set
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

type envParser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *envParser) str(name string, dst *string) {
	if v, ok := p.lookup(EnvPrefix + name); ok && v != "" {
		*dst = v
	}
}

func (p *envParser) integer(name string, dst *int) {
	if v, ok := p.lookup(EnvPrefix + name); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = n
	}
}

func (p *envParser) float(name string, dst *float64) {
	if v, ok := p.lookup(EnvPrefix + name); ok && v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = f
	}
}

func (p *envParser) boolean(name string, dst *bool) {
	if v, ok := p.lookup(EnvPrefix + name); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = b
	}
}

func (p *envParser) duration(name string, dst *time.Duration) {
	if v, ok := p.lookup(EnvPrefix + name); ok && v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		*dst = d
	}
}

// applyEnv overlays BOARDID_* variables
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	p := &envParser{lookup: lookup}

	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.boolean("JSON", &cfg.JSONLog)
	p.str("MODE", &cfg.Mode)
	p.str("DOMAIN_MARKER", &cfg.DomainMarker)
	p.integer("MIN_DIGITS", &cfg.MinDigits)
	p.duration("TIMEOUT", &cfg.ExtractTimeout)
	p.integer("RETRIES", &cfg.Retries)
	p.duration("RELAY_TIMEOUT", &cfg.RelayTimeout)
	p.integer("RELAY_FLOOR", &cfg.RelayFloor)
	p.integer("RELAY_ACCEPT_LENGTH", &cfg.RelayAcceptLength)
	p.duration("RELAY_COOLDOWN", &cfg.RelayCooldown)
	p.float("RATE_LIMIT", &cfg.RelayRateLimitRPS)
	p.integer("RATE_BURST", &cfg.RelayRateLimitBurst)
	p.str("KEY_DIR", &cfg.KeyDir)
	p.str("USER_AGENT", &cfg.UserAgent)
	p.str("PROXY", &cfg.Proxy)
	p.integer("POOL_SIZE", &cfg.BrowserPoolSize)
	p.boolean("HEADLESS", &cfg.BrowserHeadless)
	p.str("CHROME_PATH", &cfg.ChromePath)
	p.duration("SETTLE", &cfg.Settle)
	p.duration("CACHE_TTL", &cfg.CacheTTL)
	p.integer("CONCURRENCY", &cfg.BatchConcurrency)

	if v, ok := lookup(EnvPrefix + "CACHE_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%sCACHE_SIZE: %w", EnvPrefix, err))
		} else {
			cfg.CacheMaxSizeBytes = n
		}
	}

	if len(p.errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(p.errs...))
	}
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// changed returns the flag value only when the user set it explicitly
func changed(cmd *cobra.Command, name string) (string, bool) {
	if cmd == nil {
		return "", false
	}
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

// applyFlags overlays explicitly set CLI flags
func applyFlags(cfg *Config, cmd *cobra.Command) error {
	if s, ok := changed(cmd, "user-agent"); ok && s != "" {
		cfg.UserAgent = s
	}
	if s, ok := changed(cmd, "proxy"); ok {
		cfg.Proxy = s
	}
	if s, ok := changed(cmd, "chrome-path"); ok {
		cfg.ChromePath = s
	}
	if s, ok := changed(cmd, "mode"); ok {
		cfg.Mode = s
	}
	if s, ok := changed(cmd, "timeout"); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.ExtractTimeout = d
	}
	if s, ok := changed(cmd, "relay-timeout"); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid --relay-timeout: %w", err)
		}
		cfg.RelayTimeout = d
	}
	for name, dst := range map[string]*int{
		"min-digits":  &cfg.MinDigits,
		"retries":     &cfg.Retries,
		"concurrency": &cfg.BatchConcurrency,
		"pool-size":   &cfg.BrowserPoolSize,
	} {
		if s, ok := changed(cmd, name); ok {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", name, err)
			}
			*dst = n
		}
	}
	if s, ok := changed(cmd, "headful"); ok && s == "true" {
		cfg.BrowserHeadless = false
	}
	if s, ok := changed(cmd, "json"); ok && s == "true" {
		cfg.JSONLog = true
	}
	if s, ok := changed(cmd, "quiet"); ok && s == "true" {
		cfg.LogLevel = "error"
	}
	if s, ok := changed(cmd, "verbose"); ok && s == "true" {
		cfg.LogLevel = "debug"
	}
	return nil
}

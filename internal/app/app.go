// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/boardid/internal/cache"
	"github.com/law-makers/boardid/internal/config"
	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/dynamic"
	"github.com/law-makers/boardid/internal/engine/hybrid"
	"github.com/law-makers/boardid/internal/engine/static"
	"github.com/law-makers/boardid/internal/pipeline"
	"github.com/law-makers/boardid/internal/ratelimit"
	"github.com/law-makers/boardid/internal/relay"
	"github.com/law-makers/boardid/internal/retry"
	"github.com/law-makers/boardid/internal/secrets"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command and closed when the command returns.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Cache       cache.Cache
	RateLimiter ratelimit.RateLimiter
	HTTPClient  *http.Client
	Keys        *secrets.Store
	Relays      *relay.Chain
	Pipeline    *pipeline.Pipeline

	StaticExtractor *static.Extractor
	LiveExtractor   *dynamic.Extractor
	AutoExtractor   *hybrid.Extractor

	BrowserPool *dynamic.BrowserPool
	poolMu      sync.Mutex
	startTime   time.Time
}

// SetupLogger configures the global zerolog logger. Logs always go to
// stderr; stdout is reserved for results and the native messaging pipe.
func SetupLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	logLevel := zerolog.ErrorLevel // default: suppress non-verbose info logs
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// Treat "info" as non-verbose (don't display info logs unless -v is used)
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = w
	} else {
		logWriter = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
			cw.TimeFormat = time.Kitchen
		})
	}

	logger := zerolog.New(logWriter).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// New creates and initializes a new Application with all dependencies.
//
// The browser pool is not started here; EnsureBrowserPool creates it the
// first time live extraction is needed.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogger(cfg, os.Stderr)
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Str("config", cfg.Source).
		Msg("Logger initialized")

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes, cfg.CacheTTL)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Memory cache initialized")

	rateLimiter := ratelimit.NewHostLimiter(cfg.RelayRateLimitRPS, cfg.RelayRateLimitBurst)
	logger.Debug().
		Float64("relay_rps", cfg.RelayRateLimitRPS).
		Int("relay_burst", cfg.RelayRateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	keys := secrets.NewStore(cfg.KeyDir)
	health := relay.NewHealth(cfg.RelayCooldown)
	chain := relay.NewChain(cfg.Relays, httpClient, rateLimiter, health, keys, relay.Options{
		Timeout:      cfg.RelayTimeout,
		Floor:        cfg.RelayFloor,
		AcceptLength: cfg.RelayAcceptLength,
		UserAgent:    cfg.UserAgent,
	})
	logger.Debug().
		Int("relays", len(cfg.Relays)).
		Dur("timeout", cfg.RelayTimeout).
		Msg("Relay chain initialized")

	p := pipeline.Default(cfg.MinDigits)

	staticExtractor := static.New(chain, memCache, p, cfg.DomainMarker, cfg.CacheTTL)

	// pool created on demand
	liveExtractor := dynamic.New(nil, browserOptions(cfg, 1), p, cfg.DomainMarker, cfg.ExtractTimeout, cfg.Settle)

	autoExtractor := hybrid.New(staticExtractor, liveExtractor)
	logger.Debug().Msg("Extractors initialized")

	return &Application{
		Config:          cfg,
		Logger:          &logger,
		Cache:           memCache,
		RateLimiter:     rateLimiter,
		HTTPClient:      httpClient,
		Keys:            keys,
		Relays:          chain,
		Pipeline:        p,
		StaticExtractor: staticExtractor,
		LiveExtractor:   liveExtractor,
		AutoExtractor:   autoExtractor,
		startTime:       time.Now(),
	}, nil
}

func browserOptions(cfg *config.Config, size int) dynamic.BrowserPoolOptions {
	return dynamic.BrowserPoolOptions{
		Size:       size,
		Headless:   cfg.BrowserHeadless,
		UserAgent:  cfg.UserAgent,
		Proxy:      cfg.Proxy,
		ChromePath: cfg.ChromePath,
	}
}

// Extractor returns the extractor for mode; an empty mode uses the configured one
func (a *Application) Extractor(mode models.ExtractorMode) (engine.Extractor, error) {
	if mode == "" {
		mode = models.ExtractorMode(a.Config.Mode)
	}
	switch mode {
	case models.ModeStatic:
		return a.StaticExtractor, nil
	case models.ModeLive:
		return a.LiveExtractor, nil
	case models.ModeAuto:
		return a.AutoExtractor, nil
	}
	return nil, engine.NewEngineError(engine.ErrCodeValidation, fmt.Sprintf("unknown mode %q", mode), nil)
}

// RetryConfig is the whole-extraction retry policy from --retries
func (a *Application) RetryConfig() retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = a.Config.Retries + 1
	return rc
}

// EnsureBrowserPool lazily creates the browser pool if it has not already been
// initialized. Callers should provide a context with an appropriate timeout.
func (a *Application) EnsureBrowserPool(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	a.poolMu.Lock()
	defer a.poolMu.Unlock()

	if a.BrowserPool != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := a.Logger
	logger.Debug().Msg("Initializing browser pool on demand")
	pool, err := dynamic.NewBrowserPool(browserOptions(a.Config, a.Config.BrowserPoolSize))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create browser pool on demand")
		return err
	}

	a.BrowserPool = pool
	a.LiveExtractor.SetBrowserPool(pool)

	logger.Info().Int("pool_size", pool.Size()).Msg("Browser pool initialized on demand")
	return nil
}

// Close releases the browser pool, cache and idle connections. Errors are
// logged and do not stop later steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.poolMu.Lock()
	if a.BrowserPool != nil {
		if err := a.BrowserPool.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser pool")
		}
		a.BrowserPool = nil
	}
	a.poolMu.Unlock()

	if a.Cache != nil {
		a.Cache.Close()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

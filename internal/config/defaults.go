package config

import (
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/dynamic"
	"github.com/law-makers/boardid/internal/pipeline"
	"github.com/law-makers/boardid/internal/relay"
)

// Default constants for application configuration. A zero batch
// concurrency picks a value per mode.
const (
	DefaultLogLevel            = "info"
	DefaultJSONLog             = false
	DefaultMode                = "auto"
	DefaultUserAgent           = dynamic.DefaultUserAgent
	DefaultDomainMarker        = engine.DefaultDomainMarker
	DefaultMinDigits           = pipeline.DefaultMinDigits
	DefaultExtractTimeout      = 45 * time.Second
	DefaultRelayTimeout        = relay.DefaultTimeout
	DefaultRelayFloor          = relay.DefaultFloor
	DefaultRelayAcceptLength   = relay.DefaultAcceptLength
	DefaultRelayCooldown       = relay.DefaultCooldown
	DefaultRelayRateLimitRPS   = 2.0
	DefaultRelayRateLimitBurst = 4
	DefaultBrowserPoolSize     = 2
	DefaultMaxBrowserPoolSize  = 10
	DefaultBrowserHeadless     = true
	DefaultSettle              = dynamic.DefaultSettle
	DefaultCacheTTL            = 5 * time.Minute
	DefaultCacheMaxSizeBytes   = 64 * 1024 * 1024
	DefaultBatchConcurrency    = 0
	DefaultRetries             = 0
	DefaultConfigFile          = "boardid.yaml"
	DefaultEnvFile             = ".env"
	EnvPrefix                  = "BOARDID_"
)

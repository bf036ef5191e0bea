package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/ratelimit"
	"github.com/law-makers/boardid/internal/retry"
	"github.com/law-makers/boardid/internal/utils/headers"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds one relay attempt
	DefaultTimeout = 8 * time.Second
	// DefaultFloor is the shortest body treated as a real page
	DefaultFloor = 200
	// DefaultAcceptLength ends the chain early once a body is this long
	DefaultAcceptLength = 500

	maxBodyBytes = 16 << 20
)

var (
	errEmptyEnvelope = errors.New("relay returned an empty envelope")
	errMissingKey    = errors.New("relay key is not configured")
)

// KeyStore resolves relay API keys
type KeyStore interface {
	Get(ref string) (string, error)
}

// Options tune the chain. Zero values take the defaults.
type Options struct {
	Timeout      time.Duration
	Floor        int
	AcceptLength int
	UserAgent    string
}

// Attempt records one relay try
type Attempt struct {
	Relay    string        `json:"relay"`
	Chars    int           `json:"chars"`
	Duration time.Duration `json:"duration_ns"`
	Err      error         `json:"-"`
}

// Result is the body chosen by the chain
type Result struct {
	Body     string
	Relay    string
	Attempts []Attempt
}

// Chain tries relays sequentially
type Chain struct {
	relays  []Relay
	client  *http.Client
	limiter ratelimit.RateLimiter
	health  *Health
	keys    KeyStore
	opts    Options
}

// NewChain creates a relay chain. limiter, health and keys may be nil.
func NewChain(relays []Relay, client *http.Client, limiter ratelimit.RateLimiter, health *Health, keys KeyStore, opts Options) *Chain {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Floor <= 0 {
		opts.Floor = DefaultFloor
	}
	if opts.AcceptLength <= 0 {
		opts.AcceptLength = DefaultAcceptLength
	}
	if health == nil {
		health = NewHealth(DefaultCooldown)
	}
	return &Chain{
		relays:  relays,
		client:  client,
		limiter: limiter,
		health:  health,
		keys:    keys,
		opts:    opts,
	}
}

// Relays returns the configured relays in configured order
func (c *Chain) Relays() []Relay {
	return c.relays
}

// Health returns the chain's health tracker
func (c *Chain) Health() *Health {
	return c.health
}

// Fetch returns the page source of target. A body longer than AcceptLength
// ends the chain; otherwise every relay is tried and the longest body kept.
// A failed or timed-out relay never stops later relays from being tried.
// When no body reaches Floor characters the error is TRANSPORT_EXHAUSTED.
func (c *Chain) Fetch(ctx context.Context, target string) (*Result, error) {
	res := &Result{}
	var (
		best    string
		bestLen int
		lastErr error
	)

	for _, r := range c.health.Order(c.relays) {
		if err := ctx.Err(); err != nil {
			return res, engine.NewEngineError(engine.ErrCodeTimeout, "fetch cancelled", err)
		}

		start := time.Now()
		body, err := c.attempt(ctx, r, target)
		n := utf8.RuneCountInString(body)
		res.Attempts = append(res.Attempts, Attempt{Relay: r.Name, Chars: n, Duration: time.Since(start), Err: err})

		if err != nil {
			lastErr = fmt.Errorf("%s: %w", r.Name, err)
			c.health.MarkFailed(r.Name)
			log.Warn().Err(err).Str("relay", r.Name).Dur("elapsed", time.Since(start)).Msg("Relay attempt failed")
			continue
		}

		c.health.MarkHealthy(r.Name)
		log.Debug().Str("relay", r.Name).Int("chars", n).Dur("elapsed", time.Since(start)).Msg("Relay responded")

		if n > bestLen {
			best, bestLen, res.Relay = body, n, r.Name
		}
		if n > c.opts.AcceptLength {
			break
		}
	}

	if bestLen < c.opts.Floor {
		if lastErr == nil {
			lastErr = fmt.Errorf("longest body was %d characters, need %d", bestLen, c.opts.Floor)
		}
		return res, engine.NewEngineError(engine.ErrCodeTransport, engine.MsgTransportExhausted, lastErr).
			WithRetry().
			WithDetail("attempts", len(res.Attempts))
	}

	res.Body = best
	return res, nil
}

func (c *Chain) attempt(ctx context.Context, r Relay, target string) (string, error) {
	var key string
	if r.NeedsKey() {
		if c.keys == nil {
			return "", errMissingKey
		}
		k, err := c.keys.Get(r.KeyRef)
		if err != nil || k == "" {
			return "", errMissingKey
		}
		key = k
	}

	endpoint := r.Endpoint(target, key)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return "", err
		}
	}

	actx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	if len(r.Headers) > 0 {
		extra, err := headers.Parse(r.Headers)
		if err != nil {
			return "", err
		}
		for k, vs := range headers.Expand(extra, strings.NewReplacer("{key}", key)) {
			req.Header[k] = vs
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", retry.NewHTTPError(resp.StatusCode, resp.Status, r.Name)
	}

	limited := io.LimitReader(resp.Body, maxBodyBytes)
	if r.Envelope {
		var env struct {
			Contents string `json:"contents"`
		}
		if err := json.NewDecoder(limited).Decode(&env); err != nil {
			return "", fmt.Errorf("failed to decode envelope: %w", err)
		}
		if strings.TrimSpace(env.Contents) == "" {
			return "", errEmptyEnvelope
		}
		return env.Contents, nil
	}

	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

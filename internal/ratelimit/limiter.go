// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing requests per host.
type RateLimiter interface {
	// Wait blocks until a request to urlStr may proceed or ctx ends.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request to urlStr may proceed right now.
	Allow(urlStr string) bool
}

// HostLimiter keeps one token bucket per host
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond per host
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the host of urlStr has a token
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	host := hostOf(urlStr)
	if host == "" {
		return nil
	}
	return hl.limiter(host).Wait(ctx)
}

// Allow takes a token for the host of urlStr without blocking
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return hl.limiter(host).Allow()
}

// SetLimit overrides the rate for one host
func (hl *HostLimiter) SetLimit(host string, requestsPerSecond float64, burst int) {
	lim := hl.limiter(host)
	lim.SetLimit(rate.Limit(requestsPerSecond))
	lim.SetBurst(burst)
}

func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.limiters[host]
	if !ok {
		lim = rate.NewLimiter(hl.perHost, hl.burst)
		hl.limiters[host] = lim
	}
	return lim
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

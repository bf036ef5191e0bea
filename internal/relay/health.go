package relay

import (
	"sort"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed relay is tried last
const DefaultCooldown = 5 * time.Minute

// Health remembers recently failed relays so later fetches try them last
type Health struct {
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewHealth creates a tracker with the given cooldown
func NewHealth(cooldown time.Duration) *Health {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Health{
		failed:   make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Order returns relays with healthy ones first, keeping configured order;
// cooling relays follow, longest-failed first. No relay is ever dropped.
func (h *Health) Order(relays []Relay) []Relay {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	healthy := make([]Relay, 0, len(relays))
	var cooling []Relay
	for _, r := range relays {
		failedAt, ok := h.failed[r.Name]
		if ok && now.Sub(failedAt) >= h.cooldown {
			delete(h.failed, r.Name)
			ok = false
		}
		if ok {
			cooling = append(cooling, r)
			continue
		}
		healthy = append(healthy, r)
	}

	sort.SliceStable(cooling, func(i, j int) bool {
		return h.failed[cooling[i].Name].Before(h.failed[cooling[j].Name])
	})
	return append(healthy, cooling...)
}

// MarkFailed puts a relay into cooldown
func (h *Health) MarkFailed(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failed[name] = h.now()
}

// MarkHealthy clears a relay's cooldown
func (h *Health) MarkHealthy(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.failed, name)
}

// Failing returns the relays currently cooling down
func (h *Health) Failing() map[string]time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]time.Time, len(h.failed))
	for name, at := range h.failed {
		if h.now().Sub(at) < h.cooldown {
			out[name] = at
		}
	}
	return out
}

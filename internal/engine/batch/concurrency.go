// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"

	"github.com/law-makers/boardid/pkg/models"
)

// OptimalConcurrency picks a worker count for mode. Relays are shared
// third-party services and live mode holds one browser tab per worker, so
// both stay well below the CPU-bound figure.
func OptimalConcurrency(mode models.ExtractorMode) int {
	n := runtime.NumCPU()

	switch mode {
	case models.ModeLive:
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		// roughly 150MB per tab
		byMemory := int((m.Sys - m.Alloc) / (150 << 20))
		n = clamp(n/2, 1, 4)
		if byMemory > 0 && byMemory < n {
			n = byMemory
		}
		return n
	default:
		return clamp(n, 2, 6)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

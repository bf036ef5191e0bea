// internal/engine/batch/grouping.go
package batch

import (
	"strings"

	urlutil "github.com/law-makers/boardid/internal/utils/url"
)

// Dedupe collapses inputs that canonicalize to the same board URL. unique
// keeps first-seen order; index[i] is the position in unique of inputs[i].
// Blank lines are dropped and get index -1.
func Dedupe(inputs []string) (unique []string, index []int) {
	seen := make(map[string]int, len(inputs))
	index = make([]int, len(inputs))

	for i, raw := range inputs {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			index[i] = -1
			continue
		}
		key := strings.ToLower(urlutil.Canonicalize(urlutil.EnsureScheme(raw)))
		if pos, ok := seen[key]; ok {
			index[i] = pos
			continue
		}
		seen[key] = len(unique)
		index[i] = len(unique)
		unique = append(unique, raw)
	}
	return unique, index
}

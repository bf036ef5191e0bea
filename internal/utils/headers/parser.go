// Package headers parses "Key: Value" header lines from config and flags.
package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// Parse converts header lines ("Key: Value") into canonicalized headers.
// Repeated keys keep every value in order.
func Parse(lines []string) (http.Header, error) {
	h := make(http.Header, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, ":", 2)
		key := strings.TrimSpace(parts[0])
		if len(parts) != 2 || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("invalid header %q: want \"Key: Value\"", line)
		}
		h.Add(key, strings.TrimSpace(parts[1]))
	}
	return h, nil
}

// Expand returns a copy of h with every value passed through r
func Expand(h http.Header, r *strings.Replacer) http.Header {
	out := make(http.Header, len(h))
	for k, vs := range h {
		for _, v := range vs {
			out.Add(k, r.Replace(v))
		}
	}
	return out
}

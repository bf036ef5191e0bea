package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// EnsureScheme prefixes https:// to scheme-less input such as "pinterest.com/user/board"
func EnsureScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

// HasMarker reports whether raw carries the service domain marker
func HasMarker(raw, marker string) bool {
	return marker != "" && strings.Contains(strings.ToLower(raw), strings.ToLower(marker))
}

// Canonicalize drops the query string and trailing slashes. It is idempotent:
// Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(raw string) string {
	clean := raw
	if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}
	for strings.HasSuffix(clean, "/") && !strings.HasSuffix(clean, "://") {
		clean = clean[:len(clean)-1]
	}
	return clean
}

// Host returns the host of urlStr, or "" when it cannot be parsed
func Host(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}

// internal/engine/metadata/utils.go
package metadata

import (
	"net/url"
	"strings"
)

// IsAbsoluteURL checks if a URL is absolute
func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ResolveURL resolves ref against base. Unparseable input is returned as is.
func ResolveURL(base, ref string) string {
	if ref == "" || IsAbsoluteURL(ref) {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

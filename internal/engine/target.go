package engine

import (
	"strings"

	urlutil "github.com/law-makers/boardid/internal/utils/url"
)

// DefaultDomainMarker must appear in every accepted board URL
const DefaultDomainMarker = "pinterest.com"

// CheckTarget validates a user-supplied board URL before any I/O and returns
// it with a scheme. Input without the domain marker is a VALIDATION error.
func CheckTarget(raw, marker string) (string, error) {
	if marker == "" {
		marker = DefaultDomainMarker
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || !urlutil.HasMarker(raw, marker) {
		return "", NewEngineError(ErrCodeValidation, MsgInvalidURL, nil).WithDetail("url", raw)
	}

	target := urlutil.EnsureScheme(raw)
	if err := urlutil.ValidateURL(target); err != nil {
		return "", NewEngineError(ErrCodeValidation, MsgInvalidURL, err).WithDetail("url", raw)
	}
	return target, nil
}

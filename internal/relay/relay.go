// Package relay fetches page HTML through third-party CORS relays, trying
// each one in turn until a usable body comes back.
package relay

import (
	"net/url"
	"strings"

	"github.com/law-makers/boardid/internal/utils/headers"
)

// Relay describes one relay endpoint
type Relay struct {
	Name string `yaml:"name" json:"name"`
	// Template is the request URL; {url} is replaced with the escaped target
	// and {key} with the relay's stored API key.
	Template string `yaml:"template" json:"template"`
	// Envelope means the body is JSON with the page under "contents"
	Envelope bool `yaml:"envelope" json:"envelope"`
	// KeyRef names the stored secret substituted for {key}
	KeyRef string `yaml:"key_ref,omitempty" json:"key_ref,omitempty"`
	// Headers are extra "Key: Value" request headers; {key} is substituted
	Headers []string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// DefaultRelays returns the built-in relays in trial order
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "allorigins", Template: "https://api.allorigins.win/get?url={url}", Envelope: true},
		{Name: "codetabs", Template: "https://api.codetabs.com/v1/proxy?quest={url}"},
		{Name: "corsproxy", Template: "https://corsproxy.io/?{url}"},
		{Name: "thingproxy", Template: "https://thingproxy.freeboard.io/fetch/{url}"},
	}
}

// Endpoint builds the request URL for target
func (r Relay) Endpoint(target, key string) string {
	return strings.NewReplacer(
		"{url}", url.QueryEscape(target),
		"{key}", url.QueryEscape(key),
	).Replace(r.Template)
}

// NeedsKey reports whether the relay requires a stored secret
func (r Relay) NeedsKey() bool {
	if r.KeyRef != "" || strings.Contains(r.Template, "{key}") {
		return true
	}
	for _, h := range r.Headers {
		if strings.Contains(h, "{key}") {
			return true
		}
	}
	return false
}

// Validate checks that the relay can be used
func (r Relay) Validate() error {
	if r.Name == "" {
		return errInvalidRelay("relay name is required")
	}
	if !strings.Contains(r.Template, "{url}") {
		return errInvalidRelay("relay " + r.Name + ": template must contain {url}")
	}
	u, err := url.Parse(strings.NewReplacer("{url}", "x", "{key}", "x").Replace(r.Template))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidRelay("relay " + r.Name + ": template must be an absolute http(s) URL")
	}
	if _, err := headers.Parse(r.Headers); err != nil {
		return errInvalidRelay("relay " + r.Name + ": " + err.Error())
	}
	if r.NeedsKey() && r.KeyRef == "" {
		return errInvalidRelay("relay " + r.Name + ": {key} is used but key_ref is empty")
	}
	return nil
}

type errInvalidRelay string

func (e errInvalidRelay) Error() string { return string(e) }

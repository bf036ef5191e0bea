package models

import "time"

// Method names the strategy that produced a board id
type Method string

const (
	MethodDeepLink   Method = "DeepLink"
	MethodJSONLD     Method = "JSON-LD"
	MethodPWSData    Method = "PWS_DATA"
	MethodReactFiber Method = "ReactFiber"
	MethodRegex      Method = "Regex"
)

// Board is the result of a successful extraction
type Board struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// PageMeta is best-effort page metadata scraped independently of the id strategies
type PageMeta struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

// Outcome is the result of one pipeline run. Exactly one of Board and Err is set.
type Outcome struct {
	Board  *Board   `json:"board,omitempty"`
	Method Method   `json:"method,omitempty"`
	Meta   PageMeta `json:"meta"`
	Err    error    `json:"-"`
}

// OK reports whether the pipeline found a board id
func (o *Outcome) OK() bool {
	return o != nil && o.Board != nil && o.Err == nil
}

// ExtractorMode defines the engine mode to use
type ExtractorMode string

const (
	ModeAuto   ExtractorMode = "auto"
	ModeStatic ExtractorMode = "static"
	ModeLive   ExtractorMode = "live"
)

// RequestOptions contains options for a single extraction request
type RequestOptions struct {
	URL     string
	Mode    ExtractorMode
	Timeout time.Duration
	Proxy   string
}

// ExtractResult pairs a request with its outcome for batch runs
type ExtractResult struct {
	URL       string        `json:"url"`
	Outcome   *Outcome      `json:"outcome,omitempty"`
	Error     error         `json:"-"`
	ErrorText string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

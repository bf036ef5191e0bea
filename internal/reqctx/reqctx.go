package reqctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type key int

const requestKey key = 0

// RequestContext identifies one extraction request across log lines
type RequestContext struct {
	RequestID string
	URL       string
	StartTime time.Time
}

// WithRequestContext attaches a fresh request id for targetURL
func WithRequestContext(ctx context.Context, targetURL string) context.Context {
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: uuid.NewString(),
		URL:       targetURL,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the request attached to ctx, or a placeholder
func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{
		RequestID: "unknown",
		StartTime: time.Now(),
	}
}

// Elapsed returns the time since the request started
func (rc *RequestContext) Elapsed() time.Duration {
	return time.Since(rc.StartTime)
}

// RequestError wraps an error with request context
type RequestError struct {
	RequestID string
	Err       error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RequestID, e.Err)
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError tags err with the request id in ctx. A nil err stays nil.
func NewRequestError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RequestError{
		RequestID: GetRequestContext(ctx).RequestID,
		Err:       err,
	}
}

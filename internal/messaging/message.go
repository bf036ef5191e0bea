// Package messaging is the request/response boundary used by the browser
// extension. Each request gets exactly one response, even when extraction
// fails or panics.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// ActionExtractBoardID asks for the board id of the given page
const ActionExtractBoardID = "EXTRACT_BOARD_ID"

// Request is one message from the extension
type Request struct {
	Action string `json:"action"`
	URL    string `json:"url,omitempty"`
}

// Response is the outcome serialised as plain data
type Response struct {
	Success bool             `json:"success"`
	ID      string           `json:"id,omitempty"`
	Method  models.Method    `json:"method,omitempty"`
	Name    string           `json:"name,omitempty"`
	Error   string           `json:"error,omitempty"`
	Code    engine.ErrorCode `json:"code,omitempty"`
	Meta    *models.PageMeta `json:"meta,omitempty"`
}

// FromOutcome converts an extraction result into a response
func FromOutcome(out *models.Outcome, err error) Response {
	if err == nil && out.OK() {
		meta := out.Meta
		return Response{
			Success: true,
			ID:      out.Board.ID,
			Method:  out.Method,
			Name:    out.Board.Name,
			Meta:    &meta,
		}
	}

	if err == nil && out != nil {
		err = out.Err
	}
	if err == nil {
		err = engine.NewEngineError(engine.ErrCodeNotFound, engine.MsgNoIdentifier, nil)
	}
	resp := Response{
		Error: engine.UserMessage(err),
		Code:  engine.CodeOf(err),
	}
	if out != nil {
		meta := out.Meta
		resp.Meta = &meta
	}
	return resp
}

// Handler answers extension requests with an extractor
type Handler struct {
	extractor engine.Extractor
	base      models.RequestOptions
	timeout   time.Duration
}

// NewHandler creates a handler; base supplies mode, proxy and timeout
func NewHandler(ex engine.Extractor, base models.RequestOptions, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Handler{extractor: ex, base: base, timeout: timeout}
}

// Handle always returns a response
func (h *Handler) Handle(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("panic", fmt.Sprint(rec)).Msg("Extraction panicked")
			resp = Response{Error: "internal error while extracting the board id", Code: engine.ErrCodeInternal}
		}
	}()

	if req.Action != ActionExtractBoardID {
		return Response{Error: fmt.Sprintf("unknown action %q", req.Action), Code: engine.ErrCodeUnsupported}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	opts := h.base
	opts.URL = req.URL
	out, err := h.extractor.Extract(ctx, opts)
	return FromOutcome(out, err)
}

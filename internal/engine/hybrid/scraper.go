// internal/engine/hybrid/scraper.go
package hybrid

import (
	"context"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/static"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// PageExtractor is the static half of auto mode
type PageExtractor interface {
	ExtractPage(ctx context.Context, opts models.RequestOptions) (*static.Result, error)
}

// Extractor tries the fetched-HTML variant first and escalates to the live
// variant when Decide says so
type Extractor struct {
	static PageExtractor
	live   engine.Extractor
}

// New creates an auto-mode extractor. live may be nil to never escalate.
func New(s PageExtractor, live engine.Extractor) *Extractor {
	return &Extractor{static: s, live: live}
}

// Name returns the name of this extractor
func (e *Extractor) Name() string {
	return "AutoExtractor"
}

// Extract implements engine.Extractor
func (e *Extractor) Extract(ctx context.Context, opts models.RequestOptions) (*models.Outcome, error) {
	res, err := e.static.ExtractPage(ctx, opts)
	if err == nil {
		return res.Outcome, nil
	}

	var body string
	var out *models.Outcome
	if res != nil {
		out = res.Outcome
		if res.Page != nil {
			body = res.Page.Body
		}
	}

	if e.live == nil || Decide(err, body) != DecisionEscalate || ctx.Err() != nil {
		return out, err
	}

	log.Info().
		Str("url", opts.URL).
		Str("reason", string(engine.CodeOf(err))).
		Str("framework", DetectJavaScriptFramework(body)).
		Msg("Escalating to live extraction")

	liveOut, liveErr := e.live.Extract(ctx, opts)
	if liveErr == nil {
		return liveOut, nil
	}
	log.Debug().Err(liveErr).Msg("Live extraction failed")

	// a browser failure says nothing about the board; report the static result
	if engine.CodeOf(liveErr) == engine.ErrCodeBrowser && out != nil {
		return out, err
	}
	return liveOut, liveErr
}

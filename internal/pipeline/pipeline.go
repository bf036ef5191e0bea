package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/metadata"
	urlutil "github.com/law-makers/boardid/internal/utils/url"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// LoginWallMarkers indicate a page served behind an authentication prompt
var LoginWallMarkers = []string{`name="password"`, "sys_login"}

// Pipeline runs strategies in order and commits to the first valid id
type Pipeline struct {
	strategies []Strategy
	validator  Validator
}

// New creates a pipeline. With no strategies the default set is used.
func New(v Validator, strategies ...Strategy) *Pipeline {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Pipeline{strategies: strategies, validator: v}
}

// Default creates the standard five-strategy pipeline
func Default(minDigits int) *Pipeline {
	return New(NewValidator(minDigits))
}

// Strategies returns the strategies in trial order
func (p *Pipeline) Strategies() []Strategy {
	return p.strategies
}

// Validator returns the candidate gate
func (p *Pipeline) Validator() Validator {
	return p.validator
}

// Extract produces an outcome for src. It never returns a nil outcome; on
// failure Outcome.Err carries NOT_FOUND (or TIMEOUT when ctx ends first) and
// Outcome.Meta the best-effort page metadata.
func (p *Pipeline) Extract(ctx context.Context, src Source) *models.Outcome {
	start := time.Now()

	pageURL := src.URL()
	if src.Variant() == VariantHTML {
		pageURL = urlutil.Canonicalize(pageURL)
		if raw, ok := src.(RawTextSource); ok && DetectLoginWall(raw.RawText()) {
			log.Warn().Str("url", pageURL).Msg("Possible login wall detected, continuing")
		}
	}

	meta := metadata.Collect(ctx, src, pageURL)

	for _, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return &models.Outcome{
				Meta: meta,
				Err:  engine.NewEngineError(engine.ErrCodeTimeout, "extraction cancelled", err),
			}
		}
		if !s.Supports(src) {
			log.Debug().Str("strategy", string(s.Name())).Str("variant", src.Variant().String()).Msg("Strategy not supported, skipping")
			continue
		}

		id := p.attempt(ctx, s, src)
		if id == "" || !p.validator.Valid(id) {
			continue
		}

		log.Debug().
			Str("url", pageURL).
			Str("strategy", string(s.Name())).
			Str("id", id).
			Dur("elapsed", time.Since(start)).
			Msg("Board id found")

		return &models.Outcome{
			Board: &models.Board{
				ID:        id,
				Name:      metadata.DisplayName(meta),
				URL:       pageURL,
				Thumbnail: meta.Image,
			},
			Method: s.Name(),
			Meta:   meta,
		}
	}

	log.Debug().Str("url", pageURL).Dur("elapsed", time.Since(start)).Msg("All strategies exhausted")
	return &models.Outcome{
		Meta: meta,
		Err:  engine.NewEngineError(engine.ErrCodeNotFound, engine.MsgNoIdentifier, nil),
	}
}

func (p *Pipeline) attempt(ctx context.Context, s Strategy, src Source) (id string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Debug().Str("strategy", string(s.Name())).Str("panic", fmt.Sprint(rec)).Msg("Strategy panicked")
			id = ""
		}
	}()

	id, err := s.Attempt(ctx, src, p.validator)
	if err != nil {
		log.Debug().Err(err).Str("strategy", string(s.Name())).Msg("Strategy failed")
		return ""
	}
	return id
}

// DetectLoginWall reports whether html carries login-form markers
func DetectLoginWall(html string) bool {
	for _, marker := range LoginWallMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

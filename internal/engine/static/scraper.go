// internal/engine/static/scraper.go
package static

import (
	"context"
	"time"

	"github.com/law-makers/boardid/internal/cache"
	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/pipeline"
	"github.com/law-makers/boardid/internal/relay"
	urlutil "github.com/law-makers/boardid/internal/utils/url"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// Fetcher returns the page source of a target URL
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*relay.Result, error)
}

// Result is a static extraction together with the page it ran on
type Result struct {
	Outcome *models.Outcome
	Page    *cache.Page
}

// Extractor implements engine.Extractor for the fetched-HTML variant
type Extractor struct {
	fetcher  Fetcher
	cache    cache.Cache
	pipeline *pipeline.Pipeline
	marker   string
	cacheTTL time.Duration
}

// New creates a static extractor. c may be nil to disable caching.
func New(f Fetcher, c cache.Cache, p *pipeline.Pipeline, marker string, cacheTTL time.Duration) *Extractor {
	if p == nil {
		p = pipeline.Default(pipeline.DefaultMinDigits)
	}
	return &Extractor{
		fetcher:  f,
		cache:    c,
		pipeline: p,
		marker:   marker,
		cacheTTL: cacheTTL,
	}
}

// Name returns the name of this extractor
func (e *Extractor) Name() string {
	return "StaticExtractor"
}

// Extract fetches opts.URL through the relays and runs the pipeline on it
func (e *Extractor) Extract(ctx context.Context, opts models.RequestOptions) (*models.Outcome, error) {
	res, err := e.ExtractPage(ctx, opts)
	if res == nil {
		return nil, err
	}
	return res.Outcome, err
}

// ExtractPage is Extract that also returns the fetched page
func (e *Extractor) ExtractPage(ctx context.Context, opts models.RequestOptions) (*Result, error) {
	start := time.Now()

	target, err := engine.CheckTarget(opts.URL, e.marker)
	if err != nil {
		return nil, err
	}
	canonical := urlutil.Canonicalize(target)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log.Debug().
		Str("url", canonical).
		Str("extractor", e.Name()).
		Msg("Starting extraction")

	page, err := e.page(ctx, canonical)
	if err != nil {
		return nil, err
	}

	out := e.pipeline.Extract(ctx, pipeline.NewHTMLSource(canonical, page.Body))

	log.Debug().
		Str("url", canonical).
		Str("relay", page.Relay).
		Bool("found", out.OK()).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction completed")

	return &Result{Outcome: out, Page: page}, out.Err
}

func (e *Extractor) page(ctx context.Context, canonical string) (*cache.Page, error) {
	key := cache.Key(canonical)
	if e.cache != nil {
		if page, ok := e.cache.Get(key); ok {
			return page, nil
		}
	}

	res, err := e.fetcher.Fetch(ctx, canonical)
	if err != nil {
		return nil, err
	}

	page := &cache.Page{URL: canonical, Body: res.Body, Relay: res.Relay, FetchedAt: time.Now()}
	if e.cache != nil {
		if err := e.cache.Set(key, page, e.cacheTTL); err != nil {
			log.Debug().Err(err).Msg("Failed to cache page")
		}
	}
	return page, nil
}

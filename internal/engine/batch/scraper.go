// internal/engine/batch/scraper.go
package batch

import (
	"context"
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/reqctx"
	"github.com/law-makers/boardid/internal/retry"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Runner extracts many boards with bounded concurrency
type Runner struct {
	extractor   engine.Extractor
	concurrency int
	retry       retry.Config
}

// New creates a Runner. concurrency <= 0 picks OptimalConcurrency for mode.
func New(ex engine.Extractor, concurrency int, mode models.ExtractorMode, rc retry.Config) *Runner {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency(mode)
	}
	return &Runner{
		extractor:   ex,
		concurrency: concurrency,
		retry:       rc,
	}
}

// Concurrency returns the worker count
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Run extracts every URL and returns one result per distinct board, in
// first-seen order. A failing board never stops the others. onDone, when
// set, is called once per result as it completes.
func (r *Runner) Run(ctx context.Context, urls []string, base models.RequestOptions, onDone func(models.ExtractResult)) []models.ExtractResult {
	unique, _ := Dedupe(urls)
	results := make([]models.ExtractResult, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	done := make(chan models.ExtractResult)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for res := range done {
			if onDone != nil {
				onDone(res)
			}
		}
	}()

	for i, u := range unique {
		g.Go(func() error {
			results[i] = r.one(gctx, u, base)
			done <- results[i]
			return nil
		})
	}

	_ = g.Wait()
	close(done)
	<-finished

	return results
}

func (r *Runner) one(ctx context.Context, u string, base models.RequestOptions) models.ExtractResult {
	ctx = reqctx.WithRequestContext(ctx, u)
	rc := reqctx.GetRequestContext(ctx)

	opts := base
	opts.URL = u

	var out *models.Outcome
	err := retry.WithRetry(ctx, r.retry, func(attempt int) error {
		var err error
		out, err = r.extractor.Extract(ctx, opts)
		return err
	})

	res := models.ExtractResult{URL: u, Outcome: out, Duration: time.Since(rc.StartTime)}
	if err != nil {
		res.Error = reqctx.NewRequestError(ctx, err)
		res.ErrorText = engine.UserMessage(err)
		log.Debug().Err(res.Error).Str("url", u).Msg("Board extraction failed")
	}
	return res
}

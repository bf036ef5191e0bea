// internal/engine/dynamic/scraper.go
package dynamic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/pipeline"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultSettle is how long the page may run scripts after body is ready
const DefaultSettle = 1500 * time.Millisecond

// Extractor implements engine.Extractor for the live-DOM variant. Without a
// pool it starts a one-off browser per extraction.
type Extractor struct {
	pool        *BrowserPool
	browserOpts BrowserPoolOptions
	pipeline    *pipeline.Pipeline
	marker      string
	timeout     time.Duration
	settle      time.Duration
	mu          sync.Mutex
}

// New creates a live extractor
func New(pool *BrowserPool, browserOpts BrowserPoolOptions, p *pipeline.Pipeline, marker string, timeout, settle time.Duration) *Extractor {
	if p == nil {
		p = pipeline.Default(pipeline.DefaultMinDigits)
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if settle < 0 {
		settle = 0
	}
	return &Extractor{
		pool:        pool,
		browserOpts: browserOpts,
		pipeline:    p,
		marker:      marker,
		timeout:     timeout,
		settle:      settle,
	}
}

// SetBrowserPool attaches a pool created after the extractor
func (e *Extractor) SetBrowserPool(bp *BrowserPool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool = bp
}

func (e *Extractor) browserPool() *BrowserPool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool
}

// Name returns the name of this extractor
func (e *Extractor) Name() string {
	return "LiveExtractor"
}

// Extract renders opts.URL in Chrome and runs the pipeline on the live page
func (e *Extractor) Extract(ctx context.Context, opts models.RequestOptions) (*models.Outcome, error) {
	start := time.Now()

	target, err := engine.CheckTarget(opts.URL, e.marker)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, release, err := e.tab(ctx, opts.Proxy)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeBrowser, "failed to start browser", err)
	}
	defer release()

	// the tab lives longer than this request; bound its work by ctx
	tabCtx, tabCancel := context.WithTimeout(tab, timeout)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	// status of the main document; redirects overwrite it with the final hop
	var status atomic.Int64
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventResponseReceived); ok && ev.Type == network.ResourceTypeDocument {
			status.Store(ev.Response.Status)
		}
	})

	var location string
	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(e.settle),
		chromedp.Location(&location),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, engine.NewEngineError(engine.ErrCodeTimeout, "page did not load in time", err)
		}
		return nil, engine.NewEngineError(engine.ErrCodeBrowser, "failed to load page", err)
	}

	log.Debug().
		Str("url", location).
		Int64("status", status.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("Page rendered")

	out := e.pipeline.Extract(ctx, NewPage(tabCtx, location))
	var ee *engine.EngineError
	if code := status.Load(); code >= 400 && errors.As(out.Err, &ee) {
		ee.WithDetail("status", code)
	}

	log.Debug().
		Str("url", location).
		Bool("found", out.OK()).
		Dur("elapsed", time.Since(start)).
		Msg("Live extraction completed")

	return out, out.Err
}

func (e *Extractor) tab(ctx context.Context, proxy string) (context.Context, func(), error) {
	if pool := e.browserPool(); pool != nil && proxy == "" {
		bc, err := pool.Acquire(ctx)
		if err != nil {
			return nil, nil, err
		}
		return bc.Ctx, func() { pool.Release(bc) }, nil
	}

	bopts := e.browserOpts
	if proxy != "" {
		bopts.Proxy = proxy
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(bopts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, nil, err
	}
	return tabCtx, func() {
		tabCancel()
		allocCancel()
	}, nil
}

// internal/engine/dynamic/browser_pool.go
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrPoolClosed is returned by Acquire after Close
var ErrPoolClosed = errors.New("browser pool is closed")

// DefaultUserAgent is sent by pooled browsers when none is configured
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// BrowserPool keeps warm Chrome tabs so board pages skip browser startup
type BrowserPool struct {
	size        int
	contexts    chan *BrowserContext
	allocCancel context.CancelFunc
	mu          sync.Mutex
	closed      bool
}

// BrowserContext wraps a chromedp context with its cancel function
type BrowserContext struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// BrowserPoolOptions configures the browser pool
type BrowserPoolOptions struct {
	Size       int
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
}

// AllocatorOptions returns the exec allocator flags shared by pooled and
// one-off browsers
func AllocatorOptions(opts BrowserPoolOptions) []chromedp.ExecAllocatorOption {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1366,900"),
		chromedp.UserAgent(ua),
	}

	if path := FindChrome(opts.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	return allocOpts
}

// NewBrowserPool starts Chrome and opens opts.Size warm tabs
func NewBrowserPool(opts BrowserPoolOptions) (*BrowserPool, error) {
	if opts.Size <= 0 {
		opts.Size = 2
	}
	if opts.Size > 10 {
		opts.Size = 10
	}

	log.Debug().Int("size", opts.Size).Msg("Creating browser pool")

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(opts)...)
	pool := &BrowserPool{
		size:        opts.Size,
		contexts:    make(chan *BrowserContext, opts.Size),
		allocCancel: allocCancel,
	}

	for i := 0; i < opts.Size; i++ {
		tabCtx, tabCancel := chromedp.NewContext(allocCtx)
		if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
			tabCancel()
			pool.Close()
			return nil, fmt.Errorf("failed to warm up browser context %d: %w", i, err)
		}
		pool.contexts <- &BrowserContext{Ctx: tabCtx, Cancel: tabCancel}
	}

	log.Info().Int("pool_size", opts.Size).Msg("Browser pool ready")
	return pool, nil
}

// Acquire takes a tab from the pool, waiting until one is free or ctx ends
func (bp *BrowserPool) Acquire(ctx context.Context) (*BrowserContext, error) {
	select {
	case bc, ok := <-bp.contexts:
		if !ok {
			return nil, ErrPoolClosed
		}
		bp.mu.Lock()
		defer bp.mu.Unlock()
		if bp.closed {
			bc.Cancel()
			return nil, ErrPoolClosed
		}
		return bc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for browser context: %w", ctx.Err())
	}
}

// Release resets a tab to about:blank and returns it to the pool
func (bp *BrowserPool) Release(bc *BrowserContext) {
	// board state must not leak into the next extraction
	_ = chromedp.Run(bc.Ctx, chromedp.Navigate("about:blank"))

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		bc.Cancel()
		return
	}

	select {
	case bp.contexts <- bc:
	default:
		bc.Cancel()
		log.Warn().Msg("Browser pool full, discarding context")
	}
}

// Close shuts down all tabs and the browser
func (bp *BrowserPool) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}
	bp.closed = true

	close(bp.contexts)
	for bc := range bp.contexts {
		bc.Cancel()
	}
	bp.allocCancel()

	log.Debug().Msg("Browser pool closed")
	return nil
}

// Size returns the pool size
func (bp *BrowserPool) Size() int {
	return bp.size
}

// Available returns the number of idle tabs
func (bp *BrowserPool) Available() int {
	return len(bp.contexts)
}

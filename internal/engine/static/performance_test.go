package static

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/boardid/internal/cache"
	"github.com/law-makers/boardid/internal/relay"
	"github.com/law-makers/boardid/pkg/models"
)

// scavengeHTML only yields an id to the last strategy, so every strategy runs
var scavengeHTML = `<!DOCTYPE html><html><head><title>Recipes | Pinterest</title>
<script type="application/ld+json">{"@type":"WebPage","name":"Recipes"}</script></head><body>` +
	strings.Repeat(`<div class="pin"><img src="https://i.pinimg.com/x.jpg"><p>Pin text</p></div>`, 200) +
	`<script>window.__cfg = {"board_id":"987654321012"};</script></body></html>`

func newBenchExtractor(b *testing.B, html string, c cache.Cache) *Extractor {
	b.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	b.Cleanup(ts.Close)

	chain := relay.NewChain([]relay.Relay{{Name: "local", Template: ts.URL + "/?u={url}"}}, ts.Client(), nil, nil, nil, relay.Options{})
	return New(chain, c, nil, "", time.Minute)
}

// BenchmarkStaticExtract measures fetch plus the full strategy chain
func BenchmarkStaticExtract(b *testing.B) {
	ex := newBenchExtractor(b, scavengeHTML, nil)
	opts := models.RequestOptions{URL: "https://www.pinterest.com/user/recipes/"}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		out, err := ex.Extract(context.Background(), opts)
		if err != nil {
			b.Fatal(err)
		}
		if out.Method != models.MethodRegex {
			b.Fatalf("Expected Regex, got %s", out.Method)
		}
	}
}

// BenchmarkStaticExtractParallel measures concurrent extraction
func BenchmarkStaticExtractParallel(b *testing.B) {
	ex := newBenchExtractor(b, scavengeHTML, nil)
	opts := models.RequestOptions{URL: "https://www.pinterest.com/user/recipes/"}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := ex.Extract(context.Background(), opts); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkStaticExtractCached measures the pipeline alone on a cached page
func BenchmarkStaticExtractCached(b *testing.B) {
	mc := cache.NewMemoryCache(16*1024*1024, time.Minute)
	defer mc.Close()
	ex := newBenchExtractor(b, scavengeHTML, mc)
	opts := models.RequestOptions{URL: "https://www.pinterest.com/user/recipes/"}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := ex.Extract(context.Background(), opts); err != nil {
			b.Fatal(err)
		}
	}
}

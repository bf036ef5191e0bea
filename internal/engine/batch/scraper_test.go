package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/retry"
	"github.com/law-makers/boardid/pkg/models"
)

type mockExtractor struct {
	inflight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (m *mockExtractor) Name() string { return "mock" }

func (m *mockExtractor) Extract(ctx context.Context, opts models.RequestOptions) (*models.Outcome, error) {
	m.calls.Add(1)
	n := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)

	if opts.URL == "https://www.pinterest.com/u/missing" {
		return &models.Outcome{}, engine.NewEngineError(engine.ErrCodeNotFound, engine.MsgNoIdentifier, nil)
	}
	return &models.Outcome{Board: &models.Board{ID: "123456789", URL: opts.URL}}, nil
}

func TestRunner_OrderConcurrencyAndErrors(t *testing.T) {
	ex := &mockExtractor{}
	runner := New(ex, 2, models.ModeStatic, retry.DefaultConfig())

	urls := []string{
		"https://www.pinterest.com/u/a",
		"https://www.pinterest.com/u/b",
		"https://www.pinterest.com/u/missing",
		"https://www.pinterest.com/u/c",
		"https://www.pinterest.com/u/d",
	}

	var mu sync.Mutex
	seen := 0
	results := runner.Run(context.Background(), urls, models.RequestOptions{Mode: models.ModeStatic}, func(models.ExtractResult) {
		mu.Lock()
		seen++
		mu.Unlock()
	})

	if len(results) != len(urls) {
		t.Fatalf("Expected %d results, got %d", len(urls), len(results))
	}
	for i, res := range results {
		if res.URL != urls[i] {
			t.Errorf("Expected result %d for %s, got %s", i, urls[i], res.URL)
		}
	}
	if results[2].Error == nil || !errors.Is(results[2].Error, engine.ErrNoIdentifier) {
		t.Errorf("Expected not-found error for missing board, got %v", results[2].Error)
	}
	if results[2].ErrorText != engine.MsgNoIdentifier {
		t.Errorf("Expected user message, got %q", results[2].ErrorText)
	}
	if results[0].Error != nil || results[0].Outcome.Board.ID != "123456789" {
		t.Errorf("Expected success for first board, got %+v", results[0])
	}
	if seen != len(urls) {
		t.Errorf("Expected %d callbacks, got %d", len(urls), seen)
	}
	if peak := ex.peak.Load(); peak > 2 {
		t.Errorf("Expected at most 2 concurrent extractions, got %d", peak)
	}
}

func TestRunner_Dedupes(t *testing.T) {
	ex := &mockExtractor{}
	runner := New(ex, 4, models.ModeStatic, retry.DefaultConfig())

	results := runner.Run(context.Background(), []string{
		"https://www.pinterest.com/u/a/",
		"https://www.pinterest.com/u/a?x=1",
		"",
		"# comment",
		"pinterest.com/u/b",
	}, models.RequestOptions{}, nil)

	if len(results) != 2 {
		t.Fatalf("Expected 2 distinct boards, got %d", len(results))
	}
	if ex.calls.Load() != 2 {
		t.Errorf("Expected 2 extractions, got %d", ex.calls.Load())
	}
}

func TestDedupe(t *testing.T) {
	unique, index := Dedupe([]string{"https://www.pinterest.com/u/a", " ", "https://WWW.pinterest.com/u/a/", "https://www.pinterest.com/u/b"})

	if len(unique) != 2 {
		t.Fatalf("Expected 2 unique, got %v", unique)
	}
	want := []int{0, -1, 0, 1}
	for i := range want {
		if index[i] != want[i] {
			t.Errorf("index[%d]: expected %d, got %d", i, want[i], index[i])
		}
	}
}

func TestOptimalConcurrency(t *testing.T) {
	if n := OptimalConcurrency(models.ModeStatic); n < 2 || n > 6 {
		t.Errorf("Expected static concurrency in [2,6], got %d", n)
	}
	if n := OptimalConcurrency(models.ModeLive); n < 1 || n > 4 {
		t.Errorf("Expected live concurrency in [1,4], got %d", n)
	}
}

// internal/engine/hybrid/hybrid_test.go
package hybrid

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/law-makers/boardid/internal/cache"
	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/engine/static"
	"github.com/law-makers/boardid/pkg/models"
)

const shell = `<html><body><div id="__PWS_ROOT__"></div><script src="/app.js"></script></body></html>`

// rendered is a server-rendered page that still mounts the client framework
var rendered = `<html><body><div id="__PWS_ROOT__">` + strings.Repeat(`<div class="pin"></div>`, 60) + `</div><script src="/app.js"></script></body></html>`

type fakeStatic struct {
	res *static.Result
	err error
}

func (f fakeStatic) ExtractPage(context.Context, models.RequestOptions) (*static.Result, error) {
	return f.res, f.err
}

type fakeLive struct {
	out   *models.Outcome
	err   error
	calls int
}

func (f *fakeLive) Name() string { return "fake" }

func (f *fakeLive) Extract(context.Context, models.RequestOptions) (*models.Outcome, error) {
	f.calls++
	return f.out, f.err
}

func notFound(body string) fakeStatic {
	err := engine.NewEngineError(engine.ErrCodeNotFound, engine.MsgNoIdentifier, nil)
	return fakeStatic{
		res: &static.Result{Outcome: &models.Outcome{Err: err, Meta: models.PageMeta{Title: "static"}}, Page: &cache.Page{Body: body}},
		err: err,
	}
}

func liveHit() *fakeLive {
	return &fakeLive{out: &models.Outcome{Board: &models.Board{ID: "123456789"}, Method: models.MethodReactFiber}}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want Decision
	}{
		{"success", nil, shell, DecisionKeep},
		{"validation", engine.ErrInvalidURL, "", DecisionKeep},
		{"transport", engine.NewEngineError(engine.ErrCodeTransport, "x", nil), "", DecisionEscalate},
		{"not found on framework page", engine.NewEngineError(engine.ErrCodeNotFound, "x", nil), shell, DecisionEscalate},
		{"not found on plain page", engine.NewEngineError(engine.ErrCodeNotFound, "x", nil), "<html><p>gone</p></html>", DecisionKeep},
		{"not found on rendered framework page", engine.NewEngineError(engine.ErrCodeNotFound, "x", nil), rendered, DecisionKeep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.err, tt.body); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLooksUnrendered(t *testing.T) {
	if !LooksUnrendered(shell) {
		t.Errorf("Expected shell page to look unrendered")
	}
	if LooksUnrendered("<html><body><p>static</p></body></html>") {
		t.Errorf("Expected plain page to look rendered")
	}
}

func TestExtractor_StaticSuccessSkipsLive(t *testing.T) {
	live := liveHit()
	ok := &models.Outcome{Board: &models.Board{ID: "987654321"}, Method: models.MethodDeepLink}
	ex := New(fakeStatic{res: &static.Result{Outcome: ok}}, live)

	out, err := ex.Extract(context.Background(), models.RequestOptions{URL: "u"})
	if err != nil || out.Board.ID != "987654321" {
		t.Fatalf("Expected static result, got %+v, %v", out, err)
	}
	if live.calls != 0 {
		t.Errorf("Expected no live call, got %d", live.calls)
	}
}

func TestExtractor_EscalatesOnFrameworkMiss(t *testing.T) {
	live := liveHit()
	ex := New(notFound(shell), live)

	out, err := ex.Extract(context.Background(), models.RequestOptions{URL: "u"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Method != models.MethodReactFiber || live.calls != 1 {
		t.Errorf("Expected live ReactFiber result, got %s after %d calls", out.Method, live.calls)
	}
}

func TestExtractor_RenderedMissStaysStatic(t *testing.T) {
	live := liveHit()
	ex := New(notFound(rendered), live)

	_, err := ex.Extract(context.Background(), models.RequestOptions{URL: "u"})
	if !errors.Is(err, engine.ErrNoIdentifier) {
		t.Fatalf("Expected static not-found error, got %v", err)
	}
	if live.calls != 0 {
		t.Errorf("Expected no live call for a rendered page, got %d", live.calls)
	}
}

func TestExtractor_BrowserFailureKeepsStaticOutcome(t *testing.T) {
	live := &fakeLive{err: engine.NewEngineError(engine.ErrCodeBrowser, "no chrome", nil)}
	ex := New(notFound(shell), live)

	out, err := ex.Extract(context.Background(), models.RequestOptions{URL: "u"})
	if !errors.Is(err, engine.ErrNoIdentifier) {
		t.Fatalf("Expected static not-found error, got %v", err)
	}
	if out == nil || out.Meta.Title != "static" {
		t.Errorf("Expected static outcome, got %+v", out)
	}
}

func TestExtractor_NoLiveNeverEscalates(t *testing.T) {
	ex := New(notFound(shell), nil)
	_, err := ex.Extract(context.Background(), models.RequestOptions{URL: "u"})
	if !errors.Is(err, engine.ErrNoIdentifier) {
		t.Fatalf("Expected not found, got %v", err)
	}
}

func TestExtractor_ValidationNeverEscalates(t *testing.T) {
	live := liveHit()
	ex := New(fakeStatic{err: engine.NewEngineError(engine.ErrCodeValidation, engine.MsgInvalidURL, nil)}, live)

	_, err := ex.Extract(context.Background(), models.RequestOptions{URL: "x"})
	if !errors.Is(err, engine.ErrInvalidURL) || live.calls != 0 {
		t.Errorf("Expected validation error without live call, got %v (%d calls)", err, live.calls)
	}
}

// internal/engine/dynamic/page.go
package dynamic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/law-makers/boardid/internal/jsonv"
	"github.com/law-makers/boardid/internal/pipeline"
)

const metaScript = `(function(p){
  var m = document.querySelector('meta[property="' + CSS.escape(p) + '"]') ||
          document.querySelector('meta[name="' + CSS.escape(p) + '"]');
  return m ? (m.getAttribute('content') || '') : '';
})(%s)`

const scriptsScript = `(function(t){
  return Array.from(document.querySelectorAll('script'))
    .filter(function(s){ return (s.getAttribute('type') || '').trim().toLowerCase() === t; })
    .map(function(s){ return s.textContent || ''; });
})(%s)`

const elementScript = `(function(id){
  var e = document.getElementById(id);
  return e ? {found: true, text: e.textContent || ''} : {found: false, text: ''};
})(%s)`

// propsScript serialises the props object found under the first own key
// with the given prefix. Functions, DOM nodes and repeated references are
// dropped so that fiber back-pointers do not make the graph cyclic.
const propsScript = `(function(sel, firstChild, prefix){
  var el = document.querySelector(sel);
  if (el && firstChild) { el = el.firstChild; }
  if (!el) { return null; }
  var key = Object.keys(el).find(function(k){ return k.indexOf(prefix) === 0; });
  if (!key) { return null; }
  var seen = new WeakSet();
  var out = JSON.stringify(el[key], function(k, v){
    if (typeof v === 'function' || typeof v === 'symbol') { return undefined; }
    if (typeof Node !== 'undefined' && v instanceof Node) { return undefined; }
    if (v && typeof v === 'object') {
      if (seen.has(v)) { return undefined; }
      seen.add(v);
    }
    return v;
  });
  return out === undefined ? null : out;
})(%s, %s, %s)`

// Page is the live-DOM variant: every lookup runs inside the rendered tab
type Page struct {
	tab context.Context
	url string
}

// NewPage wraps a chromedp tab context that has already navigated to url
func NewPage(tab context.Context, url string) *Page {
	return &Page{tab: tab, url: url}
}

func (p *Page) Variant() pipeline.Variant { return pipeline.VariantLive }

func (p *Page) URL() string { return p.url }

func (p *Page) eval(ctx context.Context, script string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(p.tab, chromedp.Evaluate(script, out))
}

func (p *Page) MetaContent(ctx context.Context, property string) (string, error) {
	var content string
	err := p.eval(ctx, fmt.Sprintf(metaScript, jsLiteral(property)), &content)
	return content, err
}

func (p *Page) ScriptTexts(ctx context.Context, scriptType string) ([]string, error) {
	var texts []string
	err := p.eval(ctx, fmt.Sprintf(scriptsScript, jsLiteral(scriptType)), &texts)
	return texts, err
}

func (p *Page) ElementText(ctx context.Context, id string) (string, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	if err := p.eval(ctx, fmt.Sprintf(elementScript, jsLiteral(id)), &res); err != nil {
		return "", false, err
	}
	return res.Text, res.Found, nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var title string
	err := chromedp.Run(p.tab, chromedp.Title(&title))
	return title, err
}

func (p *Page) FrameworkProps(ctx context.Context, anchor pipeline.Anchor, prefix string) (*jsonv.Value, error) {
	var raw []byte
	script := fmt.Sprintf(propsScript, jsLiteral(anchor.Selector), jsLiteral(anchor.FirstChild), jsLiteral(prefix))
	if err := p.eval(ctx, script, &raw); err != nil {
		return nil, err
	}
	return decodeProps(raw)
}

// decodeProps turns the evaluation result (a JSON string holding JSON, or
// null) into a value tree
func decodeProps(raw []byte) (*jsonv.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("unexpected props result: %w", err)
	}
	return jsonv.ParseString(text)
}

// jsLiteral renders v as a JavaScript literal
func jsLiteral(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

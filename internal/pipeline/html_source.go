package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/boardid/internal/engine/metadata"
)

// HTMLSource is the fetched-HTML variant. The document is parsed on first use.
type HTMLSource struct {
	url  string
	html string

	once sync.Once
	doc  *goquery.Document
	tags map[string]string
	err  error
}

// NewHTMLSource wraps a raw page body
func NewHTMLSource(pageURL, html string) *HTMLSource {
	return &HTMLSource{url: pageURL, html: html}
}

func (s *HTMLSource) Variant() Variant { return VariantHTML }

func (s *HTMLSource) URL() string { return s.url }

func (s *HTMLSource) RawText() string { return s.html }

func (s *HTMLSource) document() (*goquery.Document, error) {
	s.once.Do(func() {
		s.doc, s.err = goquery.NewDocumentFromReader(strings.NewReader(s.html))
		if s.err == nil {
			s.tags = metadata.Tags(s.doc)
		}
	})
	return s.doc, s.err
}

func (s *HTMLSource) MetaContent(_ context.Context, property string) (string, error) {
	if _, err := s.document(); err != nil {
		return "", err
	}
	return s.tags[property], nil
}

func (s *HTMLSource) ScriptTexts(_ context.Context, scriptType string) ([]string, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}

	var texts []string
	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		if t, _ := sel.Attr("type"); strings.EqualFold(strings.TrimSpace(t), scriptType) {
			texts = append(texts, sel.Text())
		}
	})
	return texts, nil
}

func (s *HTMLSource) ElementText(_ context.Context, id string) (string, bool, error) {
	doc, err := s.document()
	if err != nil {
		return "", false, err
	}

	var (
		text  string
		found bool
	)
	doc.Find("[id]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if v, _ := sel.Attr("id"); v == id {
			text, found = sel.Text(), true
			return false
		}
		return true
	})
	return text, found, nil
}

func (s *HTMLSource) Title(_ context.Context) (string, error) {
	doc, err := s.document()
	if err != nil {
		return "", err
	}
	return doc.Find("title").First().Text(), nil
}

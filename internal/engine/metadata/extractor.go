// internal/engine/metadata/extractor.go
package metadata

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultBoardName is shown when a page carries no usable title
const DefaultBoardName = "Pinterest Board"

// TitleSuffix is appended by the site to every og:title and <title>
const TitleSuffix = " | Pinterest"

// Reader is the subset of a page source metadata collection needs
type Reader interface {
	MetaContent(ctx context.Context, property string) (string, error)
	Title(ctx context.Context) (string, error)
}

// Tags collects <meta> content keyed by property and name. The first tag for
// a key wins.
func Tags(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	if doc == nil {
		return tags
	}

	doc.Find("meta").Each(func(i int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		for _, attr := range []string{"property", "name"} {
			if key, exists := sel.Attr(attr); exists && key != "" {
				if _, seen := tags[key]; !seen {
					tags[key] = content
				}
			}
		}
	})

	return tags
}

// Collect gathers best-effort page metadata. It never fails: lookup errors
// and panics from the reader leave the corresponding field empty.
func Collect(ctx context.Context, r Reader, pageURL string) (meta models.PageMeta) {
	meta.URL = pageURL
	if r == nil {
		return meta
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Debug().Interface("panic", rec).Str("url", pageURL).Msg("Metadata collection panicked")
		}
	}()

	if title, err := r.MetaContent(ctx, "og:title"); err == nil {
		meta.Title = CleanTitle(title)
	} else {
		log.Debug().Err(err).Msg("og:title lookup failed")
	}
	if meta.Title == "" {
		if title, err := r.Title(ctx); err == nil {
			meta.Title = CleanTitle(title)
		}
	}

	if image, err := r.MetaContent(ctx, "og:image"); err == nil {
		meta.Image = ResolveURL(pageURL, strings.TrimSpace(image))
	}

	return meta
}

// CleanTitle removes the site suffix and surrounding whitespace
func CleanTitle(title string) string {
	return strings.TrimSpace(strings.Replace(title, TitleSuffix, "", 1))
}

// DisplayName picks the board name shown to users
func DisplayName(meta models.PageMeta) string {
	if meta.Title != "" {
		return meta.Title
	}
	return DefaultBoardName
}

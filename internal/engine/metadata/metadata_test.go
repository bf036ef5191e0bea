package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	meta  map[string]string
	title string
	err   error
	panic bool
}

func (f fakeReader) MetaContent(_ context.Context, property string) (string, error) {
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return "", f.err
	}
	return f.meta[property], nil
}

func (f fakeReader) Title(context.Context) (string, error) {
	return f.title, nil
}

func TestTags(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><head>
		<meta property="og:title" content="Recipes | Pinterest">
		<meta property="og:title" content="second">
		<meta name="description" content="desc">
		<meta property="al:ios:url">
	</head></html>`))
	require.NoError(t, err)

	tags := Tags(doc)
	assert.Equal(t, "Recipes | Pinterest", tags["og:title"])
	assert.Equal(t, "desc", tags["description"])
	_, ok := tags["al:ios:url"]
	assert.False(t, ok)

	assert.Empty(t, Tags(nil))
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("og tags", func(t *testing.T) {
		meta := Collect(ctx, fakeReader{meta: map[string]string{
			"og:title": "Recipes | Pinterest",
			"og:image": "/img/cover.jpg",
		}}, "https://www.pinterest.com/u/recipes")
		assert.Equal(t, "Recipes", meta.Title)
		assert.Equal(t, "https://www.pinterest.com/img/cover.jpg", meta.Image)
		assert.Equal(t, "https://www.pinterest.com/u/recipes", meta.URL)
	})

	t.Run("falls back to document title", func(t *testing.T) {
		meta := Collect(ctx, fakeReader{title: "Garden | Pinterest"}, "u")
		assert.Equal(t, "Garden", meta.Title)
	})

	t.Run("reader errors are absorbed", func(t *testing.T) {
		meta := Collect(ctx, fakeReader{err: errors.New("detached"), title: "T"}, "u")
		assert.Equal(t, "T", meta.Title)
		assert.Empty(t, meta.Image)
	})

	t.Run("reader panics are absorbed", func(t *testing.T) {
		assert.NotPanics(t, func() {
			meta := Collect(ctx, fakeReader{panic: true}, "u")
			assert.Equal(t, "u", meta.URL)
		})
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, DefaultBoardName, DisplayName(models.PageMeta{}))
	assert.Equal(t, "Recipes", DisplayName(models.PageMeta{Title: "Recipes"}))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://i.pinimg.com/a.jpg", ResolveURL("https://x.test/b", "https://i.pinimg.com/a.jpg"))
	assert.Equal(t, "https://x.test/a.jpg", ResolveURL("https://x.test/b/c", "/a.jpg"))
	assert.Equal(t, "a.jpg", ResolveURL("not a url", "a.jpg"))
	assert.Equal(t, "", ResolveURL("https://x.test", ""))
}

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/law-makers/boardid/internal/jsonv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var v6 = NewValidator(6)

func htmlSrc(body string) *HTMLSource {
	return NewHTMLSource("https://www.pinterest.com/u/b/", body)
}

func TestAppLink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"ios meta", `<meta property="al:ios:url" content="pinterest://board/123456789">`, "123456789"},
		{"android meta", `<meta property="al:android:url" content="pinterest://board/234567890/">`, "234567890"},
		{"ios invalid android valid", `<meta property="al:ios:url" content="pinterest://board/12"><meta property="al:android:url" content="pinterest://board/345678901">`, "345678901"},
		{"raw scheme", `<script>var x = "PINTEREST://board/456789012";</script>`, "456789012"},
		{"too short", `<meta property="al:ios:url" content="pinterest://board/1234">`, ""},
		{"absent", `<p>nothing</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppLink{}.Attempt(ctx, htmlSrc(tt.html), v6)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONLD(t *testing.T) {
	ctx := context.Background()
	script := func(body string) string {
		return `<script type="application/ld+json">` + body + `</script>`
	}

	tests := []struct {
		name string
		html string
		want string
	}{
		{"collection page", script(`{"@type":"CollectionPage","mainEntity":{"identifier":"987654321"}}`), "987654321"},
		{"top-level identifier", script(`{"@type":"Thing","identifier":"876543210"}`), "876543210"},
		{"numeric identifier", script(`{"identifier": 765432109}`), "765432109"},
		{"collection page falls back to identifier", script(`{"@type":"CollectionPage","mainEntity":{"identifier":"x"},"identifier":"654321098"}`), "654321098"},
		{"malformed payload does not stop the scan", script(`{"@type": `) + script(`{"identifier":"543210987"}`), "543210987"},
		{"first valid payload wins", script(`{"identifier":"111111111"}`) + script(`{"identifier":"222222222"}`), "111111111"},
		{"array payload", script(`[{"@type":"Person"},{"@type":"CollectionPage","mainEntity":{"identifier":"432109876"}}]`), "432109876"},
		{"other script types ignored", `<script type="application/json">{"identifier":"321098765"}</script>`, ""},
		{"invalid identifiers", script(`{"identifier":"12ab5678"}`), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONLD{}.Attempt(ctx, htmlSrc(tt.html), v6)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHydration(t *testing.T) {
	ctx := context.Background()
	pws := func(body string) string {
		return `<script id="__PWS_DATA__" type="application/json">` + body + `</script>`
	}

	tests := []struct {
		name    string
		html    string
		want    string
		wantErr bool
	}{
		{"board_id deep", pws(`{"props":{"initialReduxState":{"resources":{"BoardResource":{"data":{"board_id":"549755813888"}}}}}}`), "549755813888", false},
		{"board_id preferred over earlier entity_id", pws(`{"a":{"entity_id":"111111111"},"b":{"board_id":"222222222"}}`), "222222222", false},
		{"entity_id fallback", pws(`{"props":{"entity_id":"333333333"}}`), "333333333", false},
		{"invalid board_id then entity_id", pws(`{"board_id":"abc","x":{"entity_id":"444444444"}}`), "444444444", false},
		{"object literal payload", pws(`{props: {board_id: '555555555',},}`), "555555555", false},
		{"unparseable payload", pws(`{{{`), "", true},
		{"computed payload", pws(`{board_id: (function(){ return String(123456*1000+789) })()}`), "", true},
		{"deeply nested payload", pws(strings.Repeat("[", 1<<20)), "", true},
		{"missing element", `<div id="other"></div>`, "", false},
		{"no keys", pws(`{"x": 1}`), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hydration{}.Attempt(ctx, htmlSrc(tt.html), v6)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameworkProps(t *testing.T) {
	ctx := context.Background()
	props := func(id string) *jsonv.Value {
		return jsonv.NewObject(jsonv.Member{Key: "children", Value: jsonv.NewObject(
			jsonv.Member{Key: "board_id", Value: jsonv.NewString(id)},
		)})
	}

	t.Run("unsupported on html", func(t *testing.T) {
		assert.False(t, FrameworkProps{}.Supports(htmlSrc("<p></p>")))
	})

	t.Run("first matching anchor wins", func(t *testing.T) {
		src := &liveFake{props: map[string]*jsonv.Value{
			"board-title": props("123123123"),
			"body":        props("456456456"),
		}}
		require.True(t, FrameworkProps{}.Supports(src))

		got, err := FrameworkProps{}.Attempt(ctx, src, v6)
		require.NoError(t, err)
		assert.Equal(t, "123123123", got)
		assert.Equal(t, []string{"board-header", "board-title"}, src.queried)
	})

	t.Run("anchor errors and invalid ids fall through", func(t *testing.T) {
		src := &liveFake{
			props: map[string]*jsonv.Value{
				"board-title": props("12"),
				"body":        props("789789789"),
			},
			propsErr: map[string]error{"board-header": errors.New("detached node")},
		}
		got, err := FrameworkProps{}.Attempt(ctx, src, v6)
		require.NoError(t, err)
		assert.Equal(t, "789789789", got)
		assert.Equal(t, []string{"board-header", "board-title", "root-first-child", "body"}, src.queried)
	})
}

func TestScavenger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"board_id", `{"board_id": "123456789"}`, "123456789"},
		{"nested board", `{"board": {"name": "x", "id": 234567890}}`, "234567890"},
		{"data attribute", `<div data-board-id="345678901"></div>`, "345678901"},
		{"element_id", `{"element_id":456789012}`, "456789012"},
		{"objectId", `{"objectId": '567890123'}`, "567890123"},
		{"narrow pattern needs validation", `{"board_id": "12"} {"objectId": "678901234"}`, "678901234"},
		{"broad pattern", `{"type":"board","name":"Recipes","owner":{"x":1},"id":"1234567890123"}`, "1234567890123"},
		{"broad pattern spans newlines", "{\"category\": \"board\",\n\"a\": 1,\n\"id\": 98765432101}", "98765432101"},
		{"broad pattern needs ten digits", `{"type":"board","id":"123456789"}`, ""},
		{"nothing", `<html></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scavenger{}.Attempt(ctx, htmlSrc(tt.html), v6)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.False(t, Scavenger{}.Supports(&liveFake{}))
}

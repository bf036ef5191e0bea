package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/law-makers/boardid/internal/jsonv"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/rs/zerolog/log"
)

// Strategy is one heuristic board-id extractor. Attempt returns "" when the
// strategy finds nothing; a returned error is strategy-local and never reaches
// the caller of the pipeline.
type Strategy interface {
	Name() models.Method
	Supports(src Source) bool
	Attempt(ctx context.Context, src Source, v Validator) (string, error)
}

// DefaultStrategies returns the five strategies in confidence order
func DefaultStrategies() []Strategy {
	return []Strategy{
		AppLink{},
		JSONLD{},
		Hydration{},
		FrameworkProps{},
		Scavenger{},
	}
}

var (
	boardPathPattern = regexp.MustCompile(`board/(\d+)`)
	deepLinkPattern  = regexp.MustCompile(`(?i)pinterest://board/(\d+)`)
)

// AppLink reads the mobile deep-link meta tags, then the raw deep-link scheme
type AppLink struct{}

// AppLinkProperties are the meta properties carrying the app deep link
var AppLinkProperties = []string{"al:ios:url", "al:android:url"}

func (AppLink) Name() models.Method { return models.MethodDeepLink }

func (AppLink) Supports(Source) bool { return true }

func (AppLink) Attempt(ctx context.Context, src Source, v Validator) (string, error) {
	for _, prop := range AppLinkProperties {
		content, err := src.MetaContent(ctx, prop)
		if err != nil {
			return "", err
		}
		if m := boardPathPattern.FindStringSubmatch(content); m != nil && v.Valid(m[1]) {
			return m[1], nil
		}
	}

	if raw, ok := src.(RawTextSource); ok {
		if m := deepLinkPattern.FindStringSubmatch(raw.RawText()); m != nil && v.Valid(m[1]) {
			return m[1], nil
		}
	}
	return "", nil
}

// JSONLD scans structured-data scripts one payload at a time
type JSONLD struct{}

const (
	jsonLDScriptType   = "application/ld+json"
	collectionPageType = "CollectionPage"
)

func (JSONLD) Name() models.Method { return models.MethodJSONLD }

func (JSONLD) Supports(Source) bool { return true }

func (s JSONLD) Attempt(ctx context.Context, src Source, v Validator) (string, error) {
	scripts, err := src.ScriptTexts(ctx, jsonLDScriptType)
	if err != nil {
		return "", err
	}

	for i, text := range scripts {
		doc, err := jsonv.ParseString(strings.TrimSpace(text))
		if err != nil {
			log.Debug().Err(err).Int("payload", i).Msg("Skipping malformed JSON-LD payload")
			continue
		}

		nodes := []*jsonv.Value{doc}
		if doc.Kind() == jsonv.Array {
			nodes = doc.Items()
		}
		for _, node := range nodes {
			if id := s.identifier(node, v); id != "" {
				return id, nil
			}
		}
	}
	return "", nil
}

func (JSONLD) identifier(node *jsonv.Value, v Validator) string {
	if typ, ok := node.Get("@type"); ok && typ.Kind() == jsonv.String && typ.Text() == collectionPageType {
		if id, ok := node.Path("mainEntity", "identifier"); ok && v.Valid(id.Text()) {
			return id.Text()
		}
	}
	if id, ok := node.Get("identifier"); ok && v.Valid(id.Text()) {
		return id.Text()
	}
	return ""
}

// HydrationElementID is the element holding the server hydration payload
const HydrationElementID = "__PWS_DATA__"

// Hydration deep-searches the hydration payload for board_id, then entity_id
type Hydration struct{}

func (Hydration) Name() models.Method { return models.MethodPWSData }

func (Hydration) Supports(Source) bool { return true }

func (Hydration) Attempt(ctx context.Context, src Source, v Validator) (string, error) {
	text, found, err := src.ElementText(ctx, HydrationElementID)
	if err != nil || !found {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	payload, err := jsonv.ParseString(text)
	if err != nil {
		log.Debug().Err(err).Msg("Hydration payload is not strict JSON, retrying leniently")
		payload, err = jsonv.ParseLenient(text)
		if err != nil {
			return "", err
		}
	}

	if id := jsonv.FindKeyText(payload, "board_id"); v.Valid(id) {
		return id, nil
	}
	// entity_id may name another entity type such as a user
	if id := jsonv.FindKeyText(payload, "entity_id"); v.Valid(id) {
		log.Debug().Str("id", id).Msg("Board id taken from entity_id fallback")
		return id, nil
	}
	return "", nil
}

// ReactPropsPrefix marks the framework's internal props key on DOM nodes
const ReactPropsPrefix = "__reactProps$"

// DefaultAnchors are tried in order by FrameworkProps
var DefaultAnchors = []Anchor{
	{Name: "board-header", Selector: `[data-test-id="board-header"]`},
	{Name: "board-title", Selector: `[data-test-id="board-title"]`},
	{Name: "root-first-child", Selector: "#__PWS_ROOT__", FirstChild: true},
	{Name: "body", Selector: "body"},
}

// FrameworkProps inspects live framework props; it needs a PropsSource
type FrameworkProps struct {
	Anchors []Anchor
}

func (FrameworkProps) Name() models.Method { return models.MethodReactFiber }

func (FrameworkProps) Supports(src Source) bool {
	_, ok := src.(PropsSource)
	return ok
}

func (s FrameworkProps) Attempt(ctx context.Context, src Source, v Validator) (string, error) {
	ps, ok := src.(PropsSource)
	if !ok {
		return "", nil
	}

	anchors := s.Anchors
	if len(anchors) == 0 {
		anchors = DefaultAnchors
	}
	for _, anchor := range anchors {
		props, err := ps.FrameworkProps(ctx, anchor, ReactPropsPrefix)
		if err != nil {
			log.Debug().Err(err).Str("anchor", anchor.Name).Msg("Framework props unavailable")
			continue
		}
		if props == nil {
			continue
		}
		if id := jsonv.FindKeyText(props, "board_id"); v.Valid(id) {
			return id, nil
		}
	}
	return "", nil
}

// NarrowPatterns are the scavenger's key/value idioms, tried in order
var NarrowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)"board_id":\s*["']?(\d+)["']?`),
	regexp.MustCompile(`(?i)"board":\s*\{\s*[^{}]*"id":\s*["']?(\d+)["']?`),
	regexp.MustCompile(`(?i)data-board-id=["'](\d+)["']`),
	regexp.MustCompile(`(?i)"element_id":\s*["']?(\d+)["']?`),
	regexp.MustCompile(`(?i)"objectId":\s*["']?(\d+)["']?`),
}

// BroadPattern is the last resort: a long digit run near a board type marker
var BroadPattern = regexp.MustCompile(`(?is)"(?:type|category)":\s*"board".{1,400}?"id":\s*["']?(\d{10,25})["']?`)

// Scavenger pattern-matches the raw page text; it needs a RawTextSource
type Scavenger struct{}

func (Scavenger) Name() models.Method { return models.MethodRegex }

func (Scavenger) Supports(src Source) bool {
	_, ok := src.(RawTextSource)
	return ok
}

func (Scavenger) Attempt(_ context.Context, src Source, v Validator) (string, error) {
	raw, ok := src.(RawTextSource)
	if !ok {
		return "", nil
	}
	text := raw.RawText()

	for _, re := range NarrowPatterns {
		if m := re.FindStringSubmatch(text); m != nil && v.Valid(m[1]) {
			return m[1], nil
		}
	}
	if m := BroadPattern.FindStringSubmatch(text); m != nil && v.Valid(m[1]) {
		return m[1], nil
	}
	return "", nil
}

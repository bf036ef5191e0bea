// Package pipeline runs the ordered board-id strategies over a page source
// and assembles the extraction outcome.
package pipeline

import (
	"context"

	"github.com/law-makers/boardid/internal/jsonv"
)

// Variant identifies how a page reached the pipeline
type Variant int

const (
	// VariantHTML is a detached HTML text blob fetched remotely
	VariantHTML Variant = iota
	// VariantLive is a rendered page with DOM and framework state
	VariantLive
)

func (v Variant) String() string {
	if v == VariantLive {
		return "live"
	}
	return "html"
}

// Source is a read-only page representation shared by both variants.
// Lookups that find nothing return empty values, not errors; errors mean the
// source itself could not be queried.
type Source interface {
	Variant() Variant
	URL() string
	MetaContent(ctx context.Context, property string) (string, error)
	ScriptTexts(ctx context.Context, scriptType string) ([]string, error)
	ElementText(ctx context.Context, id string) (string, bool, error)
	Title(ctx context.Context) (string, error)
}

// RawTextSource exposes the page as one text blob
type RawTextSource interface {
	Source
	RawText() string
}

// Anchor is an element whose framework props may hold the board state
type Anchor struct {
	Name     string
	Selector string
	// FirstChild targets the first child node of the selected element
	FirstChild bool
}

// PropsSource exposes framework-internal props attached to live elements
type PropsSource interface {
	Source
	// FrameworkProps returns the props stored under the first own key of the
	// anchor element starting with prefix, or nil when the element or key is
	// absent.
	FrameworkProps(ctx context.Context, anchor Anchor, prefix string) (*jsonv.Value, error)
}

package pipeline

import (
	"context"
	"errors"

	"github.com/law-makers/boardid/internal/jsonv"
	"github.com/law-makers/boardid/pkg/models"
)

// liveFake is an in-memory live page for exercising the live-only paths
type liveFake struct {
	url      string
	meta     map[string]string
	scripts  map[string][]string
	elements map[string]string
	title    string
	props    map[string]*jsonv.Value
	propsErr map[string]error
	queried  []string
}

func (f *liveFake) Variant() Variant { return VariantLive }

func (f *liveFake) URL() string { return f.url }

func (f *liveFake) MetaContent(_ context.Context, property string) (string, error) {
	return f.meta[property], nil
}

func (f *liveFake) ScriptTexts(_ context.Context, scriptType string) ([]string, error) {
	return f.scripts[scriptType], nil
}

func (f *liveFake) ElementText(_ context.Context, id string) (string, bool, error) {
	text, ok := f.elements[id]
	return text, ok, nil
}

func (f *liveFake) Title(context.Context) (string, error) { return f.title, nil }

func (f *liveFake) FrameworkProps(_ context.Context, anchor Anchor, prefix string) (*jsonv.Value, error) {
	f.queried = append(f.queried, anchor.Name)
	if prefix != ReactPropsPrefix {
		return nil, errors.New("unexpected prefix")
	}
	if err := f.propsErr[anchor.Name]; err != nil {
		return nil, err
	}
	return f.props[anchor.Name], nil
}

// panicStrategy simulates a strategy with a bug
type panicStrategy struct{}

func (panicStrategy) Name() models.Method { return "Panic" }

func (panicStrategy) Supports(Source) bool { return true }

func (panicStrategy) Attempt(context.Context, Source, Validator) (string, error) {
	panic("nil map write")
}

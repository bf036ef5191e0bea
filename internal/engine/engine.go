package engine

import (
	"context"

	"github.com/law-makers/boardid/pkg/models"
)

// Extractor is the interface that all extraction engines must implement
type Extractor interface {
	// Extract resolves the board behind opts.URL. On NOT_FOUND the returned
	// outcome still carries the page metadata alongside the error.
	Extract(ctx context.Context, opts models.RequestOptions) (*models.Outcome, error)

	// Name returns the name of the extractor implementation
	Name() string
}

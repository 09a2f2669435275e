package engine

import (
	"context"

	"github.com/law-makers/pdp/pkg/models"
)

// Fetcher is the interface that all fetch engines must implement
type Fetcher interface {
	// Fetch retrieves the raw markup for opts.URL.
	// Failures are returned as *FetchError.
	Fetch(ctx context.Context, opts models.FetchOptions) (*models.Document, error)

	// Name returns the name of the fetcher implementation
	Name() string
}

// Package pipeline runs one product URL through fetch, extraction and emission.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/law-makers/pdp/internal/engine"
	"github.com/law-makers/pdp/internal/extractor"
	"github.com/law-makers/pdp/internal/reqctx"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

// State is the position of a run in the FETCHING -> EXTRACTING -> DONE machine
type State string

const (
	StateFetching    State = "FETCHING"
	StateExtracting  State = "EXTRACTING"
	StateDone        State = "DONE"
	StateFetchFailed State = "FETCH_FAILED"
)

// ErrEmit wraps failures reported by the record sink
var ErrEmit = errors.New("emit record")

// Emitter receives every extracted record
type Emitter interface {
	Emit(ctx context.Context, p *models.Product) error
}

// Result is the outcome of one run
type Result struct {
	URL       string
	RequestID string
	State     State
	Product   *models.Product
	Engine    string
	Err       error
	Duration  time.Duration
}

// Options are applied to every fetch
type Options struct {
	Mode    models.FetchMode
	Headers map[string]string
	Timeout time.Duration
}

// Pipeline wires a fetcher, the extractor and an optional sink
type Pipeline struct {
	fetcher   engine.Fetcher
	extractor *extractor.Extractor
	sink      Emitter
	opts      Options
}

// New creates a Pipeline. sink may be nil when the caller consumes
// Result.Product directly.
func New(fetcher engine.Fetcher, ex *extractor.Extractor, sink Emitter, opts Options) *Pipeline {
	if opts.Mode == "" {
		opts.Mode = models.ModeAuto
	}
	return &Pipeline{
		fetcher:   fetcher,
		extractor: ex,
		sink:      sink,
		opts:      opts,
	}
}

// Run fetches pageURL, extracts its record and emits it. A fetch failure is
// terminal for the URL: nothing is extracted or emitted.
func (p *Pipeline) Run(ctx context.Context, pageURL string) *Result {
	ctx = reqctx.WithRequestContext(ctx, pageURL)
	rc := reqctx.GetRequestContext(ctx)
	logger := reqctx.Logger(ctx, log.Logger)

	res := &Result{
		URL:       pageURL,
		RequestID: rc.RequestID,
		State:     StateFetching,
	}
	defer func() { res.Duration = rc.Elapsed() }()

	logger.Debug().Str("state", string(res.State)).Str("fetcher", p.fetcher.Name()).Msg("Fetching product page")

	doc, err := p.fetcher.Fetch(ctx, models.FetchOptions{
		URL:     pageURL,
		Mode:    p.opts.Mode,
		Headers: p.opts.Headers,
		Timeout: p.opts.Timeout,
	})
	if err != nil {
		res.State = StateFetchFailed
		res.Err = reqctx.NewRequestError(ctx, err)
		logger.Error().Err(err).Msg("Failed to fetch product page")
		return res
	}

	res.State = StateExtracting
	res.Engine = doc.Engine
	logger.Debug().
		Str("state", string(res.State)).
		Int("status", doc.StatusCode).
		Str("engine", doc.Engine).
		Msg("Extracting product data")

	res.Product = p.extractor.Extract(pageURL, doc.HTML)
	res.State = StateDone

	if p.sink != nil {
		if err := p.sink.Emit(ctx, res.Product); err != nil {
			res.Err = fmt.Errorf("%w: %w", ErrEmit, err)
			logger.Error().Err(err).Msg("Failed to emit product record")
		}
	}

	logger.Info().
		Str("unique_id", res.Product.UniqueID).
		Str("product_name", res.Product.ProductName).
		Dur("elapsed", rc.Elapsed()).
		Msg("Product extracted")

	return res
}

// IsFetchFailure reports whether err came from the fetch stage
func IsFetchFailure(err error) bool {
	_, ok := engine.AsFetchError(err)
	return ok
}

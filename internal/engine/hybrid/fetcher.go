// internal/engine/hybrid/fetcher.go
package hybrid

import (
	"context"

	"github.com/law-makers/pdp/internal/engine"
	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

// Fetcher fetches statically and falls back to browser rendering when the
// response is a client-side shell without product content
type Fetcher struct {
	static  engine.Fetcher
	dynamic engine.Fetcher
}

// New creates a hybrid Fetcher. dynamic may be nil, in which case the static
// result is always returned.
func New(static, dynamic engine.Fetcher) *Fetcher {
	return &Fetcher{
		static:  static,
		dynamic: dynamic,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "hybrid"
}

// Fetch retrieves the page statically, re-rendering it when needed
func (f *Fetcher) Fetch(ctx context.Context, opts models.FetchOptions) (*models.Document, error) {
	doc, err := f.static.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}

	strategy := DetermineStrategy(doc.HTML)
	if strategy == StrategyStatic {
		return doc, nil
	}

	if f.dynamic == nil {
		log.Warn().
			Str("url", opts.URL).
			Str("framework", DetectJavaScriptFramework(doc.HTML)).
			Msg("Page looks client-rendered but no browser is configured, using static HTML")
		return doc, nil
	}

	log.Info().
		Str("url", opts.URL).
		Str("strategy", strategy.String()).
		Msg("Static page lacks product content, rendering in browser")

	rendered, err := f.dynamic.Fetch(ctx, opts)
	if err != nil {
		log.Warn().Err(err).Str("url", opts.URL).Msg("Browser rendering failed, using static HTML")
		return doc, nil
	}
	return rendered, nil
}

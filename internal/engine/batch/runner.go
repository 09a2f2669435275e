// internal/engine/batch/runner.go
package batch

import (
	"context"
	"sync"

	"github.com/law-makers/pdp/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// Runner processes a single URL end to end
type Runner interface {
	Run(ctx context.Context, url string) *pipeline.Result
}

// Batch runs many URLs through a Runner with bounded concurrency
type Batch struct {
	runner      Runner
	concurrency int
}

// New creates a Batch. Concurrency below 1 is auto-tuned.
func New(runner Runner, concurrency int) *Batch {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	return &Batch{
		runner:      runner,
		concurrency: concurrency,
	}
}

// Concurrency returns the number of workers
func (b *Batch) Concurrency() int {
	return b.concurrency
}

// Stream processes urls and delivers each result as it completes. With a
// concurrency of 1 the URLs run one after another in input order. URLs not
// yet started when ctx is cancelled are skipped.
func (b *Batch) Stream(ctx context.Context, urls []string) <-chan *pipeline.Result {
	results := make(chan *pipeline.Result, len(urls))

	go func() {
		defer close(results)

		sem := make(chan struct{}, b.concurrency)
		var wg sync.WaitGroup

	groups:
		for _, group := range GroupByDomain(urls) {
			log.Debug().
				Str("domain", group.Domain).
				Int("urls", len(group.URLs)).
				Msg("Processing domain group")

			for _, u := range group.URLs {
				if ctx.Err() != nil {
					break groups
				}
				select {
				case <-ctx.Done():
					break groups
				case sem <- struct{}{}:
				}

				wg.Add(1)
				go func(u string) {
					defer wg.Done()
					defer func() { <-sem }()
					results <- b.runner.Run(ctx, u)
				}(u)
			}
		}

		wg.Wait()
	}()

	return results
}

// Summary counts outcomes of a batch
type Summary struct {
	Total       int
	Done        int
	FetchFailed int
	EmitFailed  int
}

// Run processes urls, calling progress after each one, and returns the
// results in completion order
func (b *Batch) Run(ctx context.Context, urls []string, progress func(*pipeline.Result)) ([]*pipeline.Result, Summary) {
	var out []*pipeline.Result
	var sum Summary

	for res := range b.Stream(ctx, urls) {
		out = append(out, res)
		sum.Total++
		switch {
		case res.State == pipeline.StateFetchFailed:
			sum.FetchFailed++
		case res.Err != nil:
			sum.Done++
			sum.EmitFailed++
		default:
			sum.Done++
		}
		if progress != nil {
			progress(res)
		}
	}

	return out, sum
}

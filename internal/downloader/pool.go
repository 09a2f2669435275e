// internal/downloader/pool.go
package downloader

import (
	"context"
	"fmt"
	"sync"

	"github.com/law-makers/pdp/pkg/models"
	"github.com/rs/zerolog/log"
)

const maxWorkers = 50

// WorkerPool manages concurrent downloads using a worker pool pattern
type WorkerPool struct {
	downloader  *Downloader
	concurrency int
}

// NewWorkerPool creates a new worker pool with specified concurrency
func NewWorkerPool(d *Downloader, concurrency int) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 4
	}
	if concurrency > maxWorkers {
		concurrency = maxWorkers
	}

	return &WorkerPool{
		downloader:  d,
		concurrency: concurrency,
	}
}

type job struct {
	index int
	url   string
}

// DownloadBatch downloads urls concurrently. Results are returned in input
// order; progress, when set, is called once per finished download.
func (wp *WorkerPool) DownloadBatch(ctx context.Context, urls []string, opts DownloadOptions, progress func(*DownloadResult)) []*DownloadResult {
	if len(urls) == 0 {
		return []*DownloadResult{}
	}

	jobs := make(chan job)
	results := make([]*DownloadResult, len(urls))
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 1; w <= wp.concurrency; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range jobs {
				log.Debug().
					Int("worker_id", id).
					Str("url", j.url).
					Msg("Worker processing download")

				o := opts
				// keep gallery order visible in the directory listing
				o.Filename = fmt.Sprintf("%02d_%s", j.index+1, sanitizeFilename(j.url))
				res := wp.downloader.Download(ctx, j.url, o)

				mu.Lock()
				results[j.index] = res
				if progress != nil {
					progress(res)
				}
				mu.Unlock()
			}
		}(w)
	}

send:
	for i, u := range urls {
		select {
		case jobs <- job{index: i, url: u}:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	for i, res := range results {
		if res == nil {
			results[i] = &DownloadResult{URL: urls[i], Error: ctx.Err()}
		}
	}
	return results
}

// ProductImages returns the record's images in gallery order: the main
// image first, then image_urls, without duplicates or blanks
func ProductImages(p *models.Product) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	add(p.Image)
	for _, u := range p.ImageURLs {
		add(u)
	}
	return out
}

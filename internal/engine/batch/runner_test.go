package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/pdp/internal/pipeline"
)

type mockRunner struct {
	mu      sync.Mutex
	order   []string
	active  int32
	maxSeen int32
}

func (m *mockRunner) Run(ctx context.Context, url string) *pipeline.Result {
	n := atomic.AddInt32(&m.active, 1)
	for {
		seen := atomic.LoadInt32(&m.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&m.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&m.active, -1)

	m.mu.Lock()
	m.order = append(m.order, url)
	m.mu.Unlock()

	if url == "https://b.example/error" {
		return &pipeline.Result{URL: url, State: pipeline.StateFetchFailed, Err: errors.New("fetch error")}
	}
	return &pipeline.Result{URL: url, State: pipeline.StateDone}
}

func TestBatch_Run(t *testing.T) {
	runner := &mockRunner{}
	b := New(runner, 2)

	urls := []string{
		"https://a.example/1",
		"https://b.example/2",
		"https://a.example/3",
		"https://b.example/error",
	}

	var progressed int
	results, sum := b.Run(context.Background(), urls, func(*pipeline.Result) { progressed++ })

	if len(results) != 4 {
		t.Errorf("Expected 4 results, got %d", len(results))
	}
	if progressed != 4 {
		t.Errorf("Expected 4 progress calls, got %d", progressed)
	}
	if sum.Done != 3 || sum.FetchFailed != 1 {
		t.Errorf("Unexpected summary %+v", sum)
	}
	if runner.maxSeen > 2 {
		t.Errorf("Expected at most 2 concurrent runs, saw %d", runner.maxSeen)
	}
}

func TestBatch_SequentialKeepsDomainOrder(t *testing.T) {
	runner := &mockRunner{}
	b := New(runner, 1)

	urls := []string{
		"https://a.example/1",
		"https://b.example/2",
		"https://a.example/3",
	}
	b.Run(context.Background(), urls, nil)

	want := []string{"https://a.example/1", "https://a.example/3", "https://b.example/2"}
	for i, u := range want {
		if runner.order[i] != u {
			t.Errorf("position %d: expected %s, got %s", i, u, runner.order[i])
		}
	}
	if runner.maxSeen != 1 {
		t.Errorf("Expected sequential runs, saw %d concurrent", runner.maxSeen)
	}
}

func TestBatch_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, sum := New(&mockRunner{}, 1).Run(ctx, []string{"https://a.example/1", "https://a.example/2"}, nil)
	if len(results) > 1 || sum.Total != len(results) {
		t.Errorf("Expected cancelled batch to stop early, got %d results", len(results))
	}
}

func TestGroupByDomain(t *testing.T) {
	groups := GroupByDomain([]string{
		"https://www.next.co.uk/a",
		"::bad",
		"https://xcdn.next.co.uk/b",
		"https://www.next.co.uk/c",
	})

	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	if groups[0].Domain != "www.next.co.uk" || len(groups[0].URLs) != 2 {
		t.Errorf("Unexpected first group %+v", groups[0])
	}
	if groups[1].Domain != "default" {
		t.Errorf("Expected unparseable URL in default group, got %+v", groups[1])
	}
}

func TestOptimalConcurrency(t *testing.T) {
	if n := OptimalConcurrency(); n < 1 || n > 50 {
		t.Errorf("Expected concurrency in [1, 50], got %d", n)
	}
}

// internal/domain/catalog/fetcher.go
package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Snapshot is what a feed exposes to the presentation layer
type Snapshot struct {
	Kind    Kind     `json:"kind"`
	Items   []Entity `json:"items"`
	Page    int      `json:"page"`
	HasMore bool     `json:"has_more"`
	Loading bool     `json:"loading"`
	Err     error    `json:"-"`
}

// Fetcher accumulates pages of one catalog collection under the current
// filter tuple. At most one fetch is in flight; page N+1 is only requested
// after page N resolved. Results of a superseded filter tuple are dropped.
type Fetcher struct {
	kind   Kind
	source Querier
	logger *logrus.Logger

	mu         sync.Mutex
	filters    Filters
	started    bool
	generation uint64
	items      []Entity
	page       int
	nextPage   *int
	loading    bool
	err        error
	cancel     context.CancelFunc
	done       chan struct{}
	closed     bool
	wg         sync.WaitGroup
}

// NewFetcher creates an idle fetcher. Nothing is requested until SetFilters.
func NewFetcher(kind Kind, source Querier, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		kind:   kind,
		source: source,
		logger: logger,
	}
}

// SetFilters switches the filter tuple. A new tuple drops everything
// accumulated, cancels an in-flight fetch and starts page 1. Returns false
// when the tuple is unchanged.
func (f *Fetcher) SetFilters(filters Filters) bool {
	filters = filters.Normalize()
	filters.Page = 1

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if f.started && f.filters.Key() == filters.Key() {
		return false
	}

	if f.cancel != nil {
		f.cancel()
	}
	f.started = true
	f.filters = filters
	f.generation++
	f.items = nil
	f.page = 0
	f.nextPage = nil
	f.err = nil
	f.start(1)
	return true
}

// LoadMore requests the next page. It is a no-op returning false while a
// fetch is in flight or when there is no further page.
func (f *Fetcher) LoadMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || !f.started || f.loading || f.nextPage == nil {
		return false
	}
	f.start(*f.nextPage)
	return true
}

// Retry re-requests the page after the last one loaded when the previous
// fetch failed. Returns false if there is nothing to retry.
func (f *Fetcher) Retry() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || !f.started || f.loading || f.err == nil {
		return false
	}
	f.err = nil
	f.start(f.page + 1)
	return true
}

// start launches the fetch for page; f.mu must be held
func (f *Fetcher) start(page int) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	gen := f.generation
	query := f.filters
	query.Page = page

	f.loading = true
	f.cancel = cancel
	f.done = done

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer close(done)
		defer cancel()

		result, err := f.source.Query(ctx, f.kind, query)
		f.finish(gen, result, err)
	}()
}

func (f *Fetcher) finish(gen uint64, result Page, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation || f.closed {
		f.logger.WithFields(logrus.Fields{
			"kind": f.kind,
			"page": result.Page,
		}).Debug("Discarding stale catalog page")
		return
	}

	f.loading = false
	f.cancel = nil
	f.done = nil

	if err != nil {
		f.err = err
		f.nextPage = nil
		return
	}

	f.items = append(f.items, result.Items...)
	f.page = result.Page
	f.nextPage = result.NextPage
}

// Snapshot returns the accumulated items and flags
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]Entity, len(f.items))
	copy(items, f.items)
	return Snapshot{
		Kind:    f.kind,
		Items:   items,
		Page:    f.page,
		HasMore: f.nextPage != nil,
		Loading: f.loading,
		Err:     f.err,
	}
}

// Filters returns the current filter tuple
func (f *Fetcher) Filters() Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

// Wait blocks until no fetch is in flight or ctx is done
func (f *Fetcher) Wait(ctx context.Context) error {
	for {
		f.mu.Lock()
		done := f.done
		loading := f.loading
		f.mu.Unlock()

		if !loading || done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels any in-flight fetch and waits for it to return
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.loading = false
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()

	f.wg.Wait()
}

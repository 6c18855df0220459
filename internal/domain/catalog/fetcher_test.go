package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/pkg/logger"
	"go.uber.org/goleak"
)

type reply struct {
	page Page
	err  error
}

type call struct {
	ctx     context.Context
	kind    Kind
	filters Filters
	reply   chan reply
}

// fakeSource hands every query to the test, which answers it explicitly
type fakeSource struct {
	calls        chan call
	ignoreCancel bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(chan call, 8)}
}

func (s *fakeSource) Query(ctx context.Context, kind Kind, f Filters) (Page, error) {
	c := call{ctx: ctx, kind: kind, filters: f, reply: make(chan reply, 1)}
	s.calls <- c

	if s.ignoreCancel {
		r := <-c.reply
		return r.page, r.err
	}
	select {
	case r := <-c.reply:
		return r.page, r.err
	case <-ctx.Done():
		return Page{}, ctx.Err()
	}
}

func (s *fakeSource) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a catalog query")
		return call{}
	}
}

func (s *fakeSource) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-s.calls:
		t.Fatalf("unexpected catalog query for page %d", c.filters.Page)
	case <-time.After(50 * time.Millisecond):
	}
}

func entities(from, n int) []Entity {
	out := make([]Entity, n)
	for i := range out {
		out[i] = Entity{ID: int64(from + i), NameEn: "item", Price: "10.00", LeftInStock: 3}
	}
	return out
}

func pageOf(page, size int, items []Entity) Page {
	p := Page{Items: items, Page: page}
	if len(items) == size {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

func waitIdle(t *testing.T, f *Fetcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx))
}

func TestFetcher_FullPageMeansMore(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	f := NewFetcher(KindProducts, src, logger.Discard())
	defer f.Close()

	require.True(t, f.SetFilters(Filters{PageSize: 15}))

	c := src.next(t)
	assert.Equal(t, 1, c.filters.Page)
	c.reply <- reply{page: pageOf(1, 15, entities(1, 15))}
	waitIdle(t, f)

	snap := f.Snapshot()
	assert.Len(t, snap.Items, 15)
	assert.True(t, snap.HasMore)
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, snap.Page)

	require.True(t, f.LoadMore())
	c = src.next(t)
	assert.Equal(t, 2, c.filters.Page)
	c.reply <- reply{page: pageOf(2, 15, entities(16, 14))}
	waitIdle(t, f)

	snap = f.Snapshot()
	assert.Len(t, snap.Items, 29)
	assert.False(t, snap.HasMore)
	assert.Equal(t, int64(1), snap.Items[0].ID)
	assert.Equal(t, int64(29), snap.Items[28].ID)

	assert.False(t, f.LoadMore())
	src.assertIdle(t)
}

func TestFetcher_LoadMoreWhileLoadingIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	f := NewFetcher(KindPackages, src, logger.Discard())
	defer f.Close()

	f.SetFilters(Filters{PageSize: 2})
	src.next(t).reply <- reply{page: pageOf(1, 2, entities(1, 2))}
	waitIdle(t, f)

	assert.True(t, f.LoadMore())
	assert.False(t, f.LoadMore())
	assert.False(t, f.LoadMore())

	c := src.next(t)
	assert.Equal(t, 2, c.filters.Page)
	src.assertIdle(t)
	assert.True(t, f.Snapshot().Loading)

	c.reply <- reply{page: pageOf(2, 2, entities(3, 1))}
	waitIdle(t, f)
	assert.Len(t, f.Snapshot().Items, 3)
}

func TestFetcher_FilterChangeDiscardsStaleResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	src.ignoreCancel = true
	f := NewFetcher(KindProducts, src, logger.Discard())
	defer f.Close()

	f.SetFilters(Filters{PageSize: 15, NameContains: "shoe"})
	old := src.next(t)

	require.True(t, f.SetFilters(Filters{PageSize: 15, NameContains: "shirt"}))
	current := src.next(t)
	assert.Equal(t, "shirt", current.filters.NameContains)
	assert.Error(t, old.ctx.Err(), "superseded fetch should be cancelled")

	current.reply <- reply{page: pageOf(1, 15, entities(100, 3))}
	waitIdle(t, f)

	// the old tuple's result arrives late
	old.reply <- reply{page: pageOf(1, 15, entities(1, 15))}
	time.Sleep(20 * time.Millisecond)

	snap := f.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, int64(100), snap.Items[0].ID)
	assert.False(t, snap.HasMore)
	assert.Equal(t, "shirt", f.Filters().NameContains)
}

func TestFetcher_SameFiltersIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	f := NewFetcher(KindProducts, src, logger.Discard())
	defer f.Close()

	require.True(t, f.SetFilters(Filters{PageSize: 15, NameContains: " bag "}))
	src.next(t).reply <- reply{page: pageOf(1, 15, entities(1, 4))}
	waitIdle(t, f)

	assert.False(t, f.SetFilters(Filters{PageSize: 15, NameContains: "bag", Page: 3}))
	src.assertIdle(t)
	assert.Len(t, f.Snapshot().Items, 4)
}

func TestFetcher_FailureSurfacesErrorAndRetry(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	f := NewFetcher(KindProducts, src, logger.Discard())
	defer f.Close()

	f.SetFilters(Filters{PageSize: 15})
	src.next(t).reply <- reply{page: Page{Items: []Entity{}, Page: 1}, err: errors.New("connection refused")}
	waitIdle(t, f)

	snap := f.Snapshot()
	assert.Error(t, snap.Err)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.HasMore)
	assert.False(t, snap.Loading)
	assert.False(t, f.LoadMore())

	require.True(t, f.Retry())
	c := src.next(t)
	assert.Equal(t, 1, c.filters.Page)
	c.reply <- reply{page: pageOf(1, 15, entities(1, 15))}
	waitIdle(t, f)

	snap = f.Snapshot()
	assert.NoError(t, snap.Err)
	assert.True(t, snap.HasMore)
	assert.False(t, f.Retry())
}

func TestFetcher_CloseCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	f := NewFetcher(KindProducts, src, logger.Discard())

	f.SetFilters(Filters{PageSize: 15})
	c := src.next(t)

	f.Close()
	assert.Error(t, c.ctx.Err())
	assert.False(t, f.LoadMore())
	assert.False(t, f.SetFilters(Filters{PageSize: 10}))
}

func TestFeeds_OnePerSessionAndKind(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := newFakeSource()
	feeds := NewFeeds(src, logger.Discard())
	defer feeds.Close()

	a := feeds.Get("s1", KindProducts)
	assert.Same(t, a, feeds.Get("s1", KindProducts))
	assert.NotSame(t, a, feeds.Get("s1", KindPackages))
	assert.NotSame(t, a, feeds.Get("s2", KindProducts))
	assert.Equal(t, 3, feeds.Len())

	a.SetFilters(Filters{PageSize: 15})
	c := src.next(t)

	feeds.Drop("s1")
	assert.Equal(t, 1, feeds.Len())
	assert.Error(t, c.ctx.Err())
}

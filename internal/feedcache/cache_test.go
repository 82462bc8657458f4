package feedcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

type mapResolver map[string]domain.CountryProfile

func (m mapResolver) ProfileOf(name string) (domain.CountryProfile, error) {
	p, ok := m[name]
	if !ok {
		return domain.CountryProfile{}, errors.New("unknown country")
	}
	return p, nil
}

type countingFetcher struct {
	calls   atomic.Int32
	perName map[string]int
	mu      sync.Mutex
	items   []domain.RawItem
	delay   time.Duration
	ctxErrs []error
}

func (f *countingFetcher) Fetch(ctx context.Context, p domain.CountryProfile) []domain.RawItem {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	if f.perName == nil {
		f.perName = map[string]int{}
	}
	f.perName[p.Name]++
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()
	return f.items
}

type hitCounter struct {
	hits, misses atomic.Int32
}

func (h *hitCounter) CacheLookup(hit bool) {
	if hit {
		h.hits.Add(1)
		return
	}
	h.misses.Add(1)
}

var resolver = mapResolver{
	"United States": {Name: "United States", GeoCode: "US", LanguageCode: "en-US", EditionID: "US:en"},
	"Japan":         {Name: "Japan", GeoCode: "JP", LanguageCode: "ja", EditionID: "JP:ja"},
}

func TestGetOrFetch_FetchesOnce(t *testing.T) {
	f := &countingFetcher{items: []domain.RawItem{{Title: "a"}, {Title: "b"}}}
	obs := &hitCounter{}
	c := New(f, resolver, logger.NopLogger{}).WithObserver(obs)

	first := c.GetOrFetch(context.Background(), "Japan")
	second := c.GetOrFetch(context.Background(), "Japan")

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
	assert.Equal(t, int32(1), obs.misses.Load())
	assert.Equal(t, int32(1), obs.hits.Load())
}

func TestGetOrFetch_EmptyResultIsTerminal(t *testing.T) {
	f := &countingFetcher{}
	c := New(f, resolver, nil)

	for range 3 {
		items := c.GetOrFetch(context.Background(), "United States")
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
	assert.Equal(t, int32(1), f.calls.Load())

	items, ok := c.Peek("United States")
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestGetOrFetch_KeysAreIndependent(t *testing.T) {
	f := &countingFetcher{items: []domain.RawItem{{Title: "x"}}}
	c := New(f, resolver, nil)

	c.GetOrFetch(context.Background(), "Japan")
	c.GetOrFetch(context.Background(), "United States")
	c.GetOrFetch(context.Background(), "Japan")

	assert.Equal(t, int32(2), f.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestGetOrFetch_ConcurrentFirstAccessFetchesOnce(t *testing.T) {
	f := &countingFetcher{items: []domain.RawItem{{Title: "only"}}, delay: 20 * time.Millisecond}
	c := New(f, resolver, nil)

	const workers = 32
	var wg sync.WaitGroup
	results := make([][]domain.RawItem, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			country := "Japan"
			if i%2 == 0 {
				country = "United States"
			}
			results[i] = c.GetOrFetch(context.Background(), country)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(2), f.calls.Load())
	assert.Equal(t, map[string]int{"Japan": 1, "United States": 1}, f.perName)
	for i, r := range results {
		require.Len(t, r, 1, fmt.Sprintf("worker %d", i))
	}
}

func TestGetOrFetch_CancelledCallerDoesNotCancelFetch(t *testing.T) {
	f := &countingFetcher{items: []domain.RawItem{{Title: "kept"}}}
	c := New(f, resolver, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := c.GetOrFetch(ctx, "Japan")

	assert.Len(t, items, 1)
	require.Len(t, f.ctxErrs, 1)
	assert.NoError(t, f.ctxErrs[0])
}

func TestGetOrFetch_UnresolvableCountryCachedEmpty(t *testing.T) {
	f := &countingFetcher{items: []domain.RawItem{{Title: "never"}}}
	c := New(f, resolver, nil)

	assert.Empty(t, c.GetOrFetch(context.Background(), "Atlantis"))
	assert.Empty(t, c.GetOrFetch(context.Background(), "Atlantis"))
	assert.Equal(t, int32(0), f.calls.Load())
}

type gatedFetcher struct {
	release chan struct{}
	calls   atomic.Int32
}

func (f *gatedFetcher) Fetch(context.Context, domain.CountryProfile) []domain.RawItem {
	f.calls.Add(1)
	<-f.release
	return []domain.RawItem{{Title: "gated"}}
}

func TestGetOrFetch_OnlyTheFetchingCallerIsAMiss(t *testing.T) {
	f := &gatedFetcher{release: make(chan struct{})}
	obs := &hitCounter{}
	c := New(f, resolver, logger.NopLogger{}).WithObserver(obs)

	const workers = 16
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrFetch(context.Background(), "Japan")
		}()
	}

	time.Sleep(30 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, int32(1), obs.misses.Load())
	assert.Equal(t, int32(workers-1), obs.hits.Load())
}

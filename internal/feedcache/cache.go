package feedcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

// Fetcher retrieves the feed for a profile. It reports failures as an empty slice.
type Fetcher interface {
	Fetch(ctx context.Context, profile domain.CountryProfile) []domain.RawItem
}

// Resolver maps a validated country name to its profile.
type Resolver interface {
	ProfileOf(name string) (domain.CountryProfile, error)
}

// Observer is notified of every lookup.
type Observer interface {
	CacheLookup(hit bool)
}

// Cache memoizes feed entries per country for the lifetime of the process.
// Each country is fetched at most once, even under concurrent first access;
// an empty entry is terminal.
type Cache struct {
	fetcher  Fetcher
	resolver Resolver
	log      logger.Logger
	observer Observer

	mu      sync.RWMutex
	entries map[string][]domain.RawItem
	flights singleflight.Group
}

// New builds an empty Cache.
func New(fetcher Fetcher, resolver Resolver, log logger.Logger) *Cache {
	return &Cache{
		fetcher:  fetcher,
		resolver: resolver,
		log:      logger.Ensure(log),
		entries:  make(map[string][]domain.RawItem),
	}
}

// WithObserver sets the lookup observer.
func (c *Cache) WithObserver(o Observer) *Cache {
	c.observer = o
	return c
}

// GetOrFetch returns the cached entries for country, fetching them on first access.
// The returned slice is shared and must not be modified.
func (c *Cache) GetOrFetch(ctx context.Context, country string) []domain.RawItem {
	if items, ok := c.Peek(country); ok {
		c.lookup(true)
		return items
	}

	fetched := false
	v, _, _ := c.flights.Do(country, func() (any, error) {
		if items, ok := c.Peek(country); ok {
			return items, nil
		}
		fetched = true

		// Detached so a caller going away cannot leave a permanently empty entry behind.
		items := c.fetch(context.WithoutCancel(ctx), country)

		c.mu.Lock()
		c.entries[country] = items
		c.mu.Unlock()
		return items, nil
	})

	// Only the caller that ran the fetch counts as a miss; callers that joined it were served from the flight.
	c.lookup(!fetched)
	return v.([]domain.RawItem)
}

func (c *Cache) fetch(ctx context.Context, country string) []domain.RawItem {
	profile, err := c.resolver.ProfileOf(country)
	if err != nil {
		c.log.ErrorObj("cannot resolve country profile", "cache_resolve_error", map[string]any{
			"country": country,
			"error":   err.Error(),
		})
		return []domain.RawItem{}
	}

	items := c.fetcher.Fetch(ctx, profile)
	if items == nil {
		items = []domain.RawItem{}
	}

	c.log.DebugObj("country feed cached", "cache_store", map[string]any{
		"country": country,
		"items":   len(items),
	})
	return items
}

// Peek returns the cached entries without fetching.
func (c *Cache) Peek(country string) ([]domain.RawItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.entries[country]
	return items, ok
}

// Len returns the number of countries with an entry.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(hit)
	}
}

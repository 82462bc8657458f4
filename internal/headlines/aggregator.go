package headlines

import (
	"context"
	"time"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

// CountryValidator normalizes untrusted country input.
type CountryValidator interface {
	Validate(input string) string
}

// FeedCache returns the cached entries for a validated country.
type FeedCache interface {
	GetOrFetch(ctx context.Context, country string) []domain.RawItem
}

// Annotator classifies a single headline.
type Annotator interface {
	Annotate(ctx context.Context, text string) (domain.Category, float64, error)
}

// PagePublisher receives every non-empty page produced.
type PagePublisher interface {
	PublishPage(ctx context.Context, page PageResult) error
}

// Observer is notified of fallbacks and served pages.
type Observer interface {
	CountryFallback()
	PageServed(d time.Duration)
}

// PageResult is a page of annotated headlines plus paging context.
type PageResult struct {
	Country   string                     `json:"country"`
	Page      int                        `json:"page"`
	PageSize  int                        `json:"page_size"`
	Total     int                        `json:"total"`
	HasMore   bool                       `json:"has_more"`
	Headlines []domain.AnnotatedHeadline `json:"headlines"`
}

// Aggregator composes validation, caching, pagination and classification.
type Aggregator struct {
	countries CountryValidator
	cache     FeedCache
	annotator Annotator
	log       logger.Logger
	publisher PagePublisher
	observer  Observer
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPublisher publishes every non-empty page.
func WithPublisher(p PagePublisher) Option {
	return func(a *Aggregator) { a.publisher = p }
}

// WithObserver sets the observer.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) { a.observer = o }
}

// NewAggregator builds an Aggregator.
func NewAggregator(countries CountryValidator, cache FeedCache, annotator Annotator, log logger.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		countries: countries,
		cache:     cache,
		annotator: annotator,
		log:       logger.Ensure(log),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetPage returns the annotated headlines of one page, in rank order.
func (a *Aggregator) GetPage(ctx context.Context, countryInput string, page, pageSize int) []domain.AnnotatedHeadline {
	return a.Page(ctx, countryInput, page, pageSize).Headlines
}

// Page is GetPage with paging context for renderers. It never fails: unknown
// countries fall back to the default and unclassifiable headlines are dropped.
func (a *Aggregator) Page(ctx context.Context, countryInput string, page, pageSize int) PageResult {
	start := time.Now()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	country := a.countries.Validate(countryInput)
	if country != countryInput {
		a.log.InfoObj("unknown country, using default", "country_fallback", map[string]any{
			"input":   countryInput,
			"country": country,
		})
		if a.observer != nil {
			a.observer.CountryFallback()
		}
	}

	items := a.cache.GetOrFetch(ctx, country)
	slice, offset := Slice(items, page, pageSize)

	out := make([]domain.AnnotatedHeadline, 0, len(slice))
	for i, item := range slice {
		label, score, err := a.annotator.Annotate(ctx, item.Title)
		if err != nil {
			a.log.WarnObj("headline classification failed", "classification_failed", map[string]any{
				"country":  country,
				"index":    offset + i + 1,
				"headline": item.Title,
				"error":    err.Error(),
			})
			continue
		}
		out = append(out, domain.AnnotatedHeadline{
			Index:       offset + i + 1,
			Headline:    item.Title,
			Sentiment:   label,
			Confidence:  score,
			Link:        item.Link,
			Source:      item.Source,
			Summary:     item.Summary,
			PublishedAt: item.PublishedAt,
		})
	}

	res := PageResult{
		Country:   country,
		Page:      page,
		PageSize:  pageSize,
		Total:     len(items),
		HasMore:   len(items)-offset > pageSize,
		Headlines: out,
	}

	a.publish(ctx, res)

	a.log.DebugObj("headline page served", "page_served", map[string]any{
		"country":     country,
		"page":        page,
		"returned":    len(out),
		"dropped":     len(slice) - len(out),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if a.observer != nil {
		a.observer.PageServed(time.Since(start))
	}
	return res
}

func (a *Aggregator) publish(ctx context.Context, res PageResult) {
	if a.publisher == nil || len(res.Headlines) == 0 {
		return
	}
	if err := a.publisher.PublishPage(ctx, res); err != nil {
		a.log.ErrorObj("publishing headline page failed", "page_publish_error", map[string]any{
			"country": res.Country,
			"page":    res.Page,
			"error":   err.Error(),
		})
	}
}

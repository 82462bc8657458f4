package providers

import (
	"context"
	"time"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
)

// DefaultHTTPClient returns the client used when none is supplied.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// FeedFetcher turns a country profile into its ordered feed entries.
type FeedFetcher struct {
	source   FeedSource
	baseURL  string
	log      logger.Logger
	observer FetchObserver
}

// NewFeedFetcher builds a FeedFetcher reading from source. An empty baseURL selects Google News.
func NewFeedFetcher(source FeedSource, baseURL string, log logger.Logger) *FeedFetcher {
	if source == nil {
		source = NewRSSSource(nil, "")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FeedFetcher{
		source:  source,
		baseURL: baseURL,
		log:     logger.Ensure(log),
	}
}

// WithObserver sets the observer notified of fetch outcomes.
func (f *FeedFetcher) WithObserver(o FetchObserver) *FeedFetcher {
	f.observer = o
	return f
}

// Fetch retrieves the profile's feed once. Malformed or empty feeds yield an empty, non-nil slice.
func (f *FeedFetcher) Fetch(ctx context.Context, profile domain.CountryProfile) []domain.RawItem {
	url := FeedURL(f.baseURL, profile)
	start := time.Now()

	f.log.DebugObj("fetching country feed", "feed_fetch_start", map[string]any{
		"country": profile.Name,
		"url":     url,
	})

	res, err := f.source.FetchFeed(ctx, url)
	if err != nil || !res.WellFormed {
		fields := map[string]any{
			"country": profile.Name,
			"url":     url,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		f.log.WarnObj("failed to parse country feed", "feed_unavailable", fields)
		f.report(profile.Name, OutcomeUnavailable)
		return []domain.RawItem{}
	}

	if len(res.Items) == 0 {
		f.log.WarnObj("no news entries found", "feed_empty", map[string]any{
			"country": profile.Name,
			"url":     url,
		})
		f.report(profile.Name, OutcomeEmpty)
		return []domain.RawItem{}
	}

	f.log.InfoObj("country feed fetched", "feed_fetched", map[string]any{
		"country":     profile.Name,
		"items":       len(res.Items),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	f.report(profile.Name, OutcomeOK)

	out := make([]domain.RawItem, len(res.Items))
	copy(out, res.Items)
	return out
}

func (f *FeedFetcher) report(country, outcome string) {
	if f.observer != nil {
		f.observer.FeedFetched(country, outcome)
	}
}

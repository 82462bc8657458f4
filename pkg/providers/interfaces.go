package providers

import (
	"context"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
)

// HTTPClient is the client used by feed sources.
type HTTPClient = httpclient.Client

// FeedResult is what a FeedSource retrieved for one URL. Items keep the feed's order.
type FeedResult struct {
	WellFormed bool
	Items      []domain.RawItem
}

// FeedSource retrieves and parses a feed URL.
type FeedSource interface {
	FetchFeed(ctx context.Context, url string) (FeedResult, error)
}

// FetchObserver is notified of every fetch outcome.
type FetchObserver interface {
	FeedFetched(country, outcome string)
}

// Fetch outcomes reported to a FetchObserver.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeUnavailable = "unavailable"
)

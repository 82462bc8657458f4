package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
)

// DefaultBaseURL is the Google News RSS endpoint.
const DefaultBaseURL = "https://news.google.com/rss"

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (compatible; headline-sentiment/1.0; +https://github.com/samvad-hq/headline-sentiment)"

// FeedURL builds the locale-specific feed URL for the profile.
func FeedURL(base string, p domain.CountryProfile) string {
	base = strings.TrimRight(strings.TrimSpace(base), "?")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s?hl=%s&gl=%s&ceid=%s",
		base,
		url.QueryEscape(p.LanguageCode),
		url.QueryEscape(p.GeoCode),
		url.QueryEscape(p.EditionID),
	)
}

// rssSource implements FeedSource for RSS/Atom feeds served over HTTP.
type rssSource struct {
	client  HTTPClient
	headers map[string]string
}

// NewRSSSource builds a FeedSource that fetches with client and parses with gofeed.
func NewRSSSource(client HTTPClient, userAgent string) FeedSource {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssSource{client: client, headers: Headers(userAgent)}
}

// FetchFeed retrieves url and parses its entries. Any failure yields a result that is not well formed.
func (s *rssSource) FetchFeed(ctx context.Context, url string) (FeedResult, error) {
	resp, err := s.client.Get(ctx, url, s.headers)
	if err != nil {
		return FeedResult{}, fmt.Errorf("fetch feed: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return FeedResult{}, fmt.Errorf("feed returned status %d body: %s", resp.StatusCode(), responseSnippet(body))
	}

	parser := gofeed.NewParser()
	parser.RSSTranslator = &sourceTranslator{}

	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return FeedResult{}, fmt.Errorf("decode feed: %w", err)
	}

	return FeedResult{WellFormed: true, Items: buildItems(feed)}, nil
}

// buildItems converts parsed feed entries into RawItems, preserving order.
func buildItems(feed *gofeed.Feed) []domain.RawItem {
	if feed == nil {
		return nil
	}

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		items = append(items, domain.RawItem{
			Title:       title,
			Link:        strings.TrimSpace(entry.Link),
			Source:      itemSource(entry, title),
			Summary:     plainText(entry.Description),
			PublishedAt: publishedAt(entry),
		})
	}
	return items
}

// sourceCustomKey holds the RSS <source> name in gofeed.Item.Custom.
const sourceCustomKey = "source"

// sourceTranslator keeps the RSS <source> element, which the default translator drops.
type sourceTranslator struct {
	gofeed.DefaultRSSTranslator
}

func (t *sourceTranslator) Translate(feed any) (*gofeed.Feed, error) {
	raw, ok := feed.(*rss.Feed)
	if !ok {
		return nil, fmt.Errorf("feed did not match expected type of *rss.Feed")
	}

	out, err := t.DefaultRSSTranslator.Translate(raw)
	if err != nil {
		return nil, err
	}

	for i, item := range raw.Items {
		if i >= len(out.Items) || item == nil || item.Source == nil {
			continue
		}
		name := strings.TrimSpace(item.Source.Title)
		if name == "" {
			continue
		}
		if out.Items[i].Custom == nil {
			out.Items[i].Custom = map[string]string{}
		}
		out.Items[i].Custom[sourceCustomKey] = name
	}
	return out, nil
}

// itemSource prefers the <source> element and falls back to the title suffix.
func itemSource(entry *gofeed.Item, title string) string {
	if name := entry.Custom[sourceCustomKey]; name != "" {
		return name
	}
	return publisherFromTitle(title)
}

// publishedAt returns the parsed publication time, falling back to the update time.
func publishedAt(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Time{}
}

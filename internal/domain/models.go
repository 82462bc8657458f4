package domain

import "time"

// Domain contains core models shared by the feed, sentiment and headline packages.

// CountryProfile selects a country-specific feed edition.
type CountryProfile struct {
	Name         string `json:"name" yaml:"name"`
	GeoCode      string `json:"geo_code" yaml:"geo_code"`
	LanguageCode string `json:"language_code" yaml:"language_code"`
	EditionID    string `json:"edition_id" yaml:"edition_id"`
}

// RawItem is a single feed entry as retrieved. Only Title is classified; the rest is carried to renderers.
type RawItem struct {
	Title       string
	Link        string
	Source      string
	Summary     string
	PublishedAt time.Time
}

// Category is the canonical sentiment label exposed to callers.
type Category string

const (
	Positive Category = "Positive"
	Negative Category = "Negative"
	Neutral  Category = "Neutral"
)

// AnnotatedHeadline is a headline with its sentiment. Index is the 1-based rank
// within the full cached sequence for the country, not within the page.
type AnnotatedHeadline struct {
	Index       int       `json:"index"`
	Headline    string    `json:"headline"`
	Sentiment   Category  `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Link        string    `json:"link,omitempty"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
}

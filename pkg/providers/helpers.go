package providers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Headers returns the request headers sent to feed endpoints.
func Headers(userAgent string) map[string]string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8",
	}
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// publisherFromTitle extracts the trailing " - Publisher" that Google News appends to titles.
func publisherFromTitle(title string) string {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSpace(title[idx+len(" - "):])
}

// plainText renders an HTML fragment as whitespace-collapsed text.
func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") && !strings.Contains(fragment, "&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

package publishers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/headlines"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

// Logger is the logger used by publishers.
type Logger = logger.Logger

// Event is the payload delivered to every publisher: one annotated headline page.
type Event struct {
	ID          string                     `json:"id"`
	Country     string                     `json:"country"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"page_size"`
	Total       int                        `json:"total"`
	Headlines   []domain.AnnotatedHeadline `json:"headlines"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Publisher delivers events to a downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// NewEvent builds an event for page. The id depends only on the page content.
func NewEvent(page headlines.PageResult, now time.Time) Event {
	return Event{
		ID:          eventID(page),
		Country:     page.Country,
		Page:        page.Page,
		PageSize:    page.PageSize,
		Total:       page.Total,
		Headlines:   page.Headlines,
		GeneratedAt: now.UTC(),
	}
}

func eventID(page headlines.PageResult) string {
	var b strings.Builder
	b.WriteString(page.Country)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(page.Page))
	for _, h := range page.Headlines {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(h.Index))
		b.WriteByte(':')
		b.WriteString(h.Headline)
	}
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}

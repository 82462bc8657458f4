package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/headline-sentiment/internal/headlines"
)

// Fanout delivers each page to every configured publisher.
type Fanout struct {
	pubs []Publisher
	log  Logger
	now  func() time.Time
}

// NewFanout wraps pubs. Nil entries are ignored.
func NewFanout(log Logger, pubs ...Publisher) *Fanout {
	f := &Fanout{log: ensureLogger(log), now: time.Now}
	for _, p := range pubs {
		if p != nil {
			f.pubs = append(f.pubs, p)
		}
	}
	return f
}

// Len returns the number of publishers.
func (f *Fanout) Len() int { return len(f.pubs) }

// PublishPage sends the page to all publishers and joins their errors.
func (f *Fanout) PublishPage(ctx context.Context, page headlines.PageResult) error {
	if len(f.pubs) == 0 {
		return nil
	}

	evt := NewEvent(page, f.now())

	var errs []error
	for _, p := range f.pubs {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publisher %s: %w", p.ID(), err))
			continue
		}
		f.log.DebugObj("headline page published", "page_published", map[string]any{
			"publisher_id": p.ID(),
			"event_id":     evt.ID,
			"country":      evt.Country,
			"page":         evt.Page,
		})
	}
	return errors.Join(errs...)
}

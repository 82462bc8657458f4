package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
)

// httpPublisher posts events as JSON to a generic HTTP sink.
type httpPublisher struct {
	id      string
	typ     string
	url     string
	method  string
	headers map[string]string
	client  httpclient.Client
	log     Logger
}

// newHTTPPublisher builds an HTTP publisher from config.
func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = httpDefaultTimeoutSeconds * time.Second
	}

	return &httpPublisher{
		id:      cfg.ID,
		typ:     cfg.Type,
		url:     cfg.HTTP.URL,
		method:  cfg.HTTP.Method,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyClient(timeout),
		log:     ensureLogger(log),
	}, nil
}

func (p *httpPublisher) ID() string   { return p.id }
func (p *httpPublisher) Type() string { return p.typ }

// Publish sends the event; any non-2xx status is an error.
func (p *httpPublisher) Publish(ctx context.Context, evt Event) error {
	headers := make(map[string]string, len(p.headers)+1)
	for k, v := range p.headers {
		headers[k] = v
	}
	headers["X-Event-ID"] = evt.ID

	resp, err := p.client.Do(ctx, p.method, p.url, headers, evt)
	if err != nil {
		p.log.ErrorObj("http publisher send failed", "publisher_http_error", map[string]any{
			"publisher_id": p.id,
			"error":        err.Error(),
		})
		return fmt.Errorf("send event over http: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("http sink returned status %d", resp.StatusCode())
	}

	p.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": p.id,
		"status":       resp.StatusCode(),
	})
	return nil
}

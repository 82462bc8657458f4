package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/headlines"
)

type memPublisher struct {
	id     string
	err    error
	events []Event
}

func (p *memPublisher) ID() string   { return p.id }
func (p *memPublisher) Type() string { return "memory" }
func (p *memPublisher) Publish(_ context.Context, evt Event) error {
	p.events = append(p.events, evt)
	return p.err
}

var samplePage = headlines.PageResult{
	Country:  "Canada",
	Page:     2,
	PageSize: 2,
	Total:    5,
	Headlines: []domain.AnnotatedHeadline{
		{Index: 3, Headline: "Loonie climbs", Sentiment: domain.Positive, Confidence: 0.8},
		{Index: 4, Headline: "Housing starts fall", Sentiment: domain.Negative, Confidence: 0.7},
	},
}

func TestNewEvent_IDDependsOnContent(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	a := NewEvent(samplePage, now)
	b := NewEvent(samplePage, now.Add(time.Hour))

	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, a.ID, 40)
	assert.Equal(t, "Canada", a.Country)
	assert.Equal(t, now, a.GeneratedAt)

	other := samplePage
	other.Page = 3
	assert.NotEqual(t, a.ID, NewEvent(other, now).ID)
}

func TestFanout_PublishesToAllAndJoinsErrors(t *testing.T) {
	ok := &memPublisher{id: "ok"}
	bad := &memPublisher{id: "bad", err: errors.New("throttled")}
	f := NewFanout(nil, ok, nil, bad)

	err := f.PublishPage(context.Background(), samplePage)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publisher bad: throttled")
	assert.Equal(t, 2, f.Len())
	require.Len(t, ok.events, 1)
	require.Len(t, bad.events, 1)
	assert.Equal(t, ok.events[0].ID, bad.events[0].ID)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, NewFanout(nil).PublishPage(context.Background(), samplePage))
}

func TestHTTPPublisher_PostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "abc", r.Header.Get("X-Token"))
		assert.NotEmpty(t, r.Header.Get("X-Event-ID"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: "put", Headers: map[string]string{"X-Token": "abc"}},
	})
	pub, err := DefaultRegistry().PublisherFor(context.Background(), cfg, nil)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), NewEvent(samplePage, time.Now())))
	assert.Equal(t, "Canada", got.Country)
	require.Len(t, got.Headlines, 2)
	assert.Equal(t, 4, got.Headlines[1].Index)
}

func TestHTTPPublisher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := sanitizePublisherConfig(PublisherConfig{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: srv.URL}})
	pub, err := newHTTPPublisher(context.Background(), cfg, nil)
	require.NoError(t, err)

	err = pub.Publish(context.Background(), NewEvent(samplePage, time.Now()))
	assert.ErrorContains(t, err, "status 502")
}

func TestRegistry_UnknownType(t *testing.T) {
	_, err := DefaultRegistry().PublisherFor(context.Background(), PublisherConfig{ID: "x", Type: "smtp"}, nil)
	assert.ErrorContains(t, err, `no publisher registered for type "smtp"`)

	_, err = DefaultRegistry().PublisherFor(context.Background(), PublisherConfig{ID: "x"}, nil)
	assert.ErrorContains(t, err, "has no type")
}

func TestFromFile_BuildsEnabledHTTPPublishers(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `publishers:
  - id: hook
    type: http
    http: {url: "http://127.0.0.1:1/never"}
  - id: off
    type: http
    enabled: false
    http: {url: "http://127.0.0.1:1/never"}
`)
	f, err := FromFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len())
}

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.FeedFetched("Canada", "ok")
	r.FeedFetched("Canada", "ok")
	r.FeedFetched("Japan", "unavailable")
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(true)
	r.Classified(true)
	r.Classified(false)
	r.CountryFallback()
	r.PageServed(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.feedFetches.WithLabelValues("Canada", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.feedFetches.WithLabelValues("Japan", "unavailable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.classifications.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks))
	assert.Equal(t, 1, testutil.CollectAndCount(r.pageDuration))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	r.FeedFetched("x", "ok")
	r.CacheLookup(true)
	r.Classified(false)
	r.CountryFallback()
	r.PageServed(time.Second)
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.CountryFallback()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "headlines_country_fallback_total 1")
}

func TestRecorder_RegistryGathersServiceMetrics(t *testing.T) {
	r := New()
	r.FeedFetched("India", "empty")
	r.CacheLookup(false)

	count, err := testutil.GatherAndCount(r.Registry(),
		"headlines_feed_fetch_total",
		"headlines_cache_lookups_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	expected := `
# HELP headlines_cache_lookups_total Feed cache lookups by result.
# TYPE headlines_cache_lookups_total counter
headlines_cache_lookups_total{result="miss"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "headlines_cache_lookups_total"))
}

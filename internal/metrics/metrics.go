package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "headlines"

// Recorder owns the service's Prometheus collectors. A nil *Recorder records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	feedFetches     *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	classifications *prometheus.CounterVec
	fallbacks       prometheus.Counter
	pageDuration    prometheus.Histogram
}

// New registers all collectors on a fresh registry, plus the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetch_total",
			Help:      "Country feed retrievals by outcome.",
		}, []string{"country", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Feed cache lookups by result.",
		}, []string{"result"}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Headline classifications by outcome.",
		}, []string{"outcome"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "country_fallback_total",
			Help:      "Requests whose country was replaced by the default.",
		}),
		pageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time to assemble one headline page.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	r.registry.MustRegister(
		r.feedFetches,
		r.cacheLookups,
		r.classifications,
		r.fallbacks,
		r.pageDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) FeedFetched(country, outcome string) {
	if r == nil {
		return
	}
	r.feedFetches.WithLabelValues(country, outcome).Inc()
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) Classified(ok bool) {
	if r == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "ok"
	}
	r.classifications.WithLabelValues(outcome).Inc()
}

func (r *Recorder) CountryFallback() {
	if r == nil {
		return
	}
	r.fallbacks.Inc()
}

func (r *Recorder) PageServed(d time.Duration) {
	if r == nil {
		return
	}
	r.pageDuration.Observe(d.Seconds())
}

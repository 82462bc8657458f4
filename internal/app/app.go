package app

import (
	"context"
	"fmt"

	"github.com/samvad-hq/headline-sentiment/internal/config"
	"github.com/samvad-hq/headline-sentiment/internal/feedcache"
	"github.com/samvad-hq/headline-sentiment/internal/headlines"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
	"github.com/samvad-hq/headline-sentiment/internal/metrics"
	"github.com/samvad-hq/headline-sentiment/internal/sentiment"
	"github.com/samvad-hq/headline-sentiment/internal/transport/httpapi"
	"github.com/samvad-hq/headline-sentiment/pkg/countries"
	"github.com/samvad-hq/headline-sentiment/pkg/httpclient"
	"github.com/samvad-hq/headline-sentiment/pkg/providers"
	"github.com/samvad-hq/headline-sentiment/pkg/publishers"
)

// App holds the wired components of the service.
type App struct {
	Config     config.Config
	Log        logger.Logger
	Countries  *countries.Registry
	Cache      *feedcache.Cache
	Aggregator *headlines.Aggregator
	Metrics    *metrics.Recorder
	Publishers *publishers.Fanout
}

// Option overrides a component, mainly for tests.
type Option func(*deps)

type deps struct {
	feedClient      httpclient.Client
	sentimentClient httpclient.Client
	model           sentiment.Model
}

// WithFeedClient replaces the HTTP client used for feeds.
func WithFeedClient(c httpclient.Client) Option {
	return func(d *deps) { d.feedClient = c }
}

// WithSentimentClient replaces the HTTP client used for the inference endpoint.
func WithSentimentClient(c httpclient.Client) Option {
	return func(d *deps) { d.sentimentClient = c }
}

// WithModel bypasses the configured sentiment backend.
func WithModel(m sentiment.Model) Option {
	return func(d *deps) { d.model = m }
}

// New wires every component from cfg.
func New(ctx context.Context, cfg config.Config, log logger.Logger, opts ...Option) (*App, error) {
	log = logger.Ensure(log)

	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.feedClient == nil {
		d.feedClient = httpclient.NewRestyClient(cfg.Feed.Timeout)
	}

	reg := countries.Builtin()
	if cfg.Countries.File != "" {
		loaded, err := countries.LoadRegistry(cfg.Countries.File)
		if err != nil {
			return nil, fmt.Errorf("load countries: %w", err)
		}
		reg = loaded
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	source := providers.NewRSSSource(d.feedClient, cfg.Feed.UserAgent)
	fetcher := providers.NewFeedFetcher(source, cfg.Feed.BaseURL, log).WithObserver(rec)
	cache := feedcache.New(fetcher, reg, log).WithObserver(rec)

	model, err := buildModel(cfg.Sentiment, d)
	if err != nil {
		return nil, err
	}
	classifier := sentiment.NewClassifier(model).WithObserver(rec)

	aggOpts := []headlines.Option{headlines.WithObserver(rec)}

	var fanout *publishers.Fanout
	if cfg.Publishers.File != "" {
		fanout, err = publishers.FromFile(ctx, cfg.Publishers.File, log)
		if err != nil {
			return nil, fmt.Errorf("load publishers: %w", err)
		}
		if fanout.Len() > 0 {
			aggOpts = append(aggOpts, headlines.WithPublisher(fanout))
		}
	}

	log.InfoObj("service wired", "app_ready", map[string]any{
		"countries":         len(reg.Names()),
		"default_country":   reg.Default(),
		"sentiment_backend": cfg.Sentiment.Backend,
		"publishers":        fanoutLen(fanout),
		"metrics":           rec != nil,
	})

	return &App{
		Config:     cfg,
		Log:        log,
		Countries:  reg,
		Cache:      cache,
		Aggregator: headlines.NewAggregator(reg, cache, classifier, log, aggOpts...),
		Metrics:    rec,
		Publishers: fanout,
	}, nil
}

// Server builds the HTTP server over the aggregator.
func (a *App) Server() (*httpapi.Server, error) {
	opts := httpapi.Options{
		Addr:            a.Config.HTTP.Addr,
		PageSize:        a.Config.Page.Size,
		ShutdownTimeout: a.Config.HTTP.ShutdownTimeout,
		Health: func() map[string]any {
			return map[string]any{"cached_countries": a.Cache.Len()}
		},
	}
	if a.Metrics != nil {
		opts.Metrics = a.Metrics.Handler()
	}
	return httpapi.NewServer(opts, a.Aggregator, a.Countries, a.Log)
}

func buildModel(cfg config.SentimentConfig, d deps) (sentiment.Model, error) {
	if d.model != nil {
		return d.model, nil
	}
	switch cfg.Backend {
	case config.BackendLexicon:
		return sentiment.NewLexiconModel(), nil
	case config.BackendFinBERT, "":
		client := d.sentimentClient
		if client == nil {
			client = httpclient.NewRestyClient(cfg.Timeout)
		}
		return sentiment.NewFinBERTClient(cfg.Endpoint, cfg.APIToken, client), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment backend %q", cfg.Backend)
	}
}

func fanoutLen(f *publishers.Fanout) int {
	if f == nil {
		return 0
	}
	return f.Len()
}

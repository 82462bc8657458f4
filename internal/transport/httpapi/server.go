package httpapi

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/samvad-hq/headline-sentiment/internal/domain"
	"github.com/samvad-hq/headline-sentiment/internal/headlines"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// HeadlineService produces annotated pages.
type HeadlineService interface {
	Page(ctx context.Context, countryInput string, page, pageSize int) headlines.PageResult
}

// CountryLister exposes the known countries.
type CountryLister interface {
	Names() []string
	Default() string
	Profiles() []domain.CountryProfile
}

// Options configures the server.
type Options struct {
	Addr            string
	PageSize        int
	ShutdownTimeout time.Duration
	Metrics         http.Handler
	Health          func() map[string]any
}

// Server serves the HTML page and the JSON API.
type Server struct {
	e         *echo.Echo
	opts      Options
	svc       HeadlineService
	countries CountryLister
	log       logger.Logger
}

type templateRenderer struct {
	tmpl *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// NewServer builds the echo instance and registers routes.
func NewServer(opts Options, svc HeadlineService, countries CountryLister, log logger.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = headlines.DefaultPageSize
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{tmpl: tmpl}

	s := &Server{
		e:         e,
		opts:      opts,
		svc:       svc,
		countries: countries,
		log:       logger.Ensure(log),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogMethod:     true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))

	s.registerRoutes()
	return s, nil
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.e }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("http server listening", "http_listen", map[string]any{"addr": s.opts.Addr})
		if err := s.e.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.log.InfoObj("http server shutting down", "http_shutdown", nil)
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) logRequest(_ echo.Context, v middleware.RequestLoggerValues) error {
	fields := map[string]any{
		"method":     v.Method,
		"uri":        v.URI,
		"status":     v.Status,
		"latency_ms": v.Latency.Milliseconds(),
	}
	if v.Error != nil {
		fields["error"] = v.Error.Error()
		s.log.WarnObj("request failed", "http_request", fields)
		return nil
	}
	s.log.DebugObj("request served", "http_request", fields)
	return nil
}

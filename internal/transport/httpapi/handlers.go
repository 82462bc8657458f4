package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/samvad-hq/headline-sentiment/internal/headlines"
)

const maxPageSize = 100

type indexView struct {
	Result    headlines.PageResult
	Countries []string
	NextURL   string
	Year      int
}

type countriesResponse struct {
	Default   string `json:"default"`
	Countries any    `json:"countries"`
}

func (s *Server) registerRoutes() {
	s.e.GET("/", s.handleIndex)
	s.e.GET("/healthz", s.handleHealth)

	api := s.e.Group("/api")
	api.GET("/headlines", s.handleHeadlines)
	api.GET("/countries", s.handleCountries)

	if s.opts.Metrics != nil {
		s.e.GET("/metrics", echo.WrapHandler(s.opts.Metrics))
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	country := c.QueryParam("country")
	if country == "" {
		country = s.countries.Default()
	}
	page := intParam(c, "page", 1)

	res := s.svc.Page(c.Request().Context(), country, page, s.opts.PageSize)

	view := indexView{
		Result:    res,
		Countries: s.countries.Names(),
		Year:      time.Now().Year(),
	}
	if res.HasMore {
		q := url.Values{}
		q.Set("country", res.Country)
		q.Set("page", strconv.Itoa(res.Page+1))
		view.NextURL = "/?" + q.Encode()
	}
	return c.Render(http.StatusOK, "index.html", view)
}

func (s *Server) handleHeadlines(c echo.Context) error {
	page := intParam(c, "page", 1)
	size := intParam(c, "page_size", s.opts.PageSize)
	if size > maxPageSize {
		size = maxPageSize
	}

	res := s.svc.Page(c.Request().Context(), c.QueryParam("country"), page, size)
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleCountries(c echo.Context) error {
	return c.JSON(http.StatusOK, countriesResponse{
		Default:   s.countries.Default(),
		Countries: s.countries.Profiles(),
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	body := map[string]any{"status": "ok"}
	if s.opts.Health != nil {
		for k, v := range s.opts.Health() {
			body[k] = v
		}
	}
	return c.JSON(http.StatusOK, body)
}

// intParam parses a positive integer query parameter, falling back to def.
func intParam(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

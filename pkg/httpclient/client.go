package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of a resty response the callers inspect.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client is the outbound HTTP client used by fetchers, inference and publishers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, headers map[string]string, body any) (Response, error)
	Do(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error)
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client with the given request timeout.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &restyClient{rc: rc}
}

// Get issues a GET request. Non-2xx statuses are not errors; callers check StatusCode.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return c.Do(ctx, resty.MethodGet, url, headers, nil)
}

// Post issues a POST request. A non-nil body is JSON encoded unless it is a string or []byte.
func (c *restyClient) Post(ctx context.Context, url string, headers map[string]string, body any) (Response, error) {
	return c.Do(ctx, resty.MethodPost, url, headers, body)
}

// Do issues a request with an arbitrary method.
func (c *restyClient) Do(ctx context.Context, method, url string, headers map[string]string, body any) (Response, error) {
	req := c.rc.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		if _, isRaw := body.([]byte); !isRaw {
			if _, isString := body.(string); !isString && req.Header.Get("Content-Type") == "" {
				req.SetHeader("Content-Type", "application/json")
			}
		}
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

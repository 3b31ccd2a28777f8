package amiapi

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"resty.dev/v3"
)

const (
	csrfHeader       = "X-CSRF-Token"
	nextCursorHeader = "X-Next-Cursor"
)

var tracer = otel.Tracer("amiverse/pkg/amiapi")

type Client struct {
	client *resty.Client
}

func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig
	}

	settings := cfg.TransportSettings
	if settings == nil {
		settings = DefaultConfig.TransportSettings
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := resty.NewWithTransportSettings(settings).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetCookieJar(jar).
		SetResponseBodyUnlimitedReads(true)

	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	for _, m := range cfg.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range cfg.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}

	return &Client{
		client: client,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetCSRFToken installs the token sent with every subsequent request.
func (c *Client) SetCSRFToken(token string) {
	c.client.SetHeader(csrfHeader, token)
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

type prepare func(*resty.Request)

func withBody(body any) prepare {
	return func(r *resty.Request) {
		r.SetBody(body)
	}
}

// do executes one backend call. When result is non-nil the response must carry
// a body, otherwise ErrEmptyResponse is returned.
func (c *Client) do(ctx context.Context, op, method, path string, result any, opts ...prepare) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "amiapi."+op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("amiapi.path", path),
	))
	defer span.End()

	req := c.r(ctx).SetError(&errorBody{})
	if result != nil {
		req.SetResult(result)
	}
	for _, opt := range opts {
		opt(req)
	}

	res, err := req.Execute(method, path)
	if err == nil {
		err = checkResponse(res, result != nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return res, nil
}

func checkResponse(res *resty.Response, needBody bool) error {
	if res.IsError() {
		apiErr := &APIError{StatusCode: res.StatusCode()}
		if body, ok := res.Error().(*errorBody); ok && body != nil {
			apiErr.Errors = body.Errors
		}
		return apiErr
	}

	if needBody && emptyBody(res.String()) {
		return ErrEmptyResponse
	}
	return nil
}

func emptyBody(body string) bool {
	body = strings.TrimSpace(body)
	return body == "" || body == "null"
}

func segment(s string) string {
	return url.PathEscape(s)
}

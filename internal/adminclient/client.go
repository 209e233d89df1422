// Package adminclient is a typed client for the admin REST API.
package adminclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"nextglide-backend/internal/offerings"
	"nextglide-backend/internal/transport"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("admin api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("admin api: status %d: %s %v", e.Status, e.Message, e.Details)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

// WithAdminKey authenticates every request with the static X-Admin-Key.
func WithAdminKey(key string) Option {
	return func(c *resty.Client) {
		if key != "" {
			c.SetHeader("X-Admin-Key", key)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

func New(baseURL string, opts ...Option) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return &Client{http: c}
}

// Login starts an admin session; the cookies are kept for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetError(&transport.ErrorResponse{}).
		Post("/api/admin/login")
	if err != nil {
		return fmt.Errorf("admin login: %w", err)
	}
	return apiError(resp)
}

func (c *Client) ListOfferings(ctx context.Context, kind offerings.Kind) ([]offerings.Offering, error) {
	var out []offerings.Offering
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&transport.ErrorResponse{}).
		Get("/api/" + kind.Plural())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	if err := apiError(resp); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOffering(ctx context.Context, kind offerings.Kind, slug string) (offerings.Offering, error) {
	var out offerings.Offering
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&transport.ErrorResponse{}).
		Get("/api/" + kind.Plural() + "/" + url.PathEscape(slug))
	if err != nil {
		return offerings.Offering{}, fmt.Errorf("get %s %q: %w", kind, slug, err)
	}
	if err := apiError(resp); err != nil {
		return offerings.Offering{}, err
	}
	return out, nil
}

// SaveOffering PUTs the entire document, as the admin editor does.
func (c *Client) SaveOffering(ctx context.Context, kind offerings.Kind, item offerings.Offering) (offerings.Offering, error) {
	if item.ID == "" {
		return offerings.Offering{}, errors.New("save offering: missing id")
	}
	var out offerings.Offering
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(item).
		SetResult(&out).
		SetError(&transport.ErrorResponse{}).
		Put("/api/" + kind.Plural() + "/" + url.PathEscape(item.ID))
	if err != nil {
		return offerings.Offering{}, fmt.Errorf("save %s %q: %w", kind, item.Slug, err)
	}
	if err := apiError(resp); err != nil {
		return offerings.Offering{}, err
	}
	return out, nil
}

func apiError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if body, ok := resp.Error().(*transport.ErrorResponse); ok && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}

package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dashwright/dashwright/pkg/cache"
	"github.com/dashwright/dashwright/pkg/errors"
	"github.com/dashwright/dashwright/pkg/httputil"
	"github.com/dashwright/dashwright/pkg/observability"
)

// Client provides shared HTTP functionality for the workspace API
// clients. It handles caching, retry logic, and common request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
}

// NewClient creates a Client with the given cache, cache namespace, TTL
// for cached responses, and default headers. Headers are applied to all
// requests; pass nil if none are needed. A nil cache disables response
// caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
	}
}

// GetCached performs a GET and JSON-decodes into v, serving from the
// response cache when possible. If refresh is true the cache is
// bypassed and the fresh response replaces the cached one.
func (c *Client) GetCached(ctx context.Context, url string, refresh bool, v any) error {
	key := c.keyer.HTTPKey(c.namespace, url)
	if !refresh {
		if raw, hit, _ := c.cache.Get(ctx, key); hit {
			if json.Unmarshal(raw, v) == nil {
				return nil
			}
		}
	}

	var raw json.RawMessage
	if err := c.Get(ctx, url, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "decode response from %s", url)
	}
	_ = c.cache.Set(ctx, key, raw, c.ttl)
	return nil
}

// Get performs a GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.Do(ctx, http.MethodGet, url, nil, v)
}

// Post performs a POST request with a JSON body and decodes the
// response into v. Pass nil for either side to skip it.
func (c *Client) Post(ctx context.Context, url string, body, v any) error {
	return c.Do(ctx, http.MethodPost, url, body, v)
}

// Patch performs a PATCH request with a JSON body and decodes the
// response into v.
func (c *Client) Patch(ctx context.Context, url string, body, v any) error {
	return c.Do(ctx, http.MethodPatch, url, body, v)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.Do(ctx, http.MethodDelete, url, nil, nil)
}

// Do performs an HTTP request with retry on transient failures. A
// non-nil body is JSON-encoded; a non-nil v receives the JSON-decoded
// response.
func (c *Client) Do(ctx context.Context, method, url string, body, v any) error {
	var encoded []byte
	if body != nil {
		var err error
		if encoded, err = json.Marshal(body); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode request body for %s", url)
		}
	}

	return httputil.RetryWithBackoff(ctx, func() error {
		return c.doOnce(ctx, method, url, encoded, v)
	})
}

func (c *Client) doOnce(ctx context.Context, method, url string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s %s", method, url)
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, req.URL.Host, req.URL.Path, err)
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, url))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "decode response from %s", url)
	}
	return nil
}

func checkStatus(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", url)
	case code == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "%s: check the workspace token", url)
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "%s: access denied", url)
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "%s: rate limited", url))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

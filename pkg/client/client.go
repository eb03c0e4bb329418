// Package client talks to the contentflow REST API. Reads are cached per
// path until a successful mutation invalidates them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// UnauthorizedBehavior decides what a cached read does with a 401.
type UnauthorizedBehavior int

const (
	Throw UnauthorizedBehavior = iota
	ReturnNull
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   string
	logger  *slog.Logger

	mu       sync.RWMutex
	cache    map[string][]byte
	inflight map[string]int
	gen      uint64
	group    singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the transport. A cookie jar is added when the
// client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{},
		logger:   slog.Default(),
		cache:    make(map[string][]byte),
		inflight: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc := *c.http
		hc.Jar = jar
		c.http = &hc
	}
	return c, nil
}

// Request sends body as JSON and decodes a JSON reply into out.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.decode(method, path, data, out)
}

// CachedRead GETs key, serving repeated reads from the cache. Concurrent
// reads of the same key share one request, which is not cancelled by any
// single caller; each caller stops waiting when its own ctx is done. With
// ReturnNull a 401 yields (false, nil).
func (c *Client) CachedRead(ctx context.Context, key string, on401 UnauthorizedBehavior, out any) (bool, error) {
	c.mu.RLock()
	data, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		shared := context.WithoutCancel(ctx)
		ch := c.group.DoChan(key, func() (any, error) {
			return c.fetch(shared, key)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return false, &RequestError{Method: http.MethodGet, Path: key, Message: ctx.Err().Error(), Err: ctx.Err()}
		case res = <-ch:
		}
		if res.Err != nil {
			if on401 == ReturnNull && IsUnauthorized(res.Err) {
				c.logger.Debug("unauthorized read", "path", key)
				return false, nil
			}
			return false, res.Err
		}
		data = res.Val.([]byte)
	}

	if err := c.decode(http.MethodGet, key, data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) fetch(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	gen := c.gen
	c.inflight[key]++
	c.mu.Unlock()

	data, err := c.send(ctx, http.MethodGet, key, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
	if err != nil {
		return nil, err
	}
	// an invalidation raced this read; serve it but do not keep it
	if gen == c.gen {
		c.cache[key] = data
	}
	return data, nil
}

// Invalidate drops every cached key starting with prefix.
func (c *Client) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	for key := range c.inflight {
		if strings.HasPrefix(key, prefix) {
			c.group.Forget(key)
		}
	}
}

// Mutate is Request followed by invalidation of the given prefixes, which
// happens only after a successful response.
func (c *Client) Mutate(ctx context.Context, method, path string, body, out any, invalidate ...string) error {
	if err := c.Request(ctx, method, path, body, out); err != nil {
		return err
	}
	for _, prefix := range invalidate {
		c.Invalidate(prefix)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(&RequestError{Method: method, Path: path, Message: "invalid request body", Err: err})
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, c.fail(&RequestError{Method: method, Path: path, Message: err.Error(), Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(&RequestError{Method: method, Path: path, Message: err.Error(), Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: err.Error(), Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(&RequestError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Status, data),
		})
	}

	if len(bytes.TrimSpace(data)) > 0 && !isJSON(resp.Header.Get("Content-Type")) {
		return nil, c.fail(&RequestError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("expected JSON response, got %q: %s", resp.Header.Get("Content-Type"), truncate(strings.TrimSpace(string(data)), maxSnippet)),
		})
	}
	return data, nil
}

func (c *Client) decode(method, path string, data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(&RequestError{Method: method, Path: path, Status: http.StatusOK, Message: "invalid JSON response: " + err.Error(), Err: err})
	}
	return nil
}

func (c *Client) fail(err *RequestError) error {
	if err.IsUnauthorized() {
		c.logger.Info("request unauthorized", "method", err.Method, "path", err.Path)
	} else {
		c.logger.Error("request failed", "method", err.Method, "path", err.Path, "status", err.Status, "error", err.Message)
	}
	return err
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

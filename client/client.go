// Package client fetches the zodiac catalogue from the zodiac JSON API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/dto"
	"github.com/qyinm/zodiactui/types"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	userAgent      = "zodiactui/1.0"
	maxBodyBytes   = 4 << 20
)

// Client implements types.EntrySource over HTTP with an in-memory cache
// for name lookups and the element list. Full catalogue and random fetches
// always hit the network.
type Client struct {
	baseURL  string
	client   *http.Client
	logger   *zap.Logger
	cache    map[string]cachedResult
	cacheTTL time.Duration
	mu       sync.Mutex
}

type cachedResult struct {
	value     any
	timestamp time.Time
}

// Compile-time interface check
var _ types.EntrySource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithCacheTTL sets how long cached lookups stay valid. Zero keeps them
// until ClearCache.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:   zap.NewNop(),
		cache:    make(map[string]cachedResult),
		cacheTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEntries fetches the full catalogue.
func (c *Client) FetchEntries(ctx context.Context) ([]types.Entry, error) {
	var env dto.Envelope[[]dto.Entry]
	if err := c.get(ctx, "/api/zodiacs", &env); err != nil {
		return nil, types.NewFetchError("fetch entries", err)
	}
	return cleanEntries(dto.ToEntries(env.Data)), nil
}

// FetchRandomEntry asks the API for a random entry.
func (c *Client) FetchRandomEntry(ctx context.Context) (types.Entry, error) {
	var env dto.Envelope[dto.Entry]
	if err := c.get(ctx, "/api/zodiacs/random", &env); err != nil {
		return types.Entry{}, types.NewFetchError("fetch random entry", err)
	}
	return cleanEntry(dto.ToEntry(env.Data)), nil
}

// FetchElements fetches the distinct element values known to the API.
func (c *Client) FetchElements(ctx context.Context) ([]string, error) {
	const path = "/api/elements"
	if cached, ok := c.cached(path); ok {
		if elements, ok := cached.([]string); ok {
			return elements, nil
		}
	}

	var env dto.Envelope[[]string]
	if err := c.get(ctx, path, &env); err != nil {
		return nil, types.NewFetchError("fetch elements", err)
	}
	c.store(path, env.Data)
	return env.Data, nil
}

// FetchEntry looks an entry up by name, case-insensitively.
// A 404 from the API maps to types.ErrEntryNotFound.
func (c *Client) FetchEntry(ctx context.Context, name string) (types.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Entry{}, types.ErrEntryNotFound
	}
	path := "/api/zodiacs/" + url.PathEscape(strings.ToLower(name))
	if cached, ok := c.cached(path); ok {
		if e, ok := cached.(types.Entry); ok {
			return e, nil
		}
	}

	var env dto.Envelope[dto.Entry]
	if err := c.get(ctx, path, &env); err != nil {
		if errors.Is(err, errNotFound) {
			return types.Entry{}, fmt.Errorf("%w: %s", types.ErrEntryNotFound, name)
		}
		return types.Entry{}, types.NewFetchError("fetch entry", err)
	}
	e := cleanEntry(dto.ToEntry(env.Data))
	c.store(path, e)
	return e, nil
}

// ClearCache clears the in-memory cache.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedResult)
}

var errNotFound = errors.New("not found")

// apiError carries the error message the API put in its envelope.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("unexpected status code: %d", e.status)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.status, e.msg)
}

func (e *apiError) Is(target error) bool {
	return target == errNotFound && e.status == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	c.logger.Debug("api response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var failure dto.Envelope[any]
		_ = json.Unmarshal(body, &failure)
		return &apiError{status: resp.StatusCode, msg: failure.Error}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env, ok := out.(interface{ Outcome() (bool, string) }); ok {
		if success, msg := env.Outcome(); !success {
			if msg == "" {
				msg = "request was not successful"
			}
			return errors.New(msg)
		}
	}
	return nil
}

func (c *Client) cached(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if c.cacheTTL > 0 && time.Since(r.timestamp) > c.cacheTTL {
		delete(c.cache, key)
		return nil, false
	}
	return r.value, true
}

func (c *Client) store(key string, value any) {
	c.mu.Lock()
	c.cache[key] = cachedResult{value: value, timestamp: time.Now()}
	c.mu.Unlock()
}

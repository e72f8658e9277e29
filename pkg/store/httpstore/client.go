// Package httpstore talks to a json-server style REST backend
// (GET/POST /users, PUT/DELETE /users/{id}).
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
)

const listCacheKey = "users"

// Client implements store.Store against a REST collection URL such as
// http://localhost:3001/users.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	cache   *gocache.Cache
	logger  *slog.Logger
}

var _ store.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCacheTTL caches list responses for ttl. Mutations invalidate the
// cache. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Client for the collection at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("httpstore: base url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("httpstore: invalid base url: %w", err)
	}
	c := &Client{
		baseURL: trimmed,
		http:    http.DefaultClient,
		timeout: 10 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// List fetches every record. A body that is not a JSON array reads as an
// empty list.
func (c *Client) List(ctx context.Context) ([]model.User, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(listCacheKey); ok {
			return cloneUsers(cached.([]model.User)), nil
		}
	}

	data, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	users := decodeList(data)
	if c.cache != nil {
		c.cache.SetDefault(listCacheKey, cloneUsers(users))
	}
	return users, nil
}

// Create posts payload; the backend assigns the id.
func (c *Client) Create(ctx context.Context, payload model.Payload) (model.User, error) {
	data, err := c.do(ctx, http.MethodPost, c.baseURL, payload)
	if err != nil {
		return model.User{}, err
	}
	c.invalidate()
	return decodeUser(data)
}

// Update replaces the record with id.
func (c *Client) Update(ctx context.Context, id model.ID, payload model.Payload) (model.User, error) {
	data, err := c.do(ctx, http.MethodPut, c.itemURL(id), payload)
	if err != nil {
		return model.User{}, err
	}
	c.invalidate()
	user, err := decodeUser(data)
	if err != nil {
		return model.User{}, err
	}
	if user.ID.IsZero() {
		user.ID = id
	}
	return user, nil
}

// Delete removes the record with id and echoes the id back.
func (c *Client) Delete(ctx context.Context, id model.ID) (model.ID, error) {
	if _, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil); err != nil {
		return "", err
	}
	c.invalidate()
	return id, nil
}

func (c *Client) itemURL(id model.ID) string {
	return c.baseURL + "/" + url.PathEscape(id.String())
}

func (c *Client) invalidate() {
	if c.cache != nil {
		c.cache.Delete(listCacheKey)
	}
}

func (c *Client) do(ctx context.Context, method, target string, payload model.Payload) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpstore: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpstore: %s %s: %w", method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpstore: read response: %w", err)
	}
	c.logger.Debug("backend request", "method", method, "url", target, "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusNotFound && method != http.MethodGet {
		return nil, &StatusError{Code: resp.StatusCode, Err: store.ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return data, nil
}

func decodeList(data []byte) []model.User {
	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil || users == nil {
		return []model.User{}
	}
	return users
}

func decodeUser(data []byte) (model.User, error) {
	var user model.User
	if len(bytes.TrimSpace(data)) == 0 {
		return user, nil
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return model.User{}, fmt.Errorf("httpstore: decode user: %w", err)
	}
	return user, nil
}

func cloneUsers(users []model.User) []model.User {
	out := make([]model.User, len(users))
	for i, user := range users {
		fields := make(map[string]string, len(user.Fields))
		for key, value := range user.Fields {
			fields[key] = value
		}
		out[i] = model.User{ID: user.ID, Fields: fields}
	}
	return out
}

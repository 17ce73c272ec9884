// Package client is a typed HTTP client for the superheroes API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

const (
	superheroesPath = "/api/v1/superheroes"
	apiKeyHeader    = "x-api-key"
	defaultTimeout  = 10 * time.Second
)

// Config points the client at an API instance.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client calls the superheroes API with the shared API key.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	group   singleflight.Group
	logger  logger.Logger
	tracer  *tracer.Tracer
}

// New validates cfg and returns a Client. tr may be nil to skip trace propagation.
func New(cfg Config, log logger.Logger, tr *tracer.Tracer) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
		tracer:  tr,
	}, nil
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []apperr.Issue
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api responded %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Kind maps the response back onto the error taxonomy.
func (e *APIError) Kind() apperr.Kind {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusUnauthorized:
		return apperr.KindAuth
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusConflict:
		return apperr.KindConflict
	case http.StatusTooManyRequests:
		return apperr.KindRateLimited
	case http.StatusRequestEntityTooLarge:
		return apperr.KindPayloadTooLarge
	}
	if e.Code == "DATABASE_ERROR" {
		return apperr.KindPersistence
	}
	return apperr.KindUnknown
}

// IsNotFound reports whether err is an API 404 of any shape.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []apperr.Issue  `json:"details"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// ListSuperheroes fetches heroes ordered by descending humility score.
// Concurrent calls with the same filter share one request and the same
// returned slice, which callers must not modify. The shared request is not
// tied to any single caller's cancellation; it is bounded by the client
// timeout, and a caller whose ctx ends stops waiting for it.
func (c *Client) ListSuperheroes(ctx context.Context, minHumility *int) ([]superhero.Superhero, error) {
	query := url.Values{}
	key := "list"
	if minHumility != nil {
		query.Set("minHumility", strconv.Itoa(*minHumility))
		key += ":" + query.Get("minHumility")
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		var heroes []superhero.Superhero
		if err := c.do(shared, http.MethodGet, superheroesPath, query, nil, &heroes); err != nil {
			return nil, err
		}
		return heroes, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]superhero.Superhero), nil
	}
}

// GetSuperhero fetches one hero by id.
func (c *Client) GetSuperhero(ctx context.Context, id int64) (*superhero.Superhero, error) {
	var hero superhero.Superhero
	if err := c.do(ctx, http.MethodGet, superheroesPath+"/"+strconv.FormatInt(id, 10), nil, nil, &hero); err != nil {
		return nil, err
	}
	return &hero, nil
}

type createRequest struct {
	Name          string `json:"name"`
	Superpower    string `json:"superpower"`
	HumilityScore int    `json:"humilityScore"`
}

// CreateSuperhero registers a hero and returns it with its generated fields.
func (c *Client) CreateSuperhero(ctx context.Context, in superhero.CreateInput) (*superhero.Superhero, error) {
	body := createRequest{Name: in.Name, Superpower: in.Superpower, HumilityScore: in.HumilityScore}

	var hero superhero.Superhero
	if err := c.do(ctx, http.MethodPost, superheroesPath, nil, body, &hero); err != nil {
		return nil, err
	}
	return &hero, nil
}

// Health checks that the API answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tracer != nil {
		for k, v := range c.tracer.GetCarrier(ctx) {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorWithContext(ctx, "superheroes api unreachable", err, map[string]interface{}{"method": method, "path": path})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message, Details: env.Details}
		if apiErr.Message == "" {
			apiErr.Message = env.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = "API request failed"
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/logging"
)

// RequestOptions tunes a single Request call. The zero value is an
// authenticated GET without a body.
type RequestOptions struct {
	Method string
	Body   any
	NoAuth bool
}

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  tokenstore.Store
	logger  logging.Logger
}

// NewHTTPClient builds a client for the backend at baseURL
// (e.g. "http://127.0.0.1:8000"). timeout bounds each request; zero means none.
func NewHTTPClient(baseURL string, tokens tokenstore.Store, timeout time.Duration, logger logging.Logger) *HTTPClient {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger.With("module", "api_client"),
	}
}

// Request performs one call against path and decodes the response into out
// (if out is non-nil and the body is non-empty).
func (c *HTTPClient) Request(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !opts.NoAuth && c.tokens != nil {
		token, err := c.tokens.Get(ctx)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Payload: decodePayload(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodePayload(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func (c *HTTPClient) Me(ctx context.Context) (models.UserProfile, error) {
	var u models.UserProfile
	if err := c.Request(ctx, PathMe, RequestOptions{}, &u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, PathLogin, models.Credentials{Email: email, Password: password})
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, PathRegister, models.Registration{Name: name, Email: email, Password: password})
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, body any) (*models.AuthResponse, error) {
	resp := &models.AuthResponse{}
	err := c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body, NoAuth: true}, resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMalformedAuthResponse
	}
	return resp, nil
}

func (c *HTTPClient) ListProperties(ctx context.Context) ([]models.Property, error) {
	var items []models.Property
	if err := c.Request(ctx, PathProperties, RequestOptions{}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Property{}
	}
	return items, nil
}

func (c *HTTPClient) CreateProperty(ctx context.Context, p models.NewProperty) (*models.Property, error) {
	created := &models.Property{}
	if err := c.Request(ctx, PathProperties, RequestOptions{Method: http.MethodPost, Body: p}, created); err != nil {
		return nil, err
	}
	return created, nil
}

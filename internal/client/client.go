// Package client wraps every outbound call to the training backend and
// normalizes success and error shapes for the rest of the client.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/util"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// envelope is the backend's uniform response body.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// APIError is a non-2xx backend reply that is neither a not-found nor an
// auth failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.StatusCode)
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.API.BaseURL).
		SetTimeout(cfg.API.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.API.RequestsPerSec), cfg.API.Burst),
		log:     log,
	}
}

// SetToken attaches the session bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// ClearToken drops the session token after logout.
func (c *Client) ClearToken() {
	c.http.SetAuthToken("")
}

// UpdateLimits applies a new request budget, used on config reload.
func (c *Client) UpdateLimits(requestsPerSec float64, burst int) {
	c.limiter.SetLimit(rate.Limit(requestsPerSec))
	c.limiter.SetBurst(burst)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if len(resp.Body()) > 0 {
		// Best effort: error paths may respond with a bare message.
		_ = json.Unmarshal(resp.Body(), &env)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, util.ErrNotFound)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, util.ErrUnauthorized)
	case resp.StatusCode() >= 400:
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

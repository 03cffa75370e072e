package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/config"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/observability"
)

// APIError is a failed backend call: a non-2xx status or a wrapper reporting failure.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the transport-operations REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClient builds a client. A zero timeout leaves requests bounded only by their context.
func NewClient(cfg config.BackendConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger.Named("backend"),
		metrics: metrics,
	}
}

// For returns a client acting on behalf of the actor.
func (c *Client) For(actor domain.ActorContext) *ActorClient {
	return &ActorClient{client: c, token: actor.Token}
}

// do performs one call and returns the payload with any result wrapper removed.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordBackendCall(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.metrics.RecordBackendCall(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: messageOf(payload)}
		c.logger.Debug("backend call failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	if len(bytes.TrimSpace(payload)) == 0 || !json.Valid(payload) {
		return nil, nil
	}
	return unwrapResult(payload)
}

// ActorClient issues backend calls with the actor's bearer token.
type ActorClient struct {
	client *Client
	token  string
}

func (a *ActorClient) get(ctx context.Context, endpoint, path string) (json.RawMessage, error) {
	return a.client.do(ctx, endpoint, http.MethodGet, path, a.token, nil)
}

func (a *ActorClient) put(ctx context.Context, endpoint, path string, body any) (json.RawMessage, error) {
	return a.client.do(ctx, endpoint, http.MethodPut, path, a.token, body)
}

func (a *ActorClient) post(ctx context.Context, endpoint, path string, body any) (json.RawMessage, error) {
	return a.client.do(ctx, endpoint, http.MethodPost, path, a.token, body)
}

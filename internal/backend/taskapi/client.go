// Package taskapi implements the service.Service interface against the remote
// REST Task API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"taskctl/internal/config"
	"taskctl/internal/service"
)

const (
	listPath   = "/getAllTasks"
	createPath = "/createTask"
	getPath    = "/getTaskByID/"
	updatePath = "/updateTask/"
	deletePath = "/deleteTask/"

	// The remote service publishes removal as PUT /deleteTask/{id}.
	deleteMethod = http.MethodPut

	// RequestIDHeader carries a per-call identifier for log correlation.
	RequestIDHeader = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// HTTPClient abstracts the Do method of http.Client for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements service.Service using the remote Task API.
type Client struct {
	http    HTTPClient
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a client for the API root configured in cfg.
func New(cfg *config.Config) (*Client, error) {
	return NewWithHTTPClient(cfg, http.DefaultClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(cfg *config.Config, httpClient HTTPClient) (*Client, error) {
	settings := cfg.Settings.API
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL: %q", settings.BaseURL)
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		timeout: timeout,
		logger:  cfg.Log().Named("taskapi"),
	}, nil
}

// BaseURL returns the resource root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// List returns every task.
func (c *Client) List(ctx context.Context) (service.Envelope[[]service.Task], error) {
	return call[[]service.Task](ctx, c, service.OpList, http.MethodGet, listPath, nil)
}

// Create creates a task from draft.
func (c *Client) Create(ctx context.Context, draft service.Draft) (service.Envelope[service.Task], error) {
	return call[service.Task](ctx, c, service.OpCreate, http.MethodPost, createPath, draft)
}

// Get fetches one task; Data holds a one-element list on success.
func (c *Client) Get(ctx context.Context, id service.ID) (service.Envelope[[]service.Task], error) {
	return call[[]service.Task](ctx, c, service.OpGet, http.MethodGet, getPath+escapeID(id), nil)
}

// Update overwrites task id with draft.
func (c *Client) Update(ctx context.Context, id service.ID, draft service.Draft) (service.Envelope[service.Task], error) {
	return call[service.Task](ctx, c, service.OpUpdate, http.MethodPut, updatePath+escapeID(id), draft)
}

// Delete removes task id.
func (c *Client) Delete(ctx context.Context, id service.ID) (service.Envelope[any], error) {
	return call[any](ctx, c, service.OpDelete, deleteMethod, deletePath+escapeID(id), nil)
}

func escapeID(id service.ID) string {
	return url.PathEscape(string(id))
}

// call performs one request and decodes the envelope. Every operation goes
// through here so transport and protocol failures are reported the same way.
func call[T any](ctx context.Context, c *Client, op, method, path string, body any) (service.Envelope[T], error) {
	var envelope service.Envelope[T]

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return envelope, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return envelope, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return envelope, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return envelope, newProtocolError(op, resp.StatusCode, err)
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return envelope, &ProtocolError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrMalformedEnvelope, err),
		}
	}
	if envelope.Status == "" {
		return envelope, &ProtocolError{Op: op, StatusCode: resp.StatusCode, Err: ErrMalformedEnvelope}
	}

	return envelope, nil
}

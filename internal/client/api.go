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

	"emailcomposer/internal/domain/entity"
)

const DefaultBaseURL = "http://localhost:5000"

// StatusError is returned for any non-2xx backend answer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// API is the backend as seen by the form.
type API interface {
	GenerateEmail(ctx context.Context, req entity.GenerateRequest) (entity.GenerateResponse, error)
	SendEmail(ctx context.Context, req entity.SendRequest) (entity.SendResponse, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ API = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GenerateEmail(ctx context.Context, req entity.GenerateRequest) (entity.GenerateResponse, error) {
	var out entity.GenerateResponse
	if err := c.post(ctx, "/generate-email", req, &out); err != nil {
		return entity.GenerateResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) SendEmail(ctx context.Context, req entity.SendRequest) (entity.SendResponse, error) {
	var out entity.SendResponse
	if err := c.post(ctx, "/send-email", req, &out); err != nil {
		return entity.SendResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e entity.ErrorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(body))
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError represents a non-2xx response from the model server.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Remote calls a model server over JSON/HTTP:
//
//	POST {base}/predict        {"instances":[[...]]} -> {"predictions":[2]}
//	POST {base}/predict_proba  {"instances":[[...]]} -> {"probabilities":[[...]]}
type Remote struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) {
		r.httpClient.Timeout = d
	}
}

// WithBackoff sets the first retry delay; later retries double it.
func WithBackoff(d time.Duration) RemoteOption {
	return func(r *Remote) {
		r.backoff = d
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		r.httpClient = c
	}
}

// NewRemote creates a Remote for the server at baseURL.
func NewRemote(baseURL string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type instancesRequest struct {
	Instances [][]float64 `json:"instances"`
}

// Predict asks the server for the class index of vec.
func (r *Remote) Predict(ctx context.Context, vec []float64) (int, error) {
	var resp struct {
		Predictions []json.Number `json:"predictions"`
	}
	if err := r.postJSON(ctx, "/predict", instancesRequest{Instances: [][]float64{vec}}, &resp); err != nil {
		return 0, fmt.Errorf("remote: predict: %w", err)
	}
	if len(resp.Predictions) != 1 {
		return 0, fmt.Errorf("%w: got %d predictions, want 1", ErrMalformedOutput, len(resp.Predictions))
	}
	// Some servers serialize integer labels as floats.
	f, err := resp.Predictions[0].Float64()
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: prediction %q is not a class index", ErrMalformedOutput, resp.Predictions[0])
	}
	return int(f), nil
}

// PredictProba asks the server for the class probabilities of vec.
func (r *Remote) PredictProba(ctx context.Context, vec []float64) ([]float64, error) {
	var resp struct {
		Probabilities [][]float64 `json:"probabilities"`
	}
	if err := r.postJSON(ctx, "/predict_proba", instancesRequest{Instances: [][]float64{vec}}, &resp); err != nil {
		return nil, fmt.Errorf("remote: predict_proba: %w", err)
	}
	if len(resp.Probabilities) != 1 {
		return nil, fmt.Errorf("%w: got %d probability rows, want 1", ErrMalformedOutput, len(resp.Probabilities))
	}
	if err := checkProba(resp.Probabilities[0]); err != nil {
		return nil, err
	}
	return resp.Probabilities[0], nil
}

// Close releases idle connections.
func (r *Remote) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

const maxRetries = 3

// postJSON sends body to path and unmarshals the JSON response into dest.
// Returns *APIError for non-2xx responses. Retries on 429 (honoring
// Retry-After) and 5xx with exponential backoff. Max 3 retries.
func (r *Remote) postJSON(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	var lastErr *APIError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(r.backoffDelay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return err
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if err := json.Unmarshal(data, dest); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
			}
			return nil
		}

		bodyStr := string(data)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}
		return apiErr
	}
	return lastErr
}

func (r *Remote) backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return r.backoff << (attempt - 1)
}

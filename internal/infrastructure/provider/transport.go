// Package provider holds the HTTP plumbing shared by every external API client:
// rate limiting, bounded retries with exponential backoff, metrics and error mapping.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	maxErrorBodyBytes  = 512
)

// Options configures a Transport
type Options struct {
	// Name identifies the provider in errors, logs and metrics
	Name string
	// RequestsPerHour caps outbound calls; zero disables limiting
	RequestsPerHour int
	// Burst is the limiter burst size, default 10
	Burst       int
	Timeout     time.Duration
	MaxAttempts int
	HTTPClient  *http.Client
}

// Transport executes JSON requests against one provider
type Transport struct {
	name        string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxAttempts int
	debug       bool
	logger      *zap.Logger
}

// NewTransport creates a transport for one provider
func NewTransport(opts Options) *Transport {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var limiter *rate.Limiter
	if opts.RequestsPerHour > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 10
		}
		// rate.Limit is per second
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerHour)/3600), burst)
	}

	return &Transport{
		name:        opts.Name,
		httpClient:  httpClient,
		rateLimiter: limiter,
		maxAttempts: maxAttempts,
		logger:      zap.L().Named(opts.Name),
	}
}

// Name returns the provider name
func (t *Transport) Name() string {
	return t.name
}

// SetDebug enables logging of raw response bodies
func (t *Transport) SetDebug(debug bool) {
	t.debug = debug
}

// PostJSON marshals payload, POSTs it to reqURL and returns the raw 2xx body.
// Every failure is returned as *domain.ProviderError.
func (t *Transport) PostJSON(ctx context.Context, reqURL string, header http.Header, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", t.name, err)
	}

	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if t.rateLimiter != nil {
			if err := t.rateLimiter.Wait(ctx); err != nil {
				return nil, t.fail(0, fmt.Errorf("rate limiter: %w", err))
			}
		}

		respBody, status, err := t.do(ctx, reqURL, header, body)
		if err != nil {
			t.logger.Warn("request error", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = t.fail(0, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
		} else if status >= 200 && status < 300 {
			if t.debug {
				t.logger.Debug("response", zap.Int("status", status), zap.ByteString("body", respBody))
			}
			return respBody, nil
		} else {
			t.logger.Warn("non-success status",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.ByteString("body", truncate(respBody)),
			)
			lastErr = t.fail(status, errors.New(statusMessage(status, respBody)))
			if !retryable(status) {
				return nil, lastErr
			}
		}

		if attempt < t.maxAttempts {
			if err := sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, lastErr
			}
		}
	}

	t.logger.Error("all retries failed", zap.Error(lastErr))
	return nil, lastErr
}

// do executes a single POST and reads the whole body
func (t *Transport) do(ctx context.Context, reqURL string, header http.Header, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "EcoFinder/1.0")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequestDuration.WithLabelValues(t.name, "error").Observe(time.Since(start).Seconds())
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.ProviderRequestDuration.WithLabelValues(t.name, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

func (t *Transport) fail(status int, err error) *domain.ProviderError {
	return &domain.ProviderError{Provider: t.name, StatusCode: status, Err: err}
}

// retryable reports whether a status is worth another attempt.
// Hugging Face answers 503 while a model is loading.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// exponentialBackoff returns 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// statusMessage prefers the provider's own error message when the body carries one
func statusMessage(status int, body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var text string
		if json.Unmarshal(payload.Error, &text) == nil && text != "" {
			return text
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return http.StatusText(status)
}

func truncate(body []byte) []byte {
	if len(body) > maxErrorBodyBytes {
		return body[:maxErrorBodyBytes]
	}
	return body
}

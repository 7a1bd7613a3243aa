package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when a provider request fails or returns a non-success status
	ErrTransport = errors.New("provider request failed")

	// ErrMissingCredential is returned when a required API key is not configured
	ErrMissingCredential = errors.New("credential not configured")

	// ErrParse is returned when a provider reply has an unexpected shape
	ErrParse = errors.New("unexpected provider reply")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotProductPage is returned when the page carries no product to analyze
	ErrNotProductPage = errors.New("no product detected on this page")
)

// ProviderError describes a failed call to an external provider.
// It always unwraps to ErrTransport so callers can test with errors.Is.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

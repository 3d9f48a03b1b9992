package openalex

import (
	"errors"
	"fmt"
)

// Common errors returned by the OpenAlex client.
var (
	// ErrRateLimited indicates the API rejected a request for rate reasons.
	ErrRateLimited = errors.New("OpenAlex rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with OpenAlex")

	// ErrInvalidResponse indicates an unexpected API response body.
	ErrInvalidResponse = errors.New("invalid response from OpenAlex")
)

// APIError represents a non-2xx response from the OpenAlex API.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAlex API error (status %d, %s): %s", e.StatusCode, e.Path, e.Message)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

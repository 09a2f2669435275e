// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrBrowserPool     = errors.New("browser pool unavailable")
	ErrTimeout         = errors.New("request timeout")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrBadStatus       = errors.New("unexpected HTTP status")
)

// ErrorCode represents a specific fetch failure
type ErrorCode string

const (
	ErrCodeInvalidURL   ErrorCode = "INVALID_URL"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrCodeBrowserError ErrorCode = "BROWSER_ERROR"
)

// FetchError is returned by every Fetcher when a page cannot be retrieved
type FetchError struct {
	Code       ErrorCode
	URL        string
	StatusCode int
	Cause      error
	Retry      bool
}

// Error implements the error interface
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: fetch %s", e.Code, e.URL)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *FetchError) Is(target error) bool {
	if t, ok := target.(*FetchError); ok {
		return e.Code == t.Code
	}
	return false
}

// GetStatusCode lets the retry package inspect HTTP failures
func (e *FetchError) GetStatusCode() int {
	return e.StatusCode
}

// Temporary reports whether retrying the fetch may succeed
func (e *FetchError) Temporary() bool {
	return e.Retry
}

// NewFetchError creates a new FetchError
func NewFetchError(code ErrorCode, url string, err error) *FetchError {
	return &FetchError{
		Code:  code,
		URL:   url,
		Cause: err,
	}
}

// NewStatusError creates a FetchError for a non-success HTTP status.
// 429 and 5xx responses are marked retryable.
func NewStatusError(url string, statusCode int) *FetchError {
	e := NewFetchError(ErrCodeHTTPStatus, url, fmt.Errorf("%w: %s", ErrBadStatus, http.StatusText(statusCode)))
	e.StatusCode = statusCode
	e.Retry = statusCode == http.StatusTooManyRequests || statusCode >= 500
	return e
}

// WithRetry marks the error as retryable
func (e *FetchError) WithRetry() *FetchError {
	e.Retry = true
	return e
}

// ClassifyNetworkError wraps a transport error, distinguishing timeouts
func ClassifyNetworkError(url string, err error) *FetchError {
	var te interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
		return NewFetchError(ErrCodeTimeout, url, fmt.Errorf("%w: %v", ErrTimeout, err)).WithRetry()
	}
	return NewFetchError(ErrCodeNetworkError, url, err).WithRetry()
}

// AsFetchError extracts a *FetchError from err's chain
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

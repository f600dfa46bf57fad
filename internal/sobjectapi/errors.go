package sobjectapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// MaxPathLength is the longest request path, query string included, the API accepts
const MaxPathLength = 8192

// ErrMaxPathLength is matched by *MaxPathLengthError
var ErrMaxPathLength = errors.New("path length limit exceeded")

// MaxPathLengthError reports a request path that is too long to send
type MaxPathLengthError struct {
	Path string
}

// Error implements the error interface
func (e *MaxPathLengthError) Error() string {
	return fmt.Sprintf("Path length %d exceeds the %d character limit -> %s", len(e.Path), MaxPathLength, e.Path)
}

// Is matches ErrMaxPathLength
func (*MaxPathLengthError) Is(target error) bool {
	return target == ErrMaxPathLength
}

// HTTPError represents a non-2xx API response
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
	// ErrorCode is the API error code, e.g. NOT_FOUND or INVALID_FIELD
	ErrorCode string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("HTTP %d for URL %s: %s: %s", e.StatusCode, e.URL, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, e.Message)
}

// Retryable reports whether the request may succeed when repeated
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// newHTTPError builds an HTTPError, taking the message from the API's error
// body when it has one
func newHTTPError(statusCode int, url, status string, body []byte) *HTTPError {
	httpErr := &HTTPError{StatusCode: statusCode, URL: url, Message: status}

	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		parsed = parsed.Get("0")
	}
	if msg := parsed.Get("message"); msg.Exists() {
		httpErr.Message = msg.String()
	}
	if code := parsed.Get("errorCode"); code.Exists() {
		httpErr.ErrorCode = code.String()
	}
	return httpErr
}

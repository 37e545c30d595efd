package errors

import "fmt"

// ErrorType classifies the failures a scrape run can produce
type ErrorType string

const (
	// ErrorTypeValidation covers bad URLs and unsupported domains,
	// surfaced before any browser interaction.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNavigation covers detail tabs that never opened and
	// element waits that timed out.
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeSelection covers detail pages with no usable image.
	ErrorTypeSelection ErrorType = "selection"
	// ErrorTypeNetwork covers transport-level download failures.
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeServer covers non-success HTTP responses.
	ErrorTypeServer ErrorType = "server_error"
	// ErrorTypeAuth covers failed site logins.
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeUnknown covers everything caught by the broad per-item
	// recovery path.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error is a scrape-domain error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// NewWithCode creates a typed error carrying an HTTP status code
func NewWithCode(t ErrorType, message string, code int) *Error {
	return &Error{Type: t, Message: message, Code: code}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}

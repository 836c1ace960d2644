package oura

import "fmt"

// Kind categorizes upstream API failures.
type Kind string

const (
	// KindClientError is a malformed request (HTTP 400).
	KindClientError Kind = "client_error"

	// KindUnauthorized is an expired or revoked token (HTTP 401).
	KindUnauthorized Kind = "unauthorized"

	// KindForbidden is a permission failure (HTTP 403).
	KindForbidden Kind = "forbidden"

	// KindValidation is an invalid request body or parameters (HTTP 422).
	KindValidation Kind = "validation"

	// KindRateLimit is a throttled request (HTTP 429).
	KindRateLimit Kind = "rate_limit"

	// KindServerError is a 5xx or any otherwise unmapped status.
	KindServerError Kind = "server_error"
)

// APIError is a classified non-2xx response from the Oura API.
// It is immutable once constructed and is never retried by the client.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string

	// Body holds up to maxErrorBody bytes of the raw response body,
	// kept for diagnostics only.
	Body []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("oura: %s (status %d)", e.Message, e.StatusCode)
}

// default messages per kind.
const (
	msgClientError  = "Bad Request"
	msgUnauthorized = "Unauthorized - token expired or revoked"
	msgForbidden    = "Forbidden - insufficient permissions"
	msgValidation   = "Validation failed - invalid request body or parameters"
	msgRateLimit    = "Rate limit exceeded - too many requests"
	msgServerError  = "Server error"
)

// classifyStatus maps an HTTP status code to exactly one APIError.
// The mapping is total: any code not listed falls through to
// KindServerError with the original status code preserved. Callers must
// not pass 2xx codes; classification only inspects the transport status,
// never the body.
func classifyStatus(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode, Body: body}

	switch statusCode {
	case 400:
		e.Kind = KindClientError
		e.Message = msgClientError
	case 401:
		e.Kind = KindUnauthorized
		e.Message = msgUnauthorized
	case 403:
		e.Kind = KindForbidden
		e.Message = msgForbidden
	case 422:
		e.Kind = KindValidation
		e.Message = msgValidation
	case 429:
		e.Kind = KindRateLimit
		e.Message = msgRateLimit
	default:
		e.Kind = KindServerError
		e.Message = msgServerError
	}

	return e
}

// Package errors provides the structured error taxonomy shared by the admin
// console and its marketplace API client.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeTransport marks a request that never produced an HTTP response
	// (dial failure, timeout, cancelled context).
	CodeTransport Code = "TRANSPORT"
	// CodeHTTPStatus marks a non-2xx upstream response.
	CodeHTTPStatus Code = "HTTP_STATUS"
	// CodeUnauthorized is the 401/403 refinement of CodeHTTPStatus.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeNotFound is the 404 refinement of CodeHTTPStatus, also used by storage.
	CodeNotFound Code = "NOT_FOUND"
	// CodeDecode marks a response body that could not be decoded.
	CodeDecode Code = "DECODE"
	// CodeValidation marks input rejected before any network call.
	CodeValidation Code = "VALIDATION"
)

// IsUpstream reports whether the code came from a server response.
func (c Code) IsUpstream() bool {
	switch c {
	case CodeHTTPStatus, CodeUnauthorized, CodeNotFound:
		return true
	default:
		return false
	}
}

// HTTPStatus maps domain codes to the status the console answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTransport, CodeHTTPStatus, CodeDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

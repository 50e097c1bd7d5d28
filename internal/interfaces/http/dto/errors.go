package dto

import (
	"net/http"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests and path parameters
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when the request body cannot be bound
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// Domain error codes, taken from the shared sentinels
var (
	ErrCodeNotFound                = shared.ErrNotFound.Code
	ErrCodeInvalidInput            = shared.ErrInvalidInput.Code
	ErrCodeRemoteUnavailable       = shared.ErrRemoteUnavailable.Code
	ErrCodeRemoteRecordMissing     = shared.ErrRemoteRecordMissing.Code
	ErrCodeRemoteContractViolation = shared.ErrRemoteContractViolation.Code
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// a dependency is down
	ErrCodeRemoteUnavailable: http.StatusServiceUnavailable,
	// the stored id points at a record its owner no longer has
	ErrCodeRemoteRecordMissing: http.StatusFailedDependency,
	// the owner answered with something we cannot use
	ErrCodeRemoteContractViolation: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ClassifyError returns the code, status and client message for err. Errors
// that carry no domain code are internal and their text is not exposed.
func ClassifyError(err error) (code string, status int, message string) {
	if code, ok := shared.ErrorCode(err); ok {
		return code, GetHTTPStatus(code), err.Error()
	}
	return ErrCodeInternal, http.StatusInternalServerError, "An unexpected error occurred"
}

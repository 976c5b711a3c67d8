package dto

import (
	"net/http"

	"github.com/dropship/backend/internal/domain/dropship"
)

// Error code constants exposed by the API.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Provider error codes
const (
	// ErrCodeProviderNotFound is used when the product/order does not exist
	// at the provider
	ErrCodeProviderNotFound = "ERR_PROVIDER_NOT_FOUND"
	// ErrCodeProviderRateLimited is used when the provider rejected the call
	// due to rate limiting
	ErrCodeProviderRateLimited = "ERR_PROVIDER_RATE_LIMITED"
	// ErrCodeOrderCreationFailed is used when the provider rejected an order
	ErrCodeOrderCreationFailed = "ERR_ORDER_CREATION_FAILED"
	// ErrCodeProviderUnavailable is used for transient provider failures
	ErrCodeProviderUnavailable = "ERR_PROVIDER_UNAVAILABLE"
	// ErrCodeProviderUnauthorized is used when our provider credentials are
	// rejected upstream
	ErrCodeProviderUnauthorized = "ERR_PROVIDER_UNAUTHORIZED"
	// ErrCodeProviderConfiguration is used for local provider configuration
	// failures (unknown provider, provider disabled)
	ErrCodeProviderConfiguration = "ERR_PROVIDER_CONFIGURATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a local resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeProviderNotFound:    http.StatusNotFound,
	ErrCodeProviderRateLimited: http.StatusTooManyRequests,
	ErrCodeOrderCreationFailed: http.StatusUnprocessableEntity,
	// A provider outage or rejected upstream credential is not the caller's
	// fault, so both surface as 502.
	ErrCodeProviderUnavailable:   http.StatusBadGateway,
	ErrCodeProviderUnauthorized:  http.StatusBadGateway,
	ErrCodeProviderConfiguration: http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorKindCode maps the domain failure taxonomy to API error codes.
var ErrorKindCode = map[dropship.ErrorKind]string{
	dropship.ErrorKindNotFound:      ErrCodeProviderNotFound,
	dropship.ErrorKindRateLimited:   ErrCodeProviderRateLimited,
	dropship.ErrorKindOrderCreation: ErrCodeOrderCreationFailed,
	dropship.ErrorKindTransient:     ErrCodeProviderUnavailable,
	dropship.ErrorKindUnauthorized:  ErrCodeProviderUnauthorized,
	dropship.ErrorKindConfiguration: ErrCodeProviderConfiguration,
}

// CodeForKind returns the API error code for a domain failure kind.
func CodeForKind(kind dropship.ErrorKind) string {
	if code, ok := ErrorKindCode[kind]; ok {
		return code
	}
	return ErrCodeUnknown
}

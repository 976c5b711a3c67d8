package dropship

import (
	"errors"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Failure Taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies a provider failure for retry and reporting decisions.
type ErrorKind string

const (
	// ErrorKindRateLimited indicates the provider rejected the call due to
	// rate limiting; RetryAfter carries the provider's hint when given.
	ErrorKindRateLimited ErrorKind = "RATE_LIMITED"
	// ErrorKindNotFound indicates the requested product/order does not exist
	// at this provider. Never retried.
	ErrorKindNotFound ErrorKind = "NOT_FOUND"
	// ErrorKindOrderCreation indicates the provider rejected order creation.
	// Retried at most once with unchanged input.
	ErrorKindOrderCreation ErrorKind = "ORDER_CREATION_FAILED"
	// ErrorKindTransient indicates a network timeout or 5xx-class response.
	// Retried with exponential backoff.
	ErrorKindTransient ErrorKind = "TRANSIENT"
	// ErrorKindUnauthorized indicates bad or missing credentials. Never retried.
	ErrorKindUnauthorized ErrorKind = "UNAUTHORIZED"
	// ErrorKindConfiguration indicates a local misconfiguration (no provider
	// registered, provider disabled, provider name required). Never retried.
	ErrorKindConfiguration ErrorKind = "CONFIGURATION"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// Retryable returns true if failures of this kind may be retried.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorKindRateLimited, ErrorKindTransient, ErrorKindOrderCreation:
		return true
	default:
		return false
	}
}

// ProviderError is a typed failure produced by a provider adapter or the
// surrounding orchestration layer. It records which provider produced the
// failure and the original remote status/code for observability.
type ProviderError struct {
	// Provider is the name of the provider that produced the failure.
	Provider string
	// Kind classifies the failure.
	Kind ErrorKind
	// Code is the provider's native error code or HTTP status, when known.
	Code string
	// Message is a human-readable description.
	Message string
	// RetryAfter is the provider-supplied backoff hint (rate limiting only).
	RetryAfter time.Duration
	// Detail carries the provider's raw error payload for diagnostics.
	// Logged, never shown to end users.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("dropship: %s [%s/%s]: %s", e.Kind, e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("dropship: %s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewRateLimitedError creates a rate-limit failure with an optional retry hint.
func NewRateLimitedError(provider, code, message string, retryAfter time.Duration) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindRateLimited, Code: code, Message: message, RetryAfter: retryAfter}
}

// NewNotFoundError creates a not-found failure.
func NewNotFoundError(provider, code, message string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindNotFound, Code: code, Message: message}
}

// NewOrderCreationError creates an order-creation failure carrying the
// provider's raw error payload.
func NewOrderCreationError(provider, code, message, detail string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindOrderCreation, Code: code, Message: message, Detail: detail}
}

// NewTransientError creates a connectivity/transient failure.
func NewTransientError(provider, code, message string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindTransient, Code: code, Message: message, Err: err}
}

// NewUnauthorizedError creates a credentials failure.
func NewUnauthorizedError(provider, code, message string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindUnauthorized, Code: code, Message: message}
}

// NewConfigurationError creates a local configuration failure.
func NewConfigurationError(provider, message string) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ErrorKindConfiguration, Code: "CONFIG", Message: message}
}

// KindOf extracts the failure kind from an error chain. Errors that are not
// ProviderError are reported as transient, the conservative retryable default
// for unclassified remote failures.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrorKindTransient
}

// AsProviderError extracts a ProviderError from an error chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind ErrorKind) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Kind == kind
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return IsKind(err, ErrorKindNotFound)
}

// ---------------------------------------------------------------------------
// Validation Errors
// ---------------------------------------------------------------------------

// Validation errors are produced locally before any network call is made.
var (
	ErrOrderNoItems         = errors.New("dropship: order request has no line items")
	ErrOrderInvalidQuantity = errors.New("dropship: line item quantity must be greater than zero")
	ErrOrderInvalidPrice    = errors.New("dropship: line item unit price cannot be negative")
	ErrOrderMissingProduct  = errors.New("dropship: line item product id is required")
	ErrAddressMissingCountry    = errors.New("dropship: shipping address country is required")
	ErrAddressMissingPostalCode = errors.New("dropship: shipping address postal code is required")
)

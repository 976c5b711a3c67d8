// Package provider contains the fulfillment provider adapters. Each adapter
// translates one provider's HTTP API onto the domain's ProviderAdapter port.
package provider

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// maxResponseSize is the maximum allowed provider response size (10MB).
const maxResponseSize = 10 * 1024 * 1024

// parseDecimal parses a provider price string, returning zero on failure.
// Providers serialize prices as strings; a malformed price is treated as
// zero rather than failing the whole payload.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// retryAfterFromHeader reads the Retry-After response header as a duration.
// Only the delta-seconds form is supported; absent or malformed values
// return zero.
func retryAfterFromHeader(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

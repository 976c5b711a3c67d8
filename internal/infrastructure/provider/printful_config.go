package provider

import (
	"errors"
)

// PrintfulConfig holds configuration for the Printful fulfillment API.
type PrintfulConfig struct {
	// APIKey is the Printful private token, sent as a bearer token.
	APIKey string
	// APIBaseURL is the base URL for the Printful API.
	APIBaseURL string
	// Enabled switches the adapter on or off without unregistering it.
	Enabled bool
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64
	// MaxConcurrency bounds concurrent per-product calls in batch inventory sync.
	MaxConcurrency int
}

// PrintfulAPIURL is the production API endpoint.
const PrintfulAPIURL = "https://api.printful.com"

// Errors for Printful configuration
var ErrPrintfulConfigMissingAPIKey = errors.New("printful: api key is required")

// NewPrintfulConfig creates a Printful configuration with defaults.
func NewPrintfulConfig(apiKey string) *PrintfulConfig {
	return &PrintfulConfig{
		APIKey:            apiKey,
		APIBaseURL:        PrintfulAPIURL,
		Enabled:           true,
		TimeoutSeconds:    30,
		RequestsPerSecond: 10,
		MaxConcurrency:    8,
	}
}

// Validate validates the configuration and fills defaults.
func (c *PrintfulConfig) Validate() error {
	if c.APIKey == "" {
		return ErrPrintfulConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = PrintfulAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 10
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 8
	}
	return nil
}

package provider

import (
	"errors"
)

// SpocketConfig holds configuration for the Spocket marketplace API.
type SpocketConfig struct {
	// APIKey is the Spocket API key, sent in the X-Api-Key header.
	APIKey string
	// APIBaseURL is the base URL for the Spocket API.
	APIBaseURL string
	// Enabled switches the adapter on or off without unregistering it.
	Enabled bool
	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int
	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64
}

// SpocketAPIURL is the production API endpoint.
const SpocketAPIURL = "https://api.spocket.co/v1"

// Errors for Spocket configuration
var ErrSpocketConfigMissingAPIKey = errors.New("spocket: api key is required")

// NewSpocketConfig creates a Spocket configuration with defaults.
func NewSpocketConfig(apiKey string) *SpocketConfig {
	return &SpocketConfig{
		APIKey:            apiKey,
		APIBaseURL:        SpocketAPIURL,
		Enabled:           true,
		TimeoutSeconds:    30,
		RequestsPerSecond: 5,
	}
}

// Validate validates the configuration and fills defaults.
func (c *SpocketConfig) Validate() error {
	if c.APIKey == "" {
		return ErrSpocketConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = SpocketAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	return nil
}

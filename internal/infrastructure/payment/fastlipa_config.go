package payment

import (
	"errors"
	"strings"
	"time"
)

const defaultFastLipaBaseURL = "https://api.fastlipa.com/api"

// FastLipaConfig contains configuration for the FastLipa mobile-money API
type FastLipaConfig struct {
	// BaseURL is the API root, without a trailing slash
	BaseURL string
	// APIKey is the bearer token used on every request
	APIKey string
	// Timeout bounds each HTTP call
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrFastLipaMissingAPIKey = errors.New("fastlipa: missing API key")
)

// Validate validates the configuration and fills defaults
func (c *FastLipaConfig) Validate() error {
	if c.APIKey == "" {
		return ErrFastLipaMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultFastLipaBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

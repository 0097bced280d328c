package smm

import (
	"errors"
	"strings"
	"time"
)

// Config contains configuration for the upstream SMM panel API
type Config struct {
	// BaseURL is the panel's API endpoint, e.g. https://panel.example.com/api/v2
	BaseURL string
	// APIKey is the reseller key sent with every request
	APIKey string
	// Timeout bounds each HTTP call
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrMissingBaseURL = errors.New("smm: missing base URL")
	ErrMissingAPIKey  = errors.New("smm: missing API key")
)

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// RetryConfig represents completion-callback retry configuration
type RetryConfig struct {
	MaxAttempts    int     `json:"max_attempts"`
	InitialDelayMs int     `json:"initial_delay_ms"`
	MaxDelayMs     int     `json:"max_delay_ms"`
	Multiplier     float64 `json:"multiplier"`
}

// SetDefaults sets default values for retry configuration
func (rc *RetryConfig) SetDefaults() {
	if rc.MaxAttempts == 0 {
		rc.MaxAttempts = 3
	}
	if rc.InitialDelayMs == 0 {
		rc.InitialDelayMs = 1000
	}
	if rc.MaxDelayMs == 0 {
		rc.MaxDelayMs = 30000
	}
	if rc.Multiplier == 0 {
		rc.Multiplier = 2.0
	}
}

// Callback represents a completion-notification target for a job. Delivery is
// best-effort: a failed notification never touches the job record.
type Callback struct {
	URL         string            `json:"url"`
	Method      string            `json:"method"`
	Headers     map[string]string `json:"headers,omitempty"`
	RetryConfig RetryConfig       `json:"retry_config,omitempty"`
}

// Validate validates callback configuration and applies defaults
func (c *Callback) Validate() error {
	if c.URL == "" {
		return errors.New("callback URL is required")
	}

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid callback URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("callback URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return errors.New("callback URL must include a host")
	}

	if c.Method == "" {
		c.Method = "POST"
	}
	c.Method = strings.ToUpper(c.Method)

	c.RetryConfig.SetDefaults()

	return nil
}

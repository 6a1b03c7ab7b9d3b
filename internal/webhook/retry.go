package webhook

import (
	"math"
	"time"

	"studyhub/internal/model"
)

// RetryStrategy handles exponential backoff for callback delivery
type RetryStrategy struct {
	config model.RetryConfig
}

// NewRetryStrategy creates a retry strategy, filling in config defaults
func NewRetryStrategy(config model.RetryConfig) *RetryStrategy {
	config.SetDefaults()
	return &RetryStrategy{
		config: config,
	}
}

// CalculateDelay returns the backoff before the next attempt.
// Formula: delay = min(initial_delay * (multiplier ^ (attempt-1)), max_delay)
func (rs *RetryStrategy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delayMs := float64(rs.config.InitialDelayMs) * math.Pow(rs.config.Multiplier, float64(attempt-1))

	if delayMs > float64(rs.config.MaxDelayMs) {
		delayMs = float64(rs.config.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}

// ShouldRetry decides whether another attempt is worth making after a
// failed delivery. Client errors other than rate limiting are final;
// network errors and server errors are retried.
func (rs *RetryStrategy) ShouldRetry(attempt int, statusCode int, err error) bool {
	if attempt >= rs.config.MaxAttempts {
		return false
	}

	if err != nil {
		return true
	}

	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	if statusCode == 429 {
		return true
	}

	if statusCode >= 400 && statusCode < 500 {
		return false
	}

	if statusCode >= 300 {
		return true
	}

	return false
}

// GetMaxAttempts returns the maximum number of attempts
func (rs *RetryStrategy) GetMaxAttempts() int {
	return rs.config.MaxAttempts
}

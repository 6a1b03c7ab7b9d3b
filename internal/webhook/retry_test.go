package webhook

import (
	"errors"
	"testing"
	"time"

	"studyhub/internal/model"
)

func TestCalculateDelay(t *testing.T) {
	strategy := NewRetryStrategy(model.RetryConfig{
		MaxAttempts:    5,
		InitialDelayMs: 1000,
		MaxDelayMs:     5000,
		Multiplier:     2.0,
	})

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{name: "attempt zero has no delay", attempt: 0, want: 0},
		{name: "first attempt uses initial delay", attempt: 1, want: 1 * time.Second},
		{name: "second attempt doubles", attempt: 2, want: 2 * time.Second},
		{name: "third attempt doubles again", attempt: 3, want: 4 * time.Second},
		{name: "capped at max delay", attempt: 4, want: 5 * time.Second},
		{name: "stays capped", attempt: 10, want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strategy.CalculateDelay(tt.attempt); got != tt.want {
				t.Errorf("CalculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	strategy := NewRetryStrategy(model.RetryConfig{MaxAttempts: 3})

	tests := []struct {
		name       string
		attempt    int
		statusCode int
		err        error
		want       bool
	}{
		{name: "network error retries", attempt: 1, err: errors.New("connection refused"), want: true},
		{name: "server error retries", attempt: 1, statusCode: 503, want: true},
		{name: "rate limit retries", attempt: 1, statusCode: 429, want: true},
		{name: "client error does not retry", attempt: 1, statusCode: 404, want: false},
		{name: "redirect retries", attempt: 1, statusCode: 302, want: true},
		{name: "success does not retry", attempt: 1, statusCode: 200, want: false},
		{name: "exhausted attempts never retry", attempt: 3, statusCode: 503, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strategy.ShouldRetry(tt.attempt, tt.statusCode, tt.err); got != tt.want {
				t.Errorf("ShouldRetry(%d, %d, %v) = %v, want %v", tt.attempt, tt.statusCode, tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryConfigDefaults(t *testing.T) {
	strategy := NewRetryStrategy(model.RetryConfig{})

	if got := strategy.GetMaxAttempts(); got != 3 {
		t.Errorf("default max attempts = %d, want 3", got)
	}
	if got := strategy.CalculateDelay(1); got != 1*time.Second {
		t.Errorf("default initial delay = %v, want 1s", got)
	}
}

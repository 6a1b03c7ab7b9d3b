// Package webhook delivers completion callbacks for finished jobs.
// Delivery is best-effort with exponential backoff and a shared
// circuit breaker; a failing receiver never affects the job outcome,
// which is committed to the registry before delivery starts.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"studyhub/internal/model"
)

// Dispatcher delivers completion callbacks with retry logic
type Dispatcher struct {
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
}

// NewDispatcher creates a dispatcher with its own pooled HTTP client
func NewDispatcher(timeout time.Duration, breaker BreakerConfig) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: NewCircuitBreaker(breaker),
	}
}

// NotifyCompletion delivers the terminal state of a job to its
// callback. Failures are logged and dropped: the result is already
// committed and polling clients are unaffected.
func (d *Dispatcher) NotifyCompletion(ctx context.Context, callback model.Callback, job model.Job) {
	if err := d.Deliver(ctx, callback, job); err != nil {
		slog.Error("Completion callback delivery failed",
			"job_id", job.ID,
			"correlation_id", job.CorrelationID,
			"callback_url", callback.URL,
			"error", err.Error(),
		)
	}
}

// Deliver sends the completion payload, retrying per the callback's
// retry config until delivered or exhausted.
func (d *Dispatcher) Deliver(ctx context.Context, callback model.Callback, job model.Job) error {
	if !d.circuitBreaker.CanAttempt() {
		slog.Warn("Circuit breaker is open, skipping callback delivery",
			"job_id", job.ID,
			"callback_url", callback.URL,
			"circuit_state", d.circuitBreaker.State().String(),
		)
		return fmt.Errorf("circuit breaker is open")
	}

	payload := FormatCompletionPayload(job)
	retryStrategy := NewRetryStrategy(callback.RetryConfig)

	for attempt := 1; attempt <= retryStrategy.GetMaxAttempts(); attempt++ {
		slog.Info("Attempting callback delivery",
			"job_id", job.ID,
			"callback_url", callback.URL,
			"attempt", attempt,
			"max_attempts", retryStrategy.GetMaxAttempts(),
		)

		statusCode, err := d.deliverOnce(ctx, callback, payload)

		if err == nil && statusCode >= 200 && statusCode < 300 {
			slog.Info("Callback delivered successfully",
				"job_id", job.ID,
				"callback_url", callback.URL,
				"attempt", attempt,
				"status_code", statusCode,
			)
			d.circuitBreaker.RecordSuccess()
			return nil
		}

		if !retryStrategy.ShouldRetry(attempt, statusCode, err) {
			slog.Error("Callback delivery failed, no retry",
				"job_id", job.ID,
				"callback_url", callback.URL,
				"attempt", attempt,
				"status_code", statusCode,
			)
			d.circuitBreaker.RecordFailure()
			return fmt.Errorf("callback delivery failed after %d attempts", attempt)
		}

		if attempt < retryStrategy.GetMaxAttempts() {
			delay := retryStrategy.CalculateDelay(attempt)
			slog.Warn("Callback delivery failed, retrying",
				"job_id", job.ID,
				"callback_url", callback.URL,
				"attempt", attempt,
				"next_retry_ms", delay.Milliseconds(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	d.circuitBreaker.RecordFailure()
	return fmt.Errorf("callback delivery failed after %d attempts", retryStrategy.GetMaxAttempts())
}

// deliverOnce performs a single delivery attempt
func (d *Dispatcher) deliverOnce(ctx context.Context, callback model.Callback, payload CompletionPayload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, callback.Method, callback.URL, bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range callback.Headers {
		req.Header.Set(key, value)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain a little so the connection stays reusable
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// CircuitBreakerState exposes the breaker state for health reporting
func (d *Dispatcher) CircuitBreakerState() string {
	return d.circuitBreaker.State().String()
}

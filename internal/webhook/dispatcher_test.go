package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"studyhub/internal/model"
)

// fastRetry keeps test backoff in the microsecond range
var fastRetry = model.RetryConfig{
	MaxAttempts:    3,
	InitialDelayMs: 1,
	MaxDelayMs:     5,
	Multiplier:     2.0,
}

func doneJob() model.Job {
	return model.Job{
		ID:            "job-1",
		Status:        model.StatusDone,
		CorrelationID: "corr-1",
		Result: &model.Result{
			Summary:   "Plants turn light into food.",
			AudioPath: "generated/job-1.mp3",
		},
	}
}

func TestDeliverSuccess(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Token") != "secret" {
			t.Errorf("expected custom header, got %s", r.Header.Get("X-Token"))
		}

		var payload CompletionPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if payload.JobID != "job-1" {
			t.Errorf("payload job_id = %s, want job-1", payload.JobID)
		}
		if payload.Status != model.StatusDone {
			t.Errorf("payload status = %s, want done", payload.Status)
		}
		if payload.Summary != "Plants turn light into food." {
			t.Errorf("payload summary = %q", payload.Summary)
		}
		if payload.AudioURL != "/audio/job-1.mp3" {
			t.Errorf("payload audio_url = %q, want /audio/job-1.mp3", payload.AudioURL)
		}
		if payload.Metadata["correlation_id"] != "corr-1" {
			t.Errorf("payload correlation_id = %v", payload.Metadata["correlation_id"])
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, BreakerConfig{})
	callback := model.Callback{
		URL:         server.URL,
		Method:      http.MethodPost,
		Headers:     map[string]string{"X-Token": "secret"},
		RetryConfig: fastRetry,
	}

	if err := d.Deliver(context.Background(), callback, doneJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, BreakerConfig{})
	callback := model.Callback{URL: server.URL, Method: http.MethodPost, RetryConfig: fastRetry}

	if err := d.Deliver(context.Background(), callback, doneJob()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests = %d, want 2 (one failure, one retry)", got)
	}
}

func TestDeliverDoesNotRetryClientErrors(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, BreakerConfig{})
	callback := model.Callback{URL: server.URL, Method: http.MethodPost, RetryConfig: fastRetry}

	if err := d.Deliver(context.Background(), callback, doneJob()); err == nil {
		t.Fatal("expected error for 4xx response")
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (no retry on client error)", got)
	}
}

func TestDeliverExhaustsRetries(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, BreakerConfig{})
	callback := model.Callback{URL: server.URL, Method: http.MethodPost, RetryConfig: fastRetry}

	if err := d.Deliver(context.Background(), callback, doneJob()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := requests.Load(); got != int32(fastRetry.MaxAttempts) {
		t.Errorf("requests = %d, want %d", got, fastRetry.MaxAttempts)
	}
}

func TestDeliverShortCircuitsWhenBreakerOpen(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, BreakerConfig{FailureThreshold: 1, Timeout: time.Hour})
	callback := model.Callback{URL: server.URL, Method: http.MethodPost, RetryConfig: fastRetry}

	// First delivery fails and trips the breaker
	if err := d.Deliver(context.Background(), callback, doneJob()); err == nil {
		t.Fatal("expected first delivery to fail")
	}
	before := requests.Load()

	// Second delivery must not reach the receiver at all
	if err := d.Deliver(context.Background(), callback, doneJob()); err == nil {
		t.Fatal("expected breaker to reject delivery")
	}
	if got := requests.Load(); got != before {
		t.Errorf("requests = %d, want %d (breaker must short-circuit)", got, before)
	}
	if d.CircuitBreakerState() != "open" {
		t.Errorf("breaker state = %s, want open", d.CircuitBreakerState())
	}
}

func TestNotifyCompletionSwallowsFailures(t *testing.T) {
	d := NewDispatcher(time.Second, BreakerConfig{})
	callback := model.Callback{URL: "http://127.0.0.1:1", Method: http.MethodPost, RetryConfig: model.RetryConfig{MaxAttempts: 1, InitialDelayMs: 1}}

	// Must not panic or propagate anything
	d.NotifyCompletion(context.Background(), callback, doneJob())
}

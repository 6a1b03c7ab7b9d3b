package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		Model:   "gemini-2.5-flash",
		BaseURL: serverURL,
	}, nil)
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/v1beta/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("expected api key header, got: %s", r.Header.Get("x-goog-api-key"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("unexpected request shape: %+v", req)
		} else if req.Contents[0].Parts[0].Text != "Summarize this" {
			t.Errorf("unexpected prompt: %s", req.Contents[0].Parts[0].Text)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Water "},{"text":"cycles."}]}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got := client.Generate(context.Background(), "Summarize this")
	if got != "Water cycles." {
		t.Errorf("Generate() = %q, want %q", got, "Water cycles.")
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if got := client.Generate(context.Background(), "anything"); got != SentinelText {
		t.Errorf("Generate() = %q, want sentinel %q", got, SentinelText)
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if got := client.Generate(context.Background(), "anything"); got != SentinelText {
		t.Errorf("Generate() = %q, want sentinel %q", got, SentinelText)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if got := client.Generate(context.Background(), "anything"); got != SentinelText {
		t.Errorf("Generate() = %q, want sentinel %q", got, SentinelText)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL)
	if got := client.Generate(context.Background(), "anything"); got != SentinelText {
		t.Errorf("Generate() = %q, want sentinel %q", got, SentinelText)
	}
}

func TestGenerate_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"late"}]}}]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	if got := client.Generate(ctx, "anything"); got != SentinelText {
		t.Errorf("Generate() = %q, want sentinel %q", got, SentinelText)
	}
}

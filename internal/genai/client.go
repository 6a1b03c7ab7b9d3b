package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// SentinelText is handed back whenever a generation call fails for any
// reason. Downstream stages treat it as ordinary content; the failure
// is only visible in the logs.
const SentinelText = "Error generating content"

// Response bodies larger than this are truncated (limit to 4MB)
const maxResponseSize = 4 * 1024 * 1024

// Generator produces text for a prompt. Implementations never return
// an error: an unusable upstream answer comes back as SentinelText.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// Config holds connection settings for the Gemini REST API
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client calls the Gemini generateContent endpoint
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Gemini client
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// generateContent request/response wire format
type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate runs one generation call. Every failure mode collapses to
// SentinelText so callers never branch on generation errors.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		slog.Error("Generation call failed",
			"model", c.model,
			"error", err.Error(),
		)
		return SentinelText
	}
	return text
}

// generate performs the HTTP call and keeps the error typed, so future
// callers can distinguish failure modes without changing the transport.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []contentPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	slog.Debug("Calling generation API",
		"model", c.model,
		"prompt_length", len(prompt),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(body))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("response contained no candidates")
	}

	var sb strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	slog.Debug("Generation call completed",
		"model", c.model,
		"response_length", sb.Len(),
	)

	return sb.String(), nil
}

// snippet shortens an error body for log and error messages
func snippet(body []byte) string {
	const max = 256
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}

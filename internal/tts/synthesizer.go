// Package tts turns text into MP3 narration using the Google Translate
// speech endpoint. The endpoint caps input length per request, so long
// text is split into chunks and the returned MP3 segments are
// concatenated in order.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultBaseURL  = "https://translate.google.com"
	defaultLanguage = "en"

	// AudioExtension is the suffix of every synthesized file
	AudioExtension = ".mp3"

	// The translate_tts endpoint rejects requests above ~200 characters
	maxChunkChars = 200

	// Per-chunk response cap (limit to 5MB)
	maxChunkResponseSize = 5 * 1024 * 1024
)

// The endpoint refuses requests without a browser user agent
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Synthesizer converts text to speech and stores the audio on local
// disk. Failures propagate: there is no fallback for narration.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, fileStem string) (string, error)
}

// Config holds connection settings for the speech endpoint
type Config struct {
	BaseURL   string
	Language  string
	OutputDir string
}

// Google fetches speech audio from the Google Translate TTS endpoint
type Google struct {
	baseURL    string
	language   string
	outputDir  string
	httpClient *http.Client
}

// NewGoogle creates a new synthesizer writing files into cfg.OutputDir
func NewGoogle(cfg Config, httpClient *http.Client) *Google {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Google{
		baseURL:    baseURL,
		language:   language,
		outputDir:  cfg.OutputDir,
		httpClient: httpClient,
	}
}

// Synthesize fetches narration for text and writes it to
// {outputDir}/{fileStem}.mp3, returning the written path.
func (g *Google) Synthesize(ctx context.Context, text, fileStem string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("no text to synthesize")
	}

	chunks := splitChunks(trimmed, maxChunkChars)

	var audio bytes.Buffer
	for idx, chunk := range chunks {
		segment, err := g.fetchChunk(ctx, chunk, idx, len(chunks))
		if err != nil {
			return "", fmt.Errorf("failed to synthesize chunk %d of %d: %w", idx+1, len(chunks), err)
		}
		audio.Write(segment)
	}

	path := filepath.Join(g.outputDir, fileStem+AudioExtension)
	if err := os.WriteFile(path, audio.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	slog.Info("Narration audio written",
		"path", path,
		"bytes", audio.Len(),
		"chunks", len(chunks),
	)

	return path, nil
}

// fetchChunk requests one MP3 segment from the speech endpoint
func (g *Google) fetchChunk(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", chunk)
	params.Set("tl", g.language)
	params.Set("client", "tw-ob")
	params.Set("total", strconv.Itoa(total))
	params.Set("idx", strconv.Itoa(idx))
	params.Set("textlen", strconv.Itoa(len([]rune(chunk))))

	endpoint := g.baseURL + "/translate_tts?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	segment, err := io.ReadAll(io.LimitReader(resp.Body, maxChunkResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(segment) == 0 {
		return nil, fmt.Errorf("empty audio response")
	}
	return segment, nil
}

// splitChunks packs whole words into chunks of at most limit runes.
// A single word longer than the limit is hard-split.
func splitChunks(text string, limit int) []string {
	var chunks []string
	var current []rune

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			if len(current) > 0 {
				chunks = append(chunks, string(current))
				current = current[:0]
			}
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		switch {
		case len(current) == 0:
			current = append(current, runes...)
		case len(current)+1+len(runes) <= limit:
			current = append(current, ' ')
			current = append(current, runes...)
		default:
			chunks = append(chunks, string(current))
			current = current[:0]
			current = append(current, runes...)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}

// Package summarize produces short summaries of extracted text via an
// OpenAI-compatible chat completions endpoint.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Summarizer turns input text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config controls the chat completions client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxInputChars   int
	MaxOutputTokens int
	Timeout         time.Duration
}

type openAISummarizer struct {
	cfg  Config
	http *http.Client
}

// New builds a Summarizer backed by an OpenAI-compatible API. BaseURL is
// overridable so tests can point at a local server.
func New(cfg Config) Summarizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxInputChars == 0 {
		cfg.MaxInputChars = 8000
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 160
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &openAISummarizer{cfg: cfg, http: &http.Client{}}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You summarize saved posts and articles. " +
	"Reply with a plain-text summary of at most three sentences. No preamble."

func (s *openAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if len(text) > s.cfg.MaxInputChars {
		text = text[:s.cfg.MaxInputChars]
	}
	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens: s.cfg.MaxOutputTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call summarization api: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return "", fmt.Errorf("summarization api status %d: %s", resp.StatusCode, excerpt)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("summarization api returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

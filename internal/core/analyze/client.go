// Package analyze calls an OpenAI-compatible chat completion service to turn
// raw source content into lending-oriented assessments. The engine treats
// every return value as opaque text.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
)

const (
	defaultTimeout = 60 * time.Second
	maxTimeout     = 5 * time.Minute
)

// Client talks to a chat completions endpoint.
type Client struct {
	endpoint        string
	model           string
	apiKey          string
	temperature     float64
	maxContentChars int
	httpClient      *http.Client
}

// NewClient builds an analyzer client from configuration.
func NewClient(cfg config.AnalyzerConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if timeout > maxTimeout {
		timeout = maxTimeout
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &Client{
		endpoint:        cfg.Endpoint,
		model:           cfg.Model,
		apiKey:          cfg.APIKey,
		temperature:     cfg.Temperature,
		maxContentChars: maxChars,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete posts one user prompt and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("analyze client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("analyze client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completion %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("chat completion: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat completion: empty content")
	}
	return content, nil
}

// AnalyzeContent runs the per-source analysis prompt over raw content.
func (c *Client) AnalyzeContent(ctx context.Context, kind core.SourceKind, subject core.Subject, content string) (string, error) {
	prompt := AnalysisPrompt(kind, c.clip(content))
	return c.Complete(ctx, prompt)
}

// SummarizeReport produces the per-subject lending assessment from the full
// outcome set, failed probes included.
func (c *Client) SummarizeReport(ctx context.Context, report *core.SubjectReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report is required")
	}
	outcomesJSON, err := json.MarshalIndent(report.Outcomes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report context: %w", err)
	}
	prompt := SummaryPrompt(report.Subject.Name, string(outcomesJSON))
	return c.Complete(ctx, prompt)
}

// Research runs one deep-research prompt for a subject.
func (c *Client) Research(ctx context.Context, subject core.Subject, kind core.ResearchKind) (string, error) {
	prompt, err := ResearchPrompt(kind, subject)
	if err != nil {
		return "", err
	}
	return c.Complete(ctx, prompt)
}

func (c *Client) clip(content string) string {
	if len(content) <= c.maxContentChars {
		return content
	}
	// Back off to a rune boundary so the prompt stays valid UTF-8.
	limit := c.maxContentChars
	for limit > 0 && !utf8.RuneStart(content[limit]) {
		limit--
	}
	return content[:limit]
}

package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core"
)

func newTestServer(t *testing.T, handler func(req chatRequest) chatResponse) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(handler(req))
	}))
	t.Cleanup(server.Close)

	client := NewClient(config.AnalyzerConfig{
		Endpoint:        server.URL,
		Model:           "test-model",
		APIKey:          "test-key",
		Timeout:         5 * time.Second,
		Temperature:     0.1,
		MaxContentChars: 40,
	})
	return server, client
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	_, client := newTestServer(t, func(req chatRequest) chatResponse {
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		return chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: "  looks healthy  "}}}}
	})

	out, err := client.Complete(context.Background(), "assess this")
	require.NoError(t, err)
	require.Equal(t, "looks healthy", out)
}

func TestCompleteMisconfigured(t *testing.T) {
	client := NewClient(config.AnalyzerConfig{})
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "misconfigured")
}

func TestAnalyzeContentClipsLongContent(t *testing.T) {
	var gotPrompt string
	_, client := newTestServer(t, func(req chatRequest) chatResponse {
		gotPrompt = req.Messages[0].Content
		return chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Content: "ok"}}}}
	})

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	_, err := client.AnalyzeContent(context.Background(), core.SourceKindNews, core.Subject{Name: "Acme"}, string(long))
	require.NoError(t, err)
	// The 200-char payload must have been clipped to MaxContentChars.
	require.Contains(t, gotPrompt, "xxxxxxxxxx")
	require.Less(t, len(gotPrompt), 200+len(analysisPrompts[core.SourceKindNews]))
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	client := NewClient(config.AnalyzerConfig{MaxContentChars: 5})

	// The byte limit falls in the middle of the two-byte rune.
	got := client.clip("abcdé")
	require.Equal(t, "abcd", got)
	require.True(t, utf8.ValidString(got))
}

func TestSummarizeReportIncludesOutcomes(t *testing.T) {
	var gotPrompt string
	_, client := newTestServer(t, func(req chatRequest) chatResponse {
		gotPrompt = req.Messages[0].Content
		return chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Content: "summary"}}}}
	})

	report := &core.SubjectReport{
		Subject: core.Subject{Name: "Acme Inc"},
		Outcomes: map[core.SourceKind]core.ProbeOutcome{
			core.SourceKindNews:    {Kind: core.SourceKindNews, Analysis: "positive coverage"},
			core.SourceKindReviews: {Kind: core.SourceKindReviews, Err: "blocked"},
		},
	}
	out, err := client.SummarizeReport(context.Background(), report)
	require.NoError(t, err)
	require.Equal(t, "summary", out)
	require.Contains(t, gotPrompt, "Acme Inc")
	require.Contains(t, gotPrompt, "positive coverage")
	// Failed probes stay in the summarization context.
	require.Contains(t, gotPrompt, "blocked")
}

func TestResearchPromptPlaceholders(t *testing.T) {
	prompt, err := ResearchPrompt(core.ResearchKindFinancial, core.Subject{Name: "Acme Inc"})
	require.NoError(t, err)
	require.Contains(t, prompt, "Acme Inc")
	require.NotContains(t, prompt, "[Company Name]")

	prompt, err = ResearchPrompt(core.ResearchKindIndustry, core.Subject{Name: "Acme Inc", Industry: "automotive"})
	require.NoError(t, err)
	require.Contains(t, prompt, "automotive")
	require.NotContains(t, prompt, "[Industry Name]")

	// Industry falls back to "general" when the subject carries none.
	prompt, err = ResearchPrompt(core.ResearchKindIndustry, core.Subject{Name: "Acme Inc"})
	require.NoError(t, err)
	require.Contains(t, prompt, "general")

	_, err = ResearchPrompt(core.ResearchKind("bogus"), core.Subject{Name: "Acme Inc"})
	require.Error(t, err)
}

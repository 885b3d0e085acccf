package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lendlens/lendlens/internal/config"
)

func newTestClient(baseURL string, localExtract bool) *Client {
	return NewClient(config.CrawlerConfig{
		BaseURL:      baseURL,
		Timeout:      5 * time.Second,
		LocalExtract: localExtract,
	})
}

func TestFetchReturnsContent(t *testing.T) {
	var gotReq crawlRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/crawl", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(crawlResponse{Content: "Acme builds widgets."})
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	content, err := client.Fetch(context.Background(), "https://acme.example", DefaultRules())
	require.NoError(t, err)
	require.Equal(t, "Acme builds widgets.", content)
	require.Equal(t, "https://acme.example", gotReq.URL)
	require.Equal(t, "text", gotReq.ExtractionRules.Extract)
}

func TestFetchServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream blocked", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	_, err := client.Fetch(context.Background(), "https://acme.example", DefaultRules())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
}

func TestFetchEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(crawlResponse{Content: "   "})
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	_, err := client.Fetch(context.Background(), "https://acme.example", DefaultRules())
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty content")
}

func TestFetchLocalExtraction(t *testing.T) {
	page := `<html><head><script>var x=1;</script></head><body>
		<nav><span>Menu</span></nav>
		<p>Acme reported record revenue.</p>
		<p>Customers remain satisfied.</p>
		<footer><p>Copyright</p></footer>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(crawlResponse{Content: page})
	}))
	defer server.Close()

	client := newTestClient(server.URL, true)
	content, err := client.Fetch(context.Background(), "https://acme.example", DefaultRules())
	require.NoError(t, err)
	require.Contains(t, content, "Acme reported record revenue.")
	require.Contains(t, content, "Customers remain satisfied.")
	require.NotContains(t, content, "var x=1")
	require.NotContains(t, content, "Copyright")
}

func TestFetchRequiresURL(t *testing.T) {
	client := newTestClient("http://localhost:0", false)
	_, err := client.Fetch(context.Background(), "  ", DefaultRules())
	require.Error(t, err)
}

func TestExtractTextDeduplicates(t *testing.T) {
	html := `<div><p>Same line</p><p>Same line</p><p>Other line</p></div>`
	text, err := ExtractText(html, DefaultRules())
	require.NoError(t, err)
	require.Equal(t, "Same line\nOther line", text)
}

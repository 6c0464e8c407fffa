package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pebblepost.com", "https://pebblepost.com"},
		{"https://lob.com", "https://lob.com"},
		{"http://legacy.example.com", "http://legacy.example.com"},
		{"  postpilot.com ", "https://postpilot.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TargetURL(tt.input))
	}
}

func TestClientExtract_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/extract", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://lob.com", req["url"])

		_ = json.NewEncoder(w).Encode(Page{URL: "https://lob.com", Content: "Print and mail API"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.Extract(context.Background(), "lob.com")
	require.NoError(t, err)
	assert.Equal(t, "https://lob.com", page.URL)
	assert.Equal(t, "Print and mail API", page.Content)
}

func TestClientExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Extract(context.Background(), "lob.com")
	require.Error(t, err)

	var extractErr *ExtractError
	assert.ErrorAs(t, err, &extractErr)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestClientExtract_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Page{URL: "https://lob.com", Content: "   "})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Extract(context.Background(), "lob.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty content")
}

func TestClientExtract_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", MaxContentLength+500)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Page{Content: long})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.Extract(context.Background(), "lob.com")
	require.NoError(t, err)
	assert.Len(t, page.Content, MaxContentLength)
}

func TestTruncate_NeverSplitsRune(t *testing.T) {
	// Fill the cap with 3-byte runes so the limit lands mid-rune.
	long := strings.Repeat("日", MaxContentLength/3+10)

	truncated := Truncate(long)
	assert.LessOrEqual(t, len(truncated), MaxContentLength)
	assert.True(t, utf8.ValidString(truncated), "truncation must not leave a partial rune")

	short := "ünïcode"
	assert.Equal(t, short, Truncate(short))
}

func TestClientHealth_AliveOnAnyStatus(t *testing.T) {
	// Even a 404 means the process is up and answering.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	assert.NoError(t, client.Health(context.Background()))
}

func TestClientHealth_DeadOnConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // Shut down before probing

	client := NewClient(server.URL)
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestLocalExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><main><h1>Postcards at scale</h1><p>Automated direct mail.</p></main><script>junk()</script></body></html>`))
	}))
	defer server.Close()

	local := NewLocal(false, false)
	page, err := local.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Content, "Postcards at scale")
	assert.NotContains(t, page.Content, "junk")
}

func TestLocalExtract_FetchFailure(t *testing.T) {
	local := NewLocal(false, false)
	_, err := local.Extract(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)

	var extractErr *ExtractError
	assert.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "http://127.0.0.1:1/unreachable", extractErr.Target)
}

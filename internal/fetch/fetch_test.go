package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Pricing</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Pricing</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractPageText_StripsJunk(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<script>var x = 1;</script>
			<style>.a { color: red }</style>
			<main>
				<h1>Direct Mail Retargeting</h1>
				<p>We turn site visitors into customers.</p>
			</main>
			<iframe src="x"></iframe>
			<footer>Footer links</footer>
		</body>
	</html>`

	text, err := ExtractPageText(html, MarketingPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Direct Mail Retargeting")
	assert.Contains(t, text, "site visitors into customers")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "var x")
}

func TestExtractPageText_FallsBackToBody(t *testing.T) {
	html := `<html><body><div>Just a plain page</div></body></html>`

	text, err := ExtractPageText(html, MarketingPageSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Just a plain page", text)
}

func TestExtractPageText_CleansWhitespace(t *testing.T) {
	html := `<html><body><main>
		First  fragment  second fragment

		Next line
	</main></body></html>`

	text, err := ExtractPageText(html, MarketingPageSelectors())
	require.NoError(t, err)
	assert.NotContains(t, text, "  ")
	assert.Contains(t, text, "First")
	assert.Contains(t, text, "Next line")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("short stub"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long content ", 100)))
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/headline-sentiment/internal/headlines"
)

func feed(t *testing.T, n int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>`)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, `<item><title>Markets gain on day %d - Desk</title></item>`, i)
		}
		b.WriteString(`</channel></rss>`)
		_, _ = w.Write([]byte(b.String()))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func testEnv(t *testing.T, feedURL string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HEADLINES_FEED_BASE_URL", feedURL)
	t.Setenv("HEADLINES_SENTIMENT_BACKEND", "lexicon")
	t.Setenv("HEADLINES_METRICS_ENABLED", "false")
	t.Setenv("HEADLINES_LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow_Table(t *testing.T) {
	testEnv(t, feed(t, 3))

	out, err := run(t, "show", "--country", "India", "--page-size", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "India, page 1 (3 headlines in feed)")
	assert.Contains(t, out, "Markets gain on day 1 - Desk")
	assert.Contains(t, out, "Markets gain on day 2 - Desk")
	assert.NotContains(t, out, "day 3")
	assert.Contains(t, out, "More available: --page 2")
}

func TestShow_JSONFallsBackToDefault(t *testing.T) {
	testEnv(t, feed(t, 1))

	out, err := run(t, "show", "--country", "Atlantis", "--json")
	require.NoError(t, err)

	var res headlines.PageResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "United States", res.Country)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Headlines, 1)
	assert.Equal(t, 1, res.Headlines[0].Index)
}

func TestShow_EmptyFeed(t *testing.T) {
	testEnv(t, "http://127.0.0.1:1/rss")

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No headlines available.")
}

func TestCountries(t *testing.T) {
	testEnv(t, "http://127.0.0.1:1/rss")

	out, err := run(t, "countries")
	require.NoError(t, err)
	for _, name := range []string{"United States", "Japan", "Brazil"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "CN:zh-Hans")
}

func TestInvalidConfig(t *testing.T) {
	testEnv(t, "http://127.0.0.1:1/rss")
	t.Setenv("HEADLINES_SENTIMENT_BACKEND", "vader")

	_, err := run(t, "countries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssFixture(title string, items int, shortItems int) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>` + title + `</title>`)
	for i := 0; i < items; i++ {
		content := strings.Repeat("real article text with substance ", 10)
		if i < shortItems {
			content = "too short"
		}
		fmt.Fprintf(&sb, `<item><title>Item %d</title><link>https://example.com/%d</link><description><![CDATA[<p>%s</p>]]></description><pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate></item>`, i, i, content)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feeds:\n  - https://a.example/rss\n  - https://b.example/rss\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.Feeds)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello world", StripHTML("<p>hello <b>world</b></p>"))
	assert.Equal(t, "plain", StripHTML("plain"))
}

func TestFetchAll_FiltersAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 14 items, first 2 below the length floor
		_, _ = w.Write([]byte(rssFixture("Example Feed", 14, 2)))
	}))
	defer srv.Close()

	fetcher := NewFetcher()
	articles := fetcher.FetchAll(context.Background(), []string{srv.URL}, DefaultBatchSize)

	require.Len(t, articles, MaxArticlesPerFeed)
	for _, article := range articles {
		assert.GreaterOrEqual(t, len(article.Content), MinArticleLength)
		assert.Equal(t, "Example Feed", article.Source)
		assert.NotContains(t, article.Content, "<p>")
	}
	assert.Equal(t, 2025, articles[0].Published.Year())
}

func TestFetchAll_BadFeedIsSkipped(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssFixture("Good Feed", 3, 0)))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	fetcher := NewFetcher()
	articles := fetcher.FetchAll(context.Background(), []string{bad.URL, good.URL}, DefaultBatchSize)

	require.Len(t, articles, 3)
	assert.Equal(t, "Good Feed", articles[0].Source)
}

func TestParseTopicSuggestion(t *testing.T) {
	response := `TOPIC: The State of WebAssembly on the Server
RATIONALE: Three of the articles cover new WASI releases.
KEYWORDS: webassembly, wasi, serverless`

	got := parseTopicSuggestion(response)
	assert.Equal(t, "The State of WebAssembly on the Server", got.Topic)
	assert.Equal(t, "Three of the articles cover new WASI releases.", got.Rationale)
	assert.Equal(t, []string{"webassembly", "wasi", "serverless"}, got.Keywords)
}

func TestParseTopicSuggestion_UnstructuredFallback(t *testing.T) {
	got := parseTopicSuggestion("  a free-form topic idea  ")
	assert.Equal(t, "a free-form topic idea", got.Topic)
	assert.Empty(t, got.Keywords)
}

func TestFormatArticles_CapsCountAndExcerpt(t *testing.T) {
	var articles []Article
	for i := 0; i < 25; i++ {
		articles = append(articles, Article{
			Title:   fmt.Sprintf("A%d", i),
			Content: strings.Repeat("x", 900),
			Source:  "S",
		})
	}

	formatted := formatArticles(articles)
	assert.Contains(t, formatted, "Article 20:")
	assert.NotContains(t, formatted, "Article 21:")
	assert.Contains(t, formatted, strings.Repeat("x", 500)+"...")
}

func TestSynthesizeTopic_NoArticles(t *testing.T) {
	got := SynthesizeTopic(context.Background(), nil, nil, "")
	assert.Equal(t, fallbackTopicTitle, got.Topic)
}

// Package feeds fetches RSS/Atom articles, feeds them into the knowledge
// base, and turns recent coverage into blog topic suggestions.
package feeds

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Fetch limits.
const (
	DefaultBatchSize   = 5
	MaxArticlesPerFeed = 10
	MinArticleLength   = 100
	batchPause         = 500 * time.Millisecond
	feedRequestTimeout = 30 * time.Second
)

// Config is the feeds.yaml file: a flat list of feed URLs.
type Config struct {
	Feeds []string `yaml:"feeds"`
}

// LoadConfig reads a feeds.yaml file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read feeds config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse feeds config: %w", err)
	}
	return cfg, nil
}

// Article is one cleaned RSS entry.
type Article struct {
	Title     string
	Content   string
	URL       string
	Source    string
	Published time.Time
}

// Fetcher downloads and cleans feed articles.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher creates a feed fetcher.
func NewFetcher() *Fetcher {
	parser := gofeed.NewParser()
	return &Fetcher{parser: parser}
}

// FetchAll fetches every feed in batches of batchSize concurrent
// requests, pausing briefly between batches. A failing feed is skipped
// with a warning; the rest still contribute articles.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, batchSize int) []Article {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var all []Article
	for start := 0; start < len(urls); start += batchSize {
		end := min(start+batchSize, len(urls))
		batch := urls[start:end]

		results := make([][]Article, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, url := range batch {
			g.Go(func() error {
				articles, err := f.fetchFeed(gctx, strings.TrimSpace(url))
				if err != nil {
					fmt.Printf("Warning: failed to fetch feed %s: %v\n", url, err)
					return nil
				}
				results[i] = articles
				return nil
			})
		}
		_ = g.Wait()

		for _, articles := range results {
			all = append(all, articles...)
		}

		if end < len(urls) {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(batchPause):
			}
		}
	}
	return all
}

// fetchFeed fetches one feed and keeps up to MaxArticlesPerFeed entries
// with enough textual content to be worth indexing.
func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) ([]Article, error) {
	reqCtx, cancel := context.WithTimeout(ctx, feedRequestTimeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, reqCtx)
	if err != nil {
		return nil, err
	}

	source := feed.Title
	if source == "" {
		source = feedURL
	}

	var articles []Article
	for _, item := range feed.Items {
		if len(articles) >= MaxArticlesPerFeed {
			break
		}

		content := ExtractContent(item)
		if len(content) < MinArticleLength {
			continue
		}

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		articles = append(articles, Article{
			Title:     itemTitle(item),
			Content:   content,
			URL:       item.Link,
			Source:    source,
			Published: published,
		})
	}
	return articles, nil
}

func itemTitle(item *gofeed.Item) string {
	if item.Title == "" {
		return "No Title"
	}
	return item.Title
}

// ExtractContent picks the richest text field of an entry and strips its
// HTML markup.
func ExtractContent(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}
	return StripHTML(raw)
}

// StripHTML reduces an HTML fragment to its text content.
func StripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

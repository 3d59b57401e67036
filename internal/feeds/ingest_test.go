package feeds

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/blog-agent/internal/store"
	"github.com/jonathan/blog-agent/internal/types"
)

type captureStore struct {
	records []store.ChunkRecord
}

func (c *captureStore) AddDocuments(_ context.Context, records []store.ChunkRecord) error {
	c.records = append(c.records, records...)
	return nil
}

func (c *captureStore) SimilaritySearch(context.Context, []float32, int) ([]types.Document, error) {
	return nil, nil
}

func (c *captureStore) DeleteBySource(context.Context, string) error { return nil }

func (c *captureStore) Stats(context.Context) (store.Stats, error) { return store.Stats{}, nil }

type countEmbedder struct{}

func (countEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, store.EmbeddingDim)
	}
	return vectors, nil
}

func TestIngestArticles(t *testing.T) {
	articles := []Article{
		{
			Title:     "Big Release",
			Content:   strings.Repeat("release notes with details. ", 30),
			URL:       "https://example.com/release",
			Source:    "Example Blog",
			Published: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		},
	}

	cs := &captureStore{}
	n, err := IngestArticles(context.Background(), cs, countEmbedder{}, articles)
	require.NoError(t, err)
	require.NotZero(t, n)
	require.Len(t, cs.records, n)

	meta := cs.records[0].Metadata
	assert.Equal(t, "rss_0_Example_Blog", meta[types.MetaSourceFile])
	assert.Equal(t, "Big Release", meta[types.MetaTitle])
	assert.Equal(t, "rss_feed", meta["source_type"])
	assert.Contains(t, meta[types.MetaTags], "rss")
	assert.Equal(t, "https://example.com/release", meta["url"])
}

func TestIngestArticles_EmptyContent(t *testing.T) {
	cs := &captureStore{}
	n, err := IngestArticles(context.Background(), cs, countEmbedder{}, []Article{{Title: "Thin", Content: "short"}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, cs.records)
}

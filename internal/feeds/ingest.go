package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/blog-agent/internal/ingest"
	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/store"
	"github.com/jonathan/blog-agent/internal/types"
)

// IngestArticles chunks and embeds fetched articles into the store so
// retrieval can draw on recent coverage alongside existing posts. It
// returns the number of chunks stored.
func IngestArticles(ctx context.Context, docStore ingest.DocumentStore, embedder llm.Embedder, articles []Article) (int, error) {
	var (
		chunks []string
		metas  []map[string]string
	)

	for i, article := range articles {
		source := fmt.Sprintf("rss_%d_%s", i, strings.ReplaceAll(article.Source, " ", "_"))
		tags := fmt.Sprintf("rss, %s, news", strings.ToLower(strings.ReplaceAll(article.Source, " ", "")))

		for j, chunk := range ingest.Chunk(article.Content, ingest.DefaultChunkSize, ingest.DefaultChunkOverlap) {
			chunks = append(chunks, chunk)
			metas = append(metas, map[string]string{
				types.MetaSourceFile: source,
				types.MetaTitle:      article.Title,
				types.MetaDate:       article.Published.Format("2006-01-02 15:04:05"),
				types.MetaTags:       tags,
				types.MetaChunkIndex: fmt.Sprintf("%d", j),
				"source_type":        "rss_feed",
				"url":                article.URL,
			})
		}
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed articles: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]store.ChunkRecord, len(chunks))
	for i := range chunks {
		records[i] = store.ChunkRecord{
			Content:   chunks[i],
			Metadata:  metas[i],
			Embedding: embeddings[i],
		}
	}
	if err := docStore.AddDocuments(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store article chunks: %w", err)
	}
	return len(records), nil
}

// Package ingest moves markdown posts into the vector store: scanning,
// chunking, embedding, and incremental re-indexing via the manifest.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/store"
	"github.com/jonathan/blog-agent/internal/types"
)

// DocumentStore is the slice of the vector store the pipeline needs.
type DocumentStore interface {
	AddDocuments(ctx context.Context, records []store.ChunkRecord) error
	SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]types.Document, error)
	DeleteBySource(ctx context.Context, sourceFile string) error
	Stats(ctx context.Context) (store.Stats, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Scanned  int
	Ingested int
	Skipped  int
	Chunks   int
}

// Pipeline indexes posts and serves similarity queries. It implements
// both the retrieval index and the post-ingestion indexer.
type Pipeline struct {
	store        DocumentStore
	embedder     llm.Embedder
	manifestPath string
}

// NewPipeline creates an ingestion pipeline. manifestPath may be empty to
// disable incremental tracking.
func NewPipeline(docStore DocumentStore, embedder llm.Embedder, manifestPath string) *Pipeline {
	return &Pipeline{store: docStore, embedder: embedder, manifestPath: manifestPath}
}

// IngestDir indexes every new or modified post under dir. With force set,
// the manifest is ignored and everything is re-indexed.
func (p *Pipeline) IngestDir(ctx context.Context, dir string, force bool) (Report, error) {
	paths, err := markdown.ScanPosts(dir)
	if err != nil {
		return Report{}, err
	}

	var posts []*markdown.Post
	for _, path := range paths {
		post, err := markdown.ParsePost(path)
		if err != nil {
			fmt.Printf("Warning: skipping unparseable post %s: %v\n", path, err)
			continue
		}
		posts = append(posts, post)
	}

	report := Report{Scanned: len(posts)}

	targets := posts
	if !force && p.manifestPath != "" {
		manifest := markdown.ReadManifest(p.manifestPath)
		targets = markdown.ChangedPosts(manifest, posts)
	}
	report.Skipped = len(posts) - len(targets)

	for _, post := range targets {
		chunks, err := p.ingestPost(ctx, post)
		if err != nil {
			return report, fmt.Errorf("failed to ingest %s: %w", post.Path, err)
		}
		report.Ingested++
		report.Chunks += chunks
	}

	if p.manifestPath != "" {
		if err := markdown.WriteManifest(p.manifestPath, markdown.NewManifest(posts)); err != nil {
			return report, err
		}
	}
	return report, nil
}

// IndexPost indexes a single post file and records it in the manifest.
// It satisfies the ingestor agent's Indexer.
func (p *Pipeline) IndexPost(ctx context.Context, path string) error {
	post, err := markdown.ParsePost(path)
	if err != nil {
		return err
	}
	if _, err := p.ingestPost(ctx, post); err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}

	if p.manifestPath != "" {
		manifest := markdown.ReadManifest(p.manifestPath)
		manifest.Posts[post.Path] = markdown.NewManifest([]*markdown.Post{post}).Posts[post.Path]
		manifest.TotalPosts = len(manifest.Posts)
		if err := markdown.WriteManifest(p.manifestPath, manifest); err != nil {
			return err
		}
	}
	return nil
}

// ingestPost replaces a post's chunks in the store and returns how many
// chunks it produced.
func (p *Pipeline) ingestPost(ctx context.Context, post *markdown.Post) (int, error) {
	chunks := Chunk(post.Content, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := p.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	if err := p.store.DeleteBySource(ctx, post.Path); err != nil {
		return 0, err
	}

	records := make([]store.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = store.ChunkRecord{
			Content:   chunk,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				types.MetaSourceFile: post.Path,
				types.MetaTitle:      post.Frontmatter.Title,
				types.MetaDate:       post.Frontmatter.Date,
				types.MetaCategories: strings.Join(post.Frontmatter.Categories, ","),
				types.MetaTags:       strings.Join(post.Frontmatter.Tags, ","),
				types.MetaChunkIndex: strconv.Itoa(i),
			},
		}
	}
	if err := p.store.AddDocuments(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Search embeds the query and runs a similarity search. It satisfies the
// retrieval index.
func (p *Pipeline) Search(ctx context.Context, query string, k int) ([]types.Document, error) {
	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	return p.store.SimilaritySearch(ctx, vectors[0], k)
}

// Stats reports store contents.
func (p *Pipeline) Stats(ctx context.Context) (store.Stats, error) {
	return p.store.Stats(ctx)
}

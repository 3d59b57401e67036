// Package store provides PostgreSQL vector storage for blog post chunks.
// Embeddings live in a pgvector column and similarity search runs in the
// database with cosine distance.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/blog-agent/internal/types"
)

// EmbeddingDim is the dimensionality of stored vectors. It matches the
// nomic-embed-text model used by the default embedding configuration.
const EmbeddingDim = 768

// ChunkRecord is one embedded chunk ready for insertion.
type ChunkRecord struct {
	ID        uuid.UUID
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// Stats summarizes the contents of the store.
type Stats struct {
	Chunks  int
	Sources int
}

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the vector extension and the documents table if they
// do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, EmbeddingDim),
		`CREATE INDEX IF NOT EXISTS documents_source_idx
			ON documents ((metadata->>'source_file'))`,
		`CREATE INDEX IF NOT EXISTS documents_embedding_idx
			ON documents USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// AddDocuments inserts chunk records in a single batch. Records without an
// ID get one assigned.
func (s *Store) AddDocuments(ctx context.Context, records []ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		if len(rec.Embedding) != EmbeddingDim {
			return fmt.Errorf("embedding has %d dimensions, want %d", len(rec.Embedding), EmbeddingDim)
		}
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		batch.Queue(
			`INSERT INTO documents (id, content, metadata, embedding)
			 VALUES ($1, $2, $3, $4::vector)
			 ON CONFLICT (id) DO UPDATE SET content = $2, metadata = $3, embedding = $4::vector`,
			id, rec.Content, meta, vectorLiteral(rec.Embedding),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}
	return nil
}

// SimilaritySearch returns the k chunks nearest to the query embedding by
// cosine distance. Distance is converted to a similarity in (0, 1] via
// 1 / (1 + distance).
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]types.Document, error) {
	if len(embedding) != EmbeddingDim {
		return nil, fmt.Errorf("query embedding has %d dimensions, want %d", len(embedding), EmbeddingDim)
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT content, metadata, embedding <=> $1::vector AS distance
		 FROM documents
		 ORDER BY distance
		 LIMIT $2`,
		vectorLiteral(embedding), k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var (
			content  string
			meta     []byte
			distance float64
		)
		if err := rows.Scan(&content, &meta, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		metadata := map[string]string{}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
			}
		}

		docs = append(docs, types.Document{
			Content:    content,
			Metadata:   metadata,
			Similarity: 1 / (1 + distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	return docs, nil
}

// DeleteBySource removes all chunks that came from the given source file.
func (s *Store) DeleteBySource(ctx context.Context, sourceFile string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE metadata->>'source_file' = $1`,
		sourceFile,
	)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", sourceFile, err)
	}
	return nil
}

// Stats reports chunk and distinct source counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT metadata->>'source_file') FROM documents`,
	).Scan(&stats.Chunks, &stats.Sources)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read store stats: %w", err)
	}
	return stats, nil
}

// Reset removes every chunk from the store.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE documents`); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	return nil
}

// vectorLiteral renders an embedding in pgvector's text input format.
func vectorLiteral(embedding []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

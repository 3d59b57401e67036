package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/types"
)

// Indexer feeds a written post back into the knowledge base so future
// runs can retrieve it.
type Indexer interface {
	IndexPost(ctx context.Context, path string) error
}

// Ingestor persists an approved draft to the content directory and
// re-indexes it.
type Ingestor struct {
	contentDir string
	indexer    Indexer
}

// NewIngestor creates the ingestor agent. A nil indexer skips re-indexing,
// which dry runs and store-less configurations use.
func NewIngestor(contentDir string, indexer Indexer) *Ingestor {
	return &Ingestor{contentDir: contentDir, indexer: indexer}
}

// IngestFinal writes the draft as a markdown post and indexes it into the
// store. It returns the path of the written file.
func (a *Ingestor) IngestFinal(ctx context.Context, draft types.Draft, spec types.GenerationSpec) (string, error) {
	title := markdown.Title(draft.Content)
	if title == "" {
		title = spec.Topic
	}

	categories := spec.Categories
	if len(categories) == 0 {
		categories = []string{"Uncategorized"}
	}

	now := time.Now()
	fm := markdown.Frontmatter{
		Title:       title,
		Date:        now.Format("2006-01-02 15:04:05.000000"),
		Categories:  categories,
		Tags:        spec.Tags,
		Description: markdown.Excerpt(draft.Content, spec.Topic, 160),
	}

	filename := markdown.Filename(a.contentDir, title, now)
	path, err := markdown.WritePost(a.contentDir, filename, fm, draft.Content)
	if err != nil {
		return "", fmt.Errorf("failed to ingest final draft: %w", err)
	}

	if a.indexer != nil {
		if err := a.indexer.IndexPost(ctx, path); err != nil {
			return path, fmt.Errorf("post written to %s but indexing failed: %w", path, err)
		}
	}
	return path, nil
}

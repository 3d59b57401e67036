package markdown

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest tracks which posts have been ingested and when each file was
// last modified, so re-ingestion can skip unchanged posts.
type Manifest struct {
	Version     string                   `json:"version"`
	LastUpdated time.Time                `json:"last_updated"`
	TotalPosts  int                      `json:"total_posts"`
	Posts       map[string]ManifestEntry `json:"posts"`
}

// ManifestEntry records one ingested post.
type ManifestEntry struct {
	Title      string   `json:"title"`
	Date       string   `json:"date,omitempty"`
	WordCount  int      `json:"word_count"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
	Modified   int64    `json:"file_modified"`
}

// NewManifest builds a manifest from the given posts.
func NewManifest(posts []*Post) Manifest {
	m := Manifest{
		Version:     "1.0",
		LastUpdated: time.Now().UTC(),
		TotalPosts:  len(posts),
		Posts:       make(map[string]ManifestEntry, len(posts)),
	}
	for _, post := range posts {
		m.Posts[post.Path] = ManifestEntry{
			Title:      post.Frontmatter.Title,
			Date:       post.Frontmatter.Date,
			WordCount:  post.WordCount,
			Categories: post.Frontmatter.Categories,
			Tags:       post.Frontmatter.Tags,
			Modified:   post.Modified.Unix(),
		}
	}
	return m
}

// ReadManifest loads a manifest from disk. A missing or unreadable file
// yields an empty manifest so ingestion starts from scratch.
func ReadManifest(path string) Manifest {
	empty := Manifest{Posts: map[string]ManifestEntry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return empty
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return empty
	}
	if m.Posts == nil {
		m.Posts = map[string]ManifestEntry{}
	}
	return m
}

// WriteManifest persists a manifest to disk.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ChangedPosts returns the posts that are new or modified since the
// manifest was written.
func ChangedPosts(m Manifest, posts []*Post) []*Post {
	var changed []*Post
	for _, post := range posts {
		entry, exists := m.Posts[post.Path]
		if !exists || post.Modified.Unix() > entry.Modified {
			changed = append(changed, post)
		}
	}
	return changed
}

package markdown

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePost = `---
title: "Profiling Go Services"
date: 2025-03-14 09:30:00
categories: ["Go", "Performance"]
tags: ["pprof"]
description: "A walkthrough of CPU profiling."
---

# Profiling Go Services

Some body text here.
`

func TestSplitFrontmatter(t *testing.T) {
	fm, body, err := SplitFrontmatter(samplePost)
	require.NoError(t, err)

	assert.Equal(t, "Profiling Go Services", fm.Title)
	assert.Equal(t, []string{"Go", "Performance"}, fm.Categories)
	assert.Equal(t, []string{"pprof"}, fm.Tags)
	assert.Equal(t, "A walkthrough of CPU profiling.", fm.Description)
	assert.Equal(t, "# Profiling Go Services\n\nSome body text here.\n", body)
}

func TestSplitFrontmatter_ByteOrderMarkBeforeHeader(t *testing.T) {
	fm, body, err := SplitFrontmatter("\uFEFF" + samplePost)
	require.NoError(t, err)
	assert.Equal(t, "Profiling Go Services", fm.Title)
	assert.Equal(t, "# Profiling Go Services\n\nSome body text here.\n", body)
}

func TestSplitFrontmatter_NoHeader(t *testing.T) {
	raw := "# Just a Title\n\nBody.\n"
	fm, body, err := SplitFrontmatter(raw)
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Equal(t, raw, body)
}

func TestSplitFrontmatter_InvalidYAML(t *testing.T) {
	_, _, err := SplitFrontmatter("---\ntitle: [unclosed\n---\nbody")
	assert.Error(t, err)
}

func TestRenderPost_FixedFieldOrder(t *testing.T) {
	fm := Frontmatter{
		Title:       "Hello World",
		Date:        "2025-03-14 09:30:00.000000",
		Categories:  []string{"Go"},
		Tags:        []string{"intro", "basics"},
		Description: "An opener.",
	}
	rendered := RenderPost(fm, "# Hello World\n\nBody.\n")

	expected := `---
title: "Hello World"
date: 2025-03-14 09:30:00.000000
categories: ["Go"]
tags: ["intro", "basics"]
description: "An opener."
---

# Hello World

Body.
`
	assert.Equal(t, expected, rendered)
}

func TestRenderParse_RoundTrip(t *testing.T) {
	fm := Frontmatter{
		Title:       "Round Trip",
		Date:        "2025-01-01",
		Categories:  []string{"Testing"},
		Tags:        []string{},
		Description: "Round trip check.",
	}
	rendered := RenderPost(fm, "# Round Trip\n\nContent.\n")

	parsed, body, err := SplitFrontmatter(rendered)
	require.NoError(t, err)
	assert.Equal(t, fm.Title, parsed.Title)
	assert.Equal(t, fm.Description, parsed.Description)
	assert.Equal(t, "# Round Trip\n\nContent.\n", body)
}

func TestFilename_CollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	name := Filename(dir, "My Great Post!", date)
	assert.Equal(t, "2025-03-14-my-great-post.md", name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	assert.Equal(t, "2025-03-14-my-great-post-1.md", Filename(dir, "My Great Post!", date))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-03-14-my-great-post-1.md"), []byte("x"), 0o644))
	assert.Equal(t, "2025-03-14-my-great-post-2.md", Filename(dir, "My Great Post!", date))
}

func TestWritePost_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	fm := Frontmatter{Title: "New Post", Date: "2025-03-14", Description: "d"}

	path, err := WritePost(dir, "2025-03-14-new-post.md", fm, "# New Post\n\nBody.\n")
	require.NoError(t, err)

	post, err := ParsePost(path)
	require.NoError(t, err)
	assert.Equal(t, "New Post", post.Frontmatter.Title)
	assert.Equal(t, 4, post.WordCount)
}

func TestWritePost_OverwriteRemovesBackup(t *testing.T) {
	dir := t.TempDir()
	fm := Frontmatter{Title: "Post", Date: "2025-03-14"}

	_, err := WritePost(dir, "post.md", fm, "first version\n")
	require.NoError(t, err)
	path, err := WritePost(dir, "post.md", fm, "second version\n")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second version")

	_, err = os.Stat(filepath.Join(dir, "post.backup.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestScanPosts_SkipsBackups(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.backup.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := ScanPosts(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.md"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.md"), paths[1])
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, 2025, ParseDate("2025-03-14").Year())
	assert.Equal(t, 14, ParseDate("2025-03-14 09:30:00").Day())
	assert.Equal(t, 9, ParseDate("2025-03-14 09:30:00.123456").Hour())
	assert.True(t, ParseDate("not a date").IsZero())
}

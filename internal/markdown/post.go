// Package markdown handles blog post files: frontmatter parsing and
// rendering, structural analysis, and safe persistence to the content
// directory.
package markdown

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Frontmatter is the YAML header of a blog post.
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Categories  []string `yaml:"categories"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Slug        string   `yaml:"slug,omitempty"`
}

// Post is a parsed blog post file.
type Post struct {
	Path        string
	Frontmatter Frontmatter
	Content     string
	WordCount   int
	Date        time.Time
	Modified    time.Time
}

// ScanPosts returns the markdown files under dir, sorted by path.
func ScanPosts(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") && !strings.HasSuffix(path, ".backup.md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ParsePost reads and parses one blog post file.
func ParsePost(path string) (*Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read post %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat post %s: %w", path, err)
	}

	fm, body, err := SplitFrontmatter(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse post %s: %w", path, err)
	}

	return &Post{
		Path:        path,
		Frontmatter: fm,
		Content:     body,
		WordCount:   CountWords(body),
		Date:        ParseDate(fm.Date),
		Modified:    info.ModTime(),
	}, nil
}

// SplitFrontmatter separates the YAML header from the markdown body. A
// document without a frontmatter block parses as all body.
func SplitFrontmatter(raw string) (Frontmatter, string, error) {
	var fm Frontmatter

	trimmed := strings.TrimLeft(raw, "\uFEFF\n\r")
	if !strings.HasPrefix(trimmed, frontmatterDelimiter+"\n") {
		return fm, raw, nil
	}

	rest := trimmed[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return fm, raw, nil
	}

	header := rest[:end]
	body := rest[end+len(frontmatterDelimiter)+1:]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Frontmatter{}, "", fmt.Errorf("invalid frontmatter: %w", err)
	}
	return fm, body, nil
}

// StripFrontmatter returns the markdown body of raw.
func StripFrontmatter(raw string) string {
	_, body, err := SplitFrontmatter(raw)
	if err != nil {
		return raw
	}
	return body
}

// RenderPost serializes a post back to the on-disk format. Frontmatter
// fields keep a fixed order with quoted title, description, and list items.
func RenderPost(fm Frontmatter, content string) string {
	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter + "\n")
	fmt.Fprintf(&sb, "title: %q\n", fm.Title)
	fmt.Fprintf(&sb, "date: %s\n", fm.Date)
	fmt.Fprintf(&sb, "categories: [%s]\n", quoteList(fm.Categories))
	fmt.Fprintf(&sb, "tags: [%s]\n", quoteList(fm.Tags))
	fmt.Fprintf(&sb, "description: %q\n", fm.Description)
	sb.WriteString(frontmatterDelimiter + "\n\n")
	sb.WriteString(strings.TrimLeft(content, "\n"))
	return sb.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

// Filename picks a file name in YYYY-MM-DD-slug.md form, appending -N when
// the name is already taken in dir.
func Filename(dir, title string, date time.Time) string {
	s := slug.Make(title)
	dateStr := date.Format("2006-01-02")

	name := fmt.Sprintf("%s-%s.md", dateStr, s)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s-%s-%d.md", dateStr, s, counter)
	}
}

// WritePost writes a rendered post to dir/filename. An existing file is
// backed up first and restored if the write fails.
func WritePost(dir, filename string, fm Frontmatter, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create content directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	backup := strings.TrimSuffix(path, ".md") + ".backup.md"

	hadPrevious := false
	if existing, err := os.ReadFile(path); err == nil {
		hadPrevious = true
		if err := os.WriteFile(backup, existing, 0o644); err != nil {
			return "", fmt.Errorf("failed to back up existing post: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(RenderPost(fm, content)), 0o644); err != nil {
		if hadPrevious {
			_ = os.Rename(backup, path)
		}
		return "", fmt.Errorf("failed to write blog post: %w", err)
	}
	if hadPrevious {
		_ = os.Remove(backup)
	}
	return path, nil
}

// ParseDate parses the date formats that appear in post frontmatter.
// Unparseable input yields a zero time.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	layouts := []string{
		"2006-01-02 15:04:05.000000",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05-0700",
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

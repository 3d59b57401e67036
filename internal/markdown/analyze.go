package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HeadingCounts holds heading totals by level for one document.
type HeadingCounts struct {
	H1    int
	H2    int
	Total int
}

// CountHeadings parses the markdown body and counts headings by level.
func CountHeadings(content string) HeadingCounts {
	source := []byte(content)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var counts HeadingCounts
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			counts.Total++
			switch heading.Level {
			case 1:
				counts.H1++
			case 2:
				counts.H2++
			}
		}
		return ast.WalkContinue, nil
	})
	return counts
}

// CountWords counts whitespace-separated words.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// Title returns the first H1 text, or empty if the document has none.
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// Excerpt extracts a short description from the first substantial
// paragraph. It falls back to a topic-based sentence for content with no
// usable paragraph.
func Excerpt(content, topic string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = 160
	}

	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" || strings.HasPrefix(paragraph, "#") || len(paragraph) < 50 {
			continue
		}

		clean := strings.NewReplacer("*", "", "_", "", "`", "").Replace(paragraph)
		clean = strings.TrimSpace(clean)

		if len(clean) > maxLength {
			clean = truncateAtRune(clean, maxLength-3) + "..."
		}

		// Prefer ending on a sentence boundary when one falls in the
		// second half of the excerpt.
		if !strings.HasSuffix(clean, ".") && !strings.HasSuffix(clean, "!") && !strings.HasSuffix(clean, "?") {
			if end := lastSentenceEnd(clean); end > maxLength/2 {
				clean = clean[:end+1]
			}
		}
		return clean
	}

	return "Learn about " + strings.ToLower(topic) + ". Discover insights, best practices, and practical guidance."
}

// truncateAtRune cuts s to at most n bytes, backing up so a multi-byte
// rune is never split.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func lastSentenceEnd(s string) int {
	end := strings.LastIndexByte(s, '.')
	if i := strings.LastIndexByte(s, '!'); i > end {
		end = i
	}
	if i := strings.LastIndexByte(s, '?'); i > end {
		end = i
	}
	return end
}

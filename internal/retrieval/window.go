package retrieval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/types"
)

// charsPerToken is the rough character budget behind one token.
const charsPerToken = 4

// AssembleWindow joins ranked documents into a single prompt context
// string within a token budget. Each source gets a header the first time
// it appears, documents are separated by a rule, and the last document is
// truncated with a marker when the budget runs out.
func AssembleWindow(docs []types.Document, maxTokens int) string {
	if len(docs) == 0 {
		return "No relevant context found."
	}

	maxChars := maxTokens * charsPerToken

	var parts []string
	included := make(map[string]struct{})
	total := 0

	for _, doc := range docs {
		source := doc.Source()
		if _, seen := included[source]; !seen {
			header := fmt.Sprintf("\n## From: %s\n", source)
			if date := markdown.ParseDate(doc.Metadata[types.MetaDate]); !date.IsZero() {
				header = fmt.Sprintf("\n## From: %s (%s)\n", source, date.Format("January 2006"))
			}
			if total+len(header) > maxChars {
				break
			}
			parts = append(parts, header)
			total += len(header)
			included[source] = struct{}{}
		}

		content := strings.TrimSpace(doc.Content)
		if total+len(content) > maxChars {
			// Truncate to fit, leaving room for the marker, but only
			// when a meaningful amount of content remains.
			remaining := maxChars - total - 50
			if remaining > 100 {
				parts = append(parts, truncateAtRune(content, remaining)+"...\n")
			}
			break
		}
		parts = append(parts, content)
		total += len(content)

		if total < maxChars {
			separator := "\n\n---\n\n"
			if total+len(separator) < maxChars {
				parts = append(parts, separator)
				total += len(separator)
			}
		}
	}

	window := strings.TrimSpace(strings.Join(parts, ""))

	stats := fmt.Sprintf("\n\n--- Context assembled from %d sources, %d characters ---", len(included), total)
	if float64(total+len(stats)) < float64(maxChars)*1.1 {
		window += stats
	}
	return window
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

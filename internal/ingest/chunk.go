package ingest

import (
	"regexp"
	"strings"
)

// Chunking defaults, in characters.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	minChunkLen         = 100
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// Chunk splits content into overlapping chunks of roughly chunkSize
// characters, preferring paragraph boundaries. Fragments shorter than 100
// characters are dropped since they embed poorly.
func Chunk(content string, chunkSize, overlap int) []string {
	if content == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}

	var chunks []string
	current := ""

	for _, paragraph := range paragraphSplit.Split(content, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if len(current)+len(paragraph) > chunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			overlapText := current
			if len(current) > overlap {
				overlapText = current[len(current)-overlap:]
			}
			current = overlapText + " " + paragraph
		} else if current == "" {
			current = paragraph
		} else {
			current += " " + paragraph
		}

		for len(current) >= chunkSize {
			chunks = append(chunks, strings.TrimSpace(current[:chunkSize]))
			current = strings.TrimSpace(current[chunkSize-overlap:])
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	filtered := chunks[:0]
	for _, chunk := range chunks {
		if len(chunk) >= minChunkLen {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// Package retrieval implements the RAG pipeline: query expansion,
// multi-query search, deduplication, re-ranking, and context window
// assembly.
package retrieval

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/types"
)

// dedupePrefixLen is how much leading content identifies a chunk for
// deduplication across query variants.
const dedupePrefixLen = 200

// Index is a searchable document collection. Implementations embed the
// query text and run a vector similarity search.
type Index interface {
	Search(ctx context.Context, query string, k int) ([]types.Document, error)
}

// Retriever runs multi-query retrieval against an index.
type Retriever struct {
	index  Index
	client llm.Client
}

// NewRetriever creates a retriever over the given index. The client is
// used for query expansion only.
func NewRetriever(index Index, client llm.Client) *Retriever {
	return &Retriever{index: index, client: client}
}

// ExpandQuery asks the model for alternative phrasings of query and
// returns the original plus up to three of them. Expansion failure
// degrades to just the original query.
func ExpandQuery(ctx context.Context, client llm.Client, query string) []string {
	template := prompts.MustGet("retrieval.json", "expand-query")
	prompt := prompts.Format(template, map[string]string{
		"Query": query,
		"Count": "3-4",
	})

	response, err := llm.Generate(ctx, client, "", prompt, 0.3)
	if err != nil {
		fmt.Printf("Warning: query expansion failed: %v\n", err)
		return []string{query}
	}

	var expanded []string
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			expanded = append(expanded, line)
		}
	}
	if len(expanded) > 3 {
		expanded = expanded[:3]
	}
	return append([]string{query}, expanded...)
}

// Retrieve searches the index with the query (expanded when expand is
// set), deduplicates and re-ranks the combined results, and returns at
// most k documents. Failures yield an empty result, never an error, so a
// cold or unreachable store degrades generation instead of aborting it.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, expand bool) []types.Document {
	queries := []string{query}
	if expand {
		queries = ExpandQuery(ctx, r.client, query)
	}

	var all []types.Document
	for _, q := range queries {
		results, err := r.index.Search(ctx, q, k)
		if err != nil {
			fmt.Printf("Warning: search failed for %q: %v\n", truncateForLog(q), err)
			continue
		}
		all = append(all, results...)
	}
	if len(all) == 0 {
		return nil
	}

	ranked := Rerank(Deduplicate(all), query, time.Now())
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Deduplicate drops documents whose leading content matches an earlier
// document. First occurrence wins, order is otherwise preserved.
func Deduplicate(docs []types.Document) []types.Document {
	seen := make(map[uint64]struct{}, len(docs))
	unique := make([]types.Document, 0, len(docs))

	for _, doc := range docs {
		prefix := doc.Content
		if len(prefix) > dedupePrefixLen {
			prefix = prefix[:dedupePrefixLen]
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(prefix))
		key := h.Sum64()

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, doc)
	}
	return unique
}

// Rerank scores each document with similarity plus recency, keyword, and
// length boosts, then stable-sorts by the combined score descending.
func Rerank(docs []types.Document, query string, now time.Time) []types.Document {
	terms := strings.Fields(strings.ToLower(query))

	for i := range docs {
		doc := &docs[i]
		score := doc.Similarity

		if date := markdown.ParseDate(doc.Metadata[types.MetaDate]); !date.IsZero() {
			daysOld := int(now.Sub(date).Hours() / 24)
			switch {
			case daysOld < 30:
				score += 0.05
			case daysOld < 365:
				score += 0.02
			}
		}

		contentLower := strings.ToLower(doc.Content)
		matches := 0
		for _, term := range terms {
			if strings.Contains(contentLower, term) {
				matches++
			}
		}
		score += min(float64(matches)*0.02, 0.1)

		words := len(strings.Fields(doc.Content))
		score += clamp((float64(words)-50)/1000, 0, 0.05)

		doc.FinalScore = score
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].FinalScore > docs[j].FinalScore
	})
	return docs
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncateForLog(s string) string {
	if len(s) > 50 {
		return s[:50] + "..."
	}
	return s
}

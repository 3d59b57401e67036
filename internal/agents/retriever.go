// Package agents implements the pipeline role agents. Each agent is a
// thin wrapper around one prompt template and one response parser.
package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/retrieval"
	"github.com/jonathan/blog-agent/internal/types"
)

const (
	synthesisWindowTokens = 2000
	maxExcerpts           = 5
)

// Retriever searches the knowledge base and synthesizes the results into
// a summary with supporting excerpts.
type Retriever struct {
	client    llm.Client
	retriever *retrieval.Retriever
}

// NewRetriever creates the retriever agent.
func NewRetriever(index retrieval.Index, client llm.Client) *Retriever {
	return &Retriever{
		client:    client,
		retriever: retrieval.NewRetriever(index, client),
	}
}

// SearchAndSynthesize retrieves context for the topic and condenses it.
// An empty knowledge base and a failed synthesis both produce a usable
// result rather than an error, so generation can proceed without context.
func (a *Retriever) SearchAndSynthesize(ctx context.Context, topic string, topK int) types.SynthesisResult {
	docs := a.retriever.Retrieve(ctx, topic, topK, true)
	if len(docs) == 0 {
		return types.SynthesisResult{
			Summary: fmt.Sprintf("No relevant context found for '%s'", topic),
		}
	}

	window := retrieval.AssembleWindow(docs, synthesisWindowTokens)

	template := prompts.MustGet("retrieval.json", "synthesize")
	prompt := prompts.Format(template, map[string]string{
		"Topic":        topic,
		"Context":      window,
		"ExcerptLimit": strconv.Itoa(maxExcerpts),
	})

	response, err := llm.Generate(ctx, a.client, prompts.MustGet("retrieval.json", "synthesize-system"), prompt, 0.2)
	if err != nil {
		return types.SynthesisResult{
			Summary:     fmt.Sprintf("Error retrieving context for '%s': %v", topic, err),
			SourceCount: len(docs),
		}
	}

	result := parseSynthesis(response)
	result.SourceCount = len(docs)
	return result
}

// parseSynthesis splits a model response into SUMMARY and EXCERPTS
// sections. A response with neither marker becomes the summary wholesale.
func parseSynthesis(response string) types.SynthesisResult {
	var (
		summary  strings.Builder
		excerpts []string
		section  string
	)

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "SUMMARY:"):
			section = "summary"
			if _, after, found := strings.Cut(line, ":"); found {
				if text := strings.TrimSpace(after); text != "" {
					summary.WriteString(text)
					summary.WriteString(" ")
				}
			}
		case strings.Contains(upper, "EXCERPTS:"):
			section = "excerpts"
		case section == "summary":
			summary.WriteString(line)
			summary.WriteString(" ")
		case section == "excerpts" && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")):
			if excerpt := strings.TrimSpace(line[1:]); excerpt != "" {
				excerpts = append(excerpts, excerpt)
			}
		}
	}

	if summary.Len() == 0 && len(excerpts) == 0 {
		return types.SynthesisResult{Summary: response}
	}
	if len(excerpts) > maxExcerpts {
		excerpts = excerpts[:maxExcerpts]
	}
	return types.SynthesisResult{
		Summary:  strings.TrimSpace(summary.String()),
		Excerpts: excerpts,
	}
}

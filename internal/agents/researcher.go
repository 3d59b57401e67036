package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/retrieval"
	"github.com/jonathan/blog-agent/internal/types"
)

const (
	researchTopK         = 10
	researchWindowTokens = 3000
)

// Researcher builds a structured research brief for a topic from the
// knowledge base.
type Researcher struct {
	client    llm.Client
	retriever *retrieval.Retriever
}

// NewResearcher creates the researcher agent.
func NewResearcher(index retrieval.Index, client llm.Client) *Researcher {
	return &Researcher{
		client:    client,
		retriever: retrieval.NewRetriever(index, client),
	}
}

// GatherBrief researches the topic and returns a structured brief. An
// empty knowledge base or a failed model call yields a minimal fallback
// brief instead of an error.
func (a *Researcher) GatherBrief(ctx context.Context, topic string, spec types.GenerationSpec) types.ResearchBrief {
	query := topic
	if len(spec.Keywords) > 0 {
		keywords := spec.Keywords
		if len(keywords) > 2 {
			keywords = keywords[:2]
		}
		query += " " + strings.Join(keywords, " ")
	}

	docs := a.retriever.Retrieve(ctx, query, researchTopK, true)
	if len(docs) == 0 {
		return fallbackBrief(topic)
	}

	window := retrieval.AssembleWindow(docs, researchWindowTokens)

	template := prompts.MustGet("research.json", "brief")
	data := specVars(spec)
	data["Topic"] = topic
	data["Context"] = window
	prompt := prompts.Format(template, data)

	response, err := llm.Generate(ctx, a.client, prompts.MustGet("research.json", "system"), prompt, 0.2)
	if err != nil {
		fmt.Printf("Warning: research brief generation failed: %v\n", err)
		brief := fallbackBrief(topic)
		brief.Documents = docs
		return brief
	}

	brief := parseBrief(response)
	if len(brief.KeyThemes) == 0 && len(brief.RelevantFacts) == 0 && len(brief.RecommendedFocus) == 0 {
		brief = fallbackBrief(topic)
	}
	brief.Documents = docs
	return brief
}

func fallbackBrief(topic string) types.ResearchBrief {
	return types.ResearchBrief{
		RelevantFacts:    []string{"No relevant context found in knowledge base."},
		RecommendedFocus: []string{"General overview of " + topic},
	}
}

// parseBrief reads the section-header format the brief prompt asks for:
// a header line per section followed by bullet items.
func parseBrief(response string) types.ResearchBrief {
	var brief types.ResearchBrief
	var target *[]string

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch normalizeHeader(line) {
		case "KEY THEMES":
			target = &brief.KeyThemes
			continue
		case "RELEVANT FACTS":
			target = &brief.RelevantFacts
			continue
		case "RELATED TOPICS":
			target = &brief.RelatedTopics
			continue
		case "CONTENT GAPS":
			target = &brief.GapsIdentified
			continue
		case "FOCUS AREAS":
			target = &brief.RecommendedFocus
			continue
		}

		if target != nil && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")) {
			if item := strings.TrimSpace(line[1:]); item != "" {
				*target = append(*target, item)
			}
		}
	}
	return brief
}

func normalizeHeader(line string) string {
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")
	line = strings.ReplaceAll(line, "_", " ")
	return strings.ToUpper(line)
}

package agents

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/types"
)

// Composer produces the initial draft from the retrieved context.
type Composer struct {
	client llm.Client
}

// NewComposer creates the composer agent.
func NewComposer(client llm.Client) *Composer {
	return &Composer{client: client}
}

// ComposeDraft generates iteration 1 of a post. A model failure returns a
// draft carrying the error instead of content.
func (a *Composer) ComposeDraft(ctx context.Context, synth types.SynthesisResult, spec types.GenerationSpec) types.Draft {
	template := prompts.MustGet("compose.json", "draft")
	data := specVars(spec)
	data["Topic"] = spec.Topic
	data["Summary"] = synth.Summary
	data["Excerpts"] = bulletList(synth.Excerpts)
	prompt := prompts.Format(template, data)

	response, err := llm.Generate(ctx, a.client, prompts.MustGet("compose.json", "system"), prompt, 0.7)
	if err != nil {
		return types.Draft{Topic: spec.Topic, Spec: spec, Err: err}
	}

	// Models sometimes emit frontmatter despite instructions. The body is
	// what the pipeline refines; frontmatter is added at ingestion.
	content := strings.TrimSpace(markdown.StripFrontmatter(response))

	return types.Draft{
		Content:   content,
		WordCount: markdown.CountWords(content),
		Topic:     spec.Topic,
		Spec:      spec,
		Iteration: 1,
	}
}

func specVars(spec types.GenerationSpec) map[string]string {
	return map[string]string{
		"Style":      string(spec.Style),
		"Length":     string(spec.Length),
		"Tone":       string(spec.Tone),
		"MinWords":   strconv.Itoa(spec.MinWords),
		"MaxWords":   strconv.Itoa(spec.MaxWords),
		"Categories": strings.Join(spec.Categories, ", "),
		"Tags":       strings.Join(spec.Tags, ", "),
	}
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

package agents

import (
	"context"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/types"
)

// Refiner improves a draft, optionally steering by evaluator feedback.
type Refiner struct {
	client llm.Client
}

// NewRefiner creates the refiner agent.
func NewRefiner(client llm.Client) *Refiner {
	return &Refiner{client: client}
}

// RefineDraft produces the next iteration of a draft. Evaluator feedback,
// when present, is passed to the model verbatim. A model failure returns
// the previous draft with Err set so the loop can continue on the prior
// content.
func (a *Refiner) RefineDraft(ctx context.Context, draft types.Draft, feedback string) types.Draft {
	template := prompts.MustGet("refine.json", "refine")
	data := specVars(draft.Spec)
	data["Draft"] = draft.Content
	prompt := prompts.Format(template, data)

	if feedback != "" {
		feedbackBlock := prompts.Format(prompts.MustGet("refine.json", "refine-feedback"), map[string]string{
			"Feedback": feedback,
		})
		prompt = prompt + "\n\n" + feedbackBlock
	}

	response, err := llm.Generate(ctx, a.client, prompts.MustGet("refine.json", "system"), prompt, 0.3)
	if err != nil {
		failed := draft
		failed.Err = err
		return failed
	}

	content := strings.TrimSpace(markdown.StripFrontmatter(response))

	return types.Draft{
		Content:   content,
		WordCount: markdown.CountWords(content),
		Topic:     draft.Topic,
		Spec:      draft.Spec,
		Iteration: draft.Iteration + 1,
	}
}

package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/markdown"
	"github.com/jonathan/blog-agent/internal/prompts"
	"github.com/jonathan/blog-agent/internal/types"
)

// minStructureWords is the floor below which a draft cannot have a real
// introduction, body, and conclusion.
const minStructureWords = 100

// Evaluator gates drafts: cheap mechanical checks first, then a model
// judgment parsed by a fail-closed classifier.
type Evaluator struct {
	client     llm.Client
	classifier types.VerdictClassifier
}

// NewEvaluator creates the evaluator agent.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client, classifier: types.PrefixClassifier{}}
}

// EvaluateDraft judges one draft against the spec. A mechanical check
// failure rejects immediately without spending a model call; evaluation
// errors also reject, so a broken evaluator never approves by accident.
func (a *Evaluator) EvaluateDraft(ctx context.Context, draft types.Draft, spec types.GenerationSpec) types.Evaluation {
	content := markdown.StripFrontmatter(draft.Content)
	wordCount := markdown.CountWords(content)

	checks := runChecks(content, wordCount, spec)
	if !checks.AllPassed() {
		return types.Evaluation{
			Approved:       false,
			Feedback:       checkFeedback(checks, wordCount, spec),
			Checks:         checks,
			MechanicalOnly: true,
		}
	}

	template := prompts.MustGet("evaluate.json", "evaluate")
	data := specVars(spec)
	data["Draft"] = content
	data["CurrentWords"] = strconv.Itoa(wordCount)
	prompt := prompts.Format(template, data)

	response, err := llm.Generate(ctx, a.client, prompts.MustGet("evaluate.json", "system"), prompt, 0.1)
	if err != nil {
		return types.Evaluation{
			Approved: false,
			Feedback: fmt.Sprintf("Evaluation failed: %v", err),
			Checks:   checks,
		}
	}

	verdict := a.classifier.Classify(response)
	return types.Evaluation{
		Approved: verdict.Approved,
		Feedback: verdict.Feedback,
		Checks:   checks,
	}
}

func runChecks(content string, wordCount int, spec types.GenerationSpec) types.CheckResults {
	headings := markdown.CountHeadings(content)
	return types.CheckResults{
		Structure: headings.H1 >= 1 && headings.H2 >= 2 && wordCount >= minStructureWords,
		WordCount: wordCount >= spec.MinWords && wordCount <= spec.MaxWords,
		Markdown:  headings.Total >= 1,
	}
}

func checkFeedback(checks types.CheckResults, wordCount int, spec types.GenerationSpec) string {
	var parts []string
	if !checks.WordCount {
		parts = append(parts, fmt.Sprintf("Word count (%d) not in range %d-%d", wordCount, spec.MinWords, spec.MaxWords))
	}
	if !checks.Structure {
		parts = append(parts, "Missing proper introduction, body, or conclusion sections")
	}
	if !checks.Markdown {
		parts = append(parts, "Markdown formatting issues detected")
	}
	return strings.Join(parts, "; ")
}

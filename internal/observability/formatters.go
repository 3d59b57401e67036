// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/blog-agent/internal/types"
	"github.com/jonathan/blog-agent/internal/workflow"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSpec outputs the generation spec a run is about to use.
func (p *Printer) PrintSpec(spec *types.GenerationSpec) {
	if spec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:   %s\n", spec.Topic))
	sb.WriteString(fmt.Sprintf("Style:   %s\n", spec.Style))
	sb.WriteString(fmt.Sprintf("Length:  %s (%d-%d words)\n", spec.Length, spec.MinWords, spec.MaxWords))
	sb.WriteString(fmt.Sprintf("Tone:    %s", spec.Tone))
	if len(spec.Categories) > 0 {
		sb.WriteString(fmt.Sprintf("\nCategories: %s", strings.Join(spec.Categories, ", ")))
	}
	if len(spec.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\nTags: %s", strings.Join(spec.Tags, ", ")))
	}

	p.printBox("Generation Spec", sb.String())
}

// PrintSynthesis outputs the retriever agent's context synthesis.
func (p *Printer) PrintSynthesis(synth *types.SynthesisResult) {
	if synth == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sources: %d\n\n", synth.SourceCount))
	sb.WriteString(wrapText(synth.Summary, boxWidth-6))

	if len(synth.Excerpts) > 0 {
		sb.WriteString("\n\nExcerpts:\n")
		count := min(len(synth.Excerpts), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", synth.Excerpts[i]))
		}
	}

	p.printBox("Retrieved Context", sb.String())
}

// PrintBrief outputs a research brief.
func (p *Printer) PrintBrief(brief *types.ResearchBrief) {
	if brief == nil {
		return
	}

	var sb strings.Builder
	writeBriefSection(&sb, "Key Themes", brief.KeyThemes)
	writeBriefSection(&sb, "Relevant Facts", brief.RelevantFacts)
	writeBriefSection(&sb, "Related Topics", brief.RelatedTopics)
	writeBriefSection(&sb, "Content Gaps", brief.GapsIdentified)
	writeBriefSection(&sb, "Recommended Focus", brief.RecommendedFocus)

	p.printBox("Research Brief", strings.TrimRight(sb.String(), "\n"))
}

func writeBriefSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintEvaluation outputs one evaluation verdict.
func (p *Printer) PrintEvaluation(iteration int, eval *types.Evaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	verdict := "REJECTED"
	if eval.Approved {
		verdict = "APPROVED"
	}
	sb.WriteString(fmt.Sprintf("Verdict: %s\n", verdict))
	sb.WriteString(fmt.Sprintf("Checks:  structure=%v word_count=%v markdown=%v\n", eval.Checks.Structure, eval.Checks.WordCount, eval.Checks.Markdown))
	if eval.MechanicalOnly {
		sb.WriteString("(rejected by mechanical checks, model not consulted)\n")
	}
	if eval.Feedback != "" {
		sb.WriteString("\n" + wrapText(eval.Feedback, boxWidth-6))
	}

	p.printBox(fmt.Sprintf("Evaluation %d", iteration), sb.String())
}

// PrintResult outputs the terminal outcome of a generation run.
func (p *Printer) PrintResult(result *workflow.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:     %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("Iterations: %d\n", result.Iterations))
	sb.WriteString(fmt.Sprintf("Words:      %d", result.Draft.WordCount))
	if result.FilePath != "" {
		sb.WriteString(fmt.Sprintf("\nFile:       %s", result.FilePath))
	}
	if result.Status == workflow.StatusExhausted && result.Feedback != "" {
		sb.WriteString("\n\nLast feedback:\n" + wrapText(result.Feedback, boxWidth-6))
	}
	if result.Err != nil {
		sb.WriteString(fmt.Sprintf("\nError:      %v", result.Err))
	}

	p.printBox("Generation Result", sb.String())
}

// wrapText wraps text at the given width, preserving existing newlines.
func wrapText(text string, width int) string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

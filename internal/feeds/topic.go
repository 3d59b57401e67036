package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/prompts"
)

const (
	maxTopicArticles   = 20
	maxArticleExcerpt  = 500
	fallbackTopicTitle = "News Summary and Current Events Analysis"
)

// TopicSuggestion is a proposed post topic derived from recent articles.
type TopicSuggestion struct {
	Topic     string
	Rationale string
	Keywords  []string
}

// SynthesizeTopic asks the model for a timely post topic grounded in the
// fetched articles. Model failure or an empty article set falls back to a
// generic topic rather than an error.
func SynthesizeTopic(ctx context.Context, client llm.Client, articles []Article, focus string) TopicSuggestion {
	if len(articles) == 0 {
		return TopicSuggestion{Topic: fallbackTopicTitle}
	}
	if focus == "" {
		focus = "general technology trends"
	}

	template := prompts.MustGet("feeds.json", "topic")
	prompt := prompts.Format(template, map[string]string{
		"Articles": formatArticles(articles),
		"Focus":    focus,
	})

	response, err := llm.Generate(ctx, client, prompts.MustGet("feeds.json", "topic-system"), prompt, 0.7)
	if err != nil {
		fmt.Printf("Warning: topic synthesis failed: %v\n", err)
		return TopicSuggestion{Topic: fallbackTopicTitle}
	}

	return parseTopicSuggestion(response)
}

func formatArticles(articles []Article) string {
	if len(articles) > maxTopicArticles {
		articles = articles[:maxTopicArticles]
	}

	var sb strings.Builder
	for i, article := range articles {
		content := article.Content
		if len(content) > maxArticleExcerpt {
			content = content[:maxArticleExcerpt] + "..."
		}
		fmt.Fprintf(&sb, "Article %d:\nTitle: %s\nContent: %s\nSource: %s\n\n", i+1, article.Title, content, article.Source)
	}
	return strings.TrimSpace(sb.String())
}

// parseTopicSuggestion reads the TOPIC:/RATIONALE:/KEYWORDS: response
// format. A response without a TOPIC line becomes the topic wholesale.
func parseTopicSuggestion(response string) TopicSuggestion {
	var suggestion TopicSuggestion

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(strings.ToUpper(line), "TOPIC:"):
			suggestion.Topic = strings.TrimSpace(line[len("TOPIC:"):])
		case strings.HasPrefix(strings.ToUpper(line), "RATIONALE:"):
			suggestion.Rationale = strings.TrimSpace(line[len("RATIONALE:"):])
		case strings.HasPrefix(strings.ToUpper(line), "KEYWORDS:"):
			for _, kw := range strings.Split(line[len("KEYWORDS:"):], ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					suggestion.Keywords = append(suggestion.Keywords, kw)
				}
			}
		}
	}

	if suggestion.Topic == "" {
		suggestion.Topic = strings.TrimSpace(response)
	}
	return suggestion
}

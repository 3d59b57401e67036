package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-agent/internal/feeds"
	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/types"
)

var feedsCommand = &cobra.Command{
	Use:   "feeds",
	Short: "Fetch RSS feeds and optionally generate a post from them",
	Long: `Fetches the configured RSS feeds, ingests their articles into the knowledge base, and asks the model for a topic suggestion grounded in the fetched articles.

With --generate the suggested topic is fed straight into the generation pipeline.`,
	RunE: feedsCmd,
}

var (
	feedsFlags    commonFlags
	feedsFile     string
	feedsFocus    string
	feedsGenerate bool
	feedsDryRun   bool
)

func init() {
	feedsFlags.register(feedsCommand)
	feedsCommand.Flags().StringVar(&feedsFile, "feeds", "", "Path to feeds.yaml (defaults to the configured feeds file)")
	feedsCommand.Flags().StringVar(&feedsFocus, "focus", "", "Focus area for the topic suggestion")
	feedsCommand.Flags().BoolVar(&feedsGenerate, "generate", false, "Generate a post from the suggested topic")
	feedsCommand.Flags().BoolVar(&feedsDryRun, "dry-run", false, "With --generate, run the pipeline without writing or indexing the post")

	rootCmd.AddCommand(feedsCommand)
}

func feedsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := feedsFlags.resolve(cmd)
	if err != nil {
		return err
	}

	feedsPath := feedsFile
	if feedsPath == "" {
		feedsPath = cfg.FeedsFile
	}
	feedCfg, err := feeds.LoadConfig(feedsPath)
	if err != nil {
		return fmt.Errorf("failed to load feeds config: %w", err)
	}
	if len(feedCfg.Feeds) == 0 {
		return fmt.Errorf("no feeds configured in %s", feedsPath)
	}

	fmt.Printf("Fetching %d feeds...\n", len(feedCfg.Feeds))
	articles := feeds.NewFetcher().FetchAll(ctx, feedCfg.Feeds, feeds.DefaultBatchSize)
	if len(articles) == 0 {
		return fmt.Errorf("no usable articles fetched from %d feeds", len(feedCfg.Feeds))
	}
	fmt.Printf("Fetched %d articles\n", len(articles))

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ingested, err := feeds.IngestArticles(ctx, st, newEmbedder(cfg), articles)
	if err != nil {
		return fmt.Errorf("failed to ingest articles: %w", err)
	}
	fmt.Printf("Ingested %d chunks into the knowledge base\n", ingested)

	client, err := llm.NewClient(ctx, cfg.LLMConfig())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	suggestion := feeds.SynthesizeTopic(ctx, client, articles, feedsFocus)
	fmt.Printf("\nSuggested topic: %s\n", suggestion.Topic)
	if suggestion.Rationale != "" {
		fmt.Printf("Rationale: %s\n", suggestion.Rationale)
	}
	if len(suggestion.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(suggestion.Keywords, ", "))
	}

	if !feedsGenerate {
		return nil
	}

	spec := types.GenerationSpec{
		Topic:      suggestion.Topic,
		Style:      types.StyleTechnical,
		Length:     types.LengthMedium,
		Tone:       types.ToneInformative,
		Categories: []string{"News"},
		Tags:       suggestion.Keywords,
		Keywords:   suggestion.Keywords,
	}
	spec.ApplyWordBounds()
	if err := spec.Validate(); err != nil {
		return err
	}
	return runGeneration(ctx, cfg, spec, feedsDryRun)
}

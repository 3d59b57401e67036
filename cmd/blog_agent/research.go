package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-agent/internal/agents"
	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/observability"
	"github.com/jonathan/blog-agent/internal/types"
)

var researchCommand = &cobra.Command{
	Use:   "research <topic>",
	Short: "Build a research brief for a topic",
	Long:  "Retrieves knowledge-base context for a topic and distills it into a structured brief: key themes, relevant facts, related topics, content gaps, and recommended focus areas.",
	Args:  cobra.ExactArgs(1),
	RunE:  researchCmd,
}

var (
	researchFlags    commonFlags
	researchKeywords []string
)

func init() {
	researchFlags.register(researchCommand)
	researchCommand.Flags().StringSliceVar(&researchKeywords, "keywords", nil, "Keywords to steer retrieval (comma-separated)")

	rootCmd.AddCommand(researchCommand)
}

func researchCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := researchFlags.resolve(cmd)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	pipeline := newPipeline(cfg, st)

	spec := types.GenerationSpec{Topic: args[0], Keywords: researchKeywords}
	brief := agents.NewResearcher(pipeline, client).GatherBrief(ctx, args[0], spec)

	observability.NewPrinter(cmd.OutOrStdout()).PrintBrief(&brief)
	fmt.Printf("Grounded on %d documents\n", len(brief.Documents))
	return nil
}

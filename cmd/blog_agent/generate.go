package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/blog-agent/internal/agents"
	"github.com/jonathan/blog-agent/internal/config"
	"github.com/jonathan/blog-agent/internal/llm"
	"github.com/jonathan/blog-agent/internal/observability"
	"github.com/jonathan/blog-agent/internal/types"
	"github.com/jonathan/blog-agent/internal/workflow"
)

var generateCommand = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a blog post for a topic",
	Long: `Runs the full generation pipeline: retrieve context from the knowledge base, compose a draft, then refine it until the evaluator approves or the iteration budget is exhausted. Approved posts are written to the content directory and indexed back into the knowledge base.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.ExactArgs(1),
	RunE: generateCmd,
}

var (
	generateFlags      commonFlags
	generateStyle      string
	generateLength     string
	generateTone       string
	generateCategories []string
	generateTags       []string
	generateKeywords   []string
	generateTopK       int
	generateMaxIter    int
	generateDryRun     bool
)

func init() {
	generateFlags.register(generateCommand)

	generateCommand.Flags().StringVar(&generateStyle, "style", "technical", "Writing style: technical, casual, or professional")
	generateCommand.Flags().StringVar(&generateLength, "length", "medium", "Length class: short, medium, or long")
	generateCommand.Flags().StringVar(&generateTone, "tone", "informative", "Tone: informative, persuasive, or educational")
	generateCommand.Flags().StringSliceVar(&generateCategories, "categories", nil, "Post categories (comma-separated)")
	generateCommand.Flags().StringSliceVar(&generateTags, "tags", nil, "Post tags (comma-separated)")
	generateCommand.Flags().StringSliceVar(&generateKeywords, "keywords", nil, "Keywords to emphasize (comma-separated)")
	generateCommand.Flags().IntVar(&generateTopK, "top-k", 0, "Number of documents to retrieve per query")
	generateCommand.Flags().IntVar(&generateMaxIter, "max-iterations", 0, "Maximum refine/evaluate iterations")
	generateCommand.Flags().BoolVar(&generateDryRun, "dry-run", false, "Run the pipeline without writing or indexing the post")

	rootCmd.AddCommand(generateCommand)
}

func generateCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := generateFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = generateTopK
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.MaxIterations = generateMaxIter
	}

	spec := types.GenerationSpec{
		Topic:      args[0],
		Style:      types.Style(generateStyle),
		Length:     types.Length(generateLength),
		Tone:       types.Tone(generateTone),
		Categories: generateCategories,
		Tags:       generateTags,
		Keywords:   generateKeywords,
	}
	spec.ApplyWordBounds()
	if err := spec.Validate(); err != nil {
		return err
	}

	return runGeneration(ctx, cfg, spec, generateDryRun)
}

// runGeneration wires the agents together and runs one generation, printing
// the outcome. Shared with the feeds command.
func runGeneration(ctx context.Context, cfg config.Config, spec types.GenerationSpec, dryRun bool) error {
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

	runnerCfg := cfg.RunnerConfig()
	runnerCfg.DryRun = dryRun

	runner := workflow.NewRunner(
		agents.NewRetriever(pipeline, client),
		agents.NewComposer(client),
		agents.NewRefiner(client),
		agents.NewEvaluator(client),
		agents.NewIngestor(cfg.ContentDir, pipeline),
		runnerCfg,
	)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintSpec(&spec)
	}

	result := runner.Generate(ctx, spec)
	printer.PrintResult(&result)

	switch result.Status {
	case workflow.StatusExhausted:
		fmt.Printf("Warning: iteration budget exhausted after %d evaluations; last draft was published without evaluator approval\n", result.Iterations)
		return nil
	case workflow.StatusFailed:
		return fmt.Errorf("generation failed: %w", result.Err)
	default:
		return nil
	}
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCommand = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long:  "Embeds the query and returns the most similar document chunks from the vector store.",
	Args:  cobra.ExactArgs(1),
	RunE:  searchCmd,
}

var (
	searchFlags commonFlags
	searchTopK  int
)

func init() {
	searchFlags.register(searchCommand)
	searchCommand.Flags().IntVar(&searchTopK, "top-k", 0, "Number of results to return")

	rootCmd.AddCommand(searchCommand)
}

func searchCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := searchFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = searchTopK
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	pipeline := newPipeline(cfg, st)

	docs, err := pipeline.Search(ctx, args[0], cfg.TopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, doc := range docs {
		preview := strings.Join(strings.Fields(doc.Content), " ")
		if len(preview) > 200 {
			preview = preview[:197] + "..."
		}
		fmt.Printf("%d. %s (similarity %.3f)\n   %s\n", i+1, doc.Source(), doc.Similarity, preview)
	}
	return nil
}

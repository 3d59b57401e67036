package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCommand = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest markdown posts into the knowledge base",
	Long:  "Scans the content directory, chunks and embeds every new or modified post, and upserts the chunks into the vector store. Unchanged posts are skipped using the manifest.",
	RunE:  ingestCmd,
}

var (
	ingestFlags commonFlags
	ingestDir   string
	ingestForce bool
)

func init() {
	ingestFlags.register(ingestCommand)
	ingestCommand.Flags().StringVar(&ingestDir, "dir", "", "Directory of markdown posts (defaults to the content directory)")
	ingestCommand.Flags().BoolVar(&ingestForce, "force", false, "Re-ingest all posts, ignoring the manifest")

	rootCmd.AddCommand(ingestCommand)
}

func ingestCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := ingestFlags.resolve(cmd)
	if err != nil {
		return err
	}

	dir := ingestDir
	if dir == "" {
		dir = cfg.ContentDir
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	pipeline := newPipeline(cfg, st)

	report, err := pipeline.IngestDir(ctx, dir, ingestForce)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Scanned %d posts: %d ingested (%d chunks), %d unchanged\n",
		report.Scanned, report.Ingested, report.Chunks, report.Skipped)
	return nil
}

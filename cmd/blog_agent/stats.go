package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  statsCmd,
}

var statsFlags commonFlags

func init() {
	statsFlags.register(statsCommand)
	rootCmd.AddCommand(statsCommand)
}

func statsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := statsFlags.resolve(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Chunks:  %d\nSources: %d\n", stats.Chunks, stats.Sources)
	return nil
}

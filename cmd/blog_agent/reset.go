package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCommand = &cobra.Command{
	Use:   "reset",
	Short: "Delete all documents from the knowledge base",
	RunE:  resetCmd,
}

var (
	resetFlags commonFlags
	resetYes   bool
)

func init() {
	resetFlags.register(resetCommand)
	resetCommand.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation check")

	rootCmd.AddCommand(resetCommand)
}

func resetCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resetFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if !resetYes {
		return fmt.Errorf("reset deletes every document in the knowledge base; re-run with --yes to confirm")
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset knowledge base: %w", err)
	}
	fmt.Println("Knowledge base cleared.")
	return nil
}
